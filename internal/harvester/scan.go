// SPDX-License-Identifier: MIT

package harvester

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/fretline/discovery/internal/model"
)

// videoIDPatterns is the regex family from spec.md §4.2 step 2, tried in
// order against every href/src attribute found in the rendered DOM.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`watch\?v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`/shorts/([A-Za-z0-9_-]{11})`),
}

// scanCandidates walks the rendered page and returns one CandidateVideo per
// distinct video_id found, in DOM order.
func scanCandidates(pageHTML string) []model.CandidateVideo {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil
	}

	var out []model.CandidateVideo
	seen := make(map[string]struct{})

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id, ok := videoIDFromNode(n); ok {
				if _, dup := seen[id]; !dup {
					seen[id] = struct{}{}
					out = append(out, model.CandidateVideo{
						VideoID: id,
						URL:     "https://www.youtube.com/watch?v=" + id,
						Title:   titleFromNode(n),
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func videoIDFromNode(n *html.Node) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key != "href" && attr.Key != "src" {
			continue
		}
		for _, pat := range videoIDPatterns {
			if m := pat.FindStringSubmatch(attr.Val); m != nil {
				return m[1], true
			}
		}
	}
	return "", false
}

// titleFromNode looks for a title/aria-label attribute on the node or its
// direct children, a common location for video-renderer titles.
func titleFromNode(n *html.Node) string {
	for _, attr := range n.Attr {
		if attr.Key == "title" || attr.Key == "aria-label" {
			return attr.Val
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			for _, attr := range c.Attr {
				if attr.Key == "title" || attr.Key == "aria-label" {
					return attr.Val
				}
			}
		}
		if c.Type == html.TextNode {
			if t := strings.TrimSpace(c.Data); t != "" {
				return t
			}
		}
	}
	return ""
}
