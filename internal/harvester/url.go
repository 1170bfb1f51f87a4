// SPDX-License-Identifier: MIT

// Package harvester implements the scroll-until-target Harvester from
// spec.md §4.2: a lazy, finite, single-consumer iterator of CandidateVideo
// built by repeatedly scrolling a rendered search-result page through a
// ports.Fetcher session and scanning the DOM for video renderers.
package harvester

import (
	"net/url"
	"strings"
)

// Filters mirrors spec.md §6.1's recognized search-URL options.
type Filters struct {
	UploadDate   string // any|hour|today|week|month|year
	Duration     string // any|short|long
	Sort         string // relevance|date|views|rating
	QualityHint  string // any|hd|4k
}

// filterToken packs the recognized options into a single opaque bitfield
// prefix; the exact layout is ours to choose (spec.md notes it is opaque to
// the core), as long as identical filters always produce identical tokens.
func filterToken(f Filters) string {
	if f == (Filters{}) {
		return ""
	}
	parts := []string{
		nonEmpty(f.UploadDate, "any"),
		nonEmpty(f.Duration, "any"),
		nonEmpty(f.Sort, "relevance"),
		nonEmpty(f.QualityHint, "any"),
	}
	return strings.Join(parts, ":")
}

func nonEmpty(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// ComposeSearchURL builds the canonical search URL for query and filters
// against searchHost per spec.md §6.1. Composing the same (query, filters)
// pair always yields the same URL, so it is safe to use as a cache key.
func ComposeSearchURL(searchHost, query string, f Filters) string {
	v := url.Values{}
	v.Set("search_query", query)
	if tok := filterToken(f); tok != "" {
		v.Set("sp", tok)
	}
	v.Set("gl", "us")
	v.Set("hl", "en")
	return "https://" + searchHost + "/results?" + v.Encode()
}
