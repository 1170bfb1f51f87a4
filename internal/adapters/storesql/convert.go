// SPDX-License-Identifier: MIT

package storesql

import (
	"encoding/json"

	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

func profileToRow(p *model.ArtistProfile, fingerprint string) (artistRow, error) {
	links, err := json.Marshal(p.Links)
	if err != nil {
		return artistRow{}, model.NewError(model.KindFatal, "storesql.convert", "marshaling links", err)
	}
	genres, err := json.Marshal(p.Genres)
	if err != nil {
		return artistRow{}, model.NewError(model.KindFatal, "storesql.convert", "marshaling genres", err)
	}
	followers, err := json.Marshal(p.FollowerCounts)
	if err != nil {
		return artistRow{}, model.NewError(model.KindFatal, "storesql.convert", "marshaling follower counts", err)
	}
	themes, err := json.Marshal(p.LyricThemes)
	if err != nil {
		return artistRow{}, model.NewError(model.KindFatal, "storesql.convert", "marshaling lyric themes", err)
	}

	return artistRow{
		Fingerprint:        fingerprint,
		Name:               p.Name,
		YouTubeChannelID:   p.YouTubeChannelID,
		SpotifyID:          p.SpotifyID,
		InstagramHandle:    p.InstagramHandle,
		TikTokHandle:       p.TikTokHandle,
		LinksJSON:          string(links),
		GenresJSON:         string(genres),
		Bio:                p.Bio,
		FollowerCountsJSON: string(followers),
		Location:           p.Location,
		AvatarURL:          p.AvatarURL,
		Email:              p.Email,
		LyricThemesJSON:    string(themes),
		EnrichmentScore:    p.EnrichmentScore,
	}, nil
}

func rowToRecord(row artistRow) (*ports.ArtistRecord, error) {
	profile := model.NewArtistProfile(row.Name)
	profile.YouTubeChannelID = row.YouTubeChannelID
	profile.SpotifyID = row.SpotifyID
	profile.InstagramHandle = row.InstagramHandle
	profile.TikTokHandle = row.TikTokHandle
	profile.Bio = row.Bio
	profile.Location = row.Location
	profile.AvatarURL = row.AvatarURL
	profile.Email = row.Email
	profile.EnrichmentScore = row.EnrichmentScore

	if row.LinksJSON != "" {
		if err := json.Unmarshal([]byte(row.LinksJSON), &profile.Links); err != nil {
			return nil, model.NewError(model.KindFatal, "storesql.convert", "unmarshaling links", err)
		}
	}
	if row.GenresJSON != "" {
		if err := json.Unmarshal([]byte(row.GenresJSON), &profile.Genres); err != nil {
			return nil, model.NewError(model.KindFatal, "storesql.convert", "unmarshaling genres", err)
		}
	}
	if row.FollowerCountsJSON != "" {
		if err := json.Unmarshal([]byte(row.FollowerCountsJSON), &profile.FollowerCounts); err != nil {
			return nil, model.NewError(model.KindFatal, "storesql.convert", "unmarshaling follower counts", err)
		}
	}
	if row.LyricThemesJSON != "" {
		if err := json.Unmarshal([]byte(row.LyricThemesJSON), &profile.LyricThemes); err != nil {
			return nil, model.NewError(model.KindFatal, "storesql.convert", "unmarshaling lyric themes", err)
		}
	}

	return &ports.ArtistRecord{
		ID:          row.ID,
		Fingerprint: model.Fingerprint(row.Fingerprint),
		Profile:     *profile,
	}, nil
}
