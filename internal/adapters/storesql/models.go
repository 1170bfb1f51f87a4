// SPDX-License-Identifier: MIT

// Package storesql is the reference ports.Store implementation, backed by
// gorm over a pure-Go sqlite driver. Nested/variable-shaped fields
// (social links, genres, follower counts, lyric themes) are persisted as
// JSON text columns rather than normalized tables, matching how the teacher
// persists its own variable-shaped session context as *_json TEXT columns.
package storesql

import "time"

type artistRow struct {
	ID          string `gorm:"primaryKey"`
	Fingerprint string `gorm:"uniqueIndex"`

	Name             string
	YouTubeChannelID string `gorm:"index"`
	SpotifyID        string `gorm:"index"`
	InstagramHandle  string `gorm:"index"`
	TikTokHandle     string `gorm:"index"`

	LinksJSON          string
	GenresJSON         string
	Bio                string
	FollowerCountsJSON string
	Location           string
	AvatarURL          string
	Email              string
	LyricThemesJSON    string
	EnrichmentScore    float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (artistRow) TableName() string { return "artists" }

type sessionRow struct {
	ID              string `gorm:"primaryKey"`
	State           string
	CountersJSON    string
	StartedAt       time.Time
	EndedAt         time.Time
	LastError       string
	BudgetExhausted bool
	UpdatedAt       time.Time
}

func (sessionRow) TableName() string { return "sessions" }

type sessionEventRow struct {
	ID          uint `gorm:"primaryKey;autoIncrement"`
	SessionID   string `gorm:"index"`
	Kind        string
	At          time.Time
	ArtistName  string
	VideoID     string
	Reason      string
	Phase       string
	SummaryJSON string
	LaggedCount int
}

func (sessionEventRow) TableName() string { return "session_events" }
