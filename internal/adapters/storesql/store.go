// SPDX-License-Identifier: MIT

package storesql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fretline/discovery/internal/extract"
	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

// Store is the gorm-backed ports.Store implementation.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) a sqlite database at path and runs the
// schema migration. path may be ":memory:" for ephemeral test databases.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, model.NewError(model.KindFatal, "storesql.open", "opening database", err)
	}
	if err := db.AutoMigrate(&artistRow{}, &sessionRow{}, &sessionEventRow{}); err != nil {
		return nil, model.NewError(model.KindFatal, "storesql.open", "running migration", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func identifierColumn(kind ports.IdentifierKind) (string, error) {
	switch kind {
	case ports.IdentifierYouTubeChannelID:
		return "you_tube_channel_id", nil
	case ports.IdentifierSpotifyID:
		return "spotify_id", nil
	case ports.IdentifierInstagramHandle:
		return "instagram_handle", nil
	case ports.IdentifierTikTokHandle:
		return "tik_tok_handle", nil
	case ports.IdentifierNormalizedName:
		return "fingerprint", nil
	default:
		return "", model.NewError(model.KindInvalidRequest, "storesql.find", "unknown identifier kind", nil)
	}
}

// FindArtistBy looks up an artist by one of the recognized identifier kinds.
func (s *Store) FindArtistBy(ctx context.Context, id ports.Identifier) (*ports.ArtistRecord, error) {
	column, err := identifierColumn(id.Kind)
	if err != nil {
		return nil, err
	}

	value := id.Value
	if id.Kind == ports.IdentifierNormalizedName {
		// Name-only artists are stored under their "name:" fingerprint.
		value = "name:" + value
	}

	var row artistRow
	err = s.db.WithContext(ctx).Where(column+" = ?", value).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.NewError(model.KindNotFound, "storesql.find", "no artist for identifier", nil)
	}
	if err != nil {
		return nil, model.NewError(model.KindTransient, "storesql.find", "querying artist", err)
	}
	return rowToRecord(row)
}

// UpsertArtist atomically inserts or updates an artist keyed by fingerprint.
func (s *Store) UpsertArtist(ctx context.Context, profile *model.ArtistProfile) (*ports.ArtistRecord, error) {
	fingerprint := string(model.StrongIdentifierFingerprint(profile, extract.NormalizeName))
	row, err := profileToRow(profile, fingerprint)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing artistRow
		err := tx.Where("fingerprint = ?", fingerprint).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row.ID = uuid.NewString()
			return tx.Create(&row).Error
		case err != nil:
			return err
		default:
			row.ID = existing.ID
			row.CreatedAt = existing.CreatedAt
			return tx.Model(&existing).Select("*").Omit("ID", "CreatedAt").Updates(&row).Error
		}
	})
	if err != nil {
		return nil, model.NewError(model.KindTransient, "storesql.upsert", "upserting artist", err)
	}
	return rowToRecord(row)
}

// RecordSession persists a point-in-time session snapshot.
func (s *Store) RecordSession(ctx context.Context, snapshot model.Snapshot) error {
	counters, err := json.Marshal(snapshot.Counters)
	if err != nil {
		return model.NewError(model.KindFatal, "storesql.record_session", "marshaling counters", err)
	}

	row := sessionRow{
		ID:              snapshot.ID,
		State:           snapshot.State.String(),
		CountersJSON:    string(counters),
		StartedAt:       snapshot.StartedAt,
		EndedAt:         snapshot.EndedAt,
		LastError:       snapshot.LastError,
		BudgetExhausted: snapshot.BudgetExhausted,
		UpdatedAt:       time.Now(),
	}

	err = s.db.WithContext(ctx).Save(&row).Error
	if err != nil {
		return model.NewError(model.KindTransient, "storesql.record_session", "saving session", err)
	}
	return nil
}

// AppendSessionEvent persists one ProgressEvent for audit/replay.
func (s *Store) AppendSessionEvent(ctx context.Context, sessionID string, event model.ProgressEvent) error {
	var summaryJSON string
	if event.Summary != nil {
		b, err := json.Marshal(event.Summary)
		if err != nil {
			return model.NewError(model.KindFatal, "storesql.append_event", "marshaling summary", err)
		}
		summaryJSON = string(b)
	}

	row := sessionEventRow{
		SessionID:   sessionID,
		Kind:        event.Kind.String(),
		At:          event.At,
		ArtistName:  event.ArtistName,
		VideoID:     event.VideoID,
		Reason:      event.Reason,
		Phase:       event.Phase,
		SummaryJSON: summaryJSON,
		LaggedCount: event.LaggedCount,
	}

	err := s.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		return model.NewError(model.KindTransient, "storesql.append_event", "saving event", err)
	}
	return nil
}
