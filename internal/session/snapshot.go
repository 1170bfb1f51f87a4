// SPDX-License-Identifier: MIT

package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/fretline/discovery/internal/model"
)

// Snapshotter persists a session's counters and in-session fingerprint set
// to disk so a crashed process can report a partial result instead of
// losing the session entirely. Grounded on the teacher's atomic-write
// convention for on-disk state (renameio's write-to-temp-then-rename
// pattern), applied here to session state rather than playlist files.
type Snapshotter struct {
	dir string
}

// NewSnapshotter creates a Snapshotter rooted at dir. dir is created on
// first write if absent.
func NewSnapshotter(dir string) *Snapshotter {
	return &Snapshotter{dir: dir}
}

// onDiskSnapshot is the JSON shape written to disk; it adds the in-session
// fingerprint set to model.Snapshot's fields, since a resumed process needs
// them to avoid re-emitting artists it already stored.
type onDiskSnapshot struct {
	model.Snapshot
	Fingerprints []string `json:"fingerprints"`
}

// Write atomically persists snap and the given fingerprints for sessionID.
// A write is safe to call concurrently with a read of a different session's
// file; concurrent writes to the same session are not serialized here and
// must be the caller's responsibility.
func (s *Snapshotter) Write(sessionID string, snap model.Snapshot, fingerprints []model.Fingerprint) error {
	if s.dir == "" {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	fps := make([]string, len(fingerprints))
	for i, fp := range fingerprints {
		fps[i] = string(fp)
	}

	payload, err := json.Marshal(onDiskSnapshot{Snapshot: snap, Fingerprints: fps})
	if err != nil {
		return err
	}

	return renameio.WriteFile(s.path(sessionID), payload, 0o644)
}

// Read loads a previously written snapshot. It returns os.ErrNotExist if no
// snapshot file exists for sessionID.
func (s *Snapshotter) Read(sessionID string) (model.Snapshot, []model.Fingerprint, error) {
	raw, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		return model.Snapshot{}, nil, err
	}

	var disk onDiskSnapshot
	if err := json.Unmarshal(raw, &disk); err != nil {
		return model.Snapshot{}, nil, err
	}

	fps := make([]model.Fingerprint, len(disk.Fingerprints))
	for i, fp := range disk.Fingerprints {
		fps[i] = model.Fingerprint(fp)
	}
	return disk.Snapshot, fps, nil
}

// Remove deletes sessionID's snapshot file, if any. Called once a session
// reaches a terminal state and has been durably recorded by the Store.
func (s *Snapshotter) Remove(sessionID string) error {
	if s.dir == "" {
		return nil
	}
	err := os.Remove(s.path(sessionID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Snapshotter) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".json")
}
