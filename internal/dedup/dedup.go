// SPDX-License-Identifier: MIT

// Package dedup implements the Deduplicator from spec.md §4.5: an
// in-session fingerprint registry plus a read-through check against the
// persistent Store, by strong identifier first and normalized name last.
// The in-session set is grounded on the teacher's lease-registry pattern
// (a per-key, in-memory map guarding against duplicate concurrent work);
// the persistent side adds a badger-backed local index in front of the
// Store round-trip so a hot session doesn't pay network latency on every
// candidate — see internal/dedup/localindex.go.
package dedup

import (
	"context"
	"sync"

	"github.com/fretline/discovery/internal/extract"
	"github.com/fretline/discovery/internal/metrics"
	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

// Outcome is the result of CheckAndRegister.
type Outcome int

const (
	Fresh Outcome = iota
	Duplicate
)

// Deduplicator owns the in-session fingerprint set. Clear it at session end.
type Deduplicator struct {
	store ports.Store
	index LocalIndex

	mu       sync.Mutex
	seen     map[model.Fingerprint]struct{}
}

// LocalIndex is the pre-Store fingerprint index (see localindex.go). A nil
// LocalIndex disables the optimization; every check falls through to Store.
type LocalIndex interface {
	Lookup(ctx context.Context, fp model.Fingerprint) (storedID string, ok bool, err error)
	Remember(ctx context.Context, fp model.Fingerprint, storedID string) error
}

// New creates a Deduplicator for one session.
func New(store ports.Store, index LocalIndex) *Deduplicator {
	return &Deduplicator{store: store, index: index, seen: make(map[model.Fingerprint]struct{})}
}

// CheckAndRegister implements spec.md §4.5's contract: never blocks on a
// missing identifier (falls through to the next check), and requires an
// exact normalized-name match to register a name-only duplicate.
func (d *Deduplicator) CheckAndRegister(ctx context.Context, profile *model.ArtistProfile) (Outcome, string, error) {
	fp := model.StrongIdentifierFingerprint(profile, extract.NormalizeName)

	d.mu.Lock()
	if _, dup := d.seen[fp]; dup {
		d.mu.Unlock()
		metrics.DeduplicateHit.WithLabelValues("duplicate").Inc()
		return Duplicate, string(fp), nil
	}
	d.mu.Unlock()

	storedID, found, err := d.crossSessionLookup(ctx, profile, fp)
	if err != nil {
		return Fresh, "", err
	}
	if found {
		metrics.DeduplicateHit.WithLabelValues("duplicate").Inc()
		return Duplicate, storedID, nil
	}

	d.mu.Lock()
	d.seen[fp] = struct{}{}
	d.mu.Unlock()
	metrics.DeduplicateHit.WithLabelValues("fresh").Inc()
	return Fresh, "", nil
}

// crossSessionLookup checks the local index then the Store, by strong
// identifier in turn, falling back to normalized name.
func (d *Deduplicator) crossSessionLookup(ctx context.Context, profile *model.ArtistProfile, fp model.Fingerprint) (string, bool, error) {
	if d.index != nil {
		if id, ok, err := d.index.Lookup(ctx, fp); err != nil {
			return "", false, err
		} else if ok {
			return id, true, nil
		}
	}

	for _, id := range strongIdentifiers(profile) {
		rec, err := d.store.FindArtistBy(ctx, id)
		if err != nil && model.KindOf(err) != model.KindNotFound {
			return "", false, err
		}
		if err == nil && rec != nil {
			d.remember(ctx, fp, rec.ID)
			return rec.ID, true, nil
		}
	}

	rec, err := d.store.FindArtistBy(ctx, ports.Identifier{
		Kind:  ports.IdentifierNormalizedName,
		Value: extract.NormalizeName(profile.Name),
	})
	if err != nil && model.KindOf(err) != model.KindNotFound {
		return "", false, err
	}
	if err == nil && rec != nil {
		d.remember(ctx, fp, rec.ID)
		return rec.ID, true, nil
	}
	return "", false, nil
}

func (d *Deduplicator) remember(ctx context.Context, fp model.Fingerprint, storedID string) {
	if d.index == nil {
		return
	}
	_ = d.index.Remember(ctx, fp, storedID)
}

func strongIdentifiers(p *model.ArtistProfile) []ports.Identifier {
	var out []ports.Identifier
	if p.YouTubeChannelID != "" {
		out = append(out, ports.Identifier{Kind: ports.IdentifierYouTubeChannelID, Value: p.YouTubeChannelID})
	}
	if p.SpotifyID != "" {
		out = append(out, ports.Identifier{Kind: ports.IdentifierSpotifyID, Value: p.SpotifyID})
	}
	if p.InstagramHandle != "" {
		out = append(out, ports.Identifier{Kind: ports.IdentifierInstagramHandle, Value: p.InstagramHandle})
	}
	if p.TikTokHandle != "" {
		out = append(out, ports.Identifier{Kind: ports.IdentifierTikTokHandle, Value: p.TikTokHandle})
	}
	return out
}

// Clear empties the in-session registry; call at session end.
func (d *Deduplicator) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[model.Fingerprint]struct{})
}

// Size reports the number of fingerprints registered so far this session.
func (d *Deduplicator) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// Fingerprints returns a snapshot of every fingerprint registered so far
// this session, for crash-survivable session snapshotting.
func (d *Deduplicator) Fingerprints() []model.Fingerprint {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.Fingerprint, 0, len(d.seen))
	for fp := range d.seen {
		out = append(out, fp)
	}
	return out
}
