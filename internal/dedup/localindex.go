// SPDX-License-Identifier: MIT

package dedup

import (
	"context"
	"errors"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/fretline/discovery/internal/model"
)

// BadgerIndex is a LocalIndex backed by an embedded badger store, keyed by
// fingerprint and valued by the stored artist ID. It exists so a long-lived
// process doesn't re-pay a Store round trip for fingerprints it has already
// resolved in a prior session.
type BadgerIndex struct {
	db *badger.DB
}

// OpenBadgerIndex opens (creating if absent) a badger database at dir.
func OpenBadgerIndex(dir string) (*BadgerIndex, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerIndex{db: db}, nil
}

// Close releases the underlying database handle.
func (b *BadgerIndex) Close() error {
	return b.db.Close()
}

// Lookup implements LocalIndex.
func (b *BadgerIndex) Lookup(_ context.Context, fp model.Fingerprint) (string, bool, error) {
	var storedID string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(fp))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			storedID = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false, err
	}
	return storedID, storedID != "", nil
}

// Remember implements LocalIndex.
func (b *BadgerIndex) Remember(_ context.Context, fp model.Fingerprint, storedID string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(fp), []byte(storedID))
	})
}
