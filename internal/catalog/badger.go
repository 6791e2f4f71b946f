// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/scentmatch/scentmatch/internal/logging"
	"github.com/scentmatch/scentmatch/internal/metrics"
	"github.com/scentmatch/scentmatch/internal/scoring"
)

// candidateKeyPrefix namespaces candidate records in BadgerDB.
const candidateKeyPrefix = "fragrance:"

// BadgerStore implements Provider over a BadgerDB key-value store.
// Candidates are stored as JSON values keyed by fragrance ID and are
// read-only at request time.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// OpenBadgerStore opens (or creates) the catalog database at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // badger's own logger is too chatty; we log at this layer

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog store: %w", err)
	}

	return NewBadgerStore(db), nil
}

// NewBadgerStore wraps an already-open BadgerDB handle.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{
		db:     db,
		logger: logging.WithComponent("catalog"),
	}
}

// GetCandidates returns the candidates for the given IDs. IDs with no
// record are skipped; records that fail to decode are skipped and
// logged. A failed transaction surfaces as ErrUnavailable.
func (s *BadgerStore) GetCandidates(_ context.Context, ids []string) ([]scoring.Candidate, error) {
	out := make([]scoring.Candidate, 0, len(ids))

	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			item, err := txn.Get([]byte(candidateKeyPrefix + id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				metrics.CatalogLookups.WithLabelValues("miss").Inc()
				continue
			}
			if err != nil {
				return fmt.Errorf("get candidate %s: %w", id, err)
			}

			var c scoring.Candidate
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &c)
			}); err != nil {
				metrics.CatalogLookups.WithLabelValues("error").Inc()
				s.logger.Warn().Err(err).Str("id", id).Msg("Skipping undecodable candidate record")
				continue
			}

			metrics.CatalogLookups.WithLabelValues("hit").Inc()
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		metrics.CatalogLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return out, nil
}

// ListCandidates returns up to limit candidates in key order.
func (s *BadgerStore) ListCandidates(_ context.Context, limit int) ([]scoring.Candidate, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	out := make([]scoring.Candidate, 0, limit)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(candidateKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix) && len(out) < limit; it.Next() {
			var c scoring.Candidate
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &c)
			}); err != nil {
				s.logger.Warn().Err(err).
					Str("key", string(it.Item().Key())).
					Msg("Skipping undecodable candidate record")
				continue
			}
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return out, nil
}

// PutCandidate stores a candidate record. Used by catalog seeding and
// tests; the serving path never writes.
func (s *BadgerStore) PutCandidate(_ context.Context, c scoring.Candidate) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal candidate: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(candidateKeyPrefix+c.ID), data)
	})
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// RunGC runs one round of Badger value-log garbage collection.
// Returns true when a log file was rewritten.
func (s *BadgerStore) RunGC(discardRatio float64) bool {
	err := s.db.RunValueLogGC(discardRatio)
	return err == nil
}
