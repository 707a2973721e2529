// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

// Package embedding: cold-tier cache backing store.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// CacheBackend is the optional cold tier behind Service's in-memory hot
// cache. A long-lived engine process (the serve command, reusing one
// Service across many analyze calls) benefits from not re-embedding
// captions it has already seen in a prior run; a one-shot CLI run has no
// use for it and gets NewService's default no-op backend.
type CacheBackend interface {
	Get(ctx context.Context, key string) ([]float32, bool, error)
	Set(ctx context.Context, key string, vec []float32) error
	Clear(ctx context.Context) error
	Close() error
}

type noopCacheBackend struct{}

func (noopCacheBackend) Get(context.Context, string) ([]float32, bool, error) { return nil, false, nil }
func (noopCacheBackend) Set(context.Context, string, []float32) error        { return nil }
func (noopCacheBackend) Clear(context.Context) error                         { return nil }
func (noopCacheBackend) Close() error                                        { return nil }

// BadgerCacheBackend persists embedding vectors in a BadgerDB directory,
// keyed by the exact caption text.
type BadgerCacheBackend struct {
	db *badger.DB
}

// NewBadgerCacheBackend opens (creating if necessary) a Badger database
// at dir for use as the embedding service's cold cache tier.
func NewBadgerCacheBackend(dir string) (*BadgerCacheBackend, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("embedding: open badger cache at %q: %w", dir, err)
	}
	return &BadgerCacheBackend{db: db}, nil
}

// Get returns the cached vector for key, if present.
func (b *BadgerCacheBackend) Get(_ context.Context, key string) ([]float32, bool, error) {
	var vec []float32
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &vec)
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("embedding: badger get: %w", err)
	}
	if vec == nil {
		return nil, false, nil
	}
	return vec, true, nil
}

// Set persists vec under key.
func (b *BadgerCacheBackend) Set(_ context.Context, key string, vec []float32) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("embedding: marshal cached vector: %w", err)
	}
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	}); err != nil {
		return fmt.Errorf("embedding: badger set: %w", err)
	}
	return nil
}

// Clear drops every entry from the cold tier.
func (b *BadgerCacheBackend) Clear(_ context.Context) error {
	return b.db.DropAll()
}

// Close releases the underlying Badger database handle.
func (b *BadgerCacheBackend) Close() error {
	return b.db.Close()
}
