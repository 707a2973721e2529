// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package embedding

import (
	"context"
	"os"
	"testing"
)

func newTestBadgerBackend(t *testing.T) (*BadgerCacheBackend, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "cibwatch-embedding-cache-*")
	if err != nil {
		t.Fatalf("create temp dir: %v", err)
	}

	backend, err := NewBadgerCacheBackend(dir)
	if err != nil {
		os.RemoveAll(dir)
		t.Fatalf("open badger cache: %v", err)
	}

	cleanup := func() {
		backend.Close()
		os.RemoveAll(dir)
	}
	return backend, cleanup
}

func TestBadgerCacheBackendGetMiss(t *testing.T) {
	backend, cleanup := newTestBadgerBackend(t)
	defer cleanup()

	vec, ok, err := backend.Get(context.Background(), "caption-a")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatalf("Get = %v, ok=true, want a miss", vec)
	}
}

func TestBadgerCacheBackendSetThenGet(t *testing.T) {
	backend, cleanup := newTestBadgerBackend(t)
	defer cleanup()

	ctx := context.Background()
	want := []float32{0.1, 0.2, 0.3}

	if err := backend.Set(ctx, "caption-a", want); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, ok, err := backend.Get(ctx, "caption-a")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok {
		t.Fatal("Get ok = false, want true")
	}
	if len(got) != len(want) {
		t.Fatalf("Get len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Get[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestBadgerCacheBackendClear(t *testing.T) {
	backend, cleanup := newTestBadgerBackend(t)
	defer cleanup()

	ctx := context.Background()
	if err := backend.Set(ctx, "caption-a", []float32{1, 2, 3}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := backend.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	_, ok, err := backend.Get(ctx, "caption-a")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatal("Get ok = true after Clear, want false")
	}
}

func TestNoopCacheBackendIsAlwaysAMiss(t *testing.T) {
	var backend noopCacheBackend
	ctx := context.Background()

	if err := backend.Set(ctx, "x", []float32{1}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	_, ok, err := backend.Get(ctx, "x")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatal("noopCacheBackend.Get ok = true, want always-miss")
	}
	if err := backend.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}
