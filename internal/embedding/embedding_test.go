// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package embedding

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestEmbedBatchRepeatedTextIdenticalAndUnit(t *testing.T) {
	svc := NewService(&LocalTransport{})
	vecs, err := svc.EmbedBatch(context.Background(), []string{"hello", "hello"})
	if err != nil {
		t.Fatalf("EmbedBatch error: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vecs))
	}
	for i, v := range vecs[0] {
		if v != vecs[1][i] {
			t.Fatalf("repeated text produced different vectors at index %d", i)
			break
		}
	}

	var normSq float64
	for _, x := range vecs[0] {
		normSq += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(normSq)-1) > 1e-4 {
		t.Errorf("vector not unit-normalized: norm=%v", math.Sqrt(normSq))
	}
}

func TestEmbedBatchCacheHitsOnSecondCall(t *testing.T) {
	svc := NewService(&LocalTransport{})
	ctx := context.Background()
	if _, err := svc.EmbedBatch(ctx, []string{"a", "b", "c"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.EmbedBatch(ctx, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	snap := svc.Snapshot()
	if snap.CacheHits != 2 {
		t.Errorf("CacheHits = %d, want 2", snap.CacheHits)
	}
	if snap.CacheMisses != 3 {
		t.Errorf("CacheMisses = %d, want 3", snap.CacheMisses)
	}
}

func TestEmbedBatchTransportFailureIsModelUnavailable(t *testing.T) {
	svc := NewService(&LocalTransport{Fail: true})
	_, err := svc.EmbedBatch(context.Background(), []string{"x"})
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("err = %v, want ErrModelUnavailable", err)
	}
}

func TestEmbedBatchShapeMismatch(t *testing.T) {
	svc := NewService(&LocalTransport{ShapeBroken: true})
	_, err := svc.EmbedBatch(context.Background(), []string{"x", "y"})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("err = %v, want ErrShapeMismatch", err)
	}
}

func TestEmbedBatchRespectsBatchSize(t *testing.T) {
	svc := NewService(&LocalTransport{}, WithBatchSize(2))
	texts := []string{"a", "b", "c", "d", "e"}
	if _, err := svc.EmbedBatch(context.Background(), texts); err != nil {
		t.Fatal(err)
	}
	if snap := svc.Snapshot(); snap.Batches != 3 {
		t.Errorf("Batches = %d, want 3 (ceil(5/2))", snap.Batches)
	}
}

func TestCosineSimilaritySelfIsOne(t *testing.T) {
	svc := NewService(&LocalTransport{})
	vecs, err := svc.EmbedBatch(context.Background(), []string{"same text"})
	if err != nil {
		t.Fatal(err)
	}
	got := CosineSimilarity(vecs[0], vecs[0])
	if math.Abs(got-1) > 1e-4 {
		t.Errorf("CosineSimilarity(v, v) = %v, want ~1", got)
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	svc := NewService(&LocalTransport{})
	vecs, err := svc.EmbedBatch(context.Background(), []string{"alpha", "beta"})
	if err != nil {
		t.Fatal(err)
	}
	a := CosineSimilarity(vecs[0], vecs[1])
	b := CosineSimilarity(vecs[1], vecs[0])
	if a != b {
		t.Errorf("CosineSimilarity not symmetric: %v != %v", a, b)
	}
}
