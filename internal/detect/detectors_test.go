// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package detect

import (
	"context"
	"testing"
	"time"
)

func TestSynchronizedPostingPair(t *testing.T) {
	times := []int64{1000, 1100, 1200}
	var posts []Post
	for i, ts := range times {
		posts = append(posts,
			Post{ItemID: "a" + string(rune('0'+i)), AuthorID: "alice", CreatedAt: ts},
			Post{ItemID: "b" + string(rune('0'+i)), AuthorID: "bob", CreatedAt: ts},
		)
	}
	ds := BuildDataset(posts)
	params := DefaultParams()
	params.MinSyncPosts = 3

	ev := NewEvidence()
	d := &SynchronizedPostingDetector{}
	if err := d.Run(context.Background(), ds, params, 60*time.Second, ev); err != nil {
		t.Fatal(err)
	}

	if len(ev.SynchPairs) != 1 {
		t.Fatalf("SynchPairs = %v, want 1 pair", ev.SynchPairs)
	}
	if _, ok := ev.Flagged["alice"]; !ok {
		t.Error("alice not flagged")
	}
	if _, ok := ev.Flagged["bob"]; !ok {
		t.Error("bob not flagged")
	}
}

func TestRareHashtagRarityFlagsSharedUniqueCombo(t *testing.T) {
	var posts []Post
	for i := 0; i < 100; i++ {
		posts = append(posts, Post{
			AuthorID:  "common" + string(rune('A'+i%26)) + string(rune('a'+i/26)),
			CreatedAt: 1,
			Hashtags:  []string{"x"},
		})
	}
	posts = append(posts,
		Post{AuthorID: "u1", CreatedAt: 1, Hashtags: []string{"y", "z"}},
		Post{AuthorID: "u2", CreatedAt: 1, Hashtags: []string{"y", "z"}},
	)

	ds := BuildDataset(posts)
	params := DefaultParams()
	// Tuned below ln(100/1)/2 so the rare {y,z} combo's mean TF-IDF clears
	// the bar while the common "x" tag's near-zero TF-IDF does not.
	params.TFIDFThreshold = 1.5
	params.MinHashtagGroupSize = 2

	ev := NewEvidence()
	d := &RareHashtagDetector{}
	if err := d.Run(context.Background(), ds, params, time.Minute, ev); err != nil {
		t.Fatal(err)
	}

	if _, ok := ev.Flagged["u1"]; !ok {
		t.Error("u1 not flagged")
	}
	if _, ok := ev.Flagged["u2"]; !ok {
		t.Error("u2 not flagged")
	}
	if len(ev.HashtagGroups) != 1 {
		t.Errorf("HashtagGroups = %v, want 1 group", ev.HashtagGroups)
	}
}

func TestNightActivityAllNightPoster(t *testing.T) {
	var posts []Post
	const day = 86400
	ts := int64(day)
	for d := 0; d < 3; d++ {
		for h := 0; h < 24*4; h++ {
			posts = append(posts, Post{AuthorID: "u", CreatedAt: ts})
			ts += 900
		}
	}
	_ = day

	ds := BuildDataset(posts)
	params := DefaultParams()
	params.NightGap = 7200

	ev := NewEvidence()
	d := &NightActivityDetector{}
	if err := d.Run(context.Background(), ds, params, time.Minute, ev); err != nil {
		t.Fatal(err)
	}

	if _, ok := ev.Flagged["u"]; !ok {
		t.Fatal("u not flagged as 24/7 poster")
	}
	gap := ev.NightActivity["u"]
	if gap < 800 || gap > 1000 {
		t.Errorf("avg max gap = %v, want ~900", gap)
	}
}

type fakeEmbeddingService struct {
	vectors map[string][]float32
}

func (f *fakeEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vectors[t]
	}
	return out, nil
}

func TestSemanticSimilarityFlagsNearDuplicateCaptions(t *testing.T) {
	capA := "The election results are clearly rigged against the people"
	capB := "Election outcome was obviously manipulated against citizens"

	posts := []Post{
		{AuthorID: "u1", CreatedAt: 1, Caption: capA},
		{AuthorID: "u2", CreatedAt: 1, Caption: capB},
	}
	ds := BuildDataset(posts)
	params := DefaultParams()
	params.SemanticEnabled = true
	params.SemanticThreshold = 0.7

	svc := &fakeEmbeddingService{vectors: map[string][]float32{
		capA: {1, 0, 0},
		capB: {0.9, 0.1, 0},
	}}

	ev := NewEvidence()
	d := &SemanticSimilarityDetector{Embeddings: svc}
	if err := d.Run(context.Background(), ds, params, time.Minute, ev); err != nil {
		t.Fatal(err)
	}

	if len(ev.SemanticPairs) != 1 {
		t.Fatalf("SemanticPairs = %v, want 1 pair", ev.SemanticPairs)
	}
	if _, ok := ev.Flagged["u1"]; !ok {
		t.Error("u1 not flagged")
	}
	if _, ok := ev.Flagged["u2"]; !ok {
		t.Error("u2 not flagged")
	}
}

func TestSemanticSimilarityNoOpWhenDisabled(t *testing.T) {
	posts := []Post{
		{AuthorID: "u1", CreatedAt: 1, Caption: "some caption of sufficient length here"},
		{AuthorID: "u2", CreatedAt: 1, Caption: "some caption of sufficient length here"},
	}
	ds := BuildDataset(posts)
	params := DefaultParams()
	params.SemanticEnabled = false

	ev := NewEvidence()
	d := &SemanticSimilarityDetector{Embeddings: nil}
	if err := d.Run(context.Background(), ds, params, time.Minute, ev); err != nil {
		t.Fatal(err)
	}
	if len(ev.SemanticPairs) != 0 {
		t.Error("expected no semantic pairs when disabled")
	}
}

func TestHighVolumeFlagsOutlier(t *testing.T) {
	var posts []Post
	for i := 0; i < 20; i++ {
		posts = append(posts, Post{AuthorID: "normal", CreatedAt: int64(i + 1)})
	}
	for i := 0; i < 5; i++ {
		posts = append(posts, Post{AuthorID: "other1", CreatedAt: int64(i + 1)})
		posts = append(posts, Post{AuthorID: "other2", CreatedAt: int64(i + 1)})
	}
	for i := 0; i < 200; i++ {
		posts = append(posts, Post{AuthorID: "spammer", CreatedAt: int64(i + 1)})
	}

	ds := BuildDataset(posts)
	params := DefaultParams()
	params.MinHighVolumePosts = 10
	params.ZScoreThreshold = 1.0

	ev := NewEvidence()
	d := &HighVolumeDetector{}
	if err := d.Run(context.Background(), ds, params, time.Minute, ev); err != nil {
		t.Fatal(err)
	}
	if _, ok := ev.Flagged["spammer"]; !ok {
		t.Error("spammer not flagged as high volume")
	}
}

func TestAccountCreationClusterDetector(t *testing.T) {
	created := int64(1000)
	posts := []Post{
		{AuthorID: "a", CreatedAt: 1, AccountCreatedAt: &created},
		{AuthorID: "b", CreatedAt: 1, AccountCreatedAt: &created},
		{AuthorID: "c", CreatedAt: 1, AccountCreatedAt: &created},
	}
	ds := BuildDataset(posts)
	params := DefaultParams()
	params.ClusterSize = 3

	ev := NewEvidence()
	d := &AccountCreationClusterDetector{}
	if err := d.Run(context.Background(), ds, params, time.Minute, ev); err != nil {
		t.Fatal(err)
	}
	if len(ev.CreationClusters) != 1 {
		t.Fatalf("CreationClusters = %v, want 1", ev.CreationClusters)
	}
}

func TestDefaultDetectorsFixedOrder(t *testing.T) {
	names := []string{
		"synchronized_posting", "rare_hashtags", "similar_usernames",
		"high_volume", "temporal_bursts", "regular_rhythm", "night_activity",
		"semantic_similarity", "template_captions", "account_creation_clusters",
	}
	detectors := DefaultDetectors(nil)
	if len(detectors) != len(names) {
		t.Fatalf("got %d detectors, want %d", len(detectors), len(names))
	}
	for i, d := range detectors {
		if d.Name() != names[i] {
			t.Errorf("detector[%d].Name() = %q, want %q", i, d.Name(), names[i])
		}
	}
}
