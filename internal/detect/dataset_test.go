// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package detect

import "testing"

func TestBuildDatasetSkipsInvalidPosts(t *testing.T) {
	posts := []Post{
		{AuthorID: "", CreatedAt: 100},
		{AuthorID: "a", CreatedAt: 0},
		{AuthorID: "a", CreatedAt: 100},
	}
	ds := BuildDataset(posts)
	if ds.SkippedInvalid != 2 {
		t.Errorf("SkippedInvalid = %d, want 2", ds.SkippedInvalid)
	}
	if len(ds.PostsByUser["a"]) != 1 {
		t.Errorf("PostsByUser[a] = %v, want 1 post", ds.PostsByUser["a"])
	}
}

func TestBuildDatasetDoesNotMutateInput(t *testing.T) {
	posts := []Post{{AuthorID: "a", CreatedAt: 1}}
	_ = BuildDataset(posts)
	if posts[0].AuthorID != "a" || posts[0].CreatedAt != 1 {
		t.Error("input slice was mutated")
	}
}

func TestBuildDatasetUsernameIndexRequiresLength4(t *testing.T) {
	posts := []Post{
		{AuthorID: "a", AuthorHandle: "abc", CreatedAt: 1},
		{AuthorID: "b", AuthorHandle: "abcd", CreatedAt: 1},
	}
	ds := BuildDataset(posts)
	if _, ok := ds.UsernameIndex["a"]; ok {
		t.Error("handle of length 3 should not be indexed")
	}
	if _, ok := ds.UsernameIndex["b"]; !ok {
		t.Error("handle of length 4 should be indexed")
	}
}

func TestComputeDatasetStatsEmpty(t *testing.T) {
	ds := BuildDataset(nil)
	if ds.Stats.PostsMean != 0 || ds.Stats.PostsStddev != 0 {
		t.Errorf("stats = %+v, want zero value", ds.Stats)
	}
}
