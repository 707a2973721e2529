// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package detect

import (
	"sort"

	"github.com/tomtom215/cibwatch/internal/stats"
)

// BuildDataset indexes a batch of posts into a Dataset. Posts missing an
// author_id or created_at are dropped silently (spec §7 InvalidPost); the
// input slice is never mutated.
func BuildDataset(posts []Post) *Dataset {
	ds := &Dataset{
		PostsByUser:    make(map[string][]Post),
		UserHashtagBag: make(map[string][]string),
		UsernameIndex:  make(map[string]string),
	}

	for _, p := range posts {
		if p.AuthorID == "" || p.CreatedAt == 0 {
			ds.SkippedInvalid++
			continue
		}

		ds.PostsByUser[p.AuthorID] = append(ds.PostsByUser[p.AuthorID], p)
		if len(p.Hashtags) > 0 {
			ds.UserHashtagBag[p.AuthorID] = append(ds.UserHashtagBag[p.AuthorID], p.Hashtags...)
		}
		if len(p.AuthorHandle) >= 4 {
			ds.UsernameIndex[p.AuthorID] = p.AuthorHandle
		}
	}

	ds.AuthorIDs = make([]string, 0, len(ds.PostsByUser))
	for id := range ds.PostsByUser {
		ds.AuthorIDs = append(ds.AuthorIDs, id)
	}
	sort.Strings(ds.AuthorIDs)

	ds.Stats = computeDatasetStats(ds)
	return ds
}

func computeDatasetStats(ds *Dataset) DatasetStats {
	if len(ds.AuthorIDs) == 0 {
		return DatasetStats{}
	}

	postCounts := make([]float64, 0, len(ds.AuthorIDs))
	hashtagCounts := make([]float64, 0, len(ds.AuthorIDs))
	for _, id := range ds.AuthorIDs {
		postCounts = append(postCounts, float64(len(ds.PostsByUser[id])))
		hashtagCounts = append(hashtagCounts, float64(len(ds.UserHashtagBag[id])))
	}

	return DatasetStats{
		PostsMean:      stats.Mean(postCounts),
		PostsStddev:    stats.PopulationStddev(postCounts),
		HashtagsMean:   stats.Mean(hashtagCounts),
		HashtagsStddev: stats.PopulationStddev(hashtagCounts),
	}
}

// AllHashtagBagsAsSets returns every author's hashtag bag reduced to a
// distinct-term slice, suitable for TF-IDF document-frequency counting.
func (ds *Dataset) AllHashtagBagsAsSets() [][]string {
	out := make([][]string, 0, len(ds.AuthorIDs))
	for _, id := range ds.AuthorIDs {
		out = append(out, distinct(ds.UserHashtagBag[id]))
	}
	return out
}

func distinct(xs []string) []string {
	seen := make(map[string]struct{}, len(xs))
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	return out
}
