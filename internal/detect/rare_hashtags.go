// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package detect

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/cibwatch/internal/stats"
)

// RareHashtagDetector implements indicator 2: authors sharing a rare
// combination of hashtags, as measured by mean TF-IDF against the corpus.
type RareHashtagDetector struct{}

func (d *RareHashtagDetector) Name() string { return "rare_hashtags" }

func (d *RareHashtagDetector) Run(ctx context.Context, ds *Dataset, params Params, timeWindow time.Duration, ev *Evidence) error {
	allBags := ds.AllHashtagBagsAsSets()
	buckets := make(map[string]map[string]struct{})

	for _, authorID := range ds.AuthorIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		userBag := ds.UserHashtagBag[authorID]
		for _, p := range ds.PostsByUser[authorID] {
			if len(p.Hashtags) == 0 {
				continue
			}
			tags := sortedDistinct(p.Hashtags)

			var sum float64
			for _, tag := range tags {
				sum += stats.TFIDF(tag, userBag, allBags)
			}
			mean := sum / float64(len(tags))
			if mean <= params.TFIDFThreshold {
				continue
			}

			key := strings.Join(tags, ",")
			group, ok := buckets[key]
			if !ok {
				group = make(map[string]struct{})
				buckets[key] = group
			}
			group[authorID] = struct{}{}
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		group := buckets[key]
		if len(group) < params.MinHashtagGroupSize {
			continue
		}
		ev.HashtagGroups[key] = &HashtagGroup{Key: key, Users: group}
		for authorID := range group {
			ev.Flag(authorID)
		}
	}
	return nil
}

func sortedDistinct(xs []string) []string {
	seen := make(map[string]struct{}, len(xs))
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	sort.Strings(out)
	return out
}
