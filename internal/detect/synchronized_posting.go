// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package detect

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/cibwatch/internal/temporal"
)

// SynchronizedPostingDetector implements indicator 1: pairs of authors who
// repeatedly post within timeWindow of one another.
type SynchronizedPostingDetector struct{}

func (d *SynchronizedPostingDetector) Name() string { return "synchronized_posting" }

func (d *SynchronizedPostingDetector) Run(ctx context.Context, ds *Dataset, params Params, timeWindow time.Duration, ev *Evidence) error {
	window := int64(timeWindow / time.Second)
	ids := ds.AuthorIDs
	sortedTimes := make(map[string][]int64, len(ids))
	for _, id := range ids {
		ts := postTimestamps(ds.PostsByUser[id])
		sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
		sortedTimes[id] = ts
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a, b := ids[i], ids[j]
			count := temporal.CountCoincidences(sortedTimes[a], sortedTimes[b], window)
			if count >= params.MinSyncPosts {
				ev.SynchPairs = append(ev.SynchPairs, SyncPair{UserA: a, UserB: b, SyncCount: count})
				ev.Flag(a)
				ev.Flag(b)
			}
		}
	}
	return nil
}

func postTimestamps(posts []Post) []int64 {
	ts := make([]int64, len(posts))
	for i, p := range posts {
		ts[i] = p.CreatedAt
	}
	return ts
}
