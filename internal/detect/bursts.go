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

// BurstDetector implements indicator 5: sliding-window bursts of posts
// from a single author within the batch's time window.
type BurstDetector struct{}

func (d *BurstDetector) Name() string { return "temporal_bursts" }

type burstResult struct {
	authorID string
	bursts   []temporal.Burst
}

func (d *BurstDetector) Run(ctx context.Context, ds *Dataset, params Params, timeWindow time.Duration, ev *Evidence) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	window := int64(timeWindow / time.Second)

	results := temporal.RunPerAuthor(len(ds.AuthorIDs), func(i int) burstResult {
		authorID := ds.AuthorIDs[i]
		ts := postTimestamps(ds.PostsByUser[authorID])
		sort.Slice(ts, func(a, b int) bool { return ts[a] < ts[b] })
		return burstResult{authorID: authorID, bursts: temporal.FindBursts(ts, window, params.BurstPosts)}
	})

	for _, r := range results {
		for _, b := range r.bursts {
			ev.Bursts = append(ev.Bursts, Burst{UserID: r.authorID, WindowStart: b.WindowStart, Count: b.Count})
			ev.Flag(r.authorID)
		}
	}
	return nil
}
