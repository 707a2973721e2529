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

// NightActivityDetector implements indicator 7: authors with no
// meaningful overnight gap, i.e. posting around the clock.
type NightActivityDetector struct{}

func (d *NightActivityDetector) Name() string { return "night_activity" }

type nightActivityResult struct {
	authorID string
	avgGap   float64
	ok       bool
}

func (d *NightActivityDetector) Run(ctx context.Context, ds *Dataset, params Params, timeWindow time.Duration, ev *Evidence) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	results := temporal.RunPerAuthor(len(ds.AuthorIDs), func(i int) nightActivityResult {
		authorID := ds.AuthorIDs[i]
		ts := postTimestamps(ds.PostsByUser[authorID])
		sort.Slice(ts, func(a, b int) bool { return ts[a] < ts[b] })
		avgGap, ok := temporal.NightActivityGap(ts)
		return nightActivityResult{authorID: authorID, avgGap: avgGap, ok: ok}
	})

	for _, r := range results {
		if !r.ok || r.avgGap >= float64(params.NightGap) {
			continue
		}
		ev.NightActivity[r.authorID] = r.avgGap
		ev.Flag(r.authorID)
	}
	return nil
}
