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

// RegularRhythmDetector implements indicator 6: authors whose inter-post
// gaps are suspiciously uniform (low coefficient of variation).
type RegularRhythmDetector struct{}

func (d *RegularRhythmDetector) Name() string { return "regular_rhythm" }

type regularRhythmResult struct {
	authorID string
	cv       float64
	ok       bool
}

func (d *RegularRhythmDetector) Run(ctx context.Context, ds *Dataset, params Params, timeWindow time.Duration, ev *Evidence) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	results := temporal.RunPerAuthor(len(ds.AuthorIDs), func(i int) regularRhythmResult {
		authorID := ds.AuthorIDs[i]
		ts := postTimestamps(ds.PostsByUser[authorID])
		sort.Slice(ts, func(a, b int) bool { return ts[a] < ts[b] })
		cv, ok := temporal.PostingRhythm(ts)
		return regularRhythmResult{authorID: authorID, cv: cv, ok: ok}
	})

	for _, r := range results {
		if !r.ok || r.cv >= params.RhythmCV {
			continue
		}
		ev.RegularRhythm[r.authorID] = r.cv
		ev.Flag(r.authorID)
	}
	return nil
}
