// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package detect

import (
	"context"
	"time"

	"github.com/tomtom215/cibwatch/internal/stats"
)

// HighVolumeDetector implements indicator 4: authors posting far more
// than the batch average, measured by z-score.
type HighVolumeDetector struct{}

func (d *HighVolumeDetector) Name() string { return "high_volume" }

func (d *HighVolumeDetector) Run(ctx context.Context, ds *Dataset, params Params, timeWindow time.Duration, ev *Evidence) error {
	for _, authorID := range ds.AuthorIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		count := len(ds.PostsByUser[authorID])
		if count < params.MinHighVolumePosts {
			continue
		}
		z := stats.ZScore(float64(count), ds.Stats.PostsMean, ds.Stats.PostsStddev)
		if z > params.ZScoreThreshold {
			ev.HighVolume[authorID] = z
			ev.Flag(authorID)
		}
	}
	return nil
}
