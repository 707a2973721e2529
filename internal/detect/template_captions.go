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

// TemplateCaptionDetector implements indicator 9: authors whose most
// recent long caption shares a template with another author's, measured
// by 5-gram word-shingle Jaccard similarity.
type TemplateCaptionDetector struct{}

func (d *TemplateCaptionDetector) Name() string { return "template_captions" }

func (d *TemplateCaptionDetector) Run(ctx context.Context, ds *Dataset, params Params, timeWindow time.Duration, ev *Evidence) error {
	lastCaption := make(map[string]string)
	for _, authorID := range ds.AuthorIDs {
		for _, p := range ds.PostsByUser[authorID] {
			if len(p.Caption) >= minCaptionLength {
				lastCaption[authorID] = p.Caption
			}
		}
	}

	ids := ds.AuthorIDs
	for i := 0; i < len(ids); i++ {
		ca, ok := lastCaption[ids[i]]
		if !ok {
			continue
		}
		for j := i + 1; j < len(ids); j++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			cb, ok := lastCaption[ids[j]]
			if !ok {
				continue
			}
			score := stats.NGramJaccard(ca, cb)
			if score < params.NgramThreshold {
				continue
			}
			ev.TemplatePairs = append(ev.TemplatePairs, CaptionPair{UserA: ids[i], UserB: ids[j], Score: score})
			ev.Flag(ids[i])
			ev.Flag(ids[j])
		}
	}
	return nil
}
