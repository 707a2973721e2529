// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package detect

import (
	"context"
	"time"
)

// Detector is one of the ten fixed-order CIB indicators. Implementations
// mutate the shared Evidence; they never return a partial Dataset and
// never mutate Dataset itself.
type Detector interface {
	// Name identifies the indicator for logging and progress events.
	Name() string

	// Run evaluates the dataset against the detector's rule and
	// accumulates findings into ev. timeWindow is the batch-level
	// synchronization/burst window (spec §4.3 indicators 1 and 5); the
	// account-creation clustering window is fixed at 24h regardless of
	// timeWindow (spec §4.1).
	Run(ctx context.Context, ds *Dataset, params Params, timeWindow time.Duration, ev *Evidence) error
}

// DefaultDetectors returns the ten indicator detectors in the fixed order
// required by spec §4.3/§5. semantic may be nil, in which case the
// semantic-caption-similarity detector is a no-op regardless of
// params.SemanticEnabled (used when no embedding backend is configured).
func DefaultDetectors(semantic EmbeddingService) []Detector {
	return []Detector{
		&SynchronizedPostingDetector{},
		&RareHashtagDetector{},
		&SimilarUsernameDetector{},
		&HighVolumeDetector{},
		&BurstDetector{},
		&RegularRhythmDetector{},
		&NightActivityDetector{},
		&SemanticSimilarityDetector{Embeddings: semantic},
		&TemplateCaptionDetector{},
		&AccountCreationClusterDetector{},
	}
}
