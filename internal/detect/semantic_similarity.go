// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package detect

import (
	"context"
	"time"
)

const minCaptionLength = 20

// SemanticSimilarityDetector implements indicator 8: near-duplicate
// captions detected via embedding cosine similarity. A nil Embeddings
// makes it a no-op, so a run with no embedding backend configured simply
// skips this indicator rather than failing.
type SemanticSimilarityDetector struct {
	Embeddings EmbeddingService
}

func (d *SemanticSimilarityDetector) Name() string { return "semantic_similarity" }

func (d *SemanticSimilarityDetector) Run(ctx context.Context, ds *Dataset, params Params, timeWindow time.Duration, ev *Evidence) error {
	if !params.SemanticEnabled || d.Embeddings == nil {
		return nil
	}

	var authors []string
	var captions []string
	for _, authorID := range ds.AuthorIDs {
		for _, p := range ds.PostsByUser[authorID] {
			if len(p.Caption) >= minCaptionLength {
				authors = append(authors, authorID)
				captions = append(captions, p.Caption)
			}
		}
	}
	if len(captions) < 2 {
		return nil
	}

	vecs, err := d.Embeddings.EmbedBatch(ctx, captions)
	if err != nil {
		return err
	}

	for i := 0; i < len(vecs); i++ {
		for j := i + 1; j < len(vecs); j++ {
			if authors[i] == authors[j] {
				continue
			}
			sim := CosineSimilarity(vecs[i], vecs[j])
			if sim < params.SemanticThreshold {
				continue
			}
			ev.SemanticPairs = append(ev.SemanticPairs, CaptionPair{UserA: authors[i], UserB: authors[j], Score: sim})
			ev.Flag(authors[i])
			ev.Flag(authors[j])
		}
	}
	return nil
}
