// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

// Package pipeline wires dataset construction, the fixed-order indicator
// detectors, and score aggregation into the engine's single entry point.
package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/cibwatch/internal/detect"
	"github.com/tomtom215/cibwatch/internal/logging"
	promMetrics "github.com/tomtom215/cibwatch/internal/metrics"
	"github.com/tomtom215/cibwatch/internal/progress"
	"github.com/tomtom215/cibwatch/internal/score"
)

// Request is the engine's input message (spec §6).
type Request struct {
	FilteredData []detect.Post `json:"filteredData" yaml:"filteredData"`
	Params       detect.Params `json:"params" yaml:"params"`
	TimeWindow   int64         `json:"timeWindow" yaml:"timeWindow"`
}

// Indicators is the named integer counter block of the result message.
type Indicators struct {
	Synchronized            int `json:"synchronized"`
	IdenticalHashtags       int `json:"identicalHashtags"`
	SimilarUsernames        int `json:"similarUsernames"`
	HighVolume              int `json:"highVolume"`
	TemporalBursts          int `json:"temporalBursts"`
	SemanticDuplicates      int `json:"semanticDuplicates"`
	TemplateCaptions        int `json:"templateCaptions"`
	DuplicateCaptions       int `json:"duplicateCaptions"`
	AccountCreationClusters int `json:"accountCreationClusters"`
}

// UserScore is one entry of the result message's userScores array.
type UserScore struct {
	AuthorID string `json:"authorId"`
	Score    int    `json:"score"`
}

// UserReasons is one entry of the result message's userReasons array.
type UserReasons struct {
	AuthorID string   `json:"authorId"`
	Reasons  []string `json:"reasons"`
}

// Report is the engine's result message (spec §6).
type Report struct {
	SuspiciousUsers []string      `json:"suspiciousUsers"`
	Indicators      Indicators    `json:"indicators"`
	UserScores      []UserScore   `json:"userScores"`
	UserReasons     []UserReasons `json:"userReasons"`
}

// RunMetrics records the per-stage timing and volume of a single run, for
// logging and for folding into the internal/metrics histograms.
type RunMetrics struct {
	PostsReceived int
	PostsSkipped  int
	StageDuration map[string]time.Duration
	TotalDuration time.Duration
}

// Pipeline is the engine's orchestrator. It owns no mutable state of its
// own beyond the embedding service passed at construction, which persists
// its cache across runs.
type Pipeline struct {
	Embeddings detect.EmbeddingService
}

// New returns a Pipeline backed by the given embedding service. embeddings
// may be nil to disable indicator 8 regardless of params.SemanticEnabled.
func New(embeddings detect.EmbeddingService) *Pipeline {
	return &Pipeline{Embeddings: embeddings}
}

// Run executes the full detection pipeline: build the dataset, run the
// ten indicator detectors in fixed order, aggregate scores, and produce
// the Report. reporter may be nil, in which case progress is not emitted.
func (p *Pipeline) Run(ctx context.Context, req Request, reporter *progress.Throttled) (*Report, RunMetrics, error) {
	start := time.Now()
	metrics := RunMetrics{
		PostsReceived: len(req.FilteredData),
		StageDuration: make(map[string]time.Duration),
	}

	datasetStart := time.Now()
	ds := detect.BuildDataset(req.FilteredData)
	metrics.StageDuration["build_dataset"] = time.Since(datasetStart)
	metrics.PostsSkipped = ds.SkippedInvalid

	logging.CtxInfo(ctx).
		Int("posts_received", metrics.PostsReceived).
		Int("posts_skipped", ds.SkippedInvalid).
		Int("authors", len(ds.AuthorIDs)).
		Msg("dataset built")

	timeWindow := time.Duration(req.TimeWindow) * time.Second
	detectors := detect.DefaultDetectors(p.Embeddings)
	ev := detect.NewEvidence()

	for _, d := range detectors {
		if reporter != nil {
			reporter.Stage(d.Name(), 1)
		}

		stageStart := time.Now()
		if err := d.Run(ctx, ds, req.Params, timeWindow, ev); err != nil {
			logging.CtxErr(ctx, err).Str("indicator", d.Name()).Msg("indicator detector failed")
			promMetrics.RecordRun(time.Since(start), "error")
			return nil, metrics, err
		}
		stageDur := time.Since(stageStart)
		metrics.StageDuration[d.Name()] = stageDur
		promMetrics.RecordStage(d.Name(), stageDur)

		if reporter != nil {
			reporter.Tick(d.Name(), 1, 1)
		}
	}

	scoreStart := time.Now()
	results := score.Aggregate(ds, ev, req.Params, timeWindow)
	metrics.StageDuration["score"] = time.Since(scoreStart)

	report := buildReport(ev, results)
	metrics.TotalDuration = time.Since(start)
	promMetrics.RecordRun(metrics.TotalDuration, "ok")
	promMetrics.RecordPosts(metrics.PostsReceived-ds.SkippedInvalid, ds.SkippedInvalid)

	logging.CtxInfo(ctx).
		Int("suspicious_users", len(report.SuspiciousUsers)).
		Dur("duration", metrics.TotalDuration).
		Msg("run complete")

	return report, metrics, nil
}

func buildReport(ev *detect.Evidence, results []score.Result) *Report {
	suspicious := make([]string, 0, len(results))
	userScores := make([]UserScore, 0, len(results))
	userReasons := make([]UserReasons, 0, len(results))
	for _, r := range results {
		suspicious = append(suspicious, r.AuthorID)
		userScores = append(userScores, UserScore{AuthorID: r.AuthorID, Score: r.Score})
		userReasons = append(userReasons, UserReasons{AuthorID: r.AuthorID, Reasons: r.Reasons})
	}
	sort.Strings(suspicious)

	identicalHashtags := 0
	for _, g := range ev.HashtagGroups {
		identicalHashtags += len(g.Users)
	}
	similarUsernames := 0
	for _, g := range ev.UsernameGroups {
		similarUsernames += len(g.Users)
	}

	return &Report{
		SuspiciousUsers: suspicious,
		Indicators: Indicators{
			Synchronized:            len(ev.SynchPairs),
			IdenticalHashtags:       identicalHashtags,
			SimilarUsernames:        similarUsernames,
			HighVolume:              len(ev.HighVolume),
			TemporalBursts:          len(ev.Bursts),
			SemanticDuplicates:      len(ev.SemanticPairs),
			TemplateCaptions:        len(ev.TemplatePairs),
			DuplicateCaptions:       len(ev.SemanticPairs) + len(ev.TemplatePairs),
			AccountCreationClusters: len(ev.CreationClusters),
		},
		UserScores:  userScores,
		UserReasons: userReasons,
	}
}
