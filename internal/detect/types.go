// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

// Package detect implements the CIB (Coordinated Inauthentic Behavior)
// detection pipeline: the dataset model, the nine-plus-one indicator
// detectors, and the shared evidence structures they accumulate into.
package detect

// Post is a single, immutable social-media post fed into the engine.
type Post struct {
	ItemID           string   `json:"item_id" yaml:"item_id"`
	AuthorID         string   `json:"author_id" yaml:"author_id"`
	AuthorHandle     string   `json:"author_handle" yaml:"author_handle"`
	CreatedAt        int64    `json:"created_at" yaml:"created_at"`
	AccountCreatedAt *int64   `json:"account_created_at,omitempty" yaml:"account_created_at,omitempty"`
	Caption          string   `json:"caption" yaml:"caption"`
	Hashtags         []string `json:"hashtags" yaml:"hashtags"`
}

// Params configures the ten indicator detectors and the score aggregator.
// JSON field names mirror the external message contract exactly.
type Params struct {
	MinSyncPosts         int     `json:"minSyncPosts" yaml:"minSyncPosts" validate:"min=1"`
	TFIDFThreshold       float64 `json:"tfidfThreshold" yaml:"tfidfThreshold"`
	MinHashtagGroupSize  int     `json:"minHashtagGroupSize" yaml:"minHashtagGroupSize" validate:"min=2"`
	UsernameThreshold    float64 `json:"usernameThreshold" yaml:"usernameThreshold" validate:"min=0,max=1"`
	MinUsernameGroupSize int     `json:"minUsernameGroupSize" yaml:"minUsernameGroupSize" validate:"min=2"`
	MinHighVolumePosts   int     `json:"minHighVolumePosts" yaml:"minHighVolumePosts" validate:"min=1"`
	ZScoreThreshold      float64 `json:"zscoreThreshold" yaml:"zscoreThreshold"`
	BurstPosts           int     `json:"burstPosts" yaml:"burstPosts" validate:"min=2"`
	RhythmCV             float64 `json:"rhythmCV" yaml:"rhythmCV" validate:"gt=0"`
	NightGap             int64   `json:"nightGap" yaml:"nightGap"`
	SemanticEnabled      bool    `json:"semanticEnabled" yaml:"semanticEnabled"`
	SemanticThreshold    float64 `json:"semanticThreshold" yaml:"semanticThreshold" validate:"min=0,max=1"`
	NgramThreshold       float64 `json:"ngramThreshold" yaml:"ngramThreshold" validate:"min=0,max=1"`
	ClusterSize          int     `json:"clusterSize" yaml:"clusterSize" validate:"min=2"`
	CrossMultiplier      float64 `json:"crossMultiplier" yaml:"crossMultiplier" validate:"min=0"`

	// Nicknames supplements partner-name resolution (spec §4.4's
	// handle -> nickname -> user_{id} fallback chain). Empty by default,
	// in which case resolution is handle-or-user_{id} only.
	Nicknames map[string]string `json:"nicknames,omitempty" yaml:"nicknames,omitempty"`
}

// DefaultParams returns conservative defaults suitable for exploratory runs.
func DefaultParams() Params {
	return Params{
		MinSyncPosts:         3,
		TFIDFThreshold:       1.5,
		MinHashtagGroupSize:  2,
		UsernameThreshold:    0.85,
		MinUsernameGroupSize: 2,
		MinHighVolumePosts:   10,
		ZScoreThreshold:      2.0,
		BurstPosts:           5,
		RhythmCV:             0.15,
		NightGap:             7200,
		SemanticEnabled:      true,
		SemanticThreshold:    0.85,
		NgramThreshold:       0.6,
		ClusterSize:          3,
		CrossMultiplier:      0.15,
	}
}

// DatasetStats is the per-batch distribution summary of spec §3: the
// post-count-per-author and total-hashtag-count-per-author distributions.
type DatasetStats struct {
	PostsMean      float64 `json:"postsMean"`
	PostsStddev    float64 `json:"postsStddev"`
	HashtagsMean   float64 `json:"hashtagsMean"`
	HashtagsStddev float64 `json:"hashtagsStddev"`
}

// Dataset is the read-only, once-built view over a batch of posts that
// every detector consumes.
type Dataset struct {
	// PostsByUser maps author_id to that author's posts in input order.
	PostsByUser map[string][]Post

	// UserHashtagBag maps author_id to the multiset (as an ordered,
	// duplicate-preserving sequence) of hashtags the author used.
	UserHashtagBag map[string][]string

	// UsernameIndex maps author_id to handle, restricted to handles of
	// length >= 4.
	UsernameIndex map[string]string

	Stats DatasetStats

	// AuthorIDs is the sorted list of every author with at least one
	// valid post, used for deterministic iteration.
	AuthorIDs []string

	// SkippedInvalid counts posts dropped during indexing because they
	// lacked an author_id or created_at (spec §7 InvalidPost policy).
	SkippedInvalid int
}
