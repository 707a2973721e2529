// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package detect

// SyncPair records two authors whose post timestamps coincide at least
// params.MinSyncPosts times within the time window (indicator 1).
type SyncPair struct {
	UserA     string
	UserB     string
	SyncCount int
}

// HashtagGroup is a qualifying (size >= params.MinHashtagGroupSize) bucket
// of authors sharing a canonical hashtag-set key with mean TF-IDF above
// threshold (indicator 2).
type HashtagGroup struct {
	Key   string
	Users map[string]struct{}
	TFIDF float64
}

// UsernameGroup is a qualifying bucket of authors whose handles pairwise
// exceed the similarity threshold (indicator 3).
type UsernameGroup struct {
	Key   string
	Users map[string]struct{}
}

// Burst is a single sliding-window burst: count posts by UserID within
// WindowStart..WindowStart+window (indicator 5).
type Burst struct {
	UserID      string
	WindowStart int64
	Count       int
}

// CaptionPair records two authors whose captions matched under either the
// semantic (embedding cosine) or template (n-gram Jaccard) comparison
// (indicators 8 and 9).
type CaptionPair struct {
	UserA string
	UserB string
	Score float64
}

// Evidence is the shared, incrementally-built accumulation structure that
// every detector writes into, in the fixed indicator order of spec §4.3.
type Evidence struct {
	SynchPairs []SyncPair

	// HashtagGroups and UsernameGroups are keyed by their canonical
	// bucket key; only qualifying (size-gated) groups are present.
	HashtagGroups  map[string]*HashtagGroup
	UsernameGroups map[string]*UsernameGroup

	// HighVolume maps author_id to its z-score for authors flagged by
	// indicator 4.
	HighVolume map[string]float64

	Bursts []Burst

	// RegularRhythm maps author_id to its coefficient of variation for
	// authors flagged by indicator 6.
	RegularRhythm map[string]float64

	// NightActivity maps author_id to its average max intra-day gap
	// (seconds) for authors flagged by indicator 7.
	NightActivity map[string]float64

	SemanticPairs []CaptionPair
	TemplatePairs []CaptionPair

	// CreationClusters is the sequence of author-id sets emitted by the
	// account-creation clustering analyzer (indicator 10), each already
	// filtered to clusters of size >= params.ClusterSize.
	CreationClusters [][]string

	// Flagged is the union of every author_id flagged by any indicator.
	Flagged map[string]struct{}
}

// NewEvidence returns an empty, ready-to-use Evidence accumulator.
func NewEvidence() *Evidence {
	return &Evidence{
		HashtagGroups:  make(map[string]*HashtagGroup),
		UsernameGroups: make(map[string]*UsernameGroup),
		HighVolume:     make(map[string]float64),
		RegularRhythm:  make(map[string]float64),
		NightActivity:  make(map[string]float64),
		Flagged:        make(map[string]struct{}),
	}
}

// Flag marks author_id as suspicious.
func (e *Evidence) Flag(authorID string) {
	e.Flagged[authorID] = struct{}{}
}
