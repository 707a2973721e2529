// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

// Package score aggregates indicator evidence into a per-author score and
// a human-readable list of reasons, then applies the cross-amplification
// rules that reward authors flagged by multiple independent indicators.
package score

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/cibwatch/internal/detect"
)

// Result is one flagged author's final score and the ordered reasons that
// produced it.
type Result struct {
	AuthorID string
	Score    int
	Reasons  []string
}

const maxPartnersShown = 5

// Aggregate walks ev in the fixed indicator order, computes each flagged
// author's score and reasons, and applies cross-amplification. timeWindow
// is the batch synchronization/burst window, used only to render the
// burst reason's human-readable duration.
func Aggregate(ds *detect.Dataset, ev *detect.Evidence, params detect.Params, timeWindow time.Duration) []Result {
	acc := make(map[string]*Result, len(ev.Flagged))
	for authorID := range ev.Flagged {
		acc[authorID] = &Result{AuthorID: authorID}
	}

	addSynchronized(ds, params, ev, acc)
	addRareHashtags(ds, params, ev, acc)
	addSimilarUsernames(ds, params, ev, acc)
	addHighVolume(ev, acc)
	addBursts(ev, acc, timeWindow)
	addRegularRhythm(ev, acc)
	addNightActivity(ev, acc)
	addSemanticPairs(ds, params, ev, acc)
	addTemplatePairs(ds, params, ev, acc)
	addCreationClusters(ev, acc)

	authorIDs := make([]string, 0, len(acc))
	for id := range acc {
		authorIDs = append(authorIDs, id)
	}
	sort.Strings(authorIDs)

	out := make([]Result, 0, len(authorIDs))
	for _, id := range authorIDs {
		r := acc[id]
		r.Score = crossAmplify(r.Score, r.Reasons, params.CrossMultiplier)
		out = append(out, *r)
	}
	return out
}

func crossAmplify(score int, reasons []string, crossMultiplier float64) int {
	k := len(reasons)
	if k >= 2 {
		score = clampScore(int(math.Round(float64(score) * (1 + crossMultiplier*float64(k)))))
	}

	joined := strings.ToLower(strings.Join(reasons, " "))
	if strings.Contains(joined, "similar username") && strings.Contains(joined, "created with") {
		score = clampScore(score + 20)
	}
	if strings.Contains(joined, "synchronized") && strings.Contains(joined, "regular posting") {
		score = clampScore(score + 15)
	}
	return score
}

func clampScore(s int) int {
	if s > 100 {
		return 100
	}
	if s < 0 {
		return 0
	}
	return s
}

func add(acc map[string]*Result, authorID string, points int, reason string) {
	r, ok := acc[authorID]
	if !ok {
		return
	}
	r.Score += points
	r.Reasons = append(r.Reasons, reason)
}

// resolvePartnerName resolves author_id -> handle, falling back to
// params.Nicknames, falling back to the literal "user_{id}" (spec §4.4).
func resolvePartnerName(ds *detect.Dataset, params detect.Params, authorID string) string {
	if handle, ok := ds.UsernameIndex[authorID]; ok && handle != "" {
		return handle
	}
	if nick, ok := params.Nicknames[authorID]; ok && nick != "" {
		return nick
	}
	return fmt.Sprintf("user_%s", authorID)
}

// formatPartners renders up to maxPartnersShown resolved partner names,
// sorted for determinism, with an "and N more" suffix when truncated.
func formatPartners(ds *detect.Dataset, params detect.Params, authorIDs []string) string {
	names := make([]string, 0, len(authorIDs))
	seen := make(map[string]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		names = append(names, resolvePartnerName(ds, params, id))
	}
	sort.Strings(names)

	shown := names
	more := 0
	if len(names) > maxPartnersShown {
		shown = names[:maxPartnersShown]
		more = len(names) - maxPartnersShown
	}

	s := strings.Join(shown, ", ")
	if more > 0 {
		s += fmt.Sprintf(" and %d more", more)
	}
	return s
}

func addSynchronized(ds *detect.Dataset, params detect.Params, ev *detect.Evidence, acc map[string]*Result) {
	partners := make(map[string][]string)
	for _, p := range ev.SynchPairs {
		partners[p.UserA] = append(partners[p.UserA], p.UserB)
		partners[p.UserB] = append(partners[p.UserB], p.UserA)
	}
	for authorID, ps := range partners {
		add(acc, authorID, 25, fmt.Sprintf("Synchronized posting with: %s", formatPartners(ds, params, ps)))
	}
}

func addRareHashtags(ds *detect.Dataset, params detect.Params, ev *detect.Evidence, acc map[string]*Result) {
	partners := make(map[string]map[string]struct{})
	keys := make([]string, 0, len(ev.HashtagGroups))
	for k := range ev.HashtagGroups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		group := ev.HashtagGroups[k]
		for authorID := range group.Users {
			set, ok := partners[authorID]
			if !ok {
				set = make(map[string]struct{})
				partners[authorID] = set
			}
			for otherID := range group.Users {
				if otherID != authorID {
					set[otherID] = struct{}{}
				}
			}
		}
	}

	for authorID, set := range partners {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		add(acc, authorID, 20, fmt.Sprintf("Rare hashtag combinations with: %s", formatPartners(ds, params, ids)))
	}
}

func addSimilarUsernames(ds *detect.Dataset, params detect.Params, ev *detect.Evidence, acc map[string]*Result) {
	keys := make([]string, 0, len(ev.UsernameGroups))
	for k := range ev.UsernameGroups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		group := ev.UsernameGroups[k]
		for authorID := range group.Users {
			others := make([]string, 0, len(group.Users)-1)
			for otherID := range group.Users {
				if otherID != authorID {
					others = append(others, otherID)
				}
			}
			add(acc, authorID, 10, fmt.Sprintf("Similar username pattern with: %s", formatPartners(ds, params, others)))
		}
	}
}

func addHighVolume(ev *detect.Evidence, acc map[string]*Result) {
	for authorID, z := range ev.HighVolume {
		add(acc, authorID, 15, fmt.Sprintf("High-volume posting (z-score: %.1f)", z))
	}
}

func addBursts(ev *detect.Evidence, acc map[string]*Result, timeWindow time.Duration) {
	window := humanDuration(timeWindow)
	for _, b := range ev.Bursts {
		add(acc, b.UserID, 15, fmt.Sprintf("Posting burst: %d posts in %s", b.Count, window))
	}
}

func addRegularRhythm(ev *detect.Evidence, acc map[string]*Result) {
	for authorID, cv := range ev.RegularRhythm {
		add(acc, authorID, 20, fmt.Sprintf("Highly regular posting rhythm (CV: %.1f%%)", cv*100))
	}
}

func addNightActivity(ev *detect.Evidence, acc map[string]*Result) {
	for authorID, avgGap := range ev.NightActivity {
		hours := avgGap / 3600
		add(acc, authorID, 25, fmt.Sprintf("24/7 posting pattern (max gap: %.1fh)", hours))
	}
}

func addSemanticPairs(ds *detect.Dataset, params detect.Params, ev *detect.Evidence, acc map[string]*Result) {
	for _, p := range ev.SemanticPairs {
		add(acc, p.UserA, 25, fmt.Sprintf("Semantically similar captions (%.3f) with %s", p.Score, resolvePartnerName(ds, params, p.UserB)))
		add(acc, p.UserB, 25, fmt.Sprintf("Semantically similar captions (%.3f) with %s", p.Score, resolvePartnerName(ds, params, p.UserA)))
	}
}

func addTemplatePairs(ds *detect.Dataset, params detect.Params, ev *detect.Evidence, acc map[string]*Result) {
	for _, p := range ev.TemplatePairs {
		add(acc, p.UserA, 20, fmt.Sprintf("Template caption (%.0f%% overlap) with %s", p.Score*100, resolvePartnerName(ds, params, p.UserB)))
		add(acc, p.UserB, 20, fmt.Sprintf("Template caption (%.0f%% overlap) with %s", p.Score*100, resolvePartnerName(ds, params, p.UserA)))
	}
}

func addCreationClusters(ev *detect.Evidence, acc map[string]*Result) {
	for _, cluster := range ev.CreationClusters {
		for _, authorID := range cluster {
			add(acc, authorID, 30, fmt.Sprintf("Account created with %d others within 24 hours", len(cluster)-1))
		}
	}
}

func humanDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
