// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

// Package temporal provides the time-series primitives shared by the
// burst, rhythm, night-activity, and account-creation-cluster detectors:
// sliding-window burst scans, coefficient-of-variation rhythm analysis,
// intra-day gap measurement, and single-sweep timestamp clustering. None
// of it reads the wall clock; every function takes unix timestamps
// supplied by the caller, so a run is fully reproducible from its input.
package temporal

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cibwatch/internal/stats"
)

// Burst is a single qualifying sliding window: at least minPosts timestamps
// fall within [WindowStart, WindowStart+window].
type Burst struct {
	WindowStart int64
	Count       int
}

// FindBursts scans sorted timestamps with a forward sliding window and
// reports every position where the window first reaches minPosts entries.
// ts must already be sorted ascending; FindBursts does not sort it.
func FindBursts(ts []int64, window int64, minPosts int) []Burst {
	if minPosts < 1 || len(ts) < minPosts {
		return nil
	}

	var bursts []Burst
	for i := 0; i+minPosts-1 < len(ts); i++ {
		j := i + minPosts - 1
		if ts[j]-ts[i] <= window {
			bursts = append(bursts, Burst{WindowStart: ts[i], Count: j - i + 1})
		}
	}
	return bursts
}

// PostingRhythm reports the coefficient of variation of the inter-post
// gaps of a sorted timestamp sequence, and whether the sequence has enough
// data points (>= 5 posts, i.e. >= 4 gaps) to be meaningful. A cv of 0 with
// ok == false means "not enough data", not "perfectly regular".
func PostingRhythm(ts []int64) (cv float64, ok bool) {
	if len(ts) < 5 {
		return 0, false
	}

	gaps := make([]float64, 0, len(ts)-1)
	for i := 1; i < len(ts); i++ {
		gaps = append(gaps, float64(ts[i]-ts[i-1]))
	}

	mean := stats.Mean(gaps)
	if mean <= 0 {
		return 0, false
	}
	return stats.PopulationStddev(gaps) / mean, true
}

const secondsPerDay = 86400

// NightActivityGap buckets timestamps by UTC calendar day and returns the
// average, across days with at least two posts, of the largest gap between
// consecutive posts within that day (including the wraparound gap between
// the day's last post and first post, mod 24h). It requires at least 10
// total timestamps; otherwise ok is false.
func NightActivityGap(ts []int64) (avgGap float64, ok bool) {
	if len(ts) < 10 {
		return 0, false
	}

	byDay := make(map[int64][]int64)
	for _, t := range ts {
		day := t / secondsPerDay
		sod := t % secondsPerDay
		byDay[day] = append(byDay[day], sod)
	}

	var total float64
	var days int
	for _, secs := range byDay {
		if len(secs) < 2 {
			continue
		}
		sort.Slice(secs, func(i, j int) bool { return secs[i] < secs[j] })

		maxGap := secondsPerDay - secs[len(secs)-1] + secs[0]
		for i := 1; i < len(secs); i++ {
			if g := secs[i] - secs[i-1]; g > maxGap {
				maxGap = g
			}
		}
		total += float64(maxGap)
		days++
	}

	if days == 0 {
		return 0, false
	}
	return total / float64(days), true
}

// ClusterTimestamps groups sorted (author_id, timestamp) pairs into
// clusters using a single forward, start-anchored sweep: a cluster begins
// at the first unclustered timestamp and absorbs every following entry
// within window of that same anchor, never re-anchoring mid-cluster.
// Clusters smaller than minSize are dropped. Input must be sorted
// ascending by timestamp; ties are broken by input order.
func ClusterTimestamps(ids []string, ts []int64, window int64, minSize int) [][]string {
	if len(ids) != len(ts) || len(ids) == 0 {
		return nil
	}

	var out [][]string
	i := 0
	for i < len(ts) {
		anchor := ts[i]
		group := []string{ids[i]}
		j := i + 1
		for j < len(ts) && ts[j]-anchor < window {
			group = append(group, ids[j])
			j++
		}
		if len(group) >= minSize {
			out = append(out, group)
		}
		i = j
	}
	return out
}

// CountCoincidences returns the number of pairs (a, b) with a in timesA,
// b in timesB, and |a-b| < window. Both slices must be sorted ascending;
// for each element of the longer side it binary-searches the shorter side.
func CountCoincidences(timesA, timesB []int64, window int64) int {
	if len(timesA) == 0 || len(timesB) == 0 {
		return 0
	}
	if len(timesA) > len(timesB) {
		timesA, timesB = timesB, timesA
	}

	count := 0
	for _, b := range timesB {
		lo := sort.Search(len(timesA), func(i int) bool { return timesA[i] > b-window })
		hi := sort.Search(len(timesA), func(i int) bool { return timesA[i] >= b+window })
		count += hi - lo
	}
	return count
}

// RunPerAuthor computes compute(0)..compute(n-1) concurrently via
// errgroup and returns the results in index order, regardless of
// completion order. Each call's detector passes a pure, allocation-only
// closure over one author's already-extracted timestamps, so there is no
// shared mutable state between goroutines; callers fold the ordered
// results into their own Evidence structure single-threaded afterward.
func RunPerAuthor[T any](n int, compute func(i int) T) []T {
	out := make([]T, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			out[i] = compute(i)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
