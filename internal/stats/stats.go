// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

// Package stats provides the statistical primitives shared by the temporal
// analyzers and indicator detectors: mean/stddev, TF-IDF term weighting,
// n-gram Jaccard similarity, and Levenshtein edit distance.
package stats

import (
	"math"
	"regexp"
	"strings"
)

// Mean returns the arithmetic mean of xs, or 0 if xs is empty.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// PopulationStddev returns the population standard deviation of xs
// (divides by N, not N-1), or 0 if xs is empty.
func PopulationStddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := Mean(xs)
	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

// ZScore returns (x - mean) / stddev, treating a stddev of 0 as 1 to
// avoid division by zero (spec NumericUnderflow policy).
func ZScore(x, mean, stddev float64) float64 {
	if stddev == 0 {
		stddev = 1
	}
	return (x - mean) / stddev
}

// TFIDF computes the term-frequency/inverse-document-frequency weight of
// term within userBag, measured against the corpus of allBags (each bag
// treated as a set for document-frequency purposes).
//
//	tf  = count(term in userBag) / len(userBag)
//	idf = ln(N / (df + 1))
//
// No smoothing is applied beyond the +1 in the idf denominator.
func TFIDF(term string, userBag []string, allBags [][]string) float64 {
	if len(userBag) == 0 {
		return 0
	}

	var count int
	for _, t := range userBag {
		if t == term {
			count++
		}
	}
	tf := float64(count) / float64(len(userBag))

	df := 0
	for _, bag := range allBags {
		if containsTerm(bag, term) {
			df++
		}
	}
	n := float64(len(allBags))
	idf := math.Log(n / (float64(df) + 1))

	return tf * idf
}

func containsTerm(bag []string, term string) bool {
	for _, t := range bag {
		if t == term {
			return true
		}
	}
	return false
}

var nonWordRunRE = regexp.MustCompile(`[^\w\s]+`)
var whitespaceRunRE = regexp.MustCompile(`\s+`)

// tokenizeWords lowercases s, strips everything but word characters and
// whitespace, then splits on runs of whitespace.
func tokenizeWords(s string) []string {
	s = strings.ToLower(s)
	s = nonWordRunRE.ReplaceAllString(s, "")
	s = strings.TrimSpace(whitespaceRunRE.ReplaceAllString(s, " "))
	if s == "" {
		return nil
	}
	return strings.Split(s, " ")
}

// NGramSet returns the set of sliding word n-grams of length n from s.
func NGramSet(s string, n int) map[string]struct{} {
	words := tokenizeWords(s)
	set := make(map[string]struct{})
	if len(words) < n {
		return set
	}
	for i := 0; i+n <= len(words); i++ {
		gram := strings.Join(words[i:i+n], " ")
		set[gram] = struct{}{}
	}
	return set
}

// NGramJaccard returns the Jaccard index of the 5-gram (or n-gram, if n is
// given explicitly via NGramJaccardN) word-shingle sets of a and b.
// Returns 0 if either set is empty.
func NGramJaccard(a, b string) float64 {
	return NGramJaccardN(a, b, 5)
}

// NGramJaccardN is NGramJaccard with an explicit n-gram length.
func NGramJaccardN(a, b string, n int) float64 {
	setA := NGramSet(a, n)
	setB := NGramSet(b, n)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for g := range setA {
		if _, ok := setB[g]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Levenshtein returns the classic edit distance between a and b, with unit
// cost insertion, deletion, and substitution.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// LevenshteinSimilarity returns 1 - d/max(len(a), len(b)), where d is the
// Levenshtein distance. Two empty strings are considered identical (1.0).
func LevenshteinSimilarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if bl := len([]rune(b)); bl > maxLen {
		maxLen = bl
	}
	if maxLen == 0 {
		return 1
	}
	d := Levenshtein(a, b)
	return 1 - float64(d)/float64(maxLen)
}
