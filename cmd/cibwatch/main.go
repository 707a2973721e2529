// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

// Package main is the entry point for the cibwatch binary.
//
// cibwatch analyzes a bounded batch of social posts for coordinated
// inauthentic behavior: synchronized posting, identical hashtag blocks,
// near-duplicate usernames, abnormal posting volume, temporal bursts,
// semantic and literal caption duplication, and account-creation
// clustering. Indicator hits are aggregated into a per-author score with
// cross-amplification rules, producing a list of suspicious authors and
// the reasons they were flagged.
//
// # Application Architecture
//
// The binary exposes two ways to run the engine:
//
//  1. serve: a long-running HTTP API (synchronous POST and a progress-
//     streaming websocket), configured via Koanf v2 (defaults, then an
//     optional YAML file, then CIBWATCH_-prefixed environment variables).
//  2. analyze: a one-shot CLI run against a local JSON or YAML batch
//     file, for offline analysis and for replaying fixture scenarios.
//
// Both commands share the same detection pipeline in internal/pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "cibwatch",
		Short:   "Coordinated Inauthentic Behavior detection engine",
		Long:    "cibwatch — detects synchronized, duplicated, and bot-like posting patterns across a batch of social posts.",
		Version: version,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAnalyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
