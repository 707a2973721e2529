// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

// Package logging provides centralized zerolog-based structured logging for cibwatch.
//
// This package implements a unified logging layer using zerolog, providing
// zero-allocation structured JSON logging for production and human-readable
// console output for development.
//
// # Overview
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output format for production (machine-parseable)
//   - Console output format for development (human-readable)
//   - Global logger configuration via Init(Config)
//   - Context-aware logging with correlation ID propagation
//
// # Quick Start
//
//	import "github.com/tomtom215/cibwatch/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Caller: false,
//	})
//
//	// Log messages with structured fields
//	logging.Info().Str("stage", "synchronized_posting").Msg("indicator started")
//	logging.Error().Err(err).Msg("pipeline failed")
//
//	// Context-aware logging
//	logging.Ctx(ctx).Info().Str("run_id", runID).Msg("processing batch")
//
// # Configuration
//
// This package reads no environment variables; Init takes a Config. The
// cibwatch commands fill that Config from internal/config, which binds
// these environment variables:
//
//	CIBWATCH_LOGGING_LEVEL   - Minimum log level: trace, debug, info, warn, error
//	CIBWATCH_LOGGING_FORMAT  - Output format: json, console
//	CIBWATCH_LOGGING_CALLER  - Include caller file:line: true, false
//
// # Structured Logging Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
//
// # Context-Aware Logging
//
// Propagate the per-run correlation ID through logging:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Info().Msg("analyze request accepted")
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
package logging
