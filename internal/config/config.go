// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

// Package config defines the service configuration surface and loads it
// through a layered koanf stack: struct defaults, then an optional YAML
// file, then environment variables (highest priority).
package config

import (
	"time"

	"github.com/tomtom215/cibwatch/internal/detect"
)

// ServerConfig controls the HTTP API listener.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// EmbeddingConfig locates the external embedding model collaborator and
// tunes the batching/cache layer in front of it.
type EmbeddingConfig struct {
	// Endpoint is loaded from config but not read by the commands: serve
	// and analyze both use the deterministic local transport whatever its
	// value.
	Endpoint       string        `koanf:"endpoint"`
	BatchSize      int           `koanf:"batch_size" validate:"min=1"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	CacheDir       string        `koanf:"cache_dir"`
}

// RateLimitConfig controls the HTTP API's request-rate middleware.
type RateLimitConfig struct {
	RequestsPerMinute int `koanf:"requests_per_minute" validate:"min=1"`
	Burst             int `koanf:"burst" validate:"min=1"`
}

// SecurityConfig controls CORS for the HTTP API.
type SecurityConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig mirrors internal/logging.Config for koanf binding.
type LoggingConfig struct {
	Level     string `koanf:"level"`
	Format    string `koanf:"format"`
	Caller    bool   `koanf:"caller"`
	Timestamp bool   `koanf:"timestamp"`
}

// ObservabilityConfig toggles Prometheus exposition.
type ObservabilityConfig struct {
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// DetectionDefaults seeds detect.Params for the analyze CLI subcommand's
// default run. The HTTP API does not apply these defaults.
type DetectionDefaults struct {
	MinSyncPosts         int     `koanf:"min_sync_posts"`
	TFIDFThreshold       float64 `koanf:"tfidf_threshold"`
	MinHashtagGroupSize  int     `koanf:"min_hashtag_group_size"`
	UsernameThreshold    float64 `koanf:"username_threshold"`
	MinUsernameGroupSize int     `koanf:"min_username_group_size"`
	MinHighVolumePosts   int     `koanf:"min_high_volume_posts"`
	ZScoreThreshold      float64 `koanf:"zscore_threshold"`
	BurstPosts           int     `koanf:"burst_posts"`
	RhythmCV             float64 `koanf:"rhythm_cv"`
	NightGap             int64   `koanf:"night_gap"`
	SemanticEnabled      bool    `koanf:"semantic_enabled"`
	SemanticThreshold    float64 `koanf:"semantic_threshold"`
	NgramThreshold       float64 `koanf:"ngram_threshold"`
	ClusterSize          int     `koanf:"cluster_size"`
	CrossMultiplier      float64 `koanf:"cross_multiplier"`
}

// ToParams converts configured defaults into a detect.Params. The analyze
// CLI uses it in place of the batch file's whole params when their
// minSyncPosts is 0; fields are not merged one by one.
func (d DetectionDefaults) ToParams() detect.Params {
	return detect.Params{
		MinSyncPosts:         d.MinSyncPosts,
		TFIDFThreshold:       d.TFIDFThreshold,
		MinHashtagGroupSize:  d.MinHashtagGroupSize,
		UsernameThreshold:    d.UsernameThreshold,
		MinUsernameGroupSize: d.MinUsernameGroupSize,
		MinHighVolumePosts:   d.MinHighVolumePosts,
		ZScoreThreshold:      d.ZScoreThreshold,
		BurstPosts:           d.BurstPosts,
		RhythmCV:             d.RhythmCV,
		NightGap:             d.NightGap,
		SemanticEnabled:      d.SemanticEnabled,
		SemanticThreshold:    d.SemanticThreshold,
		NgramThreshold:       d.NgramThreshold,
		ClusterSize:          d.ClusterSize,
		CrossMultiplier:      d.CrossMultiplier,
	}
}

// Config is the full service configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server" validate:"required"`
	Embedding     EmbeddingConfig     `koanf:"embedding" validate:"required"`
	RateLimit     RateLimitConfig     `koanf:"rate_limit" validate:"required"`
	Security      SecurityConfig      `koanf:"security"`
	Logging       LoggingConfig       `koanf:"logging"`
	Observability ObservabilityConfig `koanf:"observability"`
	Detection     DetectionDefaults   `koanf:"detection"`
}

// defaultConfig returns a Config with every field at its production
// default. Layer 1 of the koanf stack; overridden by file, then env.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Endpoint:       "",
			BatchSize:      8,
			RequestTimeout: 10 * time.Second,
			CacheDir:       "",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			Burst:             10,
		},
		Security: SecurityConfig{
			CORSOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			Caller:    false,
			Timestamp: true,
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: true,
		},
		Detection: DetectionDefaults{
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
		},
	}
}
