// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where a config file is searched for,
// in priority order. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cibwatch/config.yaml",
	"/etc/cibwatch/config.yml",
}

// ConfigPathEnvVar overrides the searched config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix is stripped from every CIBWATCH_-prefixed environment
// variable before it is mapped onto a koanf path.
const envPrefix = "CIBWATCH_"

// Load builds the configuration from defaults, an optional YAML file,
// and environment variables (highest priority), then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are koanf paths whose environment-variable form
// arrives as a comma-separated string rather than a YAML sequence.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps CIBWATCH_-stripped, lowercased environment variable
// names to their koanf dotted path. An explicit table (rather than a
// blind underscore-to-dot rewrite) is required because several koanf
// keys are themselves multi-word (read_timeout, batch_size, ...).
var envMappings = map[string]string{
	"server_host":          "server.host",
	"server_port":          "server.port",
	"server_read_timeout":  "server.read_timeout",
	"server_write_timeout": "server.write_timeout",
	"server_idle_timeout":  "server.idle_timeout",

	"embedding_endpoint":        "embedding.endpoint",
	"embedding_batch_size":      "embedding.batch_size",
	"embedding_request_timeout": "embedding.request_timeout",
	"embedding_cache_dir":       "embedding.cache_dir",

	"rate_limit_requests_per_minute": "rate_limit.requests_per_minute",
	"rate_limit_burst":               "rate_limit.burst",

	"security_cors_origins": "security.cors_origins",

	"logging_level":     "logging.level",
	"logging_format":    "logging.format",
	"logging_caller":    "logging.caller",
	"logging_timestamp": "logging.timestamp",

	"observability_metrics_enabled": "observability.metrics_enabled",

	"detection_min_sync_posts":          "detection.min_sync_posts",
	"detection_tfidf_threshold":         "detection.tfidf_threshold",
	"detection_min_hashtag_group_size":  "detection.min_hashtag_group_size",
	"detection_username_threshold":      "detection.username_threshold",
	"detection_min_username_group_size": "detection.min_username_group_size",
	"detection_min_high_volume_posts":   "detection.min_high_volume_posts",
	"detection_zscore_threshold":        "detection.zscore_threshold",
	"detection_burst_posts":             "detection.burst_posts",
	"detection_rhythm_cv":               "detection.rhythm_cv",
	"detection_night_gap":               "detection.night_gap",
	"detection_semantic_enabled":        "detection.semantic_enabled",
	"detection_semantic_threshold":      "detection.semantic_threshold",
	"detection_ngram_threshold":         "detection.ngram_threshold",
	"detection_cluster_size":            "detection.cluster_size",
	"detection_cross_multiplier":        "detection.cross_multiplier",
}

// envTransformFunc maps CIBWATCH_SERVER_PORT -> server.port via envMappings.
// Unrecognized keys pass through lowercased, unmapped (koanf ignores keys
// that match nothing already loaded from defaults).
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return key
}
