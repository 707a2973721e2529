// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, Validate(defaultConfig()))
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.Port = 0
	assert.Error(t, Validate(cfg))
}

func TestEnvTransformFunc(t *testing.T) {
	cases := map[string]string{
		"CIBWATCH_SERVER_PORT":            "server.port",
		"CIBWATCH_DETECTION_RHYTHM_CV":    "detection.rhythm_cv",
		"CIBWATCH_EMBEDDING_BATCH_SIZE":   "embedding.batch_size",
		"CIBWATCH_SOMETHING_UNRECOGNIZED": "something_unrecognized",
	}
	for in, want := range cases {
		assert.Equal(t, want, envTransformFunc(in), "envTransformFunc(%q)", in)
	}
}
