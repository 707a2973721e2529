// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package config

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	return validate.Struct(cfg)
}
