// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package httpapi

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// errorBody is the spec.md §6 terminal error shape, reused verbatim for
// both the synchronous and the streaming endpoints.
type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newErrorBody(message string) errorBody {
	return errorBody{Type: "error", Message: message}
}
