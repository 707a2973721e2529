// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

/*
Package httpapi is the external realization of the engine's message
contract: spec.md §6 describes an input message, a progress-event
stream, a result, and an error event abstractly ("there is no CLI, file
format, ..."), but an engine has to be invocable by something. This
package supplies a chi-routed HTTP surface:

  - POST /v1/analyze       synchronous run, spec.md §6 JSON in and out
  - GET  /v1/analyze/stream  websocket: same input first, then a stream
    of progress frames and exactly one terminal result or error frame
  - GET  /healthz          liveness
  - GET  /metrics          Prometheus exposition

Routing, CORS, and rate-limiting middleware follow the teacher's Chi
adoption (internal/api/chi_router.go, chi_middleware.go) using the same
go-chi/chi, go-chi/cors, and go-chi/httprate packages; the envelope and
auth/session concerns of that teacher package do not apply here and are
not carried over.
*/
package httpapi
