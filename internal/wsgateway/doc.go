// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

/*
Package wsgateway provides the websocket transport for a single streaming
analyze run (GET /v1/analyze/stream): one upgraded connection carries the
request's input message inbound, then progress and a single terminal
result/error frame outbound.

This is a narrower problem than a broadcast hub serving many subscribers
the same feed, so the package keeps the gorilla/websocket write pump
(ping keepalive, write deadlines) and a bounded inbound message size,
reads the single request frame once instead of running a read pump, and
drops fan-out: each Session is exclusive to the HTTP request that
created it.
*/
package wsgateway
