// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package hub pushes petition events to connected panels over websockets.
//
// Events carry only a type, petition ID, and status; panels re-fetch
// /snapshot when one arrives. The server pings every 20 seconds and drops
// clients that stop answering within 60 seconds.
package hub
