// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package client is the panel side of the petitions API.
//
// A Client caches the last /snapshot and runs every action through the
// same petition rules the server uses, so a refused action never leaves
// the process. Failures the server reports come back as *TransportError,
// which unwraps to the matching petition sentinel.
package client
