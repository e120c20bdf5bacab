// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"errors"
	"fmt"

	"github.com/MaplrCanada/ss-petitions/petition"
)

// ErrNoSnapshot is returned by List helpers before the first Snapshot call.
var ErrNoSnapshot = errors.New("no snapshot loaded")

// TransportError reports a failed exchange with the server. Either Err is
// set (the request never completed) or StatusCode and Code describe the
// server's refusal.
type TransportError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %d %s: %s", e.Op, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

// Unwrap yields the network error, or the petition sentinel named by the
// server's error code so errors.Is(err, petition.ErrAlreadySigned) works.
func (e *TransportError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return petition.FromCode(e.Code)
}
