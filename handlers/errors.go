// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/MaplrCanada/ss-petitions/middleware"
	"github.com/MaplrCanada/ss-petitions/petition"
)

var statusByCode = map[string]int{
	petition.CodeValidation:        http.StatusBadRequest,
	petition.CodeUnidentified:      http.StatusUnauthorized,
	petition.CodeUnauthorized:      http.StatusForbidden,
	petition.CodeSelfSignForbidden: http.StatusForbidden,
	petition.CodeNotFound:          http.StatusNotFound,
	petition.CodeAlreadySigned:     http.StatusConflict,
	petition.CodeNotOpenForSigning: http.StatusConflict,
	petition.CodeIllegalTransition: http.StatusConflict,
}

// writeError maps err onto an HTTP status and wire code. Anything outside
// the petition error taxonomy is a 500 with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := petition.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, petition.CodeInternal, "Internal server error")
		return
	}

	message := err.Error()
	var ve *petition.ValidationError
	if errors.As(err, &ve) {
		message = ve.Message
	}
	middleware.CodedErrorResponse(w, status, code, message)
}
