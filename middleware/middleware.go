// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/MaplrCanada/ss-petitions/auth"
	"github.com/MaplrCanada/ss-petitions/models"
	"github.com/MaplrCanada/ss-petitions/petition"
)

// Identity headers set by the game bridge
const (
	HeaderCitizenID   = "X-Citizen-ID"
	HeaderCitizenName = "X-Citizen-Name"
	HeaderAdminKey    = "X-Admin-Key"
)

type viewerKey struct{}

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Log request
		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"request_id", chimw.GetReqID(r.Context()),
		)

		// Call the next handler
		next(w, r)

		// Log completion
		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
			"request_id", chimw.GetReqID(r.Context()),
		)
	}
}

// Logging is WithLogging in router middleware form.
func Logging(next http.Handler) http.Handler {
	return WithLogging(next.ServeHTTP)
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	CodedErrorResponse(w, statusCode, "", message)
}

// CodedErrorResponse writes a JSON error response with a machine-readable code
func CodedErrorResponse(w http.ResponseWriter, statusCode int, code, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    code,
	})
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// CORS middleware allows cross-origin requests from the in-game browser
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", strings.Join([]string{
			"Content-Type", "Authorization", HeaderCitizenID, HeaderCitizenName, HeaderAdminKey,
		}, ", "))
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Identify resolves the viewer from the identity headers and stores it in
// the request context. A missing citizen ID yields an unidentified viewer;
// a wrong admin key yields a non-admin viewer.
func Identify(adminKeySalt string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(HeaderCitizenID))

			var viewer petition.Viewer
			if id != "" {
				if err := auth.ValidateCitizenID(id); err != nil {
					CodedErrorResponse(w, http.StatusBadRequest, petition.CodeValidation, "Invalid citizen ID")
					return
				}
				viewer.ID = id
				viewer.Name = strings.TrimSpace(r.Header.Get(HeaderCitizenName))

				if key := r.Header.Get(HeaderAdminKey); key != "" {
					if err := auth.ValidateAdminKey(id, key, adminKeySalt); err != nil {
						slog.Warn("rejected admin key", "citizen_id", id, "path", r.URL.Path)
					} else {
						viewer.IsAdmin = true
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
		})
	}
}

// WithViewer returns a context carrying the viewer.
func WithViewer(ctx context.Context, viewer petition.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, viewer)
}

// ViewerFromContext returns the viewer set by Identify, or an unidentified
// viewer if there is none.
func ViewerFromContext(ctx context.Context) petition.Viewer {
	viewer, _ := ctx.Value(viewerKey{}).(petition.Viewer)
	return viewer
}
