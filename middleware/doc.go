// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

or install it on a chi router:

	r.Use(middleware.Logging)

Logs request start (method, path, remote) and completion (duration_ms), with
the chi request ID when one is set.

# CORS Middleware

Enable cross-origin requests from the in-game browser:

	r.Use(middleware.CORS)

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Citizen-ID, X-Citizen-Name, X-Admin-Key.

# Identity

Identify reads the identity headers set by the game bridge:

	X-Citizen-ID    citizen identifier (absent means unidentified)
	X-Citizen-Name  display name
	X-Admin-Key     auth.GenerateAdminKey(citizenID, ADMIN_KEY_SALT)

The resolved petition.Viewer is available to handlers:

	viewer := middleware.ViewerFromContext(r.Context())

A malformed citizen ID is rejected with 400. A wrong admin key is logged and
the request continues as a regular citizen.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.CodedErrorResponse(w, http.StatusConflict, "already_signed", "message")

Parse JSON request bodies:

	var req models.SubmitPetitionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
