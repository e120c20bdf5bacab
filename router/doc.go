// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the petitions API.

# Route Registration

NewRouter creates a chi router with all endpoints:

	r := router.NewRouter(store, rules, hub, cfg)

# Middleware

Every route gets chi's RequestID and Recoverer plus CORS. The API routes
additionally get request logging and middleware.Identify, which resolves the
viewer from X-Citizen-ID, X-Citizen-Name, and X-Admin-Key.

# Endpoints

Health:

	GET /health
	GET /

Reads:

	GET /config          - Board rules
	GET /snapshot        - Petitions, viewer, rules
	GET /petitions       - Filtered, sorted list (view, category, status, search, sort)
	GET /petitions/{id}  - One petition

Citizen actions:

	POST   /petitions           - Submit
	POST   /petitions/{id}/sign - Sign
	DELETE /petitions/{id}      - Delete (author or admin)

Admin review:

	POST /petitions/{id}/status   - Set status {status, comment}
	POST /petitions/{id}/approve  - pending → approved
	POST /petitions/{id}/reject   - pending → rejected
	POST /petitions/{id}/complete - approved → completed

Push:

	GET /ws - Websocket change events (only when a hub is given)
*/
package router
