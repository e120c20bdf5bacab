// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the petitions API.

# Handler Types

PetitionHandler serves every read and action. It depends on a Store (the
*db.Store in production), the petition rules, and an optional Notifier (the
*hub.Hub):

	h := handlers.NewPetitionHandler(store, rules, hub)

The viewer comes from middleware.Identify via middleware.ViewerFromContext.

# Reads

	GET /config          → Config
	GET /snapshot        → Snapshot (all petitions, redacted for the viewer)
	GET /petitions       → List (view, category, status, search, sort)
	GET /petitions/{id}  → Details

List results carry display fields and permission flags (canSign,
canDelete, canReview, hasPlayerSigned) so panels never recompute them.

# Actions

	POST   /petitions                → Submit (201)
	POST   /petitions/{id}/sign      → Sign
	DELETE /petitions/{id}           → Delete
	POST   /petitions/{id}/status    → SetStatus
	POST   /petitions/{id}/approve   → Approve
	POST   /petitions/{id}/reject    → Reject
	POST   /petitions/{id}/complete  → Complete

Each action loads the stored petition, runs the matching view-model check
(ApplySignature, ApplyStatusChange, CanDelete, ValidateSubmission), persists,
and broadcasts an event. Races are settled by the database: the signature
unique index and the status compare-and-set.

# Errors

Errors are {error, message, code}. Codes map to statuses:

	validation_error      400
	unidentified          401
	unauthorized          403
	self_sign_forbidden   403
	not_found             404
	already_signed        409
	not_open_for_signing  409
	illegal_transition    409
	internal_error        500
*/
package handlers
