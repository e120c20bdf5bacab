// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and push types for the API.

Domain types (Petition, Signature, Viewer, Rules) live in package petition;
this package only shapes them for the wire.

# Request Types

  - SubmitPetitionRequest: title, category, content, isAnonymous
  - SetStatusRequest: status, comment
  - ReviewRequest: comment (approve, reject, complete shorthands)

# Response Types

  - ActionResponse: success, message, petition
  - PetitionView: petition plus display fields and permission flags
  - ListResponse: view, sort, count, petitions
  - Snapshot: petitions, playerData, config
  - ErrorResponse: error, message, code

# Events

Pushed over the websocket channel:

	EventPetitionCreated       = "petition.created"
	EventPetitionSigned        = "petition.signed"
	EventPetitionDeleted       = "petition.deleted"
	EventPetitionStatusChanged = "petition.status_changed"
*/
package models
