// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package petition is the view model of the petition board.

Everything here is pure: functions take a snapshot of petitions, a viewer and
the board rules, and return new values. Persisting and broadcasting results is
the caller's job.

# Lists

ListFor filters and orders a snapshot for one panel:

	list := petition.ListFor(petition.ViewActive, viewer, snapshot, petition.Params{
		Category: "Economy",
		Search:   "road",
		Sort:     petition.SortMostSignatures,
	}, rules)

Views:

  - ViewActive: approved and completed petitions
  - ViewMine: petitions authored by the viewer, any status
  - ViewAdminPending: pending petitions eligible for review (admins only)
  - ViewAdminAll: every petition (admins only)

# Permissions

CanSign, CanDelete and CanReview are the single source of truth for which
buttons a panel shows and which actions the server accepts.

# Lifecycle

	pending ──> approved ──> completed
	   │
	   └──> rejected

ApplySignature and ApplyStatusChange return a modified copy or one of the
sentinel errors (ErrAlreadySigned, ErrSelfSignForbidden, ErrNotOpenForSigning,
ErrUnauthorized, ErrIllegalTransition). Submissions are checked with
ValidateSubmission, which returns a *ValidationError.

# Rules

Rules carries the configurable bounds, categories, signature threshold and the
two policy switches: SignableStatus (which status accepts signatures) and
ReviewPolicy (whether pending petitions need RequiredSignatures before review).
*/
package petition
