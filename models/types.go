// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"github.com/MaplrCanada/ss-petitions/petition"
)

// Event type constants
const (
	EventPetitionCreated       = "petition.created"
	EventPetitionSigned        = "petition.signed"
	EventPetitionDeleted       = "petition.deleted"
	EventPetitionStatusChanged = "petition.status_changed"
)

// Request types

type SubmitPetitionRequest = petition.Submission

type SetStatusRequest struct {
	Status  petition.Status `json:"status"`
	Comment string          `json:"comment"`
}

type ReviewRequest struct {
	Comment string `json:"comment"`
}

// Response types

// ActionResponse mirrors the {success, message} callback result panels expect.
type ActionResponse struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	Petition *PetitionView `json:"petition,omitempty"`
}

// PetitionView is a petition as one viewer sees it, with the permission
// flags a panel needs to decide which buttons to show.
type PetitionView struct {
	petition.Petition
	DisplayAuthor string `json:"display_author"`
	NumSignatures int    `json:"signature_count"`
	Required      int    `json:"required_signatures"`
	CreatedAgo    string `json:"created_ago"`
	HasSigned     bool   `json:"hasPlayerSigned"`
	CanSign       bool   `json:"canSign"`
	CanDelete     bool   `json:"canDelete"`
	CanReview     bool   `json:"canReview"`
}

type ListResponse struct {
	View      petition.View  `json:"view"`
	Sort      petition.Sort  `json:"sort"`
	Count     int            `json:"count"`
	Petitions []PetitionView `json:"petitions"`
}

// Snapshot is everything a panel needs to render: the petitions the viewer
// may see, the viewer, and the board configuration.
type Snapshot struct {
	Petitions []petition.Petition `json:"petitions"`
	Viewer    petition.Viewer     `json:"playerData"`
	Config    petition.Rules      `json:"config"`
}

// Event is pushed to connected panels whenever the snapshot changes.
type Event struct {
	Type       string          `json:"type"`
	PetitionID string          `json:"petitionId,omitempty"`
	Status     petition.Status `json:"status,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
