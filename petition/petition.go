// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package petition

import "time"

// Status is the lifecycle state of a petition.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusCompleted}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// Signature is one citizen's endorsement of a petition.
type Signature struct {
	SignerID   string    `json:"signer_id"`
	SignerName string    `json:"signer_name"`
	SignedAt   time.Time `json:"signed_at"`
}

type Petition struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Content      string      `json:"content"`
	Category     string      `json:"category"`
	AuthorID     string      `json:"author_citizenid,omitempty"`
	AuthorName   string      `json:"author_name,omitempty"`
	IsAnonymous  bool        `json:"is_anonymous"`
	Status       Status      `json:"status"`
	AdminComment string      `json:"admin_comment,omitempty"`
	Signatures   []Signature `json:"signatures"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// SignatureCount returns the number of signatures collected so far.
func (p Petition) SignatureCount() int {
	return len(p.Signatures)
}

// Clone returns a deep copy so transforms never share the signatures slice.
func (p Petition) Clone() Petition {
	out := p
	if p.Signatures != nil {
		out.Signatures = make([]Signature, len(p.Signatures))
		copy(out.Signatures, p.Signatures)
	}
	return out
}

// Viewer is the identity currently interacting with the board.
// An empty ID means the caller did not identify itself.
type Viewer struct {
	ID      string `json:"citizenid"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

// Identified reports whether the viewer carries a citizen ID.
func (v Viewer) Identified() bool {
	return v.ID != ""
}

// Submission is a new petition as entered by a player.
type Submission struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Content     string `json:"content"`
	IsAnonymous bool   `json:"isAnonymous"`
}
