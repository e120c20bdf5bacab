// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package petition

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// transitions lists every legal status change.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCompleted},
}

// CanTransition reports whether a petition may move from one status to another.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

// HasSigned reports whether citizenID already appears in the signatures.
func HasSigned(p Petition, citizenID string) bool {
	if citizenID == "" {
		return false
	}
	for _, s := range p.Signatures {
		if s.SignerID == citizenID {
			return true
		}
	}
	return false
}

// CanSign reports whether viewer may add a signature to p right now.
func CanSign(p Petition, viewer Viewer, rules Rules) bool {
	return viewer.Identified() &&
		p.Status == rules.SignableStatus &&
		viewer.ID != p.AuthorID &&
		!HasSigned(p, viewer.ID)
}

// CanDelete reports whether viewer may delete p.
func CanDelete(p Petition, viewer Viewer) bool {
	if !viewer.Identified() {
		return false
	}
	return viewer.ID == p.AuthorID || viewer.IsAdmin
}

// CanReview reports whether viewer may approve or reject p.
func CanReview(p Petition, viewer Viewer, rules Rules) bool {
	return viewer.IsAdmin && rules.ReviewEligible(p)
}

// ApplySignature returns a copy of p with signer's signature appended.
func ApplySignature(p Petition, signer Viewer, rules Rules, now time.Time) (Petition, error) {
	if !signer.Identified() {
		return Petition{}, ErrUnidentifiedViewer
	}
	if HasSigned(p, signer.ID) {
		return Petition{}, ErrAlreadySigned
	}
	if signer.ID == p.AuthorID {
		return Petition{}, ErrSelfSignForbidden
	}
	if p.Status != rules.SignableStatus {
		return Petition{}, ErrNotOpenForSigning
	}

	out := p.Clone()
	out.Signatures = append(out.Signatures, Signature{
		SignerID:   signer.ID,
		SignerName: signer.Name,
		SignedAt:   now,
	})
	return out, nil
}

// ApplyStatusChange returns a copy of p moved to newStatus by actor.
func ApplyStatusChange(p Petition, newStatus Status, comment string, actor Viewer, now time.Time) (Petition, error) {
	if !actor.IsAdmin {
		return Petition{}, ErrUnauthorized
	}
	if !CanTransition(p.Status, newStatus) {
		return Petition{}, ErrIllegalTransition
	}

	out := p.Clone()
	out.Status = newStatus
	out.AdminComment = strings.TrimSpace(comment)
	out.UpdatedAt = now
	return out, nil
}

// ValidateSubmission normalizes sub and checks it against rules.
func ValidateSubmission(sub Submission, rules Rules) (Submission, error) {
	sub.Title = strings.TrimSpace(sub.Title)
	sub.Content = strings.TrimSpace(sub.Content)
	sub.Category = strings.TrimSpace(sub.Category)

	if n := utf8.RuneCountInString(sub.Title); n < rules.MinTitleLen || n > rules.MaxTitleLen {
		return Submission{}, invalid("title", betweenMessage("Title", rules.MinTitleLen, rules.MaxTitleLen))
	}
	if n := utf8.RuneCountInString(sub.Content); n < rules.MinContentLen || n > rules.MaxContentLen {
		return Submission{}, invalid("content", betweenMessage("Content", rules.MinContentLen, rules.MaxContentLen))
	}
	if sub.Category == "" {
		return Submission{}, invalid("category", "Please select a category")
	}
	if !rules.HasCategory(sub.Category) {
		return Submission{}, invalid("category", "Unknown category "+strconv.Quote(sub.Category))
	}
	if sub.IsAnonymous && !rules.AllowAnonymous {
		return Submission{}, invalid("isAnonymous", "Anonymous petitions are not allowed")
	}
	return sub, nil
}

// Redact hides the author of an anonymous petition from viewers who are
// neither its author nor an admin.
func Redact(p Petition, viewer Viewer) Petition {
	if !p.IsAnonymous || viewer.IsAdmin || (viewer.Identified() && viewer.ID == p.AuthorID) {
		return p
	}
	p.AuthorID = ""
	p.AuthorName = ""
	return p
}

// DisplayAuthor is the author label shown on cards.
func DisplayAuthor(p Petition) string {
	if p.IsAnonymous || p.AuthorName == "" {
		return "Anonymous"
	}
	return p.AuthorName
}

func betweenMessage(what string, lo, hi int) string {
	return fmt.Sprintf("%s must be between %d and %d characters", what, lo, hi)
}
