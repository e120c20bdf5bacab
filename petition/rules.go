// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package petition

import (
	"errors"
	"fmt"
	"slices"
)

// ReviewPolicy decides when a pending petition becomes eligible for review.
type ReviewPolicy string

const (
	// ReviewImmediate admits every pending petition to review.
	ReviewImmediate ReviewPolicy = "immediate"
	// ReviewThreshold admits pending petitions once they reach RequiredSignatures.
	ReviewThreshold ReviewPolicy = "threshold"
)

// Rules is the board configuration shared with every panel.
type Rules struct {
	MinTitleLen        int          `json:"minTitleLen" mapstructure:"min_title_len"`
	MaxTitleLen        int          `json:"maxTitleLen" mapstructure:"max_title_len"`
	MinContentLen      int          `json:"minContentLen" mapstructure:"min_content_len"`
	MaxContentLen      int          `json:"maxContentLen" mapstructure:"max_content_len"`
	RequiredSignatures int          `json:"requiredSignatures" mapstructure:"required_signatures"`
	Categories         []string     `json:"categories" mapstructure:"categories"`
	AllowAnonymous     bool         `json:"allowAnonymous" mapstructure:"allow_anonymous"`
	SignableStatus     Status       `json:"signableStatus" mapstructure:"signable_status"`
	ReviewPolicy       ReviewPolicy `json:"reviewPolicy" mapstructure:"review_policy"`
}

// DefaultRules returns the stock board configuration.
func DefaultRules() Rules {
	return Rules{
		MinTitleLen:        5,
		MaxTitleLen:        100,
		MinContentLen:      10,
		MaxContentLen:      500,
		RequiredSignatures: 15,
		Categories:         []string{"General", "Economy", "Law Enforcement", "Infrastructure", "Other"},
		AllowAnonymous:     true,
		SignableStatus:     StatusApproved,
		ReviewPolicy:       ReviewImmediate,
	}
}

// Validate checks that the rules describe a usable board.
func (r Rules) Validate() error {
	var errs []error
	if r.MinTitleLen < 1 || r.MaxTitleLen < r.MinTitleLen {
		errs = append(errs, fmt.Errorf("title bounds %d..%d are invalid", r.MinTitleLen, r.MaxTitleLen))
	}
	if r.MinContentLen < 1 || r.MaxContentLen < r.MinContentLen {
		errs = append(errs, fmt.Errorf("content bounds %d..%d are invalid", r.MinContentLen, r.MaxContentLen))
	}
	if r.RequiredSignatures < 0 {
		errs = append(errs, errors.New("required signatures must not be negative"))
	}
	if len(r.Categories) == 0 {
		errs = append(errs, errors.New("at least one category is required"))
	}
	seen := make(map[string]bool, len(r.Categories))
	for _, c := range r.Categories {
		if c == "" || c == "all" {
			errs = append(errs, fmt.Errorf("category %q is reserved", c))
		}
		if seen[c] {
			errs = append(errs, fmt.Errorf("duplicate category %q", c))
		}
		seen[c] = true
	}
	if r.SignableStatus != StatusPending && r.SignableStatus != StatusApproved {
		errs = append(errs, fmt.Errorf("signable status must be pending or approved, got %q", r.SignableStatus))
	}
	switch r.ReviewPolicy {
	case ReviewImmediate:
	case ReviewThreshold:
		// Pending petitions could never collect the signatures they need.
		if r.SignableStatus == StatusApproved {
			errs = append(errs, errors.New("review policy threshold requires signable status pending"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown review policy %q", r.ReviewPolicy))
	}
	return errors.Join(errs...)
}

// HasCategory reports whether c is one of the configured categories.
func (r Rules) HasCategory(c string) bool {
	return slices.Contains(r.Categories, c)
}

// ReviewEligible reports whether a pending petition may be reviewed under
// the configured policy. Non-pending petitions are never eligible.
func (r Rules) ReviewEligible(p Petition) bool {
	if p.Status != StatusPending {
		return false
	}
	if r.ReviewPolicy == ReviewThreshold {
		return p.SignatureCount() >= r.RequiredSignatures
	}
	return true
}
