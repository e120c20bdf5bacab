// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package petition

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// View selects which list a panel is showing.
type View string

const (
	ViewActive       View = "active"
	ViewMine         View = "mine"
	ViewAdminPending View = "adminPending"
	ViewAdminAll     View = "adminAll"
)

// Sort orders a list.
type Sort string

const (
	SortNewest         Sort = "newest"
	SortOldest         Sort = "oldest"
	SortMostSignatures Sort = "mostSignatures"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

// Params are the user-selected filters of a list.
type Params struct {
	Category string
	Status   Status
	Search   string
	Sort     Sort
}

// ParseView maps a wire value to a View. Empty selects ViewActive.
func ParseView(s string) (View, error) {
	switch View(s) {
	case "", "all":
		return ViewActive, nil
	case ViewActive, ViewMine, ViewAdminPending, ViewAdminAll:
		return View(s), nil
	case "my":
		return ViewMine, nil
	}
	return "", invalid("view", "unknown view "+strconv.Quote(s))
}

// ParseSort maps a wire value to a Sort. Empty selects SortNewest.
// "signatures" is accepted for SortMostSignatures.
func ParseSort(s string) (Sort, error) {
	switch Sort(s) {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortMostSignatures:
		return Sort(s), nil
	case "signatures":
		return SortMostSignatures, nil
	}
	return "", invalid("sort", "unknown sort "+strconv.Quote(s))
}

// ParseStatus maps a wire value to a Status. Empty and "all" yield the
// empty status, which disables status filtering.
func ParseStatus(s string) (Status, error) {
	if s == "" || s == "all" {
		return "", nil
	}
	if st := Status(s); st.Valid() {
		return st, nil
	}
	return "", invalid("status", "unknown status "+strconv.Quote(s))
}

// ListFor derives the ordered subset of snapshot a panel should render.
// The snapshot is never modified and the result shares no signature slices
// with it.
func ListFor(view View, viewer Viewer, snapshot []Petition, params Params, rules Rules) []Petition {
	search := newMatcher(params.Search)
	out := make([]Petition, 0, len(snapshot))
	for _, p := range snapshot {
		if !inView(view, viewer, p, rules) {
			continue
		}
		if params.Category != "" && params.Category != CategoryAll && p.Category != params.Category {
			continue
		}
		if params.Status != "" && p.Status != params.Status {
			continue
		}
		if !search.match(p) {
			continue
		}
		out = append(out, p.Clone())
	}
	sortPetitions(out, params.Sort)
	return out
}

func inView(view View, viewer Viewer, p Petition, rules Rules) bool {
	switch view {
	case ViewActive, "":
		return p.Status == StatusApproved || p.Status == StatusCompleted
	case ViewMine:
		return viewer.Identified() && p.AuthorID == viewer.ID
	case ViewAdminPending:
		return viewer.IsAdmin && rules.ReviewEligible(p)
	case ViewAdminAll:
		return viewer.IsAdmin
	}
	return false
}

func sortPetitions(ps []Petition, by Sort) {
	var less func(a, b Petition) bool
	switch by {
	case SortOldest:
		less = func(a, b Petition) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		}
	case SortMostSignatures:
		less = func(a, b Petition) bool {
			if len(a.Signatures) != len(b.Signatures) {
				return len(a.Signatures) > len(b.Signatures)
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		}
	default:
		less = func(a, b Petition) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID < b.ID
		}
	}
	sort.SliceStable(ps, func(i, j int) bool { return less(ps[i], ps[j]) })
}

// matcher does case-insensitive substring search using Unicode case folding.
type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(search string) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.needle = m.fold.String(strings.TrimSpace(search))
	return m
}

func (m *matcher) match(p Petition) bool {
	if m.needle == "" {
		return true
	}
	if m.contains(p.Title) || m.contains(p.Content) || m.contains(p.Category) {
		return true
	}
	return !p.IsAnonymous && m.contains(p.AuthorName)
}

func (m *matcher) contains(s string) bool {
	return strings.Contains(m.fold.String(s), m.needle)
}
