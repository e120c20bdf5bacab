// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package petition

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// similarityThreshold is the largest normalized edit distance at which two
// titles count as the same petition.
const similarityThreshold = 0.2

// FindSimilar returns the first open petition by authorID whose title is
// near-identical to title. Open means pending or approved.
func FindSimilar(snapshot []Petition, authorID, title string) (Petition, bool) {
	if authorID == "" {
		return Petition{}, false
	}
	for _, p := range snapshot {
		if p.AuthorID != authorID || p.Status.Terminal() {
			continue
		}
		if similarTitles(p.Title, title) {
			return p, true
		}
	}
	return Petition{}, false
}

// CheckDuplicate returns a *ValidationError when authorID already has an
// open petition with a near-identical title.
func CheckDuplicate(snapshot []Petition, authorID, title string) error {
	if p, ok := FindSimilar(snapshot, authorID, title); ok {
		return invalid("title", "You already have an open petition titled "+strconv.Quote(p.Title))
	}
	return nil
}

func similarTitles(a, b string) bool {
	a = strings.ToLower(strings.Join(strings.Fields(a), " "))
	b = strings.ToLower(strings.Join(strings.Fields(b), " "))
	if a == "" || b == "" {
		return false
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	dist := levenshtein.ComputeDistance(a, b)
	return float64(dist)/float64(longest) < similarityThreshold
}
