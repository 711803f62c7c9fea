// Package assignment picks the engineer a new complaint is routed to.
//
// Specializations and category names are typed by people, so both sides are
// normalized (trimmed, lowercased) before comparison. An exact match always wins;
// only when no engineer matches exactly does a substring match in either direction
// count. Ties are broken by pool order: the first matching candidate is chosen.
package assignment

import "strings"

// MatchKind describes how an engineer was matched to a category.
type MatchKind string

const (
	MatchStrict MatchKind = "strict"
	MatchFuzzy  MatchKind = "fuzzy"
	MatchNone   MatchKind = "none"
)

// Candidate is an assignable engineer as seen by the resolver.
type Candidate struct {
	ID             int64
	Specialization string
}

// Match is the outcome of a successful resolution.
type Match struct {
	EngineerID int64
	Kind       MatchKind
}

// Normalize trims surrounding whitespace and lowercases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Resolve selects at most one engineer from pool for categoryName.
// The returned engineer is always a member of pool; ok is false when nobody matches.
func Resolve(categoryName string, pool []Candidate) (Match, bool) {
	target := Normalize(categoryName)
	if target == "" || len(pool) == 0 {
		return Match{Kind: MatchNone}, false
	}

	specs := make([]string, len(pool))
	for i, c := range pool {
		specs[i] = Normalize(c.Specialization)
	}

	for i, spec := range specs {
		if spec != "" && spec == target {
			return Match{EngineerID: pool[i].ID, Kind: MatchStrict}, true
		}
	}

	for i, spec := range specs {
		if spec == "" {
			continue
		}
		if strings.Contains(target, spec) || strings.Contains(spec, target) {
			return Match{EngineerID: pool[i].ID, Kind: MatchFuzzy}, true
		}
	}

	return Match{Kind: MatchNone}, false
}
