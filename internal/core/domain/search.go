package domain

import (
	"math"
	"strings"
	"unicode/utf8"
)

// MaxResults is the hard cap on results returned by any query.
const MaxResults = 50

// QueryResult is a matched skill with its ranking score.
// Score is used for ordering only.
type QueryResult struct {
	Skill

	// Score is the relevance score; higher ranks first.
	Score float64 `json:"-"`
}

// SearchOptions configures how many results a front end displays.
// The engine cap of MaxResults always applies first.
type SearchOptions struct {
	// Limit is the maximum number of results to show. Zero means MaxResults.
	Limit int
}

// Apply truncates results to the configured limit.
func (o SearchOptions) Apply(results []QueryResult) []QueryResult {
	if o.Limit <= 0 || o.Limit >= len(results) {
		return results
	}
	return results[:o.Limit]
}

// IsBlankQuery reports whether a query is empty after trimming whitespace.
func IsBlankQuery(q string) bool {
	return strings.TrimSpace(q) == ""
}

// LoadState is the lifecycle of the client-side index within a session.
type LoadState int

// Index load states.
const (
	// LoadStateUnloaded means no index exists and no fetch is in flight.
	LoadStateUnloaded LoadState = iota

	// LoadStateLoading means a snapshot fetch is in flight.
	LoadStateLoading

	// LoadStateReady means an index is available for queries.
	LoadStateReady
)

// String returns the state name.
func (s LoadState) String() string {
	switch s {
	case LoadStateUnloaded:
		return "unloaded"
	case LoadStateLoading:
		return "loading"
	case LoadStateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// SearchView is everything a renderer needs to draw the search surface.
type SearchView struct {
	// State is the index load state.
	State LoadState

	// Live is the raw input value, updated on every keystroke.
	Live string

	// Committed is the settled input value that was last queried.
	Committed string

	// Results are the ranked results for Committed.
	Results []QueryResult

	// Loading is true while the snapshot fetch is in flight.
	Loading bool

	// Pending is true while a query is running. Queries are synchronous
	// once the index is ready, so this is always false.
	Pending bool

	// Err is the last load failure, cleared on success.
	Err error
}

// FocusTarget describes what currently holds keyboard focus.
type FocusTarget int

// Focus targets.
const (
	// FocusNone means no element holds focus.
	FocusNone FocusTarget = iota

	// FocusList means a non-editable element such as a result list holds focus.
	FocusList

	// FocusTextEntry means a text input or text area holds focus.
	FocusTextEntry
)

// SearchHotkey focuses the search input.
const SearchHotkey = "/"

const (
	// fuzzyFraction is the share of a query term's length that may be edited.
	fuzzyFraction = 0.2

	// MaxFuzzyEdits caps the tolerance for very long terms.
	MaxFuzzyEdits = 6
)

// FuzzyEdits returns the edit-distance tolerance for a query term: a fifth
// of its length in runes, rounded. Terms of one rune or fewer match exactly.
func FuzzyEdits(term string) int {
	n := utf8.RuneCountInString(term)
	if n <= 1 {
		return 0
	}
	d := int(math.Round(fuzzyFraction * float64(n)))
	if d > MaxFuzzyEdits {
		return MaxFuzzyEdits
	}
	return d
}
