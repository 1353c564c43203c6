package domain

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Query is the raw text of the search box at the moment Enter was pressed.
// It is never trimmed or validated; the empty string is a valid query.
type Query = string

// ResultItem is one ranked match returned by the search endpoint
type ResultItem struct {
	Path string
	Rank float64
}

// DisplayPath returns path with control characters escaped the way Go
// quotes them ("\n", "\x1b"), so a path always prints as one line of
// inert text
func DisplayPath(path string) string {
	if strings.IndexFunc(path, unicode.IsControl) < 0 {
		return path
	}
	var b strings.Builder
	for _, r := range path {
		if unicode.IsControl(r) {
			q := strconv.QuoteRune(r)
			b.WriteString(q[1 : len(q)-1])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ResultSet is an ordered list of matches, in the order the server returned them
type ResultSet []ResultItem

// Paths returns the result paths in order
func (rs ResultSet) Paths() []string {
	paths := make([]string, 0, len(rs))
	for _, item := range rs {
		paths = append(paths, item.Path)
	}
	return paths
}

// Outcome is the result of a single search. Exactly one of Results/Err is
// meaningful; Stale marks a response that was superseded by a newer search.
type Outcome struct {
	Seq       uint64
	Query     string
	RequestID string
	Results   ResultSet
	Err       error
	Stale     bool
	Duration  time.Duration
}

// OK reports whether the outcome should be rendered as results
func (o Outcome) OK() bool {
	return o.Err == nil && !o.Stale
}
