package input

import "strings"

// History holds previously submitted queries for up/down recall
type History struct {
	entries []string // oldest first
	max     int
	pos     int // len(entries) when not browsing
	draft   string
}

// NewHistory creates a history capped at max entries; max <= 0 means no cap
func NewHistory(max int) *History {
	return &History{max: max}
}

// Load replaces the entries with queries given newest first
func (h *History) Load(newestFirst []string) {
	h.entries = h.entries[:0]
	for i := len(newestFirst) - 1; i >= 0; i-- {
		h.Add(newestFirst[i])
	}
	h.Reset()
}

// Add appends a submitted query. Blank queries and repeats of the last entry
// are not stored.
func (h *History) Add(query string) {
	defer h.Reset()
	if strings.TrimSpace(query) == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == query {
		return
	}
	h.entries = append(h.entries, query)
	if h.max > 0 && len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Prev steps to the previous (older) query. current is kept as a draft so
// stepping forward past the newest entry restores it.
func (h *History) Prev(current string) (string, bool) {
	if h.pos == 0 {
		return "", false
	}
	if h.pos == len(h.entries) {
		h.draft = current
	}
	h.pos--
	return h.entries[h.pos], true
}

// Next steps to the next (newer) query, ending at the saved draft
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.pos], true
}

// Reset stops browsing
func (h *History) Reset() {
	h.pos = len(h.entries)
	h.draft = ""
}

// Len returns the number of stored queries
func (h *History) Len() int {
	return len(h.entries)
}
