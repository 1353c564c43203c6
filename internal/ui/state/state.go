package state

import (
	"time"

	"docgrip/internal/domain"
)

// SearchStats counts search outcomes for the status line
type SearchStats struct {
	Submitted int
	Completed int
	Failed    int
	Discarded int
}

// AppState contains all the application state
type AppState struct {
	// Current search
	Query     string           // query of the search shown in the results panel
	Seq       uint64           // sequence number of the search shown
	Searching bool             // a search has been issued and not answered yet
	Results   domain.ResultSet // rendered results; nil before the first search
	Err       error            // error of the last search, if it failed
	RequestID string
	Duration  time.Duration

	// Results panel
	SelectedIndex  int // highlighted result
	ViewportOffset int // first visible result
	ViewportHeight int // rows available for results
	ShowRank       bool

	// UI state
	InPagerMode   bool
	StatusMessage string // transient status bar message

	Stats SearchStats
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{
		ViewportHeight: 20, // Default
	}
}

// StartSearch clears the results panel for a newly issued search
func (s *AppState) StartSearch(seq uint64, query string) {
	s.Seq = seq
	s.Query = query
	s.Searching = true
	s.Results = domain.ResultSet{}
	s.Err = nil
	s.RequestID = ""
	s.Duration = 0
	s.SelectedIndex = 0
	s.ViewportOffset = 0
}

// ShowOutcome replaces the results panel with a finished search
func (s *AppState) ShowOutcome(outcome domain.Outcome) {
	s.Seq = outcome.Seq
	s.Query = outcome.Query
	s.Searching = false
	s.RequestID = outcome.RequestID
	s.Duration = outcome.Duration
	s.Err = outcome.Err
	s.SelectedIndex = 0
	s.ViewportOffset = 0
	if outcome.Err != nil {
		s.Results = domain.ResultSet{}
		return
	}
	s.Results = outcome.Results
}

// ResultCount returns the number of rendered results
func (s *AppState) ResultCount() int {
	return len(s.Results)
}

// MaxIndex returns the last valid result index
func (s *AppState) MaxIndex() int {
	if len(s.Results) == 0 {
		return 0
	}
	return len(s.Results) - 1
}

// EnsureSelectedVisible scrolls the viewport so the selected result is shown
func (s *AppState) EnsureSelectedVisible() {
	if s.ViewportHeight <= 0 {
		return
	}
	if s.SelectedIndex < s.ViewportOffset {
		s.ViewportOffset = s.SelectedIndex
	} else if s.SelectedIndex >= s.ViewportOffset+s.ViewportHeight {
		s.ViewportOffset = s.SelectedIndex - s.ViewportHeight + 1
	}
	if s.ViewportOffset < 0 {
		s.ViewportOffset = 0
	}
}

// Move moves the selection by delta, clamped to the result list
func (s *AppState) Move(delta int) {
	s.SelectedIndex += delta
	if s.SelectedIndex > s.MaxIndex() {
		s.SelectedIndex = s.MaxIndex()
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
	s.EnsureSelectedVisible()
}
