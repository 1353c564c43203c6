package ui

import (
	"docgrip/internal/domain"
	"docgrip/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// searchStartedMsg is sent when a search is issued and the panel must clear
type searchStartedMsg struct {
	seq   uint64
	query string
}

// searchResultMsg carries results to render
type searchResultMsg struct {
	outcome domain.Outcome
}

// searchFailedMsg carries a failed search
type searchFailedMsg struct {
	outcome domain.Outcome
}

// searchDiscardedMsg reports a stale response that was not rendered
type searchDiscardedMsg struct {
	outcome domain.Outcome
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// clearStatusMsg clears a transient status message
type clearStatusMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
