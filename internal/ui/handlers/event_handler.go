package handlers

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"docgrip/internal/eventbus"
	"docgrip/internal/ui/state"
)

// EventHandler folds bus events into the UI state. Rendering itself never
// depends on these events; they only feed the counters and status messages.
type EventHandler struct {
	state *state.AppState
	log   zerolog.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(appState *state.AppState, log zerolog.Logger) *EventHandler {
	return &EventHandler{
		state: appState,
		log:   log.With().Str("component", "ui-events").Logger(),
	}
}

// HandleEvent processes domain events and returns any necessary commands
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.SearchSubmittedEvent:
		h.state.Stats.Submitted++

	case eventbus.SearchCompletedEvent:
		h.state.Stats.Completed++

	case eventbus.SearchFailedEvent:
		h.state.Stats.Failed++

	case eventbus.SearchDiscardedEvent:
		h.state.Stats.Discarded++
		h.log.Debug().Uint64("seq", e.Seq).Uint64("latest", e.Latest).Msg("Stale search discarded")

	case eventbus.ErrorEvent:
		h.log.Warn().Err(e.Err).Msg(e.Message)
		if e.Err != nil {
			h.state.StatusMessage = fmt.Sprintf("Error: %s: %v", e.Message, e.Err)
		} else {
			h.state.StatusMessage = fmt.Sprintf("Error: %s", e.Message)
		}

	case eventbus.ConfigLoadedEvent:
		h.state.StatusMessage = fmt.Sprintf("Loaded config from %s", e.Path)

	case eventbus.ConfigSavedEvent:
		h.state.StatusMessage = fmt.Sprintf("Config saved to %s", e.Path)
	}

	return nil
}
