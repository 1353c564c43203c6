package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"docgrip/internal/domain"
)

// messageSender is the part of *tea.Program the sink needs
type messageSender interface {
	Send(msg tea.Msg)
}

// ProgramSink delivers search results to the UI as tea messages. Program.Send
// keeps them in the order the search controller produced them.
type ProgramSink struct {
	program messageSender
}

// NewProgramSink creates a sink that sends to p
func NewProgramSink(p messageSender) *ProgramSink {
	return &ProgramSink{program: p}
}

func (s *ProgramSink) Clear(seq uint64, query string) {
	s.program.Send(searchStartedMsg{seq: seq, query: query})
}

func (s *ProgramSink) Render(outcome domain.Outcome) {
	s.program.Send(searchResultMsg{outcome: outcome})
}

func (s *ProgramSink) Fail(outcome domain.Outcome) {
	s.program.Send(searchFailedMsg{outcome: outcome})
}

func (s *ProgramSink) Discard(outcome domain.Outcome) {
	s.program.Send(searchDiscardedMsg{outcome: outcome})
}
