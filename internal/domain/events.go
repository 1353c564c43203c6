package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchSubmitted EventType = "SearchSubmitted"
	EventSearchIssued    EventType = "SearchIssued"
	EventSearchCompleted EventType = "SearchCompleted"
	EventSearchFailed    EventType = "SearchFailed"
	EventSearchDiscarded EventType = "SearchDiscarded"
	EventError           EventType = "Error"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchSubmittedEvent is emitted when a query is queued
type SearchSubmittedEvent struct {
	Seq   uint64
	Query string
	At    time.Time
}

func (e SearchSubmittedEvent) Type() EventType { return EventSearchSubmitted }

// SearchIssuedEvent is emitted when a queued query is sent to the server
type SearchIssuedEvent struct {
	Seq       uint64
	Query     string
	RequestID string
}

func (e SearchIssuedEvent) Type() EventType { return EventSearchIssued }

// SearchCompletedEvent is emitted when results were rendered
type SearchCompletedEvent struct {
	Seq      uint64
	Query    string
	Count    int
	Duration time.Duration
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when a search ended in an error
type SearchFailedEvent struct {
	Seq   uint64
	Query string
	Err   error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// SearchDiscardedEvent is emitted when a response arrived after a newer
// search had been issued
type SearchDiscardedEvent struct {
	Seq    uint64
	Query  string
	Latest uint64
}

func (e SearchDiscardedEvent) Type() EventType { return EventSearchDiscarded }

// ErrorEvent is emitted when a background service fails
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path      string
	ServerURL string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
