package events

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a single occurrence in the release lifecycle
type Event struct {
	// Time is when the event occurred (set by bus on emit)
	Time time.Time `json:"time"`

	// Type identifies what happened
	Type EventType `json:"type"`

	// Variant is the image variant this event relates to (empty for run events)
	Variant string `json:"variant,omitempty"`

	// Payload contains event-specific data (type varies by event)
	Payload any `json:"payload,omitempty"`

	// Error contains error message if this is a failure event
	Error string `json:"error,omitempty"`
}

// EventType is a string constant identifying the event category
type EventType string

// Run lifecycle events
const (
	RunStarted         EventType = "run.started"
	RunVersionResolved EventType = "run.version.resolved"
	RunCompleted       EventType = "run.completed"
	RunFailed          EventType = "run.failed"
)

// Build lifecycle events
const (
	BuildStarted   EventType = "build.started"
	BuildSucceeded EventType = "build.succeeded"
	BuildFailed    EventType = "build.failed"
)

// NewEvent creates an event with the given type and variant
func NewEvent(eventType EventType, variant string) Event {
	return Event{
		Type:    eventType,
		Variant: variant,
	}
}

// WithPayload returns a copy of the event with the payload set
func (e Event) WithPayload(payload any) Event {
	e.Payload = payload
	return e
}

// WithError returns a copy of the event with the error message set
func (e Event) WithError(err error) Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// IsFailure returns true if this is a failure event type
func (e Event) IsFailure() bool {
	return strings.HasSuffix(string(e.Type), ".failed")
}

// String returns a human-readable representation of the event
func (e Event) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", e.Type))

	if e.Variant != "" {
		parts = append(parts, e.Variant)
	}

	if e.Error != "" {
		parts = append(parts, fmt.Sprintf("error=%q", e.Error))
	}

	return strings.Join(parts, " ")
}
