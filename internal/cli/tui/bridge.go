package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/relforge/relforge/internal/events"
)

// Bridge connects the event bus to the bubbletea program
type Bridge struct {
	program *tea.Program
}

// NewBridge creates a new bridge for the given program
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{
		program: program,
	}
}

// Handler returns an event handler function for the event bus
func (b *Bridge) Handler() events.Handler {
	return func(evt events.Event) {
		msg := b.eventToMsg(evt)
		if msg != nil {
			b.program.Send(msg)
		}
	}
}

// eventToMsg converts an events.Event to a tea.Msg
func (b *Bridge) eventToMsg(evt events.Event) tea.Msg {
	switch evt.Type {
	case events.RunVersionResolved:
		version := ""
		if payload, ok := evt.Payload.(map[string]any); ok {
			if v, ok := payload["version"].(string); ok {
				version = v
			}
		}
		return VersionResolvedMsg{Version: version}

	case events.BuildStarted:
		tag := ""
		if payload, ok := evt.Payload.(map[string]any); ok {
			if t, ok := payload["tag"].(string); ok {
				tag = t
			}
		}
		return BuildStartedMsg{Variant: evt.Variant, Tag: tag}

	case events.BuildSucceeded:
		return BuildSucceededMsg{Variant: evt.Variant}

	case events.BuildFailed:
		return BuildFailedMsg{Variant: evt.Variant, Error: evt.Error}

	default:
		return nil
	}
}

// SendDone sends a DoneMsg to the program
func (b *Bridge) SendDone() {
	b.program.Send(DoneMsg{})
}
