package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// VariantPhase is the display phase of a variant build
type VariantPhase string

const (
	PhaseWaiting  VariantPhase = "waiting"
	PhaseBuilding VariantPhase = "building + pushing"
	PhaseComplete VariantPhase = "pushed"
	PhaseFailed   VariantPhase = "failed"
)

// VariantState tracks the state of a single variant in the TUI
type VariantState struct {
	Name  string
	Tag   string
	Phase VariantPhase
	Error string
}

// Model is the bubbletea model for the TUI
type Model struct {
	// Configuration
	Parallelism int
	Styles      Styles

	// State
	Version   string
	Variants  []*VariantState // registry order
	index     map[string]*VariantState
	Completed int
	Failed    int
	StartTime time.Time

	// Control
	Quitting bool
	Done     bool
}

// NewModel creates a new TUI model for the named variants
func NewModel(variants []string, parallelism int) *Model {
	m := &Model{
		Parallelism: parallelism,
		Styles:      DefaultStyles(),
		StartTime:   time.Now(),
		index:       make(map[string]*VariantState),
	}
	for _, name := range variants {
		state := &VariantState{Name: name, Phase: PhaseWaiting}
		m.Variants = append(m.Variants, state)
		m.index[name] = state
	}
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// TickMsg is sent every second to update the timer
type TickMsg time.Time

// tickCmd returns a command that sends TickMsg every second
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// DoneMsg signals the TUI should exit
type DoneMsg struct{}

// VersionResolvedMsg carries the resolved release version
type VersionResolvedMsg struct {
	Version string
}

// BuildStartedMsg indicates a variant build has started
type BuildStartedMsg struct {
	Variant string
	Tag     string
}

// BuildSucceededMsg indicates a variant was pushed
type BuildSucceededMsg struct {
	Variant string
}

// BuildFailedMsg indicates a variant build or push failed
type BuildFailedMsg struct {
	Variant string
	Error   string
}
