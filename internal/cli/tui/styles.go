package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains all lipgloss styles for the TUI
type Styles struct {
	// Header styling
	Title       lipgloss.Style
	Timer       lipgloss.Style
	VersionInfo lipgloss.Style

	// Variant styling
	VariantActive   lipgloss.Style
	VariantComplete lipgloss.Style
	VariantFailed   lipgloss.Style
	VariantName     lipgloss.Style

	// Phase text
	PhaseText lipgloss.Style

	// Footer styling
	Footer    lipgloss.Style
	FooterKey lipgloss.Style

	// Status counts
	StatusComplete lipgloss.Style
	StatusFailed   lipgloss.Style
	StatusActive   lipgloss.Style
}

// DefaultStyles returns the default TUI styles
func DefaultStyles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Timer:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		VersionInfo: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		VariantActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		VariantComplete: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		VariantFailed:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		VariantName:     lipgloss.NewStyle().Bold(true),

		PhaseText: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true),

		Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1),
		FooterKey: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),

		StatusComplete: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		StatusFailed:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		StatusActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// Icons used in the TUI
const (
	IconActive   = "●"
	IconComplete = "✓"
	IconFailed   = "✗"
	IconWaiting  = "○"
)
