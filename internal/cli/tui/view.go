package tui

import (
	"fmt"
	"strings"
	"time"
)

// View implements tea.Model
func (m *Model) View() string {
	if m.Done || m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	for _, state := range m.Variants {
		b.WriteString(m.renderVariant(state))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title line with timer and version
func (m *Model) renderHeader() string {
	elapsed := time.Since(m.StartTime).Round(time.Second)
	timer := fmt.Sprintf("[%s]", formatDuration(elapsed))

	version := "resolving version..."
	if m.Version != "" {
		version = "version " + m.Version
	}

	return fmt.Sprintf("%s  %s  %s",
		m.Styles.Title.Render("relforge release"),
		m.Styles.Timer.Render(timer),
		m.Styles.VersionInfo.Render(version),
	)
}

// renderVariant renders a single variant line
func (m *Model) renderVariant(state *VariantState) string {
	var icon string
	switch state.Phase {
	case PhaseComplete:
		icon = m.Styles.VariantComplete.Render(IconComplete)
	case PhaseFailed:
		icon = m.Styles.VariantFailed.Render(IconFailed)
	case PhaseBuilding:
		icon = m.Styles.VariantActive.Render(IconActive)
	default:
		icon = m.Styles.Timer.Render(IconWaiting)
	}

	name := m.Styles.VariantName.Render(fmt.Sprintf("%-26s", state.Name))

	var detail string
	switch {
	case state.Error != "":
		detail = m.Styles.VariantFailed.Render(firstLine(state.Error))
	case state.Tag != "":
		detail = m.Styles.PhaseText.Render(fmt.Sprintf("%s: %s", state.Tag, state.Phase))
	default:
		detail = m.Styles.PhaseText.Render(string(state.Phase))
	}

	return fmt.Sprintf("  %s %s %s\n", icon, name, detail)
}

// renderStatusLine renders the summary status line
func (m *Model) renderStatusLine() string {
	active := 0
	for _, state := range m.Variants {
		if state.Phase == PhaseBuilding {
			active++
		}
	}

	complete := m.Styles.StatusComplete.Render(fmt.Sprintf("%d pushed", m.Completed))
	failed := m.Styles.StatusFailed.Render(fmt.Sprintf("%d failed", m.Failed))
	building := m.Styles.StatusActive.Render(fmt.Sprintf("%d building", active))

	return fmt.Sprintf("  Variants: %d/%d %s | %s | %s",
		m.Completed+m.Failed,
		len(m.Variants),
		complete,
		failed,
		building,
	)
}

// renderFooter renders the help text
func (m *Model) renderFooter() string {
	key := m.Styles.FooterKey.Render("q")
	return m.Styles.Footer.Render(fmt.Sprintf("  Press %s to quit", key))
}

// formatDuration formats a duration as HH:MM:SS
func formatDuration(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
