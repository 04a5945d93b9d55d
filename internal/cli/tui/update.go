package tui

import tea "github.com/charmbracelet/bubbletea"

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		}

	case TickMsg:
		// Continue ticking for timer updates
		return m, tickCmd()

	case DoneMsg:
		m.Done = true
		return m, tea.Quit

	case VersionResolvedMsg:
		m.Version = msg.Version

	case BuildStartedMsg:
		if state, ok := m.index[msg.Variant]; ok {
			state.Phase = PhaseBuilding
			state.Tag = msg.Tag
		}

	case BuildSucceededMsg:
		if state, ok := m.index[msg.Variant]; ok {
			state.Phase = PhaseComplete
			m.Completed++
		}

	case BuildFailedMsg:
		if state, ok := m.index[msg.Variant]; ok {
			state.Phase = PhaseFailed
			state.Error = msg.Error
			m.Failed++
		}
	}

	return m, nil
}
