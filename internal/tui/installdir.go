package tui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type installDirModel struct {
	state  *wizardState
	input  textinput.Model
	errMsg string
}

func newInstallDirModel(state *wizardState) *installDirModel {
	ti := textinput.New()
	ti.Placeholder = state.cfg.InstallDir
	ti.CharLimit = 200
	ti.Width = 40

	return &installDirModel{
		state: state,
		input: ti,
	}
}

func (m *installDirModel) Init() tea.Cmd {
	m.input.SetValue(m.state.cfg.InstallDir)
	m.input.Focus()
	return textinput.Blink
}

func (m *installDirModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenDomain} }
		}
		if isEnter(msg) {
			val := strings.TrimSpace(m.input.Value())
			if val == "" {
				val = m.state.cfg.InstallDir
			}
			if !filepath.IsAbs(val) {
				m.errMsg = "Must be an absolute path"
				return m, nil
			}
			m.errMsg = ""
			m.state.cfg.InstallDir = filepath.Clean(val)
			return m, func() tea.Msg { return navigateMsg{to: screenModeSelect} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *installDirModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Install Directory"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Where the .env, compose file and backups live."))
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString(helpStyle.Render("\n  enter: accept  esc: back"))
	return b.String()
}
