package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type portModel struct {
	state  *wizardState
	input  textinput.Model
	errMsg string
}

func newPortModel(state *wizardState) *portModel {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(state.cfg.HTTPPort)
	ti.CharLimit = 5
	ti.Width = 10

	return &portModel{
		state: state,
		input: ti,
	}
}

func (m *portModel) Init() tea.Cmd {
	m.input.SetValue(strconv.Itoa(m.state.cfg.HTTPPort))
	m.input.Focus()
	return textinput.Blink
}

func (m *portModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenModeSelect} }
		}
		if isEnter(msg) {
			val := strings.TrimSpace(m.input.Value())
			if val == "" {
				val = strconv.Itoa(m.state.cfg.HTTPPort)
			}
			port, err := strconv.Atoi(val)
			if err != nil || port < 1 || port > 65535 {
				m.errMsg = "Port must be between 1 and 65535"
				return m, nil
			}
			m.errMsg = ""
			m.state.cfg.HTTPPort = port
			return m, func() tea.Msg { return navigateMsg{to: screenRetention} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *portModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Listen Port"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("The backend is exposed directly on this port (no proxy in front)."))
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString(helpStyle.Render("\n  enter: accept  esc: back"))
	return b.String()
}
