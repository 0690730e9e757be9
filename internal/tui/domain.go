package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var domainRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*\.)*[a-zA-Z0-9-]+$`)

type domainModel struct {
	state  *wizardState
	input  textinput.Model
	errMsg string
}

func newDomainModel(state *wizardState) *domainModel {
	ti := textinput.New()
	ti.Placeholder = state.cfg.Domain
	ti.CharLimit = 253
	ti.Width = 40

	return &domainModel{
		state: state,
		input: ti,
	}
}

func (m *domainModel) Init() tea.Cmd {
	m.input.SetValue(m.state.cfg.Domain)
	m.input.Focus()
	return textinput.Blink
}

func (m *domainModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenWelcome} }
		}
		if isEnter(msg) {
			val := strings.TrimSpace(m.input.Value())
			if val == "" {
				val = m.state.cfg.Domain
			}
			if !domainRegex.MatchString(val) {
				m.errMsg = "Invalid domain format"
				return m, nil
			}
			m.errMsg = ""
			m.state.cfg.Domain = val
			return m, func() tea.Msg { return navigateMsg{to: screenInstallDir} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *domainModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Domain"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("The hostname this deployment will answer on."))
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString(helpStyle.Render("\n  enter: accept  esc: back"))
	return b.String()
}
