package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type tokenModel struct {
	state  *wizardState
	input  textinput.Model
	errMsg string
}

func newTokenModel(state *wizardState) *tokenModel {
	ti := textinput.New()
	ti.Placeholder = "Cloudflare API token"
	ti.EchoMode = textinput.EchoPassword
	ti.CharLimit = 128
	ti.Width = 40

	return &tokenModel{
		state: state,
		input: ti,
	}
}

func (m *tokenModel) Init() tea.Cmd {
	m.input.SetValue(m.state.cfg.CloudflareToken)
	m.input.Focus()
	return textinput.Blink
}

func (m *tokenModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenEmail} }
		}
		if isEnter(msg) {
			val := strings.TrimSpace(m.input.Value())
			if val == "" {
				val = m.state.cfg.CloudflareToken
			}
			if val == "" {
				m.errMsg = "A token is required for the DNS challenge"
				return m, nil
			}
			m.errMsg = ""
			m.state.cfg.CloudflareToken = val
			return m, func() tea.Msg { return navigateMsg{to: screenRetention} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tokenModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Cloudflare API Token"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Needs Zone:DNS:Edit on the domain's zone. Stored owner-only on this host."))
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString(helpStyle.Render("\n  enter: accept  esc: back"))
	return b.String()
}
