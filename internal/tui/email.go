package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matthew-on-git/bootstrap-infisical/internal/bootstrap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type emailModel struct {
	state  *wizardState
	input  textinput.Model
	errMsg string
}

func newEmailModel(state *wizardState) *emailModel {
	ti := textinput.New()
	ti.Placeholder = "admin@" + state.cfg.Domain
	ti.CharLimit = 254
	ti.Width = 40

	return &emailModel{
		state: state,
		input: ti,
	}
}

func (m *emailModel) Init() tea.Cmd {
	m.input.SetValue(m.state.cfg.Email)
	m.input.Focus()
	return textinput.Blink
}

func (m *emailModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenModeSelect} }
		}
		if isEnter(msg) {
			val := strings.TrimSpace(m.input.Value())
			if val == "" {
				val = m.state.cfg.Email
			}
			if !emailRegex.MatchString(val) {
				m.errMsg = "A valid email is required for certificate registration"
				return m, nil
			}
			m.errMsg = ""
			m.state.cfg.Email = val
			next := screenRetention
			if m.state.cfg.TLSMode == bootstrap.TLSCloudflare {
				next = screenToken
			}
			return m, func() tea.Msg { return navigateMsg{to: next} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *emailModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Certificate Email"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Let's Encrypt sends expiry notices here."))
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString(helpStyle.Render("\n  enter: accept  esc: back"))
	return b.String()
}
