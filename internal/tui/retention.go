package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type retentionModel struct {
	state  *wizardState
	input  textinput.Model
	errMsg string
}

func newRetentionModel(state *wizardState) *retentionModel {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(state.cfg.BackupKeepDays)
	ti.CharLimit = 4
	ti.Width = 10

	return &retentionModel{
		state: state,
		input: ti,
	}
}

func (m *retentionModel) Init() tea.Cmd {
	m.input.SetValue(strconv.Itoa(m.state.cfg.BackupKeepDays))
	m.input.Focus()
	return textinput.Blink
}

func (m *retentionModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			back := beforeRetention(m.state.cfg)
			return m, func() tea.Msg { return navigateMsg{to: back} }
		}
		if isEnter(msg) {
			val := strings.TrimSpace(m.input.Value())
			if val == "" {
				val = strconv.Itoa(m.state.cfg.BackupKeepDays)
			}
			days, err := strconv.Atoi(val)
			if err != nil || days < 1 {
				m.errMsg = "Retention must be a positive number of days"
				return m, nil
			}
			m.errMsg = ""
			m.state.cfg.BackupKeepDays = days
			return m, func() tea.Msg { return navigateMsg{to: screenConfirm} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *retentionModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Backup Retention"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Nightly database dumps older than this many days are pruned."))
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString(helpStyle.Render("\n  enter: accept  esc: back"))
	return b.String()
}
