package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matthew-on-git/bootstrap-infisical/internal/bootstrap"
)

type confirmModel struct {
	state  *wizardState
	cursor int
}

func newConfirmModel(state *wizardState) *confirmModel {
	return &confirmModel{state: state}
}

func (m *confirmModel) Init() tea.Cmd {
	m.cursor = 0
	return nil
}

func (m *confirmModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenRetention} }
		}
		if isUp(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isDown(msg) && m.cursor < 1 {
			m.cursor++
		}
		if isEnter(msg) {
			if m.cursor == 0 {
				m.state.confirmed = true
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *confirmModel) View() string {
	cfg := m.state.cfg
	var b strings.Builder

	b.WriteString(titleStyle.Render("Review"))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("  %s %s\n", mutedStyle.Render(fmt.Sprintf("%-16s", label)), normalStyle.Render(value)))
	}

	row("Domain", cfg.Domain)
	row("Install dir", cfg.InstallDir)
	row("TLS mode", string(cfg.TLSMode))
	switch cfg.TLSMode {
	case bootstrap.TLSOff:
		row("Listen port", fmt.Sprintf("%d", cfg.HTTPPort))
	case bootstrap.TLSCloudflare:
		row("Email", cfg.Email)
		row("CF token", strings.Repeat("*", 8))
	default:
		row("Email", cfg.Email)
	}
	row("Retention", fmt.Sprintf("%d days", cfg.BackupKeepDays))
	row("Site URL", cfg.SiteURL())

	b.WriteString("\n")
	options := []string{"Deploy", "Cancel"}
	for i, opt := range options {
		radio := radioOff
		label := normalStyle.Render(opt)
		if i == m.cursor {
			radio = radioOn
			label = selectedStyle.Render(opt)
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", radio, label))
	}

	b.WriteString(helpStyle.Render("\n  up/down: navigate  enter: select  esc: back"))
	return b.String()
}
