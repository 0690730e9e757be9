package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matthew-on-git/bootstrap-infisical/internal/bootstrap"
)

type modeOption struct {
	value bootstrap.TLSMode
	label string
	desc  string
}

type modeSelectModel struct {
	state   *wizardState
	cursor  int
	options []modeOption
}

func newModeSelectModel(state *wizardState) *modeSelectModel {
	return &modeSelectModel{
		state: state,
		options: []modeOption{
			{value: bootstrap.TLSOff, label: "off", desc: "No TLS; serve plain HTTP on a port you choose"},
			{value: bootstrap.TLSHTTP01, label: "http01", desc: "Let's Encrypt via HTTP challenge; needs public port 80"},
			{value: bootstrap.TLSCloudflare, label: "dns-cloudflare", desc: "Let's Encrypt via Cloudflare DNS; no inbound port needed"},
		},
	}
}

func (m *modeSelectModel) Init() tea.Cmd {
	for i, opt := range m.options {
		if opt.value == m.state.cfg.TLSMode {
			m.cursor = i
			break
		}
	}
	return nil
}

func (m *modeSelectModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenInstallDir} }
		}
		if isUp(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isDown(msg) && m.cursor < len(m.options)-1 {
			m.cursor++
		}
		if isEnter(msg) {
			m.state.cfg.TLSMode = m.options[m.cursor].value
			next := afterMode(m.state.cfg)
			return m, func() tea.Msg { return navigateMsg{to: next} }
		}
	}
	return m, nil
}

func (m *modeSelectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("TLS Mode"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("How the deployment terminates TLS, if at all."))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		radio := radioOff
		label := normalStyle.Render(opt.label)
		if i == m.cursor {
			radio = radioOn
			label = selectedStyle.Render(opt.label)
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", radio, label))
		b.WriteString(fmt.Sprintf("      %s\n", mutedStyle.Render(opt.desc)))
	}

	b.WriteString(helpStyle.Render("\n  up/down: navigate  enter: select  esc: back"))
	return b.String()
}
