package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matthew-on-git/bootstrap-infisical/internal/bootstrap"
)

type screen int

const (
	screenWelcome screen = iota
	screenDomain
	screenInstallDir
	screenModeSelect
	screenEmail
	screenToken
	screenPort
	screenRetention
	screenConfirm
)

type navigateMsg struct {
	to screen
}

type wizardState struct {
	cfg       bootstrap.Config
	confirmed bool
}

type screenModel interface {
	Init() tea.Cmd
	Update(tea.Msg) (screenModel, tea.Cmd)
	View() string
}

type rootModel struct {
	current  screen
	state    *wizardState
	screens  map[screen]screenModel
	width    int
	height   int
	quitting bool
}

// RunWizard walks the operator through every field, prefilled with the
// computed defaults, and reports whether the final confirmation was accepted.
func RunWizard(defaults bootstrap.Config) (bootstrap.Config, bool, error) {
	state := &wizardState{cfg: defaults}
	screens := map[screen]screenModel{
		screenWelcome:    newWelcomeModel(),
		screenDomain:     newDomainModel(state),
		screenInstallDir: newInstallDirModel(state),
		screenModeSelect: newModeSelectModel(state),
		screenEmail:      newEmailModel(state),
		screenToken:      newTokenModel(state),
		screenPort:       newPortModel(state),
		screenRetention:  newRetentionModel(state),
		screenConfirm:    newConfirmModel(state),
	}

	m := rootModel{
		current: screenWelcome,
		state:   state,
		screens: screens,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return defaults, false, err
	}
	return state.cfg, state.confirmed, nil
}

func (m rootModel) Init() tea.Cmd {
	return m.screens[m.current].Init()
}

func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if isQuit(msg) {
			m.quitting = true
			return m, tea.Quit
		}

	case navigateMsg:
		m.current = msg.to
		s := m.screens[m.current]
		return m, s.Init()
	}

	s := m.screens[m.current]
	newScreen, cmd := s.Update(msg)
	m.screens[m.current] = newScreen
	return m, cmd
}

func (m rootModel) View() string {
	if m.quitting {
		return ""
	}
	return m.screens[m.current].View()
}

// afterMode decides which screen follows the TLS-mode choice; later fields
// only apply to some modes.
func afterMode(cfg bootstrap.Config) screen {
	if cfg.TLSMode == bootstrap.TLSOff {
		return screenPort
	}
	return screenEmail
}

// beforeRetention is the screen esc returns to from the retention input.
func beforeRetention(cfg bootstrap.Config) screen {
	switch cfg.TLSMode {
	case bootstrap.TLSOff:
		return screenPort
	case bootstrap.TLSCloudflare:
		return screenToken
	default:
		return screenEmail
	}
}
