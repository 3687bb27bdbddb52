// Package tui implements the interactive roster editor.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/photogolffrance/coupe-hdf-app/internal/config"
	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
	"github.com/photogolffrance/coupe-hdf-app/internal/logging"
	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
	"github.com/photogolffrance/coupe-hdf-app/internal/selection"
	"github.com/photogolffrance/coupe-hdf-app/internal/store"
)

type mode int

const (
	modeNormal mode = iota
	modePrompt
	modeConfirm
)

// promptKind says what the text input is collecting.
type promptKind int

const (
	promptAddName promptKind = iota
	promptAddIndex
	promptEditIndex
	promptRename
)

type confirmKind int

const (
	confirmReset confirmKind = iota
	confirmQuit
)

// rosterChangedMsg is sent when the roster file changes on disk.
type rosterChangedMsg struct{}

// Options configures a Model.
type Options struct {
	Store    store.Store
	Selector *selection.Selector
	Config   config.TUIConfig
	Logger   *logging.Logger
	// Changes, when set, reports external changes to the roster file.
	Changes <-chan struct{}
}

// Model is the Bubbletea model for the roster editor
type Model struct {
	ctx      context.Context
	store    store.Store
	selector *selection.Selector
	cfg      config.TUIConfig
	logger   *logging.Logger
	changes  <-chan struct{}

	players []roster.Player
	cursor  int
	dirty   bool

	mode      mode
	prompt    promptKind
	confirm   confirmKind
	textInput textinput.Model
	newName   string // name typed before the index when adding

	result   *selection.Result
	errorMsg string
	infoMsg  string

	width    int
	height   int
	quitting bool
}

// New loads the roster from the store and returns the editor model.
func New(ctx context.Context, opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	selector := opts.Selector
	if selector == nil {
		selector = selection.NewSelector(selection.DefaultRules(), selection.WithLogger(logger))
	}
	nameWidth := opts.Config.NameWidth
	if nameWidth < config.MinNameWidth {
		opts.Config.NameWidth = config.Default().TUI.NameWidth
	} else if nameWidth > config.MaxNameWidth {
		opts.Config.NameWidth = config.MaxNameWidth
	}

	players, err := opts.Store.Load(ctx)
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.CharLimit = 60
	ti.Width = 40

	return Model{
		ctx:       ctx,
		store:     opts.Store,
		selector:  selector,
		cfg:       opts.Config,
		logger:    logger,
		changes:   opts.Changes,
		players:   players,
		textInput: ti,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChange(m.changes))
}

// waitForChange blocks on the watcher channel until the roster changes.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return rosterChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case rosterChangedMsg:
		m.handleExternalChange()
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		// Clear messages on any key
		m.errorMsg = ""
		m.infoMsg = ""

		switch m.mode {
		case modePrompt:
			return m.handlePromptKeypress(msg)
		case modeConfirm:
			return m.handleConfirmKeypress(msg)
		}
		return m.handleKeypress(msg)
	}

	return m, nil
}

func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.dirty && msg.String() == "q" {
			m.mode = modeConfirm
			m.confirm = confirmQuit
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.players)-1 {
			m.cursor++
		}

	case "g", "home":
		m.cursor = 0

	case "G", "end":
		m.cursor = max(len(m.players)-1, 0)

	case " ":
		m.updateCurrent(func(p *roster.Player) { p.Available = !p.Available })

	case "c":
		m.updateCurrent(func(p *roster.Player) { p.CaptainPick = !p.CaptainPick })

	case "a":
		m.openPrompt(promptAddName, "")

	case "e":
		if p, ok := m.current(); ok {
			m.openPrompt(promptEditIndex, selection.FormatIndex(p.Index))
		}

	case "r":
		if p, ok := m.current(); ok {
			m.openPrompt(promptRename, p.Name)
		}

	case "d", "delete":
		m.deleteCurrent()

	case "n":
		m.setPlayers(roster.SortByName(m.players))
		m.infoMsg = "Sorted by name"

	case "i":
		m.setPlayers(roster.SortByIndex(m.players))
		m.infoMsg = "Sorted by index"

	case "s":
		m.runSelection()

	case "w", "ctrl+s":
		m.save()

	case "R":
		if m.cfg.ConfirmReset {
			m.mode = modeConfirm
			m.confirm = confirmReset
			return m, nil
		}
		m.reset()

	case "esc":
		m.result = nil
	}

	return m, nil
}

func (m Model) handlePromptKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil

	case "enter":
		m.submitPrompt(strings.TrimSpace(m.textInput.Value()))
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	switch msg.String() {
	case "y", "Y":
		switch m.confirm {
		case confirmReset:
			m.reset()
		case confirmQuit:
			m.quitting = true
			return m, tea.Quit
		}
	case "w":
		if m.confirm == confirmQuit {
			m.save()
			if m.dirty {
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) openPrompt(kind promptKind, value string) {
	m.mode = modePrompt
	m.prompt = kind
	m.textInput.SetValue(value)
	m.textInput.CursorEnd()
	m.textInput.Focus()
}

func (m *Model) closePrompt() {
	m.mode = modeNormal
	m.newName = ""
	m.textInput.SetValue("")
	m.textInput.Blur()
}

func (m *Model) submitPrompt(value string) {
	switch m.prompt {
	case promptAddName:
		if value == "" {
			m.errorMsg = "name cannot be empty"
			return
		}
		m.newName = value
		m.prompt = promptAddIndex
		m.textInput.SetValue("")
		return

	case promptAddIndex:
		index, err := roster.ParseIndex(value)
		if err != nil {
			m.errorMsg = errors.UserMessage(err)
			return
		}
		p, err := roster.New(m.newName, index, true, false)
		if err != nil {
			m.errorMsg = errors.UserMessage(err)
			return
		}
		players, err := roster.Add(m.players, p)
		if err != nil {
			m.errorMsg = errors.UserMessage(err)
			return
		}
		m.setPlayers(players)
		m.cursor = len(m.players) - 1
		m.infoMsg = "Added " + p.Name

	case promptEditIndex:
		index, err := roster.ParseIndex(value)
		if err != nil {
			m.errorMsg = errors.UserMessage(err)
			return
		}
		if !m.updateCurrent(func(p *roster.Player) { p.Index = index }) {
			return
		}

	case promptRename:
		if !m.updateCurrent(func(p *roster.Player) { p.Name = value }) {
			return
		}
	}
	m.closePrompt()
}

func (m Model) current() (roster.Player, bool) {
	if m.cursor < 0 || m.cursor >= len(m.players) {
		return roster.Player{}, false
	}
	return m.players[m.cursor], true
}

// updateCurrent applies fn to the player under the cursor. It reports
// whether the change was accepted.
func (m *Model) updateCurrent(fn func(*roster.Player)) bool {
	p, ok := m.current()
	if !ok {
		return false
	}
	players, err := roster.Update(m.players, p.ID, fn)
	if err != nil {
		m.errorMsg = errors.UserMessage(err)
		return false
	}
	m.setPlayers(players)
	return true
}

func (m *Model) deleteCurrent() {
	p, ok := m.current()
	if !ok {
		return
	}
	players, err := roster.Remove(m.players, p.ID)
	if err != nil {
		m.errorMsg = errors.UserMessage(err)
		return
	}
	m.setPlayers(players)
	m.infoMsg = "Removed " + p.Name
}

// setPlayers replaces the working roster. The last selection no longer
// describes it, so it is dropped.
func (m *Model) setPlayers(players []roster.Player) {
	m.players = players
	m.dirty = true
	m.result = nil
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.players) {
		m.cursor = len(m.players) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) runSelection() {
	res, err := m.selector.Select(m.ctx, m.players)
	if err != nil {
		m.result = nil
		m.errorMsg = errors.UserMessage(err)
		return
	}
	m.result = res
}

func (m *Model) save() {
	if err := m.store.Save(m.ctx, m.players); err != nil {
		m.logger.Error("failed to save roster", "error", err.Error())
		m.errorMsg = errors.UserMessage(err)
		return
	}
	m.players = roster.EnsureIDs(m.players)
	m.dirty = false
	m.infoMsg = "Saved!"
}

func (m *Model) reset() {
	if err := m.store.Reset(m.ctx); err != nil {
		m.logger.Error("failed to reset roster", "error", err.Error())
		m.errorMsg = errors.UserMessage(err)
		return
	}
	m.players = roster.Reset()
	m.cursor = 0
	m.dirty = false
	m.result = nil
	m.infoMsg = "Roster reset"
}

func (m *Model) handleExternalChange() {
	if m.dirty {
		m.infoMsg = "The roster file changed on disk; saving will overwrite it"
		return
	}
	players, err := m.store.Load(m.ctx)
	if err != nil {
		m.errorMsg = errors.UserMessage(err)
		return
	}
	m.players = players
	m.result = nil
	m.clampCursor()
	m.logger.Debug("roster reloaded", "players", len(players))
}
