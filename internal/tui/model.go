// Package tui is the interactive terminal front end over a task.Store.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/hay-kot/ticked/internal/core/logging"
	"github.com/hay-kot/ticked/internal/core/notify"
	"github.com/hay-kot/ticked/internal/core/task"
	tuinotify "github.com/hay-kot/ticked/internal/tui/notify"
)

// UIState is what the keyboard is currently driving.
type UIState int

const (
	stateBrowsing UIState = iota
	stateAdding
	stateEditing
)

const inputPlaceholder = "What needs to be done?"

// Options configures the TUI.
type Options struct {
	List     string        // list name shown in the title; empty for the default list
	ToastTTL time.Duration // how long toasts stay on screen
}

// Model is the Bubble Tea model for the task list.
type Model struct {
	store *task.Store
	bus   *tuinotify.Bus
	log   zerolog.Logger
	list  string

	keys  keyMap
	help  help.Model
	input textinput.Model
	state UIState

	cursor int
	width  int
	height int

	toasts    *ToastController
	toastView *ToastView
	quitting  bool
}

// New creates the model. store must already be loaded; confirmations
// published on bus are shown as toasts.
func New(store *task.Store, bus *tuinotify.Bus, opts Options) Model {
	input := textinput.New()
	input.Placeholder = inputPlaceholder
	input.Prompt = "> "
	input.CharLimit = 512

	toasts := NewToastController(opts.ToastTTL)
	bus.Subscribe(func(n notify.Notification) {
		toasts.Push(n)
	})

	return Model{
		store:     store,
		bus:       bus,
		log:       logging.Component("tui"),
		list:      opts.List,
		keys:      defaultKeyMap(),
		help:      help.New(),
		input:     input,
		toasts:    toasts,
		toastView: NewToastView(toasts),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// State reports what the keyboard is driving.
func (m Model) State() UIState {
	return m.state
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.HasToasts() {
			return m, scheduleToastTick()
		}
		m.toasts.SetTicking(false)
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch m.state {
		case stateAdding:
			m, cmd = m.handleAddKey(msg)
		case stateEditing:
			m, cmd = m.handleEditKey(msg)
		default:
			m, cmd = m.handleBrowseKey(msg)
		}
		return m, m.withToastTick(cmd)
	}

	if m.state != stateBrowsing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// withToastTick starts the countdown when a toast appeared during the update.
func (m Model) withToastTick(cmd tea.Cmd) tea.Cmd {
	if !m.toasts.HasToasts() || m.toasts.Ticking() {
		return cmd
	}
	m.toasts.SetTicking(true)
	return tea.Batch(cmd, scheduleToastTick())
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	ctx := context.Background()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.store.Visible())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.New):
		m.state = stateAdding
		m.input.Reset()
		m.input.Placeholder = inputPlaceholder
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			m.report(m.store.Toggle(ctx, t.ID))
		}

	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(); ok {
			m.store.BeginEdit(t.ID, t.Text)
			m.state = stateEditing
			m.input.SetValue(t.Text)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.report(m.store.Delete(ctx, t.ID))
		}

	case key.Matches(msg, m.keys.NextFilter):
		m.store.SetFilter(m.store.Filter().Next())
		m.cursor = 0

	case key.Matches(msg, m.keys.PrevFilter):
		m.store.SetFilter(m.store.Filter().Prev())
		m.cursor = 0

	case key.Matches(msg, m.keys.ShowAll):
		m.store.SetFilter(task.FilterAll)
		m.cursor = 0

	case key.Matches(msg, m.keys.ShowActive):
		m.store.SetFilter(task.FilterActive)
		m.cursor = 0

	case key.Matches(msg, m.keys.ShowDone):
		m.store.SetFilter(task.FilterCompleted)
		m.cursor = 0

	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.Dismiss()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	m.clampCursor()
	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.closeInput()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		_, created, err := m.store.Create(context.Background(), m.input.Value())
		m.report(err)
		if created {
			m.input.Reset()
			m.cursor = 0
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		m.store.CancelEdit()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.store.CancelEdit()
		m.closeInput()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		m.report(m.store.CommitEdit(context.Background()))
		// a blank buffer keeps the session open
		if _, editing := m.store.Edit(); !editing {
			m.closeInput()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.store.UpdateEditBuffer(m.input.Value())
	return m, cmd
}

func (m *Model) closeInput() {
	m.state = stateBrowsing
	m.input.Blur()
	m.input.Reset()
	m.clampCursor()
}

// report surfaces a failed write as an error toast; the store has
// already logged it.
func (m *Model) report(err error) {
	if err == nil {
		return
	}
	m.log.Debug().Err(err).Msg("task operation failed")
	m.bus.Errorf("Could not save: %v", err)
}

func (m Model) selected() (task.Task, bool) {
	visible := m.store.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return task.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.store.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
