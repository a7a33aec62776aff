package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/satisfying-background/internal/backend"
	"github.com/atomicstack/satisfying-background/internal/data/dispatcher"
	"github.com/atomicstack/satisfying-background/internal/host"
	"github.com/atomicstack/satisfying-background/internal/state"
	"github.com/atomicstack/satisfying-background/internal/theme"
	"github.com/atomicstack/satisfying-background/internal/ui/markup"
	uistate "github.com/atomicstack/satisfying-background/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type level = uistate.Level

// Mode describes what the active panel currently renders.
type Mode int

const (
	// ModeEmpty means no panel is open.
	ModeEmpty Mode = iota
	// ModeList renders a document that offers buttons.
	ModeList
	// ModeContent renders a document without buttons in a scrollable view.
	ModeContent
)

const (
	headerSeparator = " · "
	emptyTitle      = "no panel open"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Config carries the collaborators and display settings of a Model.
type Config struct {
	Host         *host.Local
	ShowCommand  string
	Watcher      *backend.Watcher
	Dispatcher   *dispatcher.Dispatcher
	Availability state.AvailabilityStore
	Width        int
	Height       int
	ShowFooter   bool
}

// Model implements the Bubble Tea model that renders the host's active panel.
type Model struct {
	host        *host.Local
	showCommand string

	panel  *host.LocalPanel
	source string
	page   markup.Page
	mode   Mode
	list   *level
	body   viewport.Model

	errMsg      string
	infoMsg     string
	infoExpire  time.Time
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool

	backend        *backend.Watcher
	backendLastErr string
	availability   state.AvailabilityStore
	dispatcher     *dispatcher.Dispatcher

	filterCursor      cursor.Model
	filterCursorDirty bool
	focused           bool

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the UI over cfg.Host.
func NewModel(cfg Config) *Model {
	availability := cfg.Availability
	if availability == nil {
		availability = state.NewAvailabilityStore()
	}
	m := &Model{
		host:         cfg.Host,
		showCommand:  cfg.ShowCommand,
		backend:      cfg.Watcher,
		dispatcher:   cfg.Dispatcher,
		availability: availability,
		showFooter:   cfg.ShowFooter,
		body:         viewport.New(0, 0),
	}
	if cfg.Width > 0 {
		m.width = cfg.Width
		m.fixedWidth = true
	}
	if cfg.Height > 0 {
		m.height = cfg.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	if m.dispatcher != nil {
		m.dispatcher.Refresh()
	}
	m.registerHandlers()
	m.sync()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	m.focused = true
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	m.sync()
	return m, m.finishUpdate(cmds)
}

// Mode reports what the model currently renders.
func (m *Model) Mode() Mode {
	return m.mode
}

// Page returns the parsed document of the active panel.
func (m *Model) Page() markup.Page {
	return m.page
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty && m.focused {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.resizeBody()
	m.syncViewport()
	return nil
}
