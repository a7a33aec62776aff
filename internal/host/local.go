package host

import (
	"fmt"

	"github.com/atomicstack/satisfying-background/internal/logging"
	"github.com/atomicstack/satisfying-background/internal/logging/events"
	"github.com/google/uuid"
)

// LocalOption configures a Local host.
type LocalOption func(*Local)

// WithStore makes panels durable: every change is written through to s and
// Restore replays what s holds.
func WithStore(s Store) LocalOption {
	return func(h *Local) {
		h.store = s
	}
}

// WithIDGenerator overrides how panel ids are minted.
func WithIDGenerator(fn func() string) LocalOption {
	return func(h *Local) {
		if fn != nil {
			h.newID = fn
		}
	}
}

type commandEntry struct {
	fn func()
}

type serializerEntry struct {
	s Serializer
}

type envelope struct {
	panel *LocalPanel
	msg   Message
}

// Local is an in-process host.
type Local struct {
	commands    map[string]*commandEntry
	programs    map[string]ProgramFactory
	serializers map[string]*serializerEntry
	panels      []*LocalPanel
	active      *LocalPanel
	store       Store
	revealHook  func(Panel)
	newID       func() string

	queue    []envelope
	depth    int
	draining bool
}

var (
	_ Host           = (*Local)(nil)
	_ SerializerHost = (*Local)(nil)
)

// NewLocal creates an empty host.
func NewLocal(opts ...LocalOption) *Local {
	h := &Local{
		commands:    make(map[string]*commandEntry),
		programs:    make(map[string]ProgramFactory),
		serializers: make(map[string]*serializerEntry),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterCommand binds id to fn. Disposing the returned handle unbinds it
// unless the id was re-registered in the meantime.
func (h *Local) RegisterCommand(id string, fn func()) Disposable {
	entry := &commandEntry{fn: fn}
	h.commands[id] = entry
	return Once(func() {
		if h.commands[id] == entry {
			delete(h.commands, id)
		}
	})
}

// ExecuteCommand runs the command registered under id.
func (h *Local) ExecuteCommand(id string) error {
	entry, ok := h.commands[id]
	if !ok || entry.fn == nil {
		events.Host.UnknownCommand(id)
		return fmt.Errorf("execute %q: %w", id, ErrUnknownCommand)
	}
	events.Host.Command(id)
	h.run(entry.fn)
	return nil
}

// HasCommand reports whether id is currently registered.
func (h *Local) HasCommand(id string) bool {
	_, ok := h.commands[id]
	return ok
}

// RegisterProgram makes an embedded program available to documents naming it.
func (h *Local) RegisterProgram(name string, factory ProgramFactory) Disposable {
	h.programs[name] = factory
	return Once(func() {
		delete(h.programs, name)
	})
}

// RegisterPanelSerializer installs the reviver for viewType. Disposing the
// returned handle removes it unless viewType was re-registered since.
func (h *Local) RegisterPanelSerializer(viewType string, s Serializer) Disposable {
	entry := &serializerEntry{s: s}
	h.serializers[viewType] = entry
	return Once(func() {
		if h.serializers[viewType] == entry {
			delete(h.serializers, viewType)
		}
	})
}

// SetRevealHook installs fn to run whenever a panel is revealed.
func (h *Local) SetRevealHook(fn func(Panel)) {
	h.revealHook = fn
}

// CreatePanel opens a new panel and makes it the active one.
func (h *Local) CreatePanel(viewType, title string, column ViewColumn, opts Options) Panel {
	p := &LocalPanel{
		host:     h,
		id:       h.newID(),
		viewType: viewType,
		title:    title,
		column:   column,
		options:  cloneOptions(opts),
	}
	h.panels = append(h.panels, p)
	h.activate(p)
	h.persist(p)
	return p
}

// Panels returns the live panels in creation order.
func (h *Local) Panels() []*LocalPanel {
	out := make([]*LocalPanel, len(h.panels))
	copy(out, h.panels)
	return out
}

// Active returns the focused panel, or nil when none is open.
func (h *Local) Active() *LocalPanel {
	return h.active
}

// Restore replays every stored panel through its view type's serializer.
// Records nobody can revive are dropped. It returns the number of panels
// revived.
func (h *Local) Restore() (int, error) {
	if h.store == nil {
		return 0, nil
	}
	records, err := h.store.List()
	if err != nil {
		return 0, fmt.Errorf("list panels: %w", err)
	}
	restored := 0
	for _, rec := range records {
		entry, ok := h.serializers[rec.ViewType]
		if !ok || entry.s == nil {
			events.Host.Discard(rec.ID, rec.ViewType)
			h.forget(rec.ID)
			continue
		}
		p := &LocalPanel{
			host:     h,
			id:       rec.ID,
			viewType: rec.ViewType,
			title:    rec.Title,
			column:   ColumnActive,
			options:  cloneOptions(rec.Options),
			doc:      Document{Markup: rec.Markup, Program: rec.Program},
			state:    rec.State,
			hasState: rec.HasState,
		}
		h.panels = append(h.panels, p)
		h.activate(p)
		events.Host.Restore(p.id, p.viewType)
		var derr error
		h.run(func() {
			derr = entry.s.DeserializePanel(p)
			if derr == nil && !p.disposed {
				p.load()
			}
		})
		if derr != nil {
			logging.Error(fmt.Errorf("restore panel %s: %w", p.id, derr))
			p.Dispose()
			continue
		}
		if !p.disposed {
			restored++
		}
	}
	return restored, nil
}

func (h *Local) activate(p *LocalPanel) {
	for _, other := range h.panels {
		other.visible = other == p
	}
	h.active = p
}

func (h *Local) remove(p *LocalPanel) {
	for i, other := range h.panels {
		if other == p {
			h.panels = append(h.panels[:i], h.panels[i+1:]...)
			break
		}
	}
	if h.active == p {
		h.active = nil
		if n := len(h.panels); n > 0 {
			h.activate(h.panels[n-1])
		}
	}
}

func (h *Local) persist(p *LocalPanel) {
	if h.store == nil || p.disposed {
		return
	}
	if err := h.store.Save(p.record()); err != nil {
		events.Store.Error("save", err)
		logging.Error(fmt.Errorf("persist panel %s: %w", p.id, err))
		return
	}
	events.Store.Save(p.id)
}

func (h *Local) forget(id string) {
	if h.store == nil {
		return
	}
	if err := h.store.Delete(id); err != nil {
		events.Store.Error("delete", err)
		logging.Error(fmt.Errorf("forget panel %s: %w", id, err))
		return
	}
	events.Store.Delete(id)
}

func (h *Local) enqueue(p *LocalPanel, msg Message) {
	h.queue = append(h.queue, envelope{panel: p, msg: msg})
}

// run executes fn as one host step. When the outermost step finishes, queued
// messages are delivered.
func (h *Local) run(fn func()) {
	h.depth++
	func() {
		defer func() { h.depth-- }()
		fn()
	}()
	if h.depth == 0 {
		h.drain()
	}
}

func (h *Local) drain() {
	if h.draining {
		return
	}
	h.draining = true
	defer func() { h.draining = false }()
	for len(h.queue) > 0 {
		env := h.queue[0]
		h.queue[0] = envelope{}
		h.queue = h.queue[1:]
		if env.panel.disposed {
			events.Host.Drop(env.panel.id)
			continue
		}
		events.Host.Deliver(env.panel.id, len(env.msg))
		for _, l := range env.panel.messageListeners.snapshot() {
			l.fn(env.msg)
		}
	}
	h.queue = nil
}

func cloneOptions(opts Options) Options {
	out := opts
	if len(opts.LocalResourceRoots) > 0 {
		out.LocalResourceRoots = append([]string(nil), opts.LocalResourceRoots...)
	}
	return out
}
