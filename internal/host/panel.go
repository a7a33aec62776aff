package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/satisfying-background/internal/logging/events"
)

var (
	// ErrDisposed is returned when posting from a panel that no longer exists.
	ErrDisposed = errors.New("panel disposed")
	// ErrStaleDocument is returned when a program posts after its document was replaced.
	ErrStaleDocument = errors.New("document replaced")
)

type listener[T any] struct {
	fn      T
	removed bool
}

type listenerSet[T any] struct {
	items []*listener[T]
}

func (s *listenerSet[T]) add(fn T) Disposable {
	l := &listener[T]{fn: fn}
	s.items = append(s.items, l)
	return Once(func() {
		l.removed = true
		for i, item := range s.items {
			if item == l {
				s.items = append(s.items[:i], s.items[i+1:]...)
				return
			}
		}
	})
}

func (s *listenerSet[T]) snapshot() []*listener[T] {
	out := make([]*listener[T], 0, len(s.items))
	for _, l := range s.items {
		if !l.removed {
			out = append(out, l)
		}
	}
	return out
}

func (s *listenerSet[T]) clear() {
	s.items = nil
}

// LocalPanel is a panel owned by a Local host.
type LocalPanel struct {
	host     *Local
	id       string
	viewType string
	title    string
	column   ViewColumn
	options  Options
	visible  bool
	disposed bool

	doc        Document
	program    Program
	generation int

	state    string
	hasState bool

	messageListeners listenerSet[func(Message)]
	disposeListeners listenerSet[func()]
}

var _ Panel = (*LocalPanel)(nil)

func (p *LocalPanel) ID() string         { return p.id }
func (p *LocalPanel) ViewType() string   { return p.viewType }
func (p *LocalPanel) Title() string      { return p.title }
func (p *LocalPanel) Column() ViewColumn { return p.column }
func (p *LocalPanel) Visible() bool      { return p.visible && !p.disposed }
func (p *LocalPanel) Disposed() bool     { return p.disposed }
func (p *LocalPanel) Document() Document { return p.doc }
func (p *LocalPanel) Options() Options   { return cloneOptions(p.options) }

// State returns the embedded UI's durable state slot.
func (p *LocalPanel) State() (string, bool) {
	return p.state, p.hasState
}

func (p *LocalPanel) SetOptions(opts Options) {
	if p.disposed {
		return
	}
	p.options = cloneOptions(opts)
	p.host.persist(p)
}

// SetDocument replaces the rendered document and loads it.
func (p *LocalPanel) SetDocument(doc Document) {
	if p.disposed {
		return
	}
	p.host.run(func() {
		p.doc = doc
		p.host.persist(p)
		p.load()
	})
}

// Reload reloads the current document, rebooting its program.
func (p *LocalPanel) Reload() {
	if p.disposed {
		return
	}
	p.host.run(p.load)
}

// Click forwards a button activation to the running program.
func (p *LocalPanel) Click(action string) {
	if p.disposed {
		return
	}
	p.host.run(func() {
		if p.program != nil {
			p.program.Click(action)
		}
	})
}

func (p *LocalPanel) Reveal() {
	if p.disposed {
		return
	}
	p.host.activate(p)
	if p.host.revealHook != nil {
		p.host.revealHook(p)
	}
}

func (p *LocalPanel) OnDidReceiveMessage(fn func(Message)) Disposable {
	return p.messageListeners.add(fn)
}

func (p *LocalPanel) OnDidDispose(fn func()) Disposable {
	return p.disposeListeners.add(fn)
}

// Dispose closes the panel. Dispose listeners run once; later calls are no-ops.
func (p *LocalPanel) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.visible = false
	p.program = nil
	p.generation++
	p.host.remove(p)
	p.host.forget(p.id)
	for _, l := range p.disposeListeners.snapshot() {
		l.fn()
	}
	p.disposeListeners.clear()
	p.messageListeners.clear()
}

func (p *LocalPanel) load() {
	p.generation++
	p.program = nil
	name := p.doc.Program
	if name == "" {
		return
	}
	if !p.options.EnableScripts {
		return
	}
	factory, ok := p.host.programs[name]
	if !ok || factory == nil {
		events.Host.UnknownProgram(p.id, name)
		return
	}
	events.Host.Load(p.id, name)
	prog := factory()
	p.program = prog
	prog.Boot(&webviewAPI{panel: p, generation: p.generation})
}

func (p *LocalPanel) record() Record {
	return Record{
		ID:        p.id,
		ViewType:  p.viewType,
		Title:     p.title,
		Markup:    p.doc.Markup,
		Program:   p.doc.Program,
		State:     p.state,
		HasState:  p.hasState,
		Options:   cloneOptions(p.options),
		UpdatedAt: time.Now().UTC(),
	}
}

type webviewAPI struct {
	panel      *LocalPanel
	generation int
}

func (a *webviewAPI) stale() bool {
	return a.panel.disposed || a.panel.generation != a.generation
}

func (a *webviewAPI) GetState() (string, bool) {
	return a.panel.state, a.panel.hasState
}

func (a *webviewAPI) SetState(value string) {
	if a.stale() {
		return
	}
	a.panel.state = value
	a.panel.hasState = true
	a.panel.host.persist(a.panel)
}

func (a *webviewAPI) PostMessage(v interface{}) error {
	if a.panel.disposed {
		return ErrDisposed
	}
	if a.stale() {
		return ErrStaleDocument
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	a.panel.host.enqueue(a.panel, Message(data))
	return nil
}
