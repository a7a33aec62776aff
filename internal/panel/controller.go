// Package panel owns the background panel: at most one live instance, the
// chooser it starts on, and the content swaps requested by its embedded UI.
package panel

import (
	"github.com/agnivade/levenshtein"
	"github.com/atomicstack/satisfying-background/internal/content"
	"github.com/atomicstack/satisfying-background/internal/host"
	"github.com/atomicstack/satisfying-background/internal/logging/events"
)

const (
	ViewType = "satisfying-background"
	Title    = "Satisfying Background"
)

// Options is the capability set every background panel runs with.
func Options(resourceRoot string) host.Options {
	opts := host.Options{
		EnableScripts:           true,
		RetainContextWhenHidden: true,
	}
	if resourceRoot != "" {
		opts.LocalResourceRoots = []string{resourceRoot}
	}
	return opts
}

// Option configures a Controller.
type Option func(*Controller)

// WithResourceRoot sets the directory the panel may load resources from.
func WithResourceRoot(root string) Option {
	return func(c *Controller) {
		c.root = root
	}
}

// WithKnownKeys lists the keys the chooser offers; misses are traced with the
// nearest of them.
func WithKnownKeys(keys []string) Option {
	return func(c *Controller) {
		c.known = append([]string(nil), keys...)
	}
}

// Controller holds the panel slot.
type Controller struct {
	host    host.Host
	source  content.Source
	chooser host.Document
	root    string
	known   []string
	current *Instance
}

// New returns a controller with an empty slot. chooser is the document a
// freshly created panel starts on.
func New(h host.Host, source content.Source, chooser host.Document, opts ...Option) *Controller {
	c := &Controller{host: h, source: source, chooser: chooser}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current returns the live instance, or nil when the slot is empty.
func (c *Controller) Current() *Instance {
	return c.current
}

// ResourceRoot returns the root handed to panel options.
func (c *Controller) ResourceRoot() string {
	return c.root
}

// CreateOrShow focuses the live panel, or creates one showing the chooser.
func (c *Controller) CreateOrShow() {
	if c.current != nil {
		c.current.panel.Reveal()
		events.Panel.Reveal(c.current.panel.ID())
		return
	}
	p := c.host.CreatePanel(ViewType, Title, host.ColumnActive, Options(c.root))
	inst := c.attach(p)
	events.Panel.Create(p.ID(), ViewType)
	// Handlers are bound before the chooser loads so its first replay is seen.
	inst.panel.SetDocument(c.chooser)
}

// Revive adopts a panel the host restored. The panel keeps whatever document
// it was restored with; its embedded UI replays the last selection itself.
func (c *Controller) Revive(p host.Panel) {
	if p == nil {
		return
	}
	if c.current != nil {
		if c.current.panel == p {
			return
		}
		c.current.Dispose()
	}
	c.attach(p)
	events.Panel.Revive(p.ID())
}

// OnMessage applies a message to the live instance.
func (c *Controller) OnMessage(msg host.Message) {
	if c.current == nil {
		return
	}
	c.handle(c.current, msg)
}

// Dispose empties the slot, closing the live panel if there is one. It is
// safe to call any number of times.
func (c *Controller) Dispose() {
	if c.current == nil {
		return
	}
	c.current.Dispose()
}

// Reset empties the slot without closing the panel: the instance stops
// listening and a later CreateOrShow builds a fresh panel.
func (c *Controller) Reset() {
	if c.current == nil {
		return
	}
	c.current.release()
}

func (c *Controller) attach(p host.Panel) *Instance {
	inst := &Instance{ctrl: c, panel: p}
	inst.disposables.Push(p.OnDidDispose(inst.Dispose))
	inst.disposables.Push(p.OnDidReceiveMessage(func(msg host.Message) {
		c.handle(inst, msg)
	}))
	c.current = inst
	return inst
}

func (c *Controller) handle(inst *Instance, msg host.Message) {
	if inst.disposed {
		return
	}
	key, ok := ParseSelection(msg)
	if !ok {
		events.Selection.Ignored(inst.panel.ID(), len(msg))
		return
	}
	c.apply(inst, key)
}

// apply swaps in the content for key. A failed lookup is dropped on purpose
// and leaves the current document untouched.
func (c *Controller) apply(inst *Instance, key string) bool {
	res := c.source.Lookup(key)
	if !res.OK() {
		events.Selection.Miss(inst.panel.ID(), key, res.Kind.String(), c.closest(key))
		return false
	}
	inst.panel.SetDocument(host.Document{Markup: res.Markup})
	events.Selection.Apply(inst.panel.ID(), key, len(res.Markup))
	return true
}

func (c *Controller) closest(key string) string {
	best := ""
	bestDist := -1
	for _, known := range c.known {
		d := levenshtein.ComputeDistance(key, known)
		if bestDist < 0 || d < bestDist {
			best, bestDist = known, d
		}
	}
	if bestDist < 0 || bestDist > len(key)/2+1 {
		return ""
	}
	return best
}

// Instance is the live panel plus the handles registered on its behalf.
type Instance struct {
	ctrl        *Controller
	panel       host.Panel
	disposables host.Disposables
	disposed    bool
}

// Panel returns the wrapped host panel.
func (i *Instance) Panel() host.Panel {
	return i.panel
}

// Disposed reports whether the instance has been torn down.
func (i *Instance) Disposed() bool {
	return i.disposed
}

// Dispose clears the slot, closes the panel and releases every handle in
// reverse registration order. Repeated and re-entrant calls are no-ops.
func (i *Instance) Dispose() {
	if i.disposed {
		return
	}
	i.disposed = true
	if i.ctrl.current == i {
		i.ctrl.current = nil
	}
	handles := i.disposables.Len()
	i.panel.Dispose()
	i.disposables.Dispose()
	events.Panel.Dispose(i.panel.ID(), handles)
}

func (i *Instance) release() {
	if i.disposed {
		return
	}
	i.disposed = true
	if i.ctrl.current == i {
		i.ctrl.current = nil
	}
	i.disposables.Dispose()
}
