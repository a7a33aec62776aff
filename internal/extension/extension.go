// Package extension wires the background panel into a host: the show command
// and, where the host supports it, the reviver for panels restored after a
// restart.
package extension

import (
	"github.com/atomicstack/satisfying-background/internal/content"
	"github.com/atomicstack/satisfying-background/internal/host"
	"github.com/atomicstack/satisfying-background/internal/panel"
)

// ShowCommand opens or focuses the background panel.
const ShowCommand = "satisfying-background.showBackground"

// Context carries what activation needs and collects what it registers.
type Context struct {
	ResourceRoot  string
	Source        content.Source
	Chooser       host.Document
	KnownKeys     []string
	Subscriptions *host.Disposables
}

// Activate registers the show command and, on hosts that serialize panels,
// the reviver. It returns the controller backing both.
func Activate(h host.Host, ctx *Context) *panel.Controller {
	if ctx.Subscriptions == nil {
		ctx.Subscriptions = &host.Disposables{}
	}
	ctrl := panel.New(h, ctx.Source, ctx.Chooser,
		panel.WithResourceRoot(ctx.ResourceRoot),
		panel.WithKnownKeys(ctx.KnownKeys),
	)
	ctx.Subscriptions.Push(h.RegisterCommand(ShowCommand, ctrl.CreateOrShow))

	if sh, ok := h.(host.SerializerHost); ok {
		ctx.Subscriptions.Push(sh.RegisterPanelSerializer(panel.ViewType, host.SerializerFunc(func(p host.Panel) error {
			p.SetOptions(panel.Options(ctx.ResourceRoot))
			ctrl.Revive(p)
			return nil
		})))
	}
	return ctrl
}

// Deactivate releases everything Activate registered. The live panel is left
// open so a serializing host can restore it next time.
func Deactivate(ctx *Context) {
	if ctx == nil || ctx.Subscriptions == nil {
		return
	}
	ctx.Subscriptions.Dispose()
}
