// Package chooser is the default view of the background panel: a document
// with one button per background, and the embedded program behind it.
//
// The program keeps the last chosen key in the panel's durable state slot.
// Clicking a button stores the key before posting the selection, so a reload
// that races the controller still remembers the choice; booting the document
// re-posts whatever key the slot holds.
package chooser

import (
	"github.com/atomicstack/satisfying-background/internal/host"
	"github.com/atomicstack/satisfying-background/internal/logging"
	"github.com/atomicstack/satisfying-background/internal/panel"
)

// Program is the chooser's embedded behaviour.
type Program struct {
	api host.WebviewAPI
}

var _ host.Program = (*Program)(nil)

// NewProgram is a host.ProgramFactory.
func NewProgram() host.Program {
	return &Program{}
}

// Boot replays the persisted selection, if any.
func (p *Program) Boot(api host.WebviewAPI) {
	p.api = api
	if key, ok := api.GetState(); ok {
		p.choose(key)
	}
}

// Click handles a button press.
func (p *Program) Click(key string) {
	p.choose(key)
}

func (p *Program) choose(key string) {
	if p.api == nil || key == "" {
		return
	}
	p.api.SetState(key)
	if err := p.api.PostMessage(panel.Selection{Command: key}); err != nil {
		logging.Error(err)
	}
}
