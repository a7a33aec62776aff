package dispatcher

import (
	"github.com/atomicstack/satisfying-background/internal/backend"
	"github.com/atomicstack/satisfying-background/internal/state"
)

type Result struct {
	AvailabilityUpdated bool
}

// Probe reports whether a key currently resolves to content.
type Probe func(key string) bool

type Dispatcher struct {
	availability state.AvailabilityStore
	probe        Probe
	keys         []string
}

func New(a state.AvailabilityStore, probe Probe, keys []string) *Dispatcher {
	return &Dispatcher{availability: a, probe: probe, keys: append([]string(nil), keys...)}
}

// Refresh re-probes every key.
func (d *Dispatcher) Refresh() Result {
	if d.probe == nil {
		return Result{}
	}
	found := make(map[string]bool, len(d.keys))
	for _, key := range d.keys {
		found[key] = d.probe(key)
	}
	d.availability.Set(found)
	return Result{AvailabilityUpdated: true}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	if evt.Err != nil {
		return Result{}
	}
	switch evt.Kind {
	case backend.KindContent:
		return d.Refresh()
	}
	return Result{}
}
