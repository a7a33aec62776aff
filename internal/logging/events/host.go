package events

import "github.com/atomicstack/satisfying-background/internal/logging"

type HostTracer struct{}

type StoreTracer struct{}

var (
	Host  = HostTracer{}
	Store = StoreTracer{}
)

func (HostTracer) Command(id string) {
	logging.Trace("host.command", map[string]interface{}{"id": id})
}

func (HostTracer) UnknownCommand(id string) {
	logging.Trace("host.command.unknown", map[string]interface{}{"id": id})
}

func (HostTracer) Load(panelID, program string) {
	logging.Trace("host.load", map[string]interface{}{"panel": panelID, "program": program})
}

func (HostTracer) UnknownProgram(panelID, program string) {
	logging.Trace("host.program.unknown", map[string]interface{}{"panel": panelID, "program": program})
}

func (HostTracer) Deliver(panelID string, size int) {
	logging.Trace("host.message", map[string]interface{}{"panel": panelID, "bytes": size})
}

func (HostTracer) Drop(panelID string) {
	logging.Trace("host.message.drop", map[string]interface{}{"panel": panelID})
}

func (HostTracer) Restore(panelID, viewType string) {
	logging.Trace("host.restore", map[string]interface{}{"panel": panelID, "viewType": viewType})
}

func (HostTracer) Discard(panelID, viewType string) {
	logging.Trace("host.restore.discard", map[string]interface{}{"panel": panelID, "viewType": viewType})
}

func (StoreTracer) Save(panelID string) {
	logging.Trace("store.save", map[string]interface{}{"panel": panelID})
}

func (StoreTracer) Delete(panelID string) {
	logging.Trace("store.delete", map[string]interface{}{"panel": panelID})
}

func (StoreTracer) Error(op string, err error) {
	if err == nil {
		return
	}
	logging.Trace("store.error", map[string]interface{}{"op": op, "error": err.Error()})
}
