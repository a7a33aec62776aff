package events

import "github.com/atomicstack/satisfying-background/internal/logging"

type PanelTracer struct{}

type SelectionTracer struct{}

var (
	Panel     = PanelTracer{}
	Selection = SelectionTracer{}
)

func (PanelTracer) Create(id, viewType string) {
	logging.Trace("panel.create", map[string]interface{}{"id": id, "viewType": viewType})
}

func (PanelTracer) Reveal(id string) {
	logging.Trace("panel.reveal", map[string]interface{}{"id": id})
}

func (PanelTracer) Revive(id string) {
	logging.Trace("panel.revive", map[string]interface{}{"id": id})
}

func (PanelTracer) Dispose(id string, handles int) {
	logging.Trace("panel.dispose", map[string]interface{}{"id": id, "handles": handles})
}

func (SelectionTracer) Apply(panelID, key string, size int) {
	logging.Trace("selection.apply", map[string]interface{}{"panel": panelID, "key": key, "bytes": size})
}

func (SelectionTracer) Miss(panelID, key, kind, closest string) {
	payload := map[string]interface{}{"panel": panelID, "key": key, "kind": kind}
	if closest != "" {
		payload["closest"] = closest
	}
	logging.Trace("selection.miss", payload)
}

func (SelectionTracer) Ignored(panelID string, size int) {
	logging.Trace("selection.ignored", map[string]interface{}{"panel": panelID, "bytes": size})
}
