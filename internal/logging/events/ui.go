package events

import "github.com/atomicstack/satisfying-background/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type BackendTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Backend = BackendTracer{}
)

func (UITracer) Click(panelID, action, label string) {
	logging.Trace("ui.click", map[string]interface{}{"panel": panelID, "action": action, "label": label})
}

func (UITracer) Reload(panelID string) {
	logging.Trace("ui.reload", map[string]interface{}{"panel": panelID})
}

func (UITracer) Close(panelID string) {
	logging.Trace("ui.close", map[string]interface{}{"panel": panelID})
}

func (UITracer) Cursor(cursor int) {
	logging.Trace("ui.cursor", map[string]interface{}{"cursor": cursor})
}

func (UITracer) Focus(paneID string, err error) {
	payload := map[string]interface{}{"pane": paneID}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("ui.focus", payload)
}

func (FilterTracer) Cleared() {
	logging.Trace("filter.clear", nil)
}

func (FilterTracer) Append(filter string) {
	logging.Trace("filter.append", map[string]interface{}{"filter": filter})
}

func (FilterTracer) Backspace(filter string) {
	logging.Trace("filter.backspace", map[string]interface{}{"filter": filter})
}

func (FilterTracer) WordBackspace(filter string) {
	logging.Trace("filter.word-backspace", map[string]interface{}{"filter": filter})
}

func (BackendTracer) Change(path, op string) {
	logging.Trace("backend.change", map[string]interface{}{"path": path, "op": op})
}

func (BackendTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("backend.error", map[string]interface{}{"error": err.Error()})
}
