package events

import "github.com/atomicstack/satisfying-background/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Restored(panels int) {
	logging.Trace("app.restored", map[string]interface{}{"panels": panels})
}

func (AppTracer) Stop() {
	logging.Trace("app.stop", nil)
}
