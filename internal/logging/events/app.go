package events

import "github.com/atomicstack/sleact-tui/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

// Start records the process environment the client was launched with.
func (AppTracer) Start(payload interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Stop(reason string) {
	logging.Trace("app.stop", map[string]interface{}{"reason": reason})
}
