package events

import "github.com/atomicstack/sleact-tui/internal/logging"

type BackendTracer struct{}

var Backend = BackendTracer{}

func (BackendTracer) Load(workspace, reason string) {
	logging.Trace("backend.load", map[string]interface{}{"workspace": workspace, "reason": reason})
}

func (BackendTracer) Unauthenticated() {
	logging.Trace("backend.unauthenticated", nil)
}

func (BackendTracer) Dropped(kind, workspace, current string) {
	logging.Trace("backend.drop", map[string]interface{}{"kind": kind, "workspace": workspace, "current": current})
}

// Stale records an event from a load that a later session change overtook.
func (BackendTracer) Stale(kind, workspace string) {
	logging.Trace("backend.stale", map[string]interface{}{"kind": kind, "workspace": workspace})
}
