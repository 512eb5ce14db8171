package events

import "github.com/atomicstack/sleact-tui/internal/logging"

type MutationTracer struct{}

var Mutation = MutationTracer{}

func (MutationTracer) Rejected(action, reason string) {
	logging.Trace("mutation.rejected", map[string]interface{}{"action": action, "reason": reason})
}

func (MutationTracer) Submit(id, action, workspace string) {
	logging.Trace("mutation.submit", map[string]interface{}{"id": id, "action": action, "workspace": workspace})
}

func (MutationTracer) Succeeded(id, action, key string) {
	logging.Trace("mutation.success", map[string]interface{}{"id": id, "action": action, "key": key})
}

func (MutationTracer) Failed(id, action string, err error) {
	payload := map[string]interface{}{"id": id, "action": action}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("mutation.failure", payload)
}

func (MutationTracer) Cancelled(id, action string) {
	logging.Trace("mutation.cancel", map[string]interface{}{"id": id, "action": action})
}
