package events

import "github.com/atomicstack/sleact-tui/internal/logging"

type CommandTracer struct{}

type ActionTracer struct{}

var (
	Command = CommandTracer{}
	Action  = ActionTracer{}
)

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) NoOp(id, label string) {
	logging.Trace("command.noop", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}

func (CommandTracer) Cancel(id string) {
	logging.Trace("command.cancel", map[string]interface{}{"id": id})
}

// Stale records a result that arrived after its request was cancelled.
func (CommandTracer) Stale(id, label string) {
	logging.Trace("command.stale", map[string]interface{}{"id": id, "label": label})
}

// Error records a failed mutation as the user saw it.
func (ActionTracer) Error(action string, err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"action": action, "error": err.Error()})
}

func (ActionTracer) Success(action, info string) {
	logging.Trace("action.success", map[string]interface{}{"action": action, "info": info})
}
