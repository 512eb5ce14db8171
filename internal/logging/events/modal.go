package events

import "github.com/atomicstack/sleact-tui/internal/logging"

type ModalTracer struct{}

var Modal = ModalTracer{}

func (ModalTracer) Open(kind, previous string) {
	logging.Trace("modal.open", map[string]interface{}{"kind": kind, "previous": previous})
}

func (ModalTracer) Close(kind string) {
	logging.Trace("modal.close", map[string]interface{}{"kind": kind})
}
