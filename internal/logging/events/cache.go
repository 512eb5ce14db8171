package events

import (
	"time"

	"github.com/atomicstack/sleact-tui/internal/logging"
)

type CacheTracer struct{}

var Cache = CacheTracer{}

func (CacheTracer) Hit(key string, age time.Duration) {
	logging.Trace("cache.hit", map[string]interface{}{"key": key, "age_ms": age.Milliseconds()})
}

func (CacheTracer) Join(key string) {
	logging.Trace("cache.join", map[string]interface{}{"key": key})
}

func (CacheTracer) Fetch(key string, generation uint64) {
	logging.Trace("cache.fetch", map[string]interface{}{"key": key, "generation": generation})
}

func (CacheTracer) Stored(key string, generation uint64, err error) {
	payload := map[string]interface{}{"key": key, "generation": generation}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("cache.store", payload)
}

func (CacheTracer) Superseded(key string, fetched, current uint64) {
	logging.Trace("cache.superseded", map[string]interface{}{"key": key, "fetched": fetched, "current": current})
}

func (CacheTracer) Write(key string, generation uint64) {
	logging.Trace("cache.write", map[string]interface{}{"key": key, "generation": generation})
}

func (CacheTracer) Revalidate(key string, generation uint64) {
	logging.Trace("cache.revalidate", map[string]interface{}{"key": key, "generation": generation})
}
