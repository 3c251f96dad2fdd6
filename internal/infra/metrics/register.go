package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mu         sync.Mutex
	collectors []prometheus.Collector
	registered bool
)

// register queues collectors declared in per-concern files (via init) until
// MustRegister is called from main.
func register(cs ...prometheus.Collector) {
	mu.Lock()
	defer mu.Unlock()
	collectors = append(collectors, cs...)
}

// MustRegister registers all queued collectors with the default registry.
// Idempotent; safe to call once from main and again from tests.
func MustRegister() {
	mu.Lock()
	defer mu.Unlock()
	if registered {
		return
	}
	prometheus.MustRegister(collectors...)
	registered = true
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
