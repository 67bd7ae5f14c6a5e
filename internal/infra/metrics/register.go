package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mu         sync.Mutex
	registered = map[prometheus.Collector]bool{}
)

// register adds collectors to the default registry once, so metric files can
// self-register from init() without double-registration panics in tests.
func register(cs ...prometheus.Collector) {
	mu.Lock()
	defer mu.Unlock()
	for _, c := range cs {
		if registered[c] {
			continue
		}
		prometheus.MustRegister(c)
		registered[c] = true
	}
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
