package metrics

import "sync/atomic"

// Counter names tracked by the collector
const (
	RequestsTotal     = "requests_total"
	Escalations       = "escalations"
	RetrievalFailures = "retrieval_failures"
	GenerationErrors  = "generation_errors"
	RecoveredPanics   = "recovered_panics"
)

var counterNames = []string{
	RequestsTotal,
	Escalations,
	RetrievalFailures,
	GenerationErrors,
	RecoveredPanics,
}

// Collector is an explicitly constructed counter set, injected into the
// orchestrator instead of being reached through ambient globals. The counter
// map is fixed at construction, so increments are lock-free.
type Collector struct {
	counters map[string]*atomic.Int64
}

func NewCollector() *Collector {
	counters := make(map[string]*atomic.Int64, len(counterNames))
	for _, name := range counterNames {
		counters[name] = &atomic.Int64{}
	}
	return &Collector{counters: counters}
}

// Increment bumps a known counter; unknown names are ignored
func (c *Collector) Increment(name string) {
	if counter, ok := c.counters[name]; ok {
		counter.Add(1)
	}
}

// Snapshot returns current values for all counters
func (c *Collector) Snapshot() map[string]int64 {
	out := make(map[string]int64, len(c.counters))
	for name, counter := range c.counters {
		out[name] = counter.Load()
	}
	return out
}
