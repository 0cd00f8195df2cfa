// Package pipeline implements pipeline metrics.
package pipeline

import (
	"sync/atomic"
)

// Metrics contains per-pipeline counters.
type Metrics struct {
	// Frame counters (using atomic for thread-safety)
	Received     atomic.Uint64
	Decoded      atomic.Uint64
	DecodeErrors atomic.Uint64
	Admitted     atomic.Uint64
	Dropped      atomic.Uint64

	// Drops per table, created once from the table set
	TableDrops map[string]*atomic.Uint64
}

// NewMetrics creates a metrics instance with a drop counter per table.
func NewMetrics(tables []string) *Metrics {
	m := &Metrics{TableDrops: make(map[string]*atomic.Uint64, len(tables))}
	for _, name := range tables {
		m.TableDrops[name] = new(atomic.Uint64)
	}
	return m
}

// Reset resets all counters to zero.
func (m *Metrics) Reset() {
	m.Received.Store(0)
	m.Decoded.Store(0)
	m.DecodeErrors.Store(0)
	m.Admitted.Store(0)
	m.Dropped.Store(0)
	for _, c := range m.TableDrops {
		c.Store(0)
	}
}
