package registry

import (
	"sync"

	"github.com/statuswatch/statuswatch/internal/domain"
)

// HistoryLifecycle is implemented by the history store so that a reload can
// initialize histories for added monitors and discard histories of removed
// ones in the same swap.
type HistoryLifecycle interface {
	InitMonitor(id domain.MonitorID)
	DropMonitor(id domain.MonitorID)
}

// Registry holds the active monitor set. Load replaces the whole set
// atomically; readers see either the old set or the new one, never a mix.
type Registry struct {
	mu        sync.RWMutex
	monitors  []domain.Monitor
	byID      map[domain.MonitorID]domain.Monitor
	histories HistoryLifecycle
}

func New(histories HistoryLifecycle) *Registry {
	return &Registry{
		byID:      make(map[domain.MonitorID]domain.Monitor),
		histories: histories,
	}
}

// Load replaces the active set with defs (load order preserved, first entry
// wins on a duplicate id). Monitors new to the set get a fresh empty history;
// monitors no longer present have theirs discarded.
func (r *Registry) Load(defs []domain.Monitor) {
	monitors := make([]domain.Monitor, 0, len(defs))
	byID := make(map[domain.MonitorID]domain.Monitor, len(defs))
	for _, m := range defs {
		if _, dup := byID[m.ID]; dup {
			continue
		}
		byID[m.ID] = m
		monitors = append(monitors, m)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id := range byID {
		if _, existed := r.byID[id]; !existed {
			r.histories.InitMonitor(id)
		}
	}
	for id := range r.byID {
		if _, kept := byID[id]; !kept {
			r.histories.DropMonitor(id)
		}
	}

	r.monitors = monitors
	r.byID = byID
}

// List returns the current monitor set in load order.
func (r *Registry) List() []domain.Monitor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Monitor, len(r.monitors))
	copy(out, r.monitors)
	return out
}

// Get returns the monitor for id or domain.ErrMonitorNotFound.
func (r *Registry) Get(id domain.MonitorID) (domain.Monitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return domain.Monitor{}, domain.ErrMonitorNotFound
	}
	return m, nil
}
