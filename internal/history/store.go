package history

import (
	"sync"

	"github.com/statuswatch/statuswatch/internal/domain"
)

// Capacity is the fixed number of results retained per monitor.
const Capacity = 100

// ring is a fixed-capacity FIFO of check results for one monitor.
// Eviction on overflow is O(1); observable order is time-ascending.
type ring struct {
	mu    sync.Mutex
	buf   [Capacity]domain.CheckResult
	start int
	n     int
}

func (r *ring) push(cr domain.CheckResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.n < Capacity {
		r.buf[(r.start+r.n)%Capacity] = cr
		r.n++
		return
	}
	r.buf[r.start] = cr
	r.start = (r.start + 1) % Capacity
}

func (r *ring) snapshot() []domain.CheckResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CheckResult, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.buf[(r.start+i)%Capacity]
	}
	return out
}

func (r *ring) latest() (domain.CheckResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.n == 0 {
		return domain.CheckResult{}, false
	}
	return r.buf[(r.start+r.n-1)%Capacity], true
}

func (r *ring) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Store keeps a bounded history per monitor id. The outer map is guarded by
// an RWMutex and only mutated on monitor add/remove; each monitor's ring has
// its own lock, so appends to different monitors never contend.
type Store struct {
	mu    sync.RWMutex
	rings map[domain.MonitorID]*ring
}

func New() *Store {
	return &Store{rings: make(map[domain.MonitorID]*ring)}
}

// InitMonitor creates an empty history for id if none exists yet.
func (s *Store) InitMonitor(id domain.MonitorID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rings[id]; !ok {
		s.rings[id] = &ring{}
	}
}

// DropMonitor discards the history for id.
func (s *Store) DropMonitor(id domain.MonitorID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rings, id)
}

// Append records a result for id, evicting the oldest entry at capacity.
// Unknown ids are a silent no-op: a timer firing for a monitor that a
// concurrent reload just removed must not crash the scheduler.
func (s *Store) Append(id domain.MonitorID, cr domain.CheckResult) {
	s.mu.RLock()
	r := s.rings[id]
	s.mu.RUnlock()
	if r == nil {
		return
	}
	r.push(cr)
}

// Snapshot returns a point-in-time copy of the ordered history for id,
// oldest first. Unknown ids yield an empty slice.
func (s *Store) Snapshot(id domain.MonitorID) []domain.CheckResult {
	s.mu.RLock()
	r := s.rings[id]
	s.mu.RUnlock()
	if r == nil {
		return nil
	}
	return r.snapshot()
}

// Latest returns the most recent result for id, if any.
func (s *Store) Latest(id domain.MonitorID) (domain.CheckResult, bool) {
	s.mu.RLock()
	r := s.rings[id]
	s.mu.RUnlock()
	if r == nil {
		return domain.CheckResult{}, false
	}
	return r.latest()
}

// Count returns the number of retained results for id.
func (s *Store) Count(id domain.MonitorID) int {
	s.mu.RLock()
	r := s.rings[id]
	s.mu.RUnlock()
	if r == nil {
		return 0
	}
	return r.count()
}
