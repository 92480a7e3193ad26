package stats

import (
	"math"
	"time"

	"github.com/statuswatch/statuswatch/internal/domain"
	"github.com/statuswatch/statuswatch/internal/history"
	"github.com/statuswatch/statuswatch/internal/registry"
)

const (
	window24h = 24 * time.Hour
	window7d  = 7 * 24 * time.Hour

	// StatusUnknown is reported before a monitor's first check completes.
	StatusUnknown = "unknown"

	detailEntries = 24
)

// MonitorStatus is the point-in-time view of one monitor.
type MonitorStatus struct {
	ID          domain.MonitorID `json:"id"`
	Name        string           `json:"name"`
	Target      string           `json:"target"`
	Status      string           `json:"status"`
	LastChecked *time.Time       `json:"last_checked,omitempty"`
	LatencyMS   float64          `json:"latency_ms"`
	StatusCode  int              `json:"status_code,omitempty"`
	Uptime24h   float64          `json:"uptime_24h"`
	Uptime7d    float64          `json:"uptime_7d"`
	TotalChecks int              `json:"total_checks"`
}

// HistoryEntry is one past check in a monitor detail view.
type HistoryEntry struct {
	CheckedAt  time.Time      `json:"checked_at"`
	Outcome    domain.Outcome `json:"outcome"`
	LatencyMS  float64        `json:"latency_ms"`
	StatusCode int            `json:"status_code,omitempty"`
}

// MonitorDetail is MonitorStatus plus the most recent checks, oldest first.
type MonitorDetail struct {
	MonitorStatus
	History []HistoryEntry `json:"history"`
}

// Overview is the all-monitors view.
type Overview struct {
	LastUpdated   time.Time       `json:"last_updated"`
	TotalMonitors int             `json:"total_monitors"`
	Monitors      []MonitorStatus `json:"monitors"`
}

// Aggregator derives status views from the registry and history store.
// It holds no state of its own; every answer is recomputed from a snapshot.
type Aggregator struct {
	registry *registry.Registry
	history  *history.Store
	now      func() time.Time
}

func New(reg *registry.Registry, hist *history.Store) *Aggregator {
	return &Aggregator{registry: reg, history: hist, now: time.Now}
}

// Status returns the current view for one monitor, or
// domain.ErrMonitorNotFound for an unknown id.
func (a *Aggregator) Status(id domain.MonitorID) (MonitorStatus, error) {
	m, err := a.registry.Get(id)
	if err != nil {
		return MonitorStatus{}, err
	}
	return a.statusFor(m), nil
}

// Detail is Status plus the most recent retained checks.
func (a *Aggregator) Detail(id domain.MonitorID) (MonitorDetail, error) {
	m, err := a.registry.Get(id)
	if err != nil {
		return MonitorDetail{}, err
	}
	snap := a.history.Snapshot(m.ID)
	d := MonitorDetail{MonitorStatus: a.statusFromSnapshot(m, snap)}
	tail := snap
	if len(tail) > detailEntries {
		tail = tail[len(tail)-detailEntries:]
	}
	d.History = make([]HistoryEntry, len(tail))
	for i, cr := range tail {
		d.History[i] = HistoryEntry{
			CheckedAt:  cr.CheckedAt,
			Outcome:    cr.Outcome,
			LatencyMS:  cr.LatencyMS,
			StatusCode: cr.StatusCode,
		}
	}
	return d, nil
}

// StatusAll returns the view for every monitor in registry order.
func (a *Aggregator) StatusAll() Overview {
	list := a.registry.List()
	out := Overview{
		LastUpdated:   a.now().UTC(),
		TotalMonitors: len(list),
		Monitors:      make([]MonitorStatus, len(list)),
	}
	for i, m := range list {
		out.Monitors[i] = a.statusFor(m)
	}
	return out
}

func (a *Aggregator) statusFor(m domain.Monitor) MonitorStatus {
	return a.statusFromSnapshot(m, a.history.Snapshot(m.ID))
}

func (a *Aggregator) statusFromSnapshot(m domain.Monitor, snap []domain.CheckResult) MonitorStatus {
	now := a.now()
	st := MonitorStatus{
		ID:          m.ID,
		Name:        m.Name,
		Target:      m.Target,
		Status:      StatusUnknown,
		Uptime24h:   uptime(snap, now, window24h),
		Uptime7d:    uptime(snap, now, window7d),
		TotalChecks: len(snap),
	}
	if len(snap) > 0 {
		last := snap[len(snap)-1]
		st.Status = string(last.Outcome)
		checked := last.CheckedAt
		st.LastChecked = &checked
		st.LatencyMS = last.LatencyMS
		st.StatusCode = last.StatusCode
	}
	return st
}

// uptime is the percentage of up results checked strictly after
// now-lookback, rounded to two decimals. An empty window reads as 0:
// a deliberate conservative choice over reporting "no data".
func uptime(snap []domain.CheckResult, now time.Time, lookback time.Duration) float64 {
	cutoff := now.Add(-lookback)
	var total, up int
	for _, cr := range snap {
		if !cr.CheckedAt.After(cutoff) {
			continue
		}
		total++
		if cr.Up() {
			up++
		}
	}
	if total == 0 {
		return 0
	}
	return math.Round(100*float64(up)/float64(total)*100) / 100
}
