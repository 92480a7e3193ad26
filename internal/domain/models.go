package domain

import (
	"errors"
	"time"
)

type MonitorID string

// Monitor is one configured endpoint to probe. Immutable after load;
// a config reload replaces the whole set.
type Monitor struct {
	ID      MonitorID `json:"id" yaml:"id"`
	Name    string    `json:"name" yaml:"name"`
	Target  string    `json:"target" yaml:"target"`
	Cadence string    `json:"cadence" yaml:"cadence"` // 5-field cron expression
}

// Outcome is the classified result of a probe.
type Outcome string

const (
	OutcomeUp   Outcome = "up"
	OutcomeDown Outcome = "down"
)

// CheckResult is the outcome of a single probe. Immutable once created.
//
// StatusCode is 0 when the probe failed at the transport level; ErrorDetail
// is set only in that case.
type CheckResult struct {
	MonitorID   MonitorID `json:"monitor_id"`
	Outcome     Outcome   `json:"outcome"`
	StatusCode  int       `json:"status_code,omitempty"`
	LatencyMS   float64   `json:"latency_ms"`
	ErrorDetail string    `json:"error_detail,omitempty"`
	CheckedAt   time.Time `json:"checked_at"`
}

func (c CheckResult) Up() bool { return c.Outcome == OutcomeUp }

var ErrMonitorNotFound = errors.New("monitor not found")
