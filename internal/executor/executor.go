package executor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/statuswatch/statuswatch/internal/domain"
	"github.com/statuswatch/statuswatch/internal/history"
	"github.com/statuswatch/statuswatch/internal/probe"
)

// Executor runs one probe against a monitor's target, classifies the outcome
// and appends it to history. Probe failures are data here, never errors:
// every path ends in a CheckResult.
type Executor struct {
	Logger  *zap.Logger
	History *history.Store
	Checker probe.Checker
	Timeout time.Duration
}

func New(logger *zap.Logger, hist *history.Store, checker probe.Checker, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Executor{Logger: logger, History: hist, Checker: checker, Timeout: timeout}
}

// Execute probes m once and records the result. The append is a silent no-op
// when m was removed by a concurrent reload; the result is still returned so
// on-demand checks can render it without a second read.
func (e *Executor) Execute(ctx context.Context, m domain.Monitor) domain.CheckResult {
	cctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	out := e.Checker.Check(cctx, m.Target)

	cr := domain.CheckResult{
		MonitorID: m.ID,
		LatencyMS: out.LatencyMS,
		CheckedAt: time.Now().UTC(),
	}
	switch {
	case out.Success:
		cr.Outcome = domain.OutcomeUp
		cr.StatusCode = out.StatusCode
	case out.StatusCode != 0:
		cr.Outcome = domain.OutcomeDown
		cr.StatusCode = out.StatusCode
	default:
		cr.Outcome = domain.OutcomeDown
		cr.ErrorDetail = out.Message
	}

	e.History.Append(m.ID, cr)

	if cr.Outcome == domain.OutcomeDown {
		e.Logger.Info("probe_down",
			zap.String("monitor_id", string(m.ID)),
			zap.String("target", m.Target),
			zap.Int("status", cr.StatusCode),
			zap.String("error", cr.ErrorDetail),
			zap.Float64("latency_ms", cr.LatencyMS),
		)
	} else {
		e.Logger.Debug("probe_ok",
			zap.String("monitor_id", string(m.ID)),
			zap.String("target", m.Target),
			zap.Int("status", cr.StatusCode),
			zap.Float64("latency_ms", cr.LatencyMS),
		)
	}
	return cr
}
