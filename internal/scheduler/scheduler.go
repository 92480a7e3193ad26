package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/statuswatch/statuswatch/internal/domain"
	"github.com/statuswatch/statuswatch/internal/executor"
	"github.com/statuswatch/statuswatch/internal/registry"
)

// Scheduler owns one timer task per monitor and fires the executor on each
// monitor's cron cadence. Tasks move Stopped -> Running on Start/Reschedule
// and Running -> Stopped on Stop or removal; there is no other state.
type Scheduler struct {
	logger   *zap.Logger
	registry *registry.Registry
	exec     *executor.Executor
	parse    func(string) (cron.Schedule, error)

	mu      sync.Mutex
	cancels map[domain.MonitorID]context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

func New(logger *zap.Logger, reg *registry.Registry, exec *executor.Executor) *Scheduler {
	return &Scheduler{
		logger:   logger,
		registry: reg,
		exec:     exec,
		parse:    cron.ParseStandard, // 5-field: minute hour dom month dow
		cancels:  make(map[domain.MonitorID]context.CancelFunc),
	}
}

// Start creates one running task per monitor in the current registry set.
// Monitors with an unparseable cadence stay registered but get no timer.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.startLocked()
}

// Stop cancels every task and waits for the task loops to exit. In-flight
// probes are not interrupted; they finish under the executor's own timeout
// and their late appends are no-ops if the monitor is gone.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.stopLocked()
}

// Reschedule rebuilds the task set from the current registry, dropping every
// stale timer. Called after a registry reload.
func (s *Scheduler) Reschedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.stopLocked()
	s.startLocked()
}

// CheckAll fires one immediate execution for every monitor, off-cadence.
// Used for the startup pass.
func (s *Scheduler) CheckAll() {
	for _, m := range s.registry.List() {
		go s.exec.Execute(context.Background(), m)
	}
}

func (s *Scheduler) startLocked() {
	s.running = true
	for _, m := range s.registry.List() {
		sched, err := s.parse(m.Cadence)
		if err != nil {
			s.logger.Warn("cadence_parse_error",
				zap.String("monitor_id", string(m.ID)),
				zap.String("cadence", m.Cadence),
				zap.Error(err),
			)
			continue
		}
		ctx, cancel := context.WithCancel(context.Background())
		s.cancels[m.ID] = cancel
		s.wg.Add(1)
		go s.run(ctx, m, sched)
	}
	s.logger.Info("scheduler_started", zap.Int("tasks", len(s.cancels)))
}

func (s *Scheduler) stopLocked() {
	for _, cancel := range s.cancels {
		cancel()
	}
	s.wg.Wait()
	s.cancels = make(map[domain.MonitorID]context.CancelFunc)
	s.running = false
	s.logger.Info("scheduler_stopped")
}

func (s *Scheduler) run(ctx context.Context, m domain.Monitor, sched cron.Schedule) {
	defer s.wg.Done()
	for {
		timer := time.NewTimer(time.Until(sched.Next(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			// Executions run detached so a slow probe never delays the next
			// firing; overlapping runs for the same monitor are independent
			// appends.
			go s.exec.Execute(context.Background(), m)
		}
	}
}
