package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/statuswatch/statuswatch/internal/config"
	"github.com/statuswatch/statuswatch/internal/executor"
	"github.com/statuswatch/statuswatch/internal/history"
	"github.com/statuswatch/statuswatch/internal/httpapi"
	"github.com/statuswatch/statuswatch/internal/logging"
	"github.com/statuswatch/statuswatch/internal/probe"
	"github.com/statuswatch/statuswatch/internal/registry"
	"github.com/statuswatch/statuswatch/internal/scheduler"
	"github.com/statuswatch/statuswatch/internal/stats"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	hist := history.New()
	reg := registry.New(hist)

	defs, err := config.LoadMonitors(cfg.MonitorsFile)
	if err != nil {
		// start with zero monitors rather than refusing to start
		logger.Warn("monitors_load_error",
			zap.String("file", cfg.MonitorsFile),
			zap.Error(err),
		)
		defs = nil
	}
	reg.Load(defs)
	logger.Info("monitors_loaded", zap.Int("count", len(defs)))

	var checker probe.Checker = probe.NewHTTPChecker(cfg.HTTPTimeout)
	if cfg.RetryAttempts > 1 {
		checker = &probe.RetryChecker{
			Inner:    checker,
			Attempts: cfg.RetryAttempts,
			Backoff:  cfg.RetryBackoff,
		}
	}

	exec := executor.New(logger, hist, checker, cfg.HTTPTimeout)
	sched := scheduler.New(logger, reg, exec)
	agg := stats.New(reg, hist)

	sched.Start()
	kick := time.AfterFunc(cfg.StartupCheckDelay, sched.CheckAll)
	defer kick.Stop()

	api := httpapi.NewServer(logger, reg, agg, exec)
	srv := &http.Server{Addr: cfg.Addr, Handler: api.Router(cfg.PublicRPM, cfg.PublicBurst)}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			defs, err := config.LoadMonitors(cfg.MonitorsFile)
			if err != nil {
				logger.Warn("monitors_reload_error", zap.Error(err))
				continue
			}
			reg.Load(defs)
			sched.Reschedule()
			logger.Info("monitors_reloaded", zap.Int("count", len(defs)))
		}
	}()

	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("api_listen_error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown_started")

	sched.Stop()

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("api_shutdown_error", zap.Error(err))
	}
	logger.Info("shutdown_complete")
}
