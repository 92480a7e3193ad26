package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/statuswatch/statuswatch/internal/domain"
	"github.com/statuswatch/statuswatch/internal/executor"
	"github.com/statuswatch/statuswatch/internal/httpapi/middleware"
	"github.com/statuswatch/statuswatch/internal/registry"
	"github.com/statuswatch/statuswatch/internal/stats"
)

// Server is the query surface: read-only status views plus on-demand checks.
// It never blocks on the scheduler; reads go straight to the stores.
type Server struct {
	Logger   *zap.Logger
	Registry *registry.Registry
	Stats    *stats.Aggregator
	Executor *executor.Executor
}

func NewServer(l *zap.Logger, reg *registry.Registry, agg *stats.Aggregator, exec *executor.Executor) *Server {
	return &Server{Logger: l, Registry: reg, Stats: agg, Executor: exec}
}

func (s *Server) Router(rpm, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.RateLimit(rpm, burst))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/status", s.handleStatusAll)
	r.Get("/api/status/{id}", s.handleStatus)
	r.Post("/api/status/{id}/check", s.handleCheckNow)

	return r
}

func (s *Server) handleStatusAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Stats.StatusAll())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := domain.MonitorID(chi.URLParam(r, "id"))
	d, err := s.Stats.Detail(id)
	if errors.Is(err, domain.ErrMonitorNotFound) {
		writeError(w, http.StatusNotFound, "monitor not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleCheckNow(w http.ResponseWriter, r *http.Request) {
	id := domain.MonitorID(chi.URLParam(r, "id"))
	m, err := s.Registry.Get(id)
	if errors.Is(err, domain.ErrMonitorNotFound) {
		writeError(w, http.StatusNotFound, "monitor not found")
		return
	}

	cr := s.Executor.Execute(r.Context(), m)

	s.Logger.Info("manual_check",
		zap.String("monitor_id", string(m.ID)),
		zap.String("outcome", string(cr.Outcome)),
		zap.Float64("latency_ms", cr.LatencyMS),
	)

	st, err := s.Stats.Status(id)
	if errors.Is(err, domain.ErrMonitorNotFound) {
		// removed between Execute and Status; the append above was a no-op
		writeError(w, http.StatusNotFound, "monitor not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result": cr,
		"status": st,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
