package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/napatw/CareLine-Appointment-Assistant/agent/agents/assistant"
	nodex "github.com/napatw/CareLine-Appointment-Assistant/agent/nodes"
	metricsx "github.com/napatw/CareLine-Appointment-Assistant/internal/observability/metrics"
)

// workflowService is the slice of the assistant the HTTP layer needs.
type workflowService interface {
	HandleRequest(ctx context.Context, text string) (nodex.GraphOutput, error)
	Finalize(ctx context.Context, req assistant.FinalizeRequest) (assistant.FinalizeResult, error)
}

// ReadinessProbe reports whether the model provider is reachable.
type ReadinessProbe func(ctx context.Context) error

type Server struct {
	svc     workflowService
	metrics *metricsx.WorkflowMetrics
	ready   ReadinessProbe
	router  chi.Router
}

func NewServer(svc workflowService, m *metricsx.WorkflowMetrics, reg *prometheus.Registry, ready ReadinessProbe) *Server {
	s := &Server{
		svc:     svc,
		metrics: m,
		ready:   ready,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Post("/api/process", s.handleProcess)
	r.Post("/api/finalize", s.handleFinalize)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	metricsHandler := promhttp.Handler()
	if reg != nil {
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the context is cancelled, then shuts down with
// a short drain window.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
