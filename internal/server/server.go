// Package server implements serve mode: a chi HTTP API exposing inspection
// reports, resource graphs and rendition comparisons per encoding, plus
// Prometheus metrics.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/enclens/enclens/pkg/encodingapi"
	"github.com/enclens/enclens/pkg/inspect"
)

const shutdownTimeout = 10 * time.Second

// Server serves the inspection API for one upstream encoding account.
type Server struct {
	client  *encodingapi.Client
	workers int
	log     *log.Logger
	metrics *Metrics

	mu         sync.Mutex
	inspectors map[string]*inspect.Inspector
}

// New creates a Server. workers bounds the concurrency of each walk.
func New(client *encodingapi.Client, workers int, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		client:     client,
		workers:    workers,
		log:        logger,
		metrics:    NewMetrics(),
		inspectors: make(map[string]*inspect.Inspector),
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(s.metrics.requestMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/encodings/{id}", func(r chi.Router) {
		r.Get("/report", s.handleReport)
		r.Get("/graph.dot", s.handleGraphDOT)
		r.Get("/graph.svg", s.handleGraphSVG)
		r.Get("/sources", s.handleSources)
		r.Get("/renditions", s.handleRenditions)
	})
	return r
}

// Run serves until ctx is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	s.log.Info("serving", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := log.WithContext(r.Context(), s.log)
		next.ServeHTTP(w, r.WithContext(ctx))
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start).Round(time.Millisecond))
	})
}

// inspectorFor returns the per-encoding inspector, creating it on first use.
func (s *Server) inspectorFor(encodingID string) *inspect.Inspector {
	s.mu.Lock()
	defer s.mu.Unlock()
	insp, ok := s.inspectors[encodingID]
	if !ok {
		insp = inspect.NewInspector(s.client, s.workers)
		s.inspectors[encodingID] = insp
	}
	return insp
}

// result returns the latest inspection of the encoding, walking it on first
// request or when refresh is set.
func (s *Server) result(ctx context.Context, encodingID string, refresh bool) (*inspect.Result, error) {
	insp := s.inspectorFor(encodingID)
	if !refresh {
		if latest := insp.Latest(); latest != nil && latest.EncodingID == encodingID {
			return latest, nil
		}
	}

	start := time.Now()
	result, err := insp.Inspect(ctx, encodingID)
	s.metrics.inspectionsTotal.Inc()
	if err != nil {
		s.metrics.inspectionFailures.Inc()
		return nil, err
	}
	s.metrics.inspectionDuration.Observe(time.Since(start).Seconds())
	return result, nil
}
