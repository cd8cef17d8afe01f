// Package httpapi exposes the worker operations over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/zerr"
)

// HeaderLogStream carries the caller's log stream identifier on POST /run.
const HeaderLogStream = "X-Log-Stream"

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
	maxBodyBytes      = 8 << 20
)

// TestRunner executes test runs.
type TestRunner interface {
	Run(ctx context.Context, req domain.RunRequest, logStream string) (domain.RunResponse, error)
}

// Syncer diffs manifests against storage.
type Syncer interface {
	Sync(ctx context.Context, m *domain.Manifest) (domain.SyncResult, error)
}

// RequestRouter answers asset requests.
type RequestRouter interface {
	Handle(ctx context.Context, path string) (domain.Response, error)
}

// Server serves the worker API.
type Server struct {
	runner TestRunner
	syncer Syncer
	router RequestRouter
	logger ports.Logger
}

// NewServer creates a Server.
func NewServer(runner TestRunner, syncer Syncer, router RequestRouter, logger ports.Logger) *Server {
	return &Server{
		runner: runner,
		syncer: syncer,
		router: router,
		logger: logger,
	}
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Post("/run", s.handleRun)
	r.Post("/sync", s.handleSync)
	r.Get("/{bucket}/{session}/*", s.handleRoute)
	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("serving", "addr", addr)

	select {
	case err := <-errCh:
		return zerr.With(zerr.Wrap(err, "server stopped"), "addr", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, "failed to shut down server")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req domain.RunRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.FailureResponse{ErrorMessage: err.Error()})
		return
	}

	logStream := r.Header.Get(HeaderLogStream)
	if logStream == "" {
		logStream = uuid.NewString()
	}

	resp, err := s.runner.Run(r.Context(), req, logStream)
	if err != nil {
		metricRuns.WithLabelValues(outcomeFailure).Inc()
		s.logger.Error(err)
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrMissingManifest) {
			status = http.StatusBadRequest
		}
		respondJSON(w, status, domain.NewFailureResponse(err))
		return
	}

	metricRuns.WithLabelValues(outcomeSuccess).Inc()
	metricTestsExecuted.Add(float64(len(resp.Body)))
	respondJSON(w, resp.StatusCode, resp)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var m domain.Manifest
	if err := decodeBody(w, r, &m); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.syncer.Sync(r.Context(), &m)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidManifest) {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		s.logger.Error(err)
		respondError(w, http.StatusBadGateway, err)
		return
	}

	metricNeededAssets.Observe(float64(len(result.Needed)))
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	resp, err := s.router.Handle(r.Context(), r.URL.EscapedPath())
	if err != nil {
		s.logger.Error(err)
		observeRoute(http.StatusBadGateway)
		respondError(w, http.StatusBadGateway, err)
		return
	}

	observeRoute(resp.StatusCode)
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		_, _ = w.Write([]byte(resp.Body))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return zerr.Wrap(err, "invalid request body")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}{
		Error:  domain.ChainMessage(err),
		Status: status,
	})
}
