package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"reelscribe/internal/api"
	"reelscribe/internal/jobs"
	"reelscribe/internal/logging"
	"reelscribe/internal/services"
	"reelscribe/internal/workflow"
)

const (
	requestIDHeader = "X-Request-ID"
	maxRequestBody  = 1 << 20
)

// Submitter queues a URL for transcription. *workflow.Manager satisfies it.
type Submitter interface {
	Submit(ctx context.Context, sourceURL string) (jobs.Job, error)
}

type apiServer struct {
	bind      string
	logger    *slog.Logger
	registry  *jobs.Registry
	submitter Submitter
	models    ModelStatus

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

func newAPIServer(bind string, registry *jobs.Registry, submitter Submitter, models ModelStatus, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:      strings.TrimSpace(bind),
		logger:    logging.NewComponentLogger(logger, "api-server"),
		registry:  registry,
		submitter: submitter,
		models:    models,
	}
	srv.server = &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/transcribe", s.handleTranscribe).Methods(http.MethodPost)
	r.HandleFunc("/api/jobs", s.handleJobs).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/{id}", s.handleJob).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	// Wrapped outside the router so 404, 405, and preflight responses carry them too.
	return withCORS(s.withRequestID(r))
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func (s *apiServer) address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

func (s *apiServer) modelsLoaded() bool {
	return s.models != nil && s.models.Present()
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, api.HealthResponse{
		Status:       "ok",
		Version:      api.Version,
		ModelsLoaded: s.modelsLoaded(),
	})
}

func (s *apiServer) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var req api.TranscribeRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := decoder.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	job, err := s.submitter.Submit(r.Context(), req.URL)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrValidation):
		s.writeError(w, http.StatusBadRequest, services.Details(err))
		return
	case errors.Is(err, workflow.ErrNotRunning):
		s.writeError(w, http.StatusServiceUnavailable, "daemon is shutting down")
		return
	default:
		logging.WithContext(r.Context(), s.logger).Error("submit failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to queue job")
		return
	}
	s.writeJSON(w, http.StatusOK, api.TranscribeResponse{JobID: job.ID, Status: job.Status})
}

func (s *apiServer) handleJobs(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, api.FromJobs(s.registry.List()))
}

func (s *apiServer) handleJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.registry.Get(mux.Vars(r)["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromJob(job))
}

func (s *apiServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := services.WithRequestID(r.Context(), id)
		logging.WithContext(ctx, s.logger).Debug("api request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, "+requestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}
