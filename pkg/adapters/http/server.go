// Package http exposes a read-only monitoring API for simulation runs: the
// step journal, live step events over SSE, the mover graph and metrics.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the monitoring API.
type Server struct {
	store    ports.StepStore
	streams  *StreamManager
	gatherer prometheus.Gatherer
	graph    func() string
	version  string
	logger   *slog.Logger
	router   chi.Router
}

// Option configures the server.
type Option func(*Server)

// WithGatherer serves the gathered metrics on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithGraph serves a Mermaid rendering of the mover tree on GET /graph.
// render is called on every request, so it may reflect the running state.
func WithGraph(render func() string) Option {
	return func(s *Server) {
		s.graph = render
	}
}

// WithVersion is reported by GET /info.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates the API over store.
func NewServer(store ports.StepStore, opts ...Option) *Server {
	s := &Server{
		store:   store,
		streams: NewStreamManager(),
		version: "unknown",
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams.logger = s.logger

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/runs", s.ListRuns)
	r.Get("/runs/{runID}/steps", s.GetSteps)
	r.Get("/events", s.SubscribeEvents)
	if s.graph != nil {
		r.Get("/graph", s.GetGraph)
	}
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hooks returns lifecycle hooks that broadcast every step to the SSE
// subscribers of its run.
func (s *Server) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			data, err := json.Marshal(e)
			if err != nil {
				s.logger.Error("step event encode failed", "error", err)
				return
			}
			s.streams.Broadcast(e.RunID, string(data))
		},
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "tps",
		"version": strings.TrimSpace(s.version),
	})
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.Runs(r.Context())
	if err != nil {
		http.Error(w, "list runs failed", http.StatusInternalServerError)
		s.logger.Error("list runs failed", "error", err)
		return
	}
	if runs == nil {
		runs = []string{}
	}
	s.writeJSON(w, runs)
}

// GetSteps handles GET /runs/{runID}/steps.
func (s *Server) GetSteps(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	steps, err := s.store.Steps(r.Context(), runID)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		http.Error(w, "read steps failed", http.StatusInternalServerError)
		s.logger.Error("read steps failed", "run_id", runID, "error", err)
		return
	}
	s.writeJSON(w, steps)
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, s.graph())
}

// SubscribeEvents handles GET /events?run_id=... (SSE). Each event carries
// one JSON encoded domain.StepEvent.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		http.Error(w, "run_id is required", http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(runID)
	defer cancel()

	io.WriteString(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE subscribed", "run_id", runID)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "run_id", runID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			io.WriteString(w, "event: step\ndata: "+msg+"\n\n")
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// StreamManager fans step events out to SSE subscribers by run ID.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Subscribe registers a buffered channel for runID. The returned func
// unregisters and closes it.
func (sm *StreamManager) Subscribe(runID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	if _, ok := sm.subscribers[runID]; !ok {
		sm.subscribers[runID] = make(map[chan string]struct{})
	}
	sm.subscribers[runID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[runID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, runID)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of runID. Slow subscribers drop
// messages instead of blocking the simulation.
func (sm *StreamManager) Broadcast(runID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[runID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE buffer full, dropping step", "run_id", runID)
		}
	}
}
