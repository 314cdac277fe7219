// Package api exposes the HTTP surface: record listings and detail, game
// submission and polling, live event streams, and the audit trail. All real
// invariants live in the record and task packages; handlers here only
// translate requests and responses.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/a2639443196/liars-bar-llm/audit"
	"github.com/a2639443196/liars-bar-llm/engine"
	"github.com/a2639443196/liars-bar-llm/observe"
	"github.com/a2639443196/liars-bar-llm/record"
	"github.com/a2639443196/liars-bar-llm/schedule"
	"github.com/a2639443196/liars-bar-llm/task"
)

type Config struct {
	Addr           string
	Records        *record.Store
	Registry       *task.Registry
	AuditStore     audit.Store
	Scheduler      *schedule.Scheduler
	DefaultPlayers []engine.Player
}

type Server struct {
	cfg    Config
	stream *eventStream
	mux    *http.ServeMux
	http   *http.Server
	once   sync.Once
}

func NewServer(cfg Config) *Server {
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = "0.0.0.0:8000"
	}
	s := &Server{
		cfg:    cfg,
		stream: newEventStream(),
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	s.http = &http.Server{Addr: cfg.Addr, Handler: withAccessLog(s.mux)}
	return s
}

// Handler exposes the routed mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	if s == nil {
		return http.NotFoundHandler()
	}
	return s.mux
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("server is nil")
	}
	errCh := make(chan error, 1)
	go func() {
		err := s.http.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		log.Println("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown error: %v", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	var outErr error
	s.once.Do(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		outErr = s.http.Shutdown(shutdownCtx)
	})
	return outErr
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/api/records", s.handleRecords)
	s.mux.HandleFunc("/api/records/", s.handleRecordDetail)
	s.mux.HandleFunc("/api/games", s.handleGames)
	s.mux.HandleFunc("/api/games/", s.handleGameStatus)
	s.mux.HandleFunc("/api/audit/logs", s.handleAuditLogs)
	s.mux.HandleFunc("/api/schedules", s.handleSchedules)
	s.mux.HandleFunc("/api/stream/events", s.handleSSE)
	s.mux.HandleFunc("/api/stream/ws", s.handleWS)
	s.mux.HandleFunc("/", s.handleIndex)
}

// Emit publishes an event to all connected stream watchers. Wired into the
// registry's sink chain at startup.
func (s *Server) Emit(event observe.Event) {
	event.Normalize()
	s.stream.publish(event)
}

// Sink adapts the server's event stream to observe.Sink.
func (s *Server) Sink() observe.Sink {
	return observe.SinkFunc(func(_ context.Context, event observe.Event) error {
		s.Emit(event)
		return nil
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "liars-bar-llm",
		"endpoints": []string{
			"/api/records",
			"/api/records/{id}",
			"/api/games",
			"/api/games/{task_id}",
			"/api/audit/logs",
			"/api/schedules",
			"/api/stream/events",
			"/api/stream/ws",
		},
	})
}

func (s *Server) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	if s.cfg.AuditStore == nil {
		writeJSON(w, http.StatusOK, []audit.Entry{})
		return
	}
	entries, err := s.cfg.AuditStore.Recent(r.Context(), parseInt(r.URL.Query().Get("limit"), 50))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSchedules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	if s.cfg.Scheduler == nil {
		writeJSON(w, http.StatusOK, []schedule.Job{})
		return
	}
	writeJSON(w, http.StatusOK, s.cfg.Scheduler.List())
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func parseInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, map[string]any{"error": msg})
}
