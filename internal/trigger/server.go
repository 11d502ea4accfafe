package trigger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"log/slog"
)

// Server is the HTTP ingress for translation events. It exposes a single
// POST /events route: valid events are queued and acknowledged with 202,
// everything else gets a 4xx.
type Server struct {
	httpServer *http.Server
	queue      *Queue
	logger     *slog.Logger
}

const maxEventBody = 1 << 20 // 1 MiB

func NewServer(addr string, queue *Queue, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{queue: queue, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvent)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read body"})
		return
	}

	event, err := ParseEvent(body)
	if err != nil {
		s.logger.Warn("rejected event", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	queued := s.queue.Enqueue(r.Context(), event.Data.OrderID)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"orderId": event.Data.OrderID.String(),
		"queued":  queued,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("event server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains the HTTP server, then the queue.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.queue.Shutdown(ctx)
	return err
}
