// Package httpapi exposes a judging run as a server-sent event stream for a
// browser consumer.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fwojciec/varjudge"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Starter launches a judging run and returns its progress stream. The
// channel must close after the terminal snapshot.
type Starter func(ctx context.Context) (<-chan varjudge.JudgeProgress, error)

// Server streams judging runs over SSE. Events are delivered in order:
// init once, progress one or more times, then exactly one of complete or
// error.
type Server struct {
	start Starter
}

// NewServer creates a Server that launches runs via start.
func NewServer(start Starter) *Server {
	return &Server{start: start}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/judge/stream", s.handleStream)
	return r
}

type initEvent struct {
	RunID string `json:"runId"`
}

type errorEvent struct {
	Message string `json:"message"`
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch, err := s.start(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeEvent(w, "init", initEvent{RunID: uuid.NewString()})
	flusher.Flush()

	for p := range ch {
		switch p.Phase {
		case varjudge.PhaseComplete:
			writeEvent(w, "complete", p.Result)
		case varjudge.PhaseError:
			writeEvent(w, "error", errorEvent{Message: p.Error})
		default:
			writeEvent(w, "progress", p)
		}
		flusher.Flush()
	}
}

func writeEvent(w io.Writer, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		// Marshaling domain types cannot realistically fail; emit an error
		// event rather than corrupting the stream.
		event = "error"
		data = []byte(fmt.Sprintf(`{"message": %q}`, err.Error()))
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
