package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/agent"
	"github.com/spetersoncode/scout/agui"
	"github.com/spetersoncode/scout/internal/store"
)

// questionRequest is the body of /api/research and /api/ask.
type questionRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// askResponse is the body returned by /api/ask.
type askResponse struct {
	Answer    string   `json:"answer"`
	ToolsUsed []string `json:"tools_used"`
	SessionID string   `json:"session_id"`
}

type errorResponse struct {
	Error     string `json:"error"`
	SessionID string `json:"session_id,omitempty"`
}

type handler struct {
	sessions *sessionManager
	log      *slog.Logger
}

func newMux(sessions *sessionManager, logger *slog.Logger) *http.ServeMux {
	h := &handler{sessions: sessions, log: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("POST /api/research", h.research)
	mux.HandleFunc("POST /api/ask", h.ask)
	mux.HandleFunc("DELETE /api/session/{id}", h.deleteSession)
	return mux
}

// decodeQuestion reads and validates a question request.
func decodeQuestion(r *http.Request) (questionRequest, error) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return req, errors.New("question is required")
	}
	return req, nil
}

// research streams one question's events as AG-UI server-sent events.
func (h *handler) research(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := decodeQuestion(r)
	if err != nil {
		h.log.Warn("invalid research request", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	s, done, err := h.sessions.resolve(req.SessionID)
	if err != nil {
		h.log.Error("session unavailable", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	defer done()

	mapper := agui.NewMapper(s.id, "")
	log := h.log.With("session_id", s.id, "run_id", mapper.RunID())
	log.Info("research started")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	var eventCount int
	for ev := range mapper.MapStream(ctx, s.agent.Research(ctx, req.Question)) {
		eventCount++
		if err := writeSSE(w, flusher, ev); err != nil {
			log.Error("failed to write SSE event",
				"error", err,
				"event_type", ev.Type(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return
		}
	}

	log.Info("research completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", eventCount,
	)
}

// ask answers one question and returns the answer as JSON.
func (h *handler) ask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := decodeQuestion(r)
	if err != nil {
		h.log.Warn("invalid ask request", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	s, done, err := h.sessions.resolve(req.SessionID)
	if err != nil {
		h.log.Error("session unavailable", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	defer done()
	log := h.log.With("session_id", s.id)

	result, err := s.agent.Ask(r.Context(), req.Question)
	if err != nil {
		status := statusFor(err)
		log.Warn("ask failed",
			"error", err,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		if delay := ai.RetryAfterOf(err); delay > 0 && status == http.StatusServiceUnavailable {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(delay)))
		}
		writeJSON(w, status, errorResponse{Error: err.Error(), SessionID: s.id})
		return
	}

	tools := result.ToolsUsed
	if tools == nil {
		tools = []string{}
	}
	log.Info("ask completed",
		"termination", result.Termination,
		"iterations", result.Iterations,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	writeJSON(w, http.StatusOK, askResponse{
		Answer:    result.Answer,
		ToolsUsed: tools,
		SessionID: s.id,
	})
}

// statusFor maps a failed question to a response status. Reasoner errors
// carry a category; tool backend failures do not and count as 502.
func statusFor(err error) int {
	switch {
	case errors.Is(err, agent.ErrTimeout):
		return http.StatusGatewayTimeout
	case ai.IsUserInput(err):
		return http.StatusBadRequest
	case ai.IsTransient(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// retryAfterSeconds rounds delay up to whole seconds.
func retryAfterSeconds(delay time.Duration) int {
	return int((delay + time.Second - 1) / time.Second)
}

// deleteSession forgets a session and closes its tool connection.
func (h *handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.sessions.Delete(id); err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found", SessionID: id})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), SessionID: id})
		return
	}
	h.log.Info("session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// writeSSE writes an AG-UI event in SSE format.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	// Write SSE format: event: TYPE\ndata: {json}\n\n
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), string(data)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
