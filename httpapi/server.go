// Package httpapi exposes the conversation engine over HTTP. The wire
// contract is thin glue: POST /chat in, {state, reply} out.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	romind "github.com/scentunivers/romind-go"
	"github.com/scentunivers/romind-go/logging"
)

// ChatRequest is the inbound chat payload.
type ChatRequest struct {
	SessionID string           `json:"session_id,omitempty"`
	Persona   string           `json:"persona,omitempty"`
	Message   string           `json:"message"`
	History   []romind.Message `json:"history,omitempty"`
}

// ChatResponse is the outbound payload.
type ChatResponse struct {
	SessionID string          `json:"session_id"`
	State     romind.Snapshot `json:"state"`
	Reply     string          `json:"reply"`
}

// Server wraps the engine with HTTP routing and lifecycle.
type Server struct {
	engine *romind.Engine
	log    *slog.Logger
}

// NewServer creates an HTTP front for the given engine.
func NewServer(engine *romind.Engine) *Server {
	return &Server{engine: engine, log: logging.New("httpapi")}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	return mux
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	out := s.engine.Process(r.Context(), romind.Inbound{
		SessionID: req.SessionID,
		Persona:   req.Persona,
		Message:   req.Message,
		History:   req.History,
	})

	writeJSON(w, http.StatusOK, ChatResponse{
		SessionID: out.SessionID,
		State:     out.State,
		Reply:     out.Reply,
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "ROMIND Cloud Core is online.",
		"hint":    "Send POST /chat with { persona, message, history } to talk to ROMIND.",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Run serves on addr and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
	}

	s.log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
