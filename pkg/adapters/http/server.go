// Package http exposes the Arbor engine's query and fact surface over a
// JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/arbor/pkg/domain"
)

// Engine defines the interface the HTTP adapter needs from the Arbor core.
type Engine interface {
	ApplyLine(ctx context.Context, line string) (domain.Fact, error)
	Exists(id string) bool
	Get(id string) (domain.Item, error)
	Roots() []string
	Items() []string
	Tree(id string) (*domain.Tree, error)
	Verify() error
}

// Server wires the engine into a chi router.
type Server struct {
	engine Engine
	logger *slog.Logger
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/outlines", s.handleOutlines)
	r.Get("/outlines/{id}/tree", s.handleTree)
	r.Get("/items", s.handleItems)
	r.Get("/items/{id}", s.handleItem)
	r.Post("/facts", s.handleApplyFact)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Verify(); err != nil {
		s.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "inconsistent", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOutlines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"outlines": s.engine.Roots()})
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": s.engine.Items()})
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := s.engine.Get(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tree, err := s.engine.Tree(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// FactRequest is the body of POST /facts.
type FactRequest struct {
	Line string `json:"line"`
}

// FactResponse echoes the typed fact a line decoded to.
type FactResponse struct {
	Applied bool        `json:"applied"`
	Fact    domain.Fact `json:"fact"`
}

func (s *Server) handleApplyFact(w http.ResponseWriter, r *http.Request) {
	var req FactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.Line == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fact line"})
		return
	}

	fact, err := s.engine.ApplyLine(r.Context(), req.Line)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FactResponse{Applied: true, Fact: fact})
}

// writeError maps the engine's error taxonomy onto HTTP status codes.
// Precondition violations are conflicts with current state; parse-level
// failures are bad requests.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrPreconditionViolation):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrMalformedEncoding),
		errors.Is(err, domain.ErrInvalidPosition),
		errors.Is(err, domain.ErrNoMatchingPattern),
		errors.Is(err, domain.ErrUnknownFactKind):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{
		"error":  err.Error(),
		"reason": domain.RejectReason(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
