package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/lifeplan/household-calculator/internal/calculation"
	"github.com/lifeplan/household-calculator/internal/config"
	"github.com/lifeplan/household-calculator/internal/domain"
	"github.com/lifeplan/household-calculator/internal/store"
)

// Handler holds the dependencies for the HTTP handlers.
type Handler struct {
	Engine *calculation.Engine
	Store  *store.Store
	Parser *config.InputParser
}

// NewHandler creates a handler around an engine and an optional store.
func NewHandler(engine *calculation.Engine, st *store.Store) *Handler {
	return &Handler{
		Engine: engine,
		Store:  st,
		Parser: config.NewInputParser(),
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Reason, Field: verr.Field})
	case domain.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrBlockNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// RunProjection projects a configuration posted as JSON. Identical inputs
// yield identical results, so requests are safe to retry or cache.
func (h *Handler) RunProjection(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	cfg, err := h.Parser.ParseJSON(body)
	if err != nil {
		projectionsTotal.WithLabelValues("invalid").Inc()
		writeError(w, err)
		return
	}
	h.project(w, r, cfg)
}

// ProjectStored runs a projection on a stored configuration block.
func (h *Handler) ProjectStored(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no store configured"})
		return
	}
	name := chi.URLParam(r, "name")
	payload, err := h.Store.LoadBlock(name)
	if err != nil {
		writeError(w, err)
		return
	}
	cfg, err := h.Parser.ParseJSON(payload)
	if err != nil {
		projectionsTotal.WithLabelValues("invalid").Inc()
		writeError(w, err)
		return
	}
	h.project(w, r, cfg)
}

func (h *Handler) project(w http.ResponseWriter, r *http.Request, cfg *domain.Configuration) {
	start := time.Now()
	result, err := h.Engine.Project(r.Context(), cfg)
	projectionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		projectionsTotal.WithLabelValues("error").Inc()
		writeError(w, err)
		return
	}
	projectionsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, result)
}

// ListConfigs lists the stored configuration block names.
func (h *Handler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no store configured"})
		return
	}
	names, err := h.Store.ListBlocks()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"configs": names})
}

// GetConfig returns a stored configuration block verbatim.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no store configured"})
		return
	}
	payload, err := h.Store.LoadBlock(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
}

// PutConfig validates and stores a configuration block.
func (h *Handler) PutConfig(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no store configured"})
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.Parser.ParseJSON(body); err != nil {
		writeError(w, err)
		return
	}
	name := chi.URLParam(r, "name")
	if err := h.Store.SaveBlock(name, body); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"saved": name})
}

// DeleteConfig removes a stored configuration block.
func (h *Handler) DeleteConfig(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no store configured"})
		return
	}
	name := chi.URLParam(r, "name")
	if err := h.Store.DeleteBlock(name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": name})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
