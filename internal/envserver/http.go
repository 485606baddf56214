package envserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/registry"
)

const maxBodyBytes = 1 << 16

type errorBody struct {
	Error string `json:"error"`
}

// Handler serves the HTTP and WebSocket API.
type Handler struct {
	manager *Manager
	logger  *log.Logger
}

// NewHandler creates the API handler.
func NewHandler(m *Manager, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{manager: m, logger: logger}
}

// Router builds the route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.HandleFunc("/v1/agents", h.listAgents).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1/envs").Subrouter()
	v1.HandleFunc("", h.create).Methods(http.MethodPost)
	v1.HandleFunc("/{id}/reset", h.reset).Methods(http.MethodPost)
	v1.HandleFunc("/{id}/step", h.step).Methods(http.MethodPost)
	v1.HandleFunc("/{id}/snapshot", h.snapshot).Methods(http.MethodGet)
	v1.HandleFunc("/{id}/ws", h.attach).Methods(http.MethodGet)
	v1.HandleFunc("/{id}", h.closeSession).Methods(http.MethodDelete)
	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": h.manager.Count()})
}

func (h *Handler) listAgents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, registry.List())
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !h.decode(w, r, &req) {
		return
	}
	_, resp, err := h.manager.Create(req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	var req ResetRequest
	if !h.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.Reset(req))
}

func (h *Handler) step(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	var req StepRequest
	if !h.decode(w, r, &req) {
		return
	}
	t, err := s.Step(req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Close(mux.Vars(r)["id"]); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads an optional JSON body. An empty body leaves v untouched.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	code := httpStatus(err)
	if code == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	writeJSON(w, code, errorBody{Error: err.Error()})
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooManySessions):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
