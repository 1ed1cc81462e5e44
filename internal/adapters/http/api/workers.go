// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/gemba/internal/domain/model"
	"github.com/okian/gemba/internal/domain/types"
)

// WorkerDependencies defines the interface for worker administration and
// roster reads.
type WorkerDependencies interface {
	PutWorker(ctx context.Context, w model.Worker) (model.Worker, error)
	Worker(ctx context.Context, id string) (model.Worker, error)
	DeleteWorker(ctx context.Context, id string) error
	Roster(ctx context.Context, templateID string) (types.Roster, error)
}

// WorkersHandler handles worker requests.
type WorkersHandler struct {
	deps WorkerDependencies
}

// NewWorkersHandler creates a new workers handler.
func NewWorkersHandler(deps WorkerDependencies) *WorkersHandler {
	return &WorkersHandler{deps: deps}
}

// HandleCollection handles POST /workers and GET /workers?template={id}.
// The GET form returns the eligibility roster for the template: its
// active role members annotated with cooldown status.
func (h *WorkersHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handlePut(w, r)
	case http.MethodGet:
		h.handleRoster(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *WorkersHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_worker"
	var req workerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	worker, err := h.deps.PutWorker(r.Context(), model.Worker{
		ID:     req.ID,
		Name:   req.Name,
		Role:   req.Role,
		Active: active,
	})
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, worker)
}

func (h *WorkersHandler) handleRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_roster"
	templateID := r.URL.Query().Get("template")
	if templateID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	roster, err := h.deps.Roster(r.Context(), templateID)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// HandleItem handles GET /workers/{id} and DELETE /workers/{id} requests.
func (h *WorkersHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.worker_item"
	id := pathID(r, "/workers/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	switch r.Method {
	case http.MethodGet:
		worker, err := h.deps.Worker(r.Context(), id)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, worker)
	case http.MethodDelete:
		if err := h.deps.DeleteWorker(r.Context(), id); err != nil {
			writeDomainError(w, op, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}
