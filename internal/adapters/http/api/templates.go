// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/gemba/internal/domain/model"
)

// TemplateDependencies defines the interface for template administration.
type TemplateDependencies interface {
	CreateTemplate(ctx context.Context, tpl model.Template) (model.Template, error)
	Templates(ctx context.Context) ([]model.Template, error)
	Template(ctx context.Context, id string) (model.Template, error)
	DeleteTemplate(ctx context.Context, id string) error
}

// TemplatesHandler handles template requests.
type TemplatesHandler struct {
	deps TemplateDependencies
}

// NewTemplatesHandler creates a new templates handler.
func NewTemplatesHandler(deps TemplateDependencies) *TemplatesHandler {
	return &TemplatesHandler{deps: deps}
}

// HandleCollection handles POST /templates and GET /templates requests.
func (h *TemplatesHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *TemplatesHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_template"
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	tpl, err := h.deps.CreateTemplate(r.Context(), model.Template{
		Name:         req.Name,
		AssignedRole: req.AssignedRole,
		WindowHours:  req.WindowHours,
		Slots:        req.Slots,
	})
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

func (h *TemplatesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_templates"
	tpls, err := h.deps.Templates(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, tpls)
}

// HandleItem handles GET /templates/{id} and DELETE /templates/{id} requests.
func (h *TemplatesHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.template_item"
	id := pathID(r, "/templates/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	switch r.Method {
	case http.MethodGet:
		tpl, err := h.deps.Template(r.Context(), id)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, tpl)
	case http.MethodDelete:
		if err := h.deps.DeleteTemplate(r.Context(), id); err != nil {
			writeDomainError(w, op, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}
