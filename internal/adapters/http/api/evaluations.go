// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	service "github.com/okian/gemba/internal/app"
	"github.com/okian/gemba/internal/domain/dedupe"
	"github.com/okian/gemba/internal/domain/model"
)

// EvaluationDependencies defines the interface for evaluation submission
// and reads.
type EvaluationDependencies interface {
	dedupe.Deduper
	Submit(ctx context.Context, sub service.Submission) (model.Evaluation, error)
	RecentEvaluations(ctx context.Context, since time.Time) ([]model.Evaluation, error)
}

// EvaluationsHandler handles evaluation requests.
type EvaluationsHandler struct {
	deps EvaluationDependencies
}

// NewEvaluationsHandler creates a new evaluations handler.
func NewEvaluationsHandler(deps EvaluationDependencies) *EvaluationsHandler {
	return &EvaluationsHandler{deps: deps}
}

// HandleCollection handles POST /evaluations and GET /evaluations requests.
func (h *EvaluationsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleSubmit(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *EvaluationsHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_evaluation"
	var req evaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.SubmissionID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	rec, err := h.deps.Submit(r.Context(), service.Submission{
		SubmissionID: req.SubmissionID,
		TemplateID:   req.TemplateID,
		WorkerID:     req.WorkerID,
		TotalScore:   req.TotalScore,
		MaxScore:     req.MaxScore,
	})
	if err != nil {
		// Rollback the "seen" status so the client can retry once the
		// guard condition clears.
		h.deps.Unrecord(r.Context(), req.SubmissionID)
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *EvaluationsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_evaluations"
	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request",
				WrapKind(op, ErrBadRequest, errors.New("invalid since; must be RFC3339")))
			return
		}
		since = parsed
	}
	recs, err := h.deps.RecentEvaluations(r.Context(), since)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
