// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/gemba/internal/adapters/repository"
	service "github.com/okian/gemba/internal/app"
	"github.com/okian/gemba/internal/domain/dedupe"
	"github.com/okian/gemba/internal/domain/model"
	"github.com/okian/gemba/internal/domain/schedule"
	"github.com/okian/gemba/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Template administration.
	CreateTemplate(ctx context.Context, tpl model.Template) (model.Template, error)
	Templates(ctx context.Context) ([]model.Template, error)
	Template(ctx context.Context, id string) (model.Template, error)
	DeleteTemplate(ctx context.Context, id string) error

	// Worker administration.
	PutWorker(ctx context.Context, w model.Worker) (model.Worker, error)
	Worker(ctx context.Context, id string) (model.Worker, error)
	DeleteWorker(ctx context.Context, id string) error

	// Eligibility and evaluation operations.
	Roster(ctx context.Context, templateID string) (types.Roster, error)
	Submit(ctx context.Context, sub service.Submission) (model.Evaluation, error)
	RecentEvaluations(ctx context.Context, since time.Time) ([]model.Evaluation, error)
	Availability(ctx context.Context) (types.AvailabilityReport, error)
}

// DashboardProvider exposes the counters behind GET /dashboard.
type DashboardProvider interface {
	Dashboard(ctx context.Context) map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	dashboardHandler    *DashboardHandler
	templatesHandler    *TemplatesHandler
	workersHandler      *WorkersHandler
	evaluationsHandler  *EvaluationsHandler
	availabilityHandler *AvailabilityHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, dashProvider DashboardProvider) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		dashboardHandler:    NewDashboardHandler(dashProvider),
		templatesHandler:    NewTemplatesHandler(deps),
		workersHandler:      NewWorkersHandler(deps),
		evaluationsHandler:  NewEvaluationsHandler(deps),
		availabilityHandler: NewAvailabilityHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/templates", MetricsMiddleware(s.templatesHandler.HandleCollection, "templates"))
	mux.HandleFunc("/templates/", MetricsMiddleware(s.templatesHandler.HandleItem, "template"))
	mux.HandleFunc("/workers", MetricsMiddleware(s.workersHandler.HandleCollection, "workers"))
	mux.HandleFunc("/workers/", MetricsMiddleware(s.workersHandler.HandleItem, "worker"))
	mux.HandleFunc("/evaluations", MetricsMiddleware(s.evaluationsHandler.HandleCollection, "evaluations"))
	mux.HandleFunc("/availability", MetricsMiddleware(s.availabilityHandler.HandleGetAvailability, "availability"))
}

// templateRequest mirrors the OpenAPI schema for POST /templates.
type templateRequest struct {
	Name         string               `json:"name"`
	AssignedRole string               `json:"assigned_role"`
	WindowHours  int                  `json:"window_hours"`
	Slots        []model.ScheduleSlot `json:"schedule_slots"`
}

func (t templateRequest) validate() error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return errors.New("missing name")
	case strings.TrimSpace(t.AssignedRole) == "":
		return errors.New("missing assigned_role")
	case t.WindowHours < 0:
		return errors.New("window_hours must be positive")
	}
	return nil
}

// workerRequest mirrors the OpenAPI schema for POST /workers.
type workerRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active *bool  `json:"active"`
}

func (w workerRequest) validate() error {
	switch {
	case strings.TrimSpace(w.Name) == "":
		return errors.New("missing name")
	case strings.TrimSpace(w.Role) == "":
		return errors.New("missing role")
	}
	return nil
}

// evaluationRequest mirrors the OpenAPI schema for POST /evaluations.
type evaluationRequest struct {
	SubmissionID string  `json:"submission_id"`
	TemplateID   string  `json:"template_id"`
	WorkerID     string  `json:"worker_id"`
	TotalScore   float64 `json:"total_score"`
	MaxScore     float64 `json:"max_score"`
}

func (e evaluationRequest) validate() error {
	switch {
	case strings.TrimSpace(e.SubmissionID) == "":
		return errors.New("missing submission_id")
	case strings.TrimSpace(e.TemplateID) == "":
		return errors.New("missing template_id")
	case strings.TrimSpace(e.WorkerID) == "":
		return errors.New("missing worker_id")
	case e.MaxScore <= 0:
		return errors.New("max_score must be greater than zero")
	case e.TotalScore < 0 || e.TotalScore > e.MaxScore:
		return errors.New("total_score must be between zero and max_score")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// pathID extracts the trailing path segment after prefix, or "" when the
// path carries extra segments.
func pathID(r *http.Request, prefix string) string {
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}

// writeDomainError translates upstream errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, repository.ErrOnCooldown):
		writeError(w, http.StatusConflict, "on_cooldown", err)
	case errors.Is(err, service.ErrWindowClosed):
		writeError(w, http.StatusConflict, "window_closed", err)
	case errors.Is(err, service.ErrRoleMismatch):
		writeError(w, http.StatusUnprocessableEntity, "role_mismatch", err)
	case errors.Is(err, schedule.ErrMalformedStart), errors.Is(err, schedule.ErrInvalidWindow):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
