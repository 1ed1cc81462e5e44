// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/okian/gemba/internal/adapters/mq/queue"
	workerpool "github.com/okian/gemba/internal/adapters/mq/worker"
	repository "github.com/okian/gemba/internal/adapters/repository"
	"github.com/okian/gemba/internal/domain/dedupe"
	"github.com/okian/gemba/internal/domain/eligibility"
	"github.com/okian/gemba/internal/domain/model"
	"github.com/okian/gemba/internal/domain/schedule"
	"github.com/okian/gemba/internal/domain/shift"
	"github.com/okian/gemba/internal/domain/types"
	"github.com/okian/gemba/pkg/logger"
	"github.com/okian/gemba/pkg/metrics"
)

// Submission is an evaluation creation request after HTTP validation.
type Submission struct {
	SubmissionID string
	TemplateID   string
	WorkerID     string
	TotalScore   float64
	MaxScore     float64
}

// shiftTally accumulates per-shift evaluation counts for the dashboard.
type shiftTally struct {
	mu     sync.RWMutex
	counts map[string]int
}

func newShiftTally() *shiftTally {
	return &shiftTally{counts: make(map[string]int)}
}

func (t *shiftTally) Add(_ context.Context, shiftLabel string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[shiftLabel]++
}

func (t *shiftTally) snapshot() map[string]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Service implements the API dependencies for the evaluation system.
type Service struct {
	mu sync.RWMutex

	// Core components
	templates   repository.TemplateStore
	workers     repository.WorkerStore
	evaluations repository.EvaluationStore
	deduper     dedupe.Deduper
	tallyQueue  eventqueue.Queue
	tally       *shiftTally
	pool        *workerpool.Pool

	// Configuration
	cooldown           time.Duration
	recentWindow       time.Duration
	defaultWindowHours int
	queueSize          int
	workerCount        int
	dedupeSize         int

	// Clock is injected so eligibility decisions are deterministic in
	// tests; it must never be read ambiently by the domain packages.
	now func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCooldown sets the rest period between evaluations of one worker.
func WithCooldown(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.cooldown = d
		}
	}
}

// WithRecentWindow bounds the evaluation set fed to roster builds.
func WithRecentWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.recentWindow = d
		}
	}
}

// WithDefaultWindowHours sets the window length applied to templates
// created without one.
func WithDefaultWindowHours(hours int) Option {
	return func(s *Service) {
		if hours >= schedule.MinWindowHours && hours <= schedule.MaxWindowHours {
			s.defaultWindowHours = hours
		}
	}
}

// WithQueueSize sets the tally queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of tally workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithDedupeSize bounds the submission idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithClock injects the time source used for every decision.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cooldown:           4 * time.Hour,
		recentWindow:       4 * time.Hour,
		defaultWindowHours: schedule.DefaultWindowHours,
		queueSize:          10_000,
		workerCount:        0, // pool picks a CPU-based default
		dedupeSize:         50_000,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.templates = repository.NewMemoryTemplateStore()
	s.workers = repository.NewMemoryWorkerStore()
	s.evaluations = repository.NewMemoryEvaluationStore()
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.tallyQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.tally = newShiftTally()
	s.pool = workerpool.NewPool(s.workerCount, s.tallyQueue, s.tally)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "evaluation service started",
		logger.Float64("cooldownHours", s.cooldown.Hours()),
		logger.Float64("recentWindowHours", s.recentWindow.Hours()),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping evaluation service...")

	if s.tallyQueue != nil {
		_ = s.tallyQueue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}

	s.started = false
	s.logger.Info(ctx, "evaluation service stopped")
}

// SeenAndRecord atomically checks whether a submission id was seen and
// records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordSubmissionDuplicate()
	}
	return seen
}

// Unrecord forgets a submission id so the client can retry it.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// CreateTemplate validates and stores a new evaluation template.
// Malformed schedule configuration fails fast here; the open-window
// checks at evaluation time assume templates that passed this gate.
func (s *Service) CreateTemplate(ctx context.Context, tpl model.Template) (model.Template, error) {
	if tpl.WindowHours == 0 {
		tpl.WindowHours = s.defaultWindowHours
	}
	if err := schedule.Validate(tpl.Slots, tpl.WindowHours); err != nil {
		return model.Template{}, err
	}
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	tpl.CreatedAt = s.now()
	if err := s.templates.Put(ctx, tpl); err != nil {
		return model.Template{}, err
	}
	s.logger.Info(ctx, "template created",
		logger.String("templateID", tpl.ID),
		logger.String("role", tpl.AssignedRole),
		logger.Int("slots", len(tpl.Slots)),
	)
	return tpl, nil
}

// Templates lists all templates ordered by name.
func (s *Service) Templates(ctx context.Context) ([]model.Template, error) {
	return s.templates.List(ctx)
}

// Template returns one template by id.
func (s *Service) Template(ctx context.Context, id string) (model.Template, error) {
	return s.templates.Get(ctx, id)
}

// DeleteTemplate removes a template.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	return s.templates.Delete(ctx, id)
}

// PutWorker stores a worker, assigning an id when absent.
func (s *Service) PutWorker(ctx context.Context, w model.Worker) (model.Worker, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if err := s.workers.Put(ctx, w); err != nil {
		return model.Worker{}, err
	}
	return w, nil
}

// Worker returns one worker by id.
func (s *Service) Worker(ctx context.Context, id string) (model.Worker, error) {
	return s.workers.Get(ctx, id)
}

// DeleteWorker removes a worker.
func (s *Service) DeleteWorker(ctx context.Context, id string) error {
	return s.workers.Delete(ctx, id)
}

// Roster builds the eligibility roster for a template: the active
// members of its role, annotated with cooldown verdicts derived from
// the bounded recent-evaluation window.
func (s *Service) Roster(ctx context.Context, templateID string) (types.Roster, error) {
	tpl, err := s.templates.Get(ctx, templateID)
	if err != nil {
		return types.Roster{}, err
	}
	roster, err := s.workers.ListByRole(ctx, tpl.AssignedRole)
	if err != nil {
		return types.Roster{}, err
	}
	now := s.now()
	recents, err := s.evaluations.RecentSince(ctx, now.Add(-s.recentWindow))
	if err != nil {
		return types.Roster{}, err
	}

	entries, summary := eligibility.BuildRoster(roster, recents, now, s.cooldown)
	metrics.RecordEligibilityCheck()
	metrics.ObserveRosterSize(len(entries))

	return types.Roster{
		TemplateID: tpl.ID,
		Shift:      shift.ResolveAt(now).String(),
		Workers:    entries,
		Summary:    summary,
	}, nil
}

// Submit records a completed evaluation after running the creation
// guards: the template window must be open and the worker off cooldown.
// The cooldown re-check inside the store is authoritative, so two
// near-simultaneous submissions cannot both land.
func (s *Service) Submit(ctx context.Context, sub Submission) (model.Evaluation, error) {
	tpl, err := s.templates.Get(ctx, sub.TemplateID)
	if err != nil {
		metrics.RecordEvaluationRejected("template_not_found")
		return model.Evaluation{}, err
	}
	w, err := s.workers.Get(ctx, sub.WorkerID)
	if err != nil {
		metrics.RecordEvaluationRejected("worker_not_found")
		return model.Evaluation{}, err
	}
	if w.Role != tpl.AssignedRole {
		metrics.RecordEvaluationRejected("role_mismatch")
		return model.Evaluation{}, fmt.Errorf("%w: worker %s holds role %q, template evaluates %q",
			ErrRoleMismatch, w.ID, w.Role, tpl.AssignedRole)
	}

	now := s.now()
	if !schedule.IsOpenAt(tpl, now) {
		metrics.RecordEvaluationRejected("window_closed")
		return model.Evaluation{}, fmt.Errorf("%w: template %s is %s",
			ErrWindowClosed, tpl.ID, schedule.Reason(tpl, now))
	}

	pct := 0.0
	if sub.MaxScore > 0 {
		pct = sub.TotalScore / sub.MaxScore * 100
	}
	rec := model.Evaluation{
		ID:              uuid.NewString(),
		SubjectID:       w.ID,
		TemplateID:      tpl.ID,
		EvaluatedAt:     now,
		Shift:           shift.ResolveAt(now).String(),
		ScorePercentage: pct,
		TotalScore:      sub.TotalScore,
		MaxScore:        sub.MaxScore,
	}
	if _, err := s.evaluations.AppendGuarded(ctx, rec, s.cooldown); err != nil {
		metrics.RecordEvaluationRejected("cooldown")
		return model.Evaluation{}, err
	}
	metrics.RecordEvaluationRecorded()

	if ok := s.tallyQueue.Enqueue(ctx, rec); !ok {
		// The record is already committed; a dropped tally only skews
		// dashboard counters.
		s.logger.Warn(ctx, "tally queue rejected event",
			logger.String("evaluationID", rec.ID),
		)
	}

	s.logger.Info(ctx, "evaluation recorded",
		logger.String("evaluationID", rec.ID),
		logger.String("workerID", w.ID),
		logger.String("shift", rec.Shift),
		logger.Float64("scorePct", rec.ScorePercentage),
	)
	return rec, nil
}

// RecentEvaluations returns records from the bounded recent window.
func (s *Service) RecentEvaluations(ctx context.Context, since time.Time) ([]model.Evaluation, error) {
	if since.IsZero() {
		since = s.now().Add(-s.recentWindow)
	}
	return s.evaluations.RecentSince(ctx, since)
}

// Availability produces the per-template introspection report.
func (s *Service) Availability(ctx context.Context) (types.AvailabilityReport, error) {
	tpls, err := s.templates.List(ctx)
	if err != nil {
		return types.AvailabilityReport{}, err
	}
	now := s.now()
	report := types.AvailabilityReport{
		CurrentTime:    now,
		Shift:          shift.ResolveAt(now).String(),
		TotalTemplates: len(tpls),
		Templates:      make([]types.TemplateAvailability, 0, len(tpls)),
	}
	for _, tpl := range tpls {
		available := schedule.IsOpenAt(tpl, now)
		if available {
			report.AvailableNow++
		}
		report.Templates = append(report.Templates, types.TemplateAvailability{
			TemplateID: tpl.ID,
			Name:       tpl.Name,
			Available:  available,
			Reason:     schedule.Reason(tpl, now),
		})
	}
	return report, nil
}

// Dashboard returns the JSON counters backing the admin dashboard.
func (s *Service) Dashboard(ctx context.Context) map[string]interface{} {
	tpls, _ := s.templates.List(ctx)
	out := map[string]interface{}{
		"total_templates":   len(tpls),
		"total_evaluations": s.evaluations.Count(ctx),
		"shift_tally":       s.tally.snapshot(),
		"current_shift":     shift.ResolveAt(s.now()).String(),
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		stats["queueLength"] = s.tallyQueue.Len(ctx)
		stats["totalEvaluations"] = s.evaluations.Count(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
	}
	return stats
}
