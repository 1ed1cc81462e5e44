package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/gemba/internal/domain/cooldown"
	"github.com/okian/gemba/internal/domain/model"
)

// memoryTemplateStore implements TemplateStore with a mutex-guarded map.
type memoryTemplateStore struct {
	mu        sync.RWMutex
	templates map[string]model.Template
}

// NewMemoryTemplateStore creates an empty in-memory template store.
func NewMemoryTemplateStore() TemplateStore {
	return &memoryTemplateStore{templates: make(map[string]model.Template)}
}

func (s *memoryTemplateStore) Put(_ context.Context, tpl model.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tpl.ID] = tpl
	return nil
}

func (s *memoryTemplateStore) Get(_ context.Context, id string) (model.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[id]
	if !ok {
		return model.Template{}, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return tpl, nil
}

func (s *memoryTemplateStore) List(_ context.Context) ([]model.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Template, 0, len(s.templates))
	for _, tpl := range s.templates {
		out = append(out, tpl)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memoryTemplateStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	delete(s.templates, id)
	return nil
}

// memoryWorkerStore implements WorkerStore with a mutex-guarded map.
type memoryWorkerStore struct {
	mu      sync.RWMutex
	workers map[string]model.Worker
}

// NewMemoryWorkerStore creates an empty in-memory worker store.
func NewMemoryWorkerStore() WorkerStore {
	return &memoryWorkerStore{workers: make(map[string]model.Worker)}
}

func (s *memoryWorkerStore) Put(_ context.Context, w model.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers[w.ID] = w
	return nil
}

func (s *memoryWorkerStore) Get(_ context.Context, id string) (model.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workers[id]
	if !ok {
		return model.Worker{}, fmt.Errorf("worker %s: %w", id, ErrNotFound)
	}
	return w, nil
}

func (s *memoryWorkerStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workers[id]; !ok {
		return fmt.Errorf("worker %s: %w", id, ErrNotFound)
	}
	delete(s.workers, id)
	return nil
}

func (s *memoryWorkerStore) ListByRole(_ context.Context, role string) ([]model.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Worker, 0)
	for _, w := range s.workers {
		if w.Active && w.Role == role {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// memoryEvaluationStore implements EvaluationStore. Records are kept in
// insertion order; a per-subject index tracks the most recent record so
// the cooldown guard is a single map lookup under the write lock.
type memoryEvaluationStore struct {
	mu            sync.RWMutex
	records       []model.Evaluation
	lastBySubject map[string]model.Evaluation
}

// NewMemoryEvaluationStore creates an empty in-memory evaluation store.
func NewMemoryEvaluationStore() EvaluationStore {
	return &memoryEvaluationStore{lastBySubject: make(map[string]model.Evaluation)}
}

func (s *memoryEvaluationStore) AppendGuarded(_ context.Context, rec model.Evaluation, period time.Duration) (cooldown.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.lastBySubject[rec.SubjectID]; ok {
		at := last.EvaluatedAt
		if st := cooldown.Check(&at, rec.EvaluatedAt, period); st.OnCooldown {
			return st, fmt.Errorf("%w: %s", ErrOnCooldown, st.Message())
		}
	}

	s.records = append(s.records, rec)
	if last, ok := s.lastBySubject[rec.SubjectID]; !ok || rec.EvaluatedAt.After(last.EvaluatedAt) {
		s.lastBySubject[rec.SubjectID] = rec
	}
	return cooldown.Status{}, nil
}

func (s *memoryEvaluationStore) RecentSince(_ context.Context, since time.Time) ([]model.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Evaluation, 0)
	for _, rec := range s.records {
		if !rec.EvaluatedAt.Before(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memoryEvaluationStore) LastFor(_ context.Context, subjectID string) (model.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.lastBySubject[subjectID]
	if !ok {
		return model.Evaluation{}, fmt.Errorf("subject %s: %w", subjectID, ErrNotFound)
	}
	return rec, nil
}

func (s *memoryEvaluationStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
