// Package types contains common read shapes returned by the API.
package types

import "time"

// WorkerEligibility pairs a worker with the verdict for "may be
// evaluated right now". ReasonIneligible is set exactly when Eligible
// is false.
type WorkerEligibility struct {
	WorkerID            string     `json:"worker_id"`
	Name                string     `json:"name"`
	Eligible            bool       `json:"eligible"`
	ReasonIneligible    string     `json:"reason_ineligible,omitempty"`
	LastEvaluatedAt     *time.Time `json:"last_evaluated_at,omitempty"`
	LastScorePercentage *float64   `json:"last_score_percentage,omitempty"`
	EvaluationsInWindow int        `json:"evaluations_in_window"`
}

// RosterSummary carries the roster-level counters.
type RosterSummary struct {
	Total      int `json:"total"`
	Eligible   int `json:"eligible"`
	Ineligible int `json:"ineligible"`
}

// Roster is the worker-selection payload: per-worker verdicts plus
// summary counters and the shift active at the time of the call.
type Roster struct {
	TemplateID string              `json:"template_id"`
	Shift      string              `json:"shift"`
	Workers    []WorkerEligibility `json:"workers"`
	Summary    RosterSummary       `json:"summary"`
}

// TemplateAvailability is one row of the availability debug report.
type TemplateAvailability struct {
	TemplateID string `json:"template_id"`
	Name       string `json:"name"`
	Available  bool   `json:"available"`
	Reason     string `json:"reason"`
}

// AvailabilityReport is the introspection payload describing which
// templates are usable at the current instant.
type AvailabilityReport struct {
	CurrentTime    time.Time              `json:"current_time"`
	Shift          string                 `json:"shift"`
	TotalTemplates int                    `json:"total_templates"`
	AvailableNow   int                    `json:"available_now"`
	Templates      []TemplateAvailability `json:"templates"`
}
