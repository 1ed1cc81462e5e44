// Package model contains domain records passed between layers.
package model

import "time"

// ScheduleSlot is one configured opening of an evaluation window.
// Start uses the 24h "HH:MM" form; Label is the administrator-facing name.
type ScheduleSlot struct {
	Start string `json:"start_time"`
	Label string `json:"label"`
}

// Template is an evaluation form bound to a role. An empty Slots list
// means the template carries no time restriction and is always usable.
type Template struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	AssignedRole string         `json:"assigned_role"`
	WindowHours  int            `json:"window_hours"`
	Slots        []ScheduleSlot `json:"schedule_slots"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Worker is a member of the evaluated roster.
type Worker struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// Evaluation is a completed evaluation record. Records are immutable
// once stored; the shift label is stamped at creation time.
type Evaluation struct {
	ID              string    `json:"id"`
	SubjectID       string    `json:"subject_id"`
	TemplateID      string    `json:"template_id"`
	EvaluatedAt     time.Time `json:"evaluated_at"`
	Shift           string    `json:"shift"`
	ScorePercentage float64   `json:"score_percentage"`
	TotalScore      float64   `json:"total_score"`
	MaxScore        float64   `json:"max_score"`
}
