// Package cooldown decides whether a worker's mandatory rest period
// since their last evaluation has elapsed.
package cooldown

import (
	"fmt"
	"math"
	"time"
)

// DefaultPeriod is the mandatory rest period between two evaluations
// of the same worker.
const DefaultPeriod = 4 * time.Hour

// Status is the outcome of a cooldown check. HoursRemaining is rounded
// up to whole hours for user-facing messaging and is never negative.
type Status struct {
	OnCooldown     bool `json:"on_cooldown"`
	HoursRemaining int  `json:"hours_remaining"`
}

// Check reports whether the worker is still resting at now, given the
// timestamp of their most recent evaluation. A nil last means no prior
// evaluation: absence of evidence is evidence of eligibility.
//
// The boundary is inclusive: elapsed time exactly equal to the period
// still counts as on cooldown.
func Check(last *time.Time, now time.Time, period time.Duration) Status {
	if last == nil {
		return Status{}
	}
	elapsed := now.Sub(*last)
	if elapsed > period {
		return Status{}
	}
	remaining := int(math.Ceil((period - elapsed).Hours()))
	if remaining < 0 {
		remaining = 0
	}
	return Status{OnCooldown: true, HoursRemaining: remaining}
}

// Message renders the status for end users in whole hours.
func (s Status) Message() string {
	switch {
	case !s.OnCooldown:
		return "eligible"
	case s.HoursRemaining == 0:
		return "on cooldown, eligible again in less than an hour"
	case s.HoursRemaining == 1:
		return "on cooldown, eligible again in 1 hour"
	default:
		return fmt.Sprintf("on cooldown, eligible again in %d hours", s.HoursRemaining)
	}
}
