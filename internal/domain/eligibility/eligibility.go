// Package eligibility combines a worker roster with recent evaluation
// records into per-worker verdicts and summary counters.
package eligibility

import (
	"time"

	"github.com/okian/gemba/internal/domain/cooldown"
	"github.com/okian/gemba/internal/domain/model"
	"github.com/okian/gemba/internal/domain/types"
)

// latest accumulates the fold over recent records for one subject.
type latest struct {
	record model.Evaluation
	count  int
}

// reduceLatest folds the recent-evaluation set into the single most
// recent record per subject plus a per-subject count. A later
// EvaluatedAt wins; on a tie the record seen first in input order is
// kept, so the reduction is deterministic for a stable input slice.
func reduceLatest(recents []model.Evaluation) map[string]latest {
	bySubject := make(map[string]latest, len(recents))
	for _, rec := range recents {
		cur, ok := bySubject[rec.SubjectID]
		if !ok {
			bySubject[rec.SubjectID] = latest{record: rec, count: 1}
			continue
		}
		cur.count++
		if rec.EvaluatedAt.After(cur.record.EvaluatedAt) {
			cur.record = rec
		}
		bySubject[rec.SubjectID] = cur
	}
	return bySubject
}

// BuildRoster produces one eligibility entry per worker, preserving the
// roster's order (callers supply it already sorted for display). The
// recent set is expected to be bounded by the caller to the cooldown
// window; a worker with no record in it is eligible by default.
func BuildRoster(workers []model.Worker, recents []model.Evaluation, now time.Time, period time.Duration) ([]types.WorkerEligibility, types.RosterSummary) {
	bySubject := reduceLatest(recents)

	entries := make([]types.WorkerEligibility, 0, len(workers))
	summary := types.RosterSummary{Total: len(workers)}

	for _, w := range workers {
		entry := types.WorkerEligibility{
			WorkerID: w.ID,
			Name:     w.Name,
			Eligible: true,
		}
		if found, ok := bySubject[w.ID]; ok {
			at := found.record.EvaluatedAt
			score := found.record.ScorePercentage
			entry.LastEvaluatedAt = &at
			entry.LastScorePercentage = &score
			entry.EvaluationsInWindow = found.count

			if st := cooldown.Check(&at, now, period); st.OnCooldown {
				entry.Eligible = false
				entry.ReasonIneligible = st.Message()
			}
		}
		if entry.Eligible {
			summary.Eligible++
		} else {
			summary.Ineligible++
		}
		entries = append(entries, entry)
	}
	return entries, summary
}
