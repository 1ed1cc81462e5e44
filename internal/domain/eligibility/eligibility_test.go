package eligibility_test

import (
	"testing"
	"time"

	"github.com/okian/gemba/internal/domain/eligibility"
	"github.com/okian/gemba/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildRoster(t *testing.T) {
	Convey("Given a roster of five workers and a 4h cooldown", t, func() {
		now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
		period := 4 * time.Hour

		workers := []model.Worker{
			{ID: "w1", Name: "Aiko", Role: "operator", Active: true},
			{ID: "w2", Name: "Bruno", Role: "operator", Active: true},
			{ID: "w3", Name: "Carla", Role: "operator", Active: true},
			{ID: "w4", Name: "Deniz", Role: "operator", Active: true},
			{ID: "w5", Name: "Edith", Role: "operator", Active: true},
		}

		Convey("When two workers have records within cooldown", func() {
			recents := []model.Evaluation{
				{ID: "e1", SubjectID: "w2", EvaluatedAt: now.Add(-1 * time.Hour), ScorePercentage: 88},
				{ID: "e2", SubjectID: "w4", EvaluatedAt: now.Add(-3 * time.Hour), ScorePercentage: 72},
			}

			entries, summary := eligibility.BuildRoster(workers, recents, now, period)

			Convey("Then exactly two entries are ineligible", func() {
				So(summary.Total, ShouldEqual, 5)
				So(summary.Eligible, ShouldEqual, 3)
				So(summary.Ineligible, ShouldEqual, 2)
				So(summary.Eligible+summary.Ineligible, ShouldEqual, len(workers))
			})

			Convey("Then roster order is preserved", func() {
				So(entries, ShouldHaveLength, 5)
				for i, w := range workers {
					So(entries[i].WorkerID, ShouldEqual, w.ID)
				}
			})

			Convey("Then reasons are set exactly for ineligible workers", func() {
				for _, e := range entries {
					if e.Eligible {
						So(e.ReasonIneligible, ShouldBeBlank)
					} else {
						So(e.ReasonIneligible, ShouldNotBeBlank)
					}
				}
			})

			Convey("Then the verdict carries the record detail", func() {
				So(entries[1].Eligible, ShouldBeFalse)
				So(entries[1].ReasonIneligible, ShouldEqual, "on cooldown, eligible again in 3 hours")
				So(*entries[1].LastScorePercentage, ShouldEqual, 88)
				So(entries[1].LastEvaluatedAt.Equal(now.Add(-1*time.Hour)), ShouldBeTrue)
				So(entries[1].EvaluationsInWindow, ShouldEqual, 1)

				So(entries[3].Eligible, ShouldBeFalse)
				So(entries[3].ReasonIneligible, ShouldEqual, "on cooldown, eligible again in 1 hour")
			})

			Convey("Then workers without records default to eligible", func() {
				So(entries[0].Eligible, ShouldBeTrue)
				So(entries[0].LastEvaluatedAt, ShouldBeNil)
				So(entries[0].LastScorePercentage, ShouldBeNil)
				So(entries[0].EvaluationsInWindow, ShouldEqual, 0)
			})
		})

		Convey("When a worker has several records in the window", func() {
			recents := []model.Evaluation{
				{ID: "e1", SubjectID: "w1", EvaluatedAt: now.Add(-3 * time.Hour), ScorePercentage: 60},
				{ID: "e2", SubjectID: "w1", EvaluatedAt: now.Add(-1 * time.Hour), ScorePercentage: 90},
				{ID: "e3", SubjectID: "w1", EvaluatedAt: now.Add(-2 * time.Hour), ScorePercentage: 75},
			}

			entries, _ := eligibility.BuildRoster(workers[:1], recents, now, period)

			Convey("Then the most recent record wins and all are counted", func() {
				So(*entries[0].LastScorePercentage, ShouldEqual, 90)
				So(entries[0].LastEvaluatedAt.Equal(now.Add(-1*time.Hour)), ShouldBeTrue)
				So(entries[0].EvaluationsInWindow, ShouldEqual, 3)
			})
		})

		Convey("When two records share the same timestamp", func() {
			at := now.Add(-2 * time.Hour)
			recents := []model.Evaluation{
				{ID: "first", SubjectID: "w1", EvaluatedAt: at, ScorePercentage: 50},
				{ID: "second", SubjectID: "w1", EvaluatedAt: at, ScorePercentage: 70},
			}

			entries, _ := eligibility.BuildRoster(workers[:1], recents, now, period)

			Convey("Then the record seen first in input order is kept", func() {
				So(*entries[0].LastScorePercentage, ShouldEqual, 50)
				So(entries[0].EvaluationsInWindow, ShouldEqual, 2)
			})
		})

		Convey("When the recent set is empty", func() {
			entries, summary := eligibility.BuildRoster(workers, nil, now, period)

			Convey("Then every worker is eligible", func() {
				So(summary.Eligible, ShouldEqual, 5)
				So(summary.Ineligible, ShouldEqual, 0)
				for _, e := range entries {
					So(e.Eligible, ShouldBeTrue)
				}
			})
		})

		Convey("When called twice with identical inputs", func() {
			recents := []model.Evaluation{
				{ID: "e1", SubjectID: "w3", EvaluatedAt: now.Add(-30 * time.Minute), ScorePercentage: 81},
			}
			a, sa := eligibility.BuildRoster(workers, recents, now, period)
			b, sb := eligibility.BuildRoster(workers, recents, now, period)

			Convey("Then the outputs are identical", func() {
				So(a, ShouldResemble, b)
				So(sa, ShouldResemble, sb)
			})
		})
	})
}
