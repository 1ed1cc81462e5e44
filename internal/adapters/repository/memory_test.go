package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	repository "github.com/okian/gemba/internal/adapters/repository"
	"github.com/okian/gemba/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryTemplateStore(t *testing.T) {
	Convey("Given an in-memory template store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryTemplateStore()

		Convey("When putting and getting a template", func() {
			tpl := model.Template{ID: "t1", Name: "Line QC", AssignedRole: "operator", WindowHours: 2}
			So(store.Put(ctx, tpl), ShouldBeNil)

			got, err := store.Get(ctx, "t1")
			So(err, ShouldBeNil)
			So(got, ShouldResemble, tpl)
		})

		Convey("When getting an unknown template", func() {
			_, err := store.Get(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When listing templates", func() {
			So(store.Put(ctx, model.Template{ID: "t2", Name: "Welding QC"}), ShouldBeNil)
			So(store.Put(ctx, model.Template{ID: "t1", Name: "Assembly QC"}), ShouldBeNil)

			list, err := store.List(ctx)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 2)
			So(list[0].Name, ShouldEqual, "Assembly QC")
			So(list[1].Name, ShouldEqual, "Welding QC")
		})

		Convey("When deleting a template", func() {
			So(store.Put(ctx, model.Template{ID: "t1"}), ShouldBeNil)
			So(store.Delete(ctx, "t1"), ShouldBeNil)
			So(errors.Is(store.Delete(ctx, "t1"), repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestMemoryWorkerStore(t *testing.T) {
	Convey("Given an in-memory worker store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryWorkerStore()

		So(store.Put(ctx, model.Worker{ID: "w1", Name: "Carla", Role: "operator", Active: true}), ShouldBeNil)
		So(store.Put(ctx, model.Worker{ID: "w2", Name: "Aiko", Role: "operator", Active: true}), ShouldBeNil)
		So(store.Put(ctx, model.Worker{ID: "w3", Name: "Bruno", Role: "welder", Active: true}), ShouldBeNil)
		So(store.Put(ctx, model.Worker{ID: "w4", Name: "Deniz", Role: "operator", Active: false}), ShouldBeNil)

		Convey("When listing by role", func() {
			roster, err := store.ListByRole(ctx, "operator")
			So(err, ShouldBeNil)

			Convey("Then only active role members appear, sorted by name", func() {
				So(roster, ShouldHaveLength, 2)
				So(roster[0].Name, ShouldEqual, "Aiko")
				So(roster[1].Name, ShouldEqual, "Carla")
			})
		})

		Convey("When getting an unknown worker", func() {
			_, err := store.Get(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestMemoryEvaluationStore(t *testing.T) {
	Convey("Given an in-memory evaluation store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryEvaluationStore()
		now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
		period := 4 * time.Hour

		Convey("When appending the first record for a subject", func() {
			rec := model.Evaluation{ID: "e1", SubjectID: "w1", EvaluatedAt: now}
			_, err := store.AppendGuarded(ctx, rec, period)
			So(err, ShouldBeNil)
			So(store.Count(ctx), ShouldEqual, 1)

			Convey("Then the subject is on cooldown for a second append", func() {
				again := model.Evaluation{ID: "e2", SubjectID: "w1", EvaluatedAt: now.Add(time.Hour)}
				st, err := store.AppendGuarded(ctx, again, period)
				So(errors.Is(err, repository.ErrOnCooldown), ShouldBeTrue)
				So(st.OnCooldown, ShouldBeTrue)
				So(st.HoursRemaining, ShouldEqual, 3)
				So(store.Count(ctx), ShouldEqual, 1)
			})

			Convey("Then an append after the period succeeds", func() {
				later := model.Evaluation{ID: "e2", SubjectID: "w1", EvaluatedAt: now.Add(period + time.Millisecond)}
				_, err := store.AppendGuarded(ctx, later, period)
				So(err, ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 2)

				last, err := store.LastFor(ctx, "w1")
				So(err, ShouldBeNil)
				So(last.ID, ShouldEqual, "e2")
			})
		})

		Convey("When many goroutines race to append for one subject", func() {
			var wg sync.WaitGroup
			landed := make(chan string, 16)
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					rec := model.Evaluation{ID: "race", SubjectID: "w9", EvaluatedAt: now}
					if _, err := store.AppendGuarded(ctx, rec, period); err == nil {
						landed <- rec.ID
					}
				}(i)
			}
			wg.Wait()
			close(landed)

			Convey("Then exactly one write lands", func() {
				count := 0
				for range landed {
					count++
				}
				So(count, ShouldEqual, 1)
			})
		})

		Convey("When querying a bounded recent window", func() {
			_, err := store.AppendGuarded(ctx, model.Evaluation{ID: "old", SubjectID: "w1", EvaluatedAt: now.Add(-6 * time.Hour)}, period)
			So(err, ShouldBeNil)
			_, err = store.AppendGuarded(ctx, model.Evaluation{ID: "new", SubjectID: "w2", EvaluatedAt: now.Add(-time.Hour)}, period)
			So(err, ShouldBeNil)

			recent, err := store.RecentSince(ctx, now.Add(-4*time.Hour))
			So(err, ShouldBeNil)

			Convey("Then only records inside the window are returned", func() {
				So(recent, ShouldHaveLength, 1)
				So(recent[0].ID, ShouldEqual, "new")
			})
		})

		Convey("When looking up a subject without records", func() {
			_, err := store.LastFor(ctx, "nobody")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}
