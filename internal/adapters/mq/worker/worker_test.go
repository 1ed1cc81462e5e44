package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	eventqueue "github.com/okian/gemba/internal/adapters/mq/queue"
	workerpool "github.com/okian/gemba/internal/adapters/mq/worker"
	"github.com/okian/gemba/internal/domain/model"
	"github.com/okian/gemba/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingTally struct {
	mu     sync.Mutex
	counts map[string]int
}

func newRecordingTally() *recordingTally {
	return &recordingTally{counts: make(map[string]int)}
}

func (t *recordingTally) Add(_ context.Context, shiftLabel string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[shiftLabel]++
}

func (t *recordingTally) count(shiftLabel string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[shiftLabel]
}

func (t *recordingTally) total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	sum := 0
	for _, n := range t.counts {
		sum += n
	}
	return sum
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestWorkerPool(t *testing.T) {
	Convey("Given a tally worker pool on a queue", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(64))
		tally := newRecordingTally()
		pool := workerpool.NewPool(4, q, tally)
		pool.Start(ctx)

		Convey("When committed evaluations are enqueued", func() {
			So(q.Enqueue(ctx, model.Evaluation{ID: "e1", Shift: "morning"}), ShouldBeTrue)
			So(q.Enqueue(ctx, model.Evaluation{ID: "e2", Shift: "morning"}), ShouldBeTrue)
			So(q.Enqueue(ctx, model.Evaluation{ID: "e3", Shift: "night"}), ShouldBeTrue)

			Convey("Then the tally converges to the per-shift counts", func() {
				So(waitFor(func() bool { return tally.total() == 3 }), ShouldBeTrue)
				So(tally.count("morning"), ShouldEqual, 2)
				So(tally.count("night"), ShouldEqual, 1)
			})
		})

		Convey("When an event is missing its shift label", func() {
			So(q.Enqueue(ctx, model.Evaluation{ID: "bad"}), ShouldBeTrue)
			So(q.Enqueue(ctx, model.Evaluation{ID: "good", Shift: "afternoon"}), ShouldBeTrue)

			Convey("Then it is skipped and later events still tally", func() {
				So(waitFor(func() bool { return tally.count("afternoon") == 1 }), ShouldBeTrue)
				So(tally.total(), ShouldEqual, 1)
			})
		})

		Convey("When the pool is stopped", func() {
			pool.Stop()
			So(q.Close(), ShouldBeNil)
			So(true, ShouldBeTrue)
		})

		Convey("When the pool is stopped twice", func() {
			pool.Stop()

			Convey("Then the second stop is a no-op, not a panic", func() {
				So(pool.Stop, ShouldNotPanic)
			})
		})
	})
}

func TestWorkerShutdown(t *testing.T) {
	Convey("Given a single running worker", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()
		q := eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(4))
		w := workerpool.NewWorker(q, newRecordingTally(), workerpool.WithName("worker-t"))
		go w.Run(ctx)

		Convey("Then Shutdown returns promptly", func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			So(w.Shutdown(shutdownCtx), ShouldBeNil)

			Convey("And a repeated Shutdown is a no-op, not a panic", func() {
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}
