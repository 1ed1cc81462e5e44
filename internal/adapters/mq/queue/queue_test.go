package queue_test

import (
	"context"
	"testing"
	"time"

	eventqueue "github.com/okian/gemba/internal/adapters/mq/queue"
	"github.com/okian/gemba/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a bounded in-memory queue", t, func() {
		ctx := context.Background()
		q := eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(2))

		Convey("When enqueueing within capacity", func() {
			So(q.Enqueue(ctx, model.Evaluation{ID: "e1"}), ShouldBeTrue)
			So(q.Enqueue(ctx, model.Evaluation{ID: "e2"}), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			Convey("Then a full queue signals backpressure without blocking", func() {
				So(q.Enqueue(ctx, model.Evaluation{ID: "e3"}), ShouldBeFalse)
			})
		})

		Convey("When dequeuing", func() {
			So(q.Enqueue(ctx, model.Evaluation{ID: "e1", Shift: "morning"}), ShouldBeTrue)
			out := q.Dequeue(ctx)

			select {
			case ev := <-out:
				So(ev.ID, ShouldEqual, "e1")
				So(ev.Shift, ShouldEqual, "morning")
			case <-time.After(time.Second):
				So("timeout waiting for event", ShouldBeEmpty)
			}
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue is rejected and close is idempotent", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, model.Evaluation{ID: "late"}), ShouldBeFalse)
				So(q.Close(), ShouldBeNil)
			})

			Convey("Then the dequeue channel drains and closes", func() {
				out := q.Dequeue(ctx)
				select {
				case _, ok := <-out:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					So("timeout waiting for close", ShouldBeEmpty)
				}
			})
		})
	})
}
