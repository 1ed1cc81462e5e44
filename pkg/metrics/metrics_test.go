package metrics_test

import (
	"testing"

	"github.com/okian/gemba/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("Then business helpers record without panicking", func() {
			metrics.RecordEvaluationRecorded()
			metrics.RecordEvaluationRejected("cooldown")
			metrics.RecordEvaluationRejected("window_closed")
			metrics.RecordSubmissionDuplicate()
			metrics.RecordEligibilityCheck()
			metrics.ObserveRosterSize(12)
			metrics.RecordShiftEvaluation("morning")
			So(true, ShouldBeTrue)
		})

		Convey("Then queue and worker helpers record without panicking", func() {
			metrics.UpdateQueueSize(3)
			metrics.UpdateQueueCapacity(100)
			metrics.UpdateQueueUtilization(0.03)
			metrics.RecordQueueEnqueue()
			metrics.RecordQueueDequeue()
			metrics.RecordQueueEnqueueError()
			metrics.UpdateWorkerActiveCount(4)
			metrics.RecordWorkerProcessingLatency(1.2)
			metrics.RecordWorkerError()
			metrics.RecordHTTPRequest("workers", "GET", "200")
			metrics.RecordHTTPRequestDuration("workers", "GET", "200", 3.4)
			metrics.UpdateSystemMemoryUsage(1 << 20)
			metrics.UpdateSystemGoroutineCount(8)
			So(true, ShouldBeTrue)
		})

		Convey("Then the custom registry gathers the registered families", func() {
			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}

func TestNewManager(t *testing.T) {
	Convey("Given a fresh manager on its own registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("suite"),
			metrics.WithHistogramBuckets([]float64{1, 10, 100}),
			metrics.WithPrometheusRegistry(reg),
		)

		Convey("Then construction registers the families", func() {
			So(m, ShouldNotBeNil)
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			// Gauges register eagerly; counters appear after first use.
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
