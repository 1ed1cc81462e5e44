// Package worker defines the tally workers that fold committed
// evaluations into per-shift counters.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/gemba/internal/adapters/mq/queue"
	"github.com/okian/gemba/pkg/logger"
	"github.com/okian/gemba/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Event aliases the queue payload.
type Event = queue.Event

// Tally accumulates per-shift evaluation counts.
type Tally interface {
	Add(ctx context.Context, shiftLabel string)
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker folds queued evaluation events into the tally.
type Worker struct {
	queue queue.Queue
	tally Tally
	name  string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewWorker creates a new tally worker.
func NewWorker(q queue.Queue, tally Tally, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		tally:    tally,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is canceled, the worker is shut
// down, or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.processEvent(ctx, event)
		}
	}
}

// requestShutdown signals the worker loop to stop. Safe to call any
// number of times, from Shutdown and Pool.Stop alike.
func (w *Worker) requestShutdown() {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.requestShutdown()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *Worker) processEvent(ctx context.Context, event Event) {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if event.Shift == "" {
		metrics.RecordWorkerError()
		w.logger.Warn(ctx, "tally event without shift label",
			logger.String("evaluationID", event.ID),
		)
		return
	}

	w.tally.Add(ctx, event.Shift)
	metrics.RecordShiftEvaluation(event.Shift)
	w.logger.Debug(ctx, "tallied evaluation",
		logger.String("evaluationID", event.ID),
		logger.String("shift", event.Shift),
	)
}

// Pool manages multiple tally workers.
type Pool struct {
	workers []*Worker
}

// NewPool creates a worker pool. A non-positive count defaults to a
// multiple of the CPU count.
func NewPool(workerCount int, q queue.Queue, tally Tally) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{workers: make([]*Worker, workerCount)}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(q, tally, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerActiveCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers. Safe to call more than once.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.requestShutdown()
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdateWorkerActiveCount(0)
}
