package executor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/ridgegrow/internal/ctxlog"
	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/growth"
)

// DefaultPollTimeout is how long an idle worker waits on the queue before
// re-checking the finish flag.
const DefaultPollTimeout = 5 * time.Second

// ErrFinished is returned by Submit once Finish has been called.
var ErrFinished = errors.New("executor: finish already requested")

// GrowFunc grows the ridge of a single task.
type GrowFunc func(ctx context.Context, task *growth.Task) (geom.Polyline, error)

// Listener receives one callback per submitted task. Callbacks are invoked
// from a single goroutine.
type Listener interface {
	RidgeGrown(task *growth.Task, ridge geom.Polyline)
	GrowthFailed(task *growth.Task, err error)
}

// Config sizes the pool.
type Config struct {
	Workers int
	// QueueCapacity defaults to Workers.
	QueueCapacity int
	PollTimeout   time.Duration
}

// Executor is a bounded worker pool for growth tasks. Submit, Finish and Wait
// must be called from the producing goroutine.
type Executor struct {
	cfg       Config
	grow      GrowFunc
	listeners []Listener

	tasks   chan *growth.Task
	results chan growth.Result

	finish     atomic.Bool
	finishOnce sync.Once
	startOnce  sync.Once
	waitOnce   sync.Once
	workers    sync.WaitGroup
	aggDone    chan struct{}
	collected  []growth.Result
}

// New creates an executor. Nothing runs until Start.
func New(grow GrowFunc, cfg Config, listeners ...Listener) *Executor {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueCapacity < 1 {
		cfg.QueueCapacity = cfg.Workers
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	return &Executor{
		cfg:       cfg,
		grow:      grow,
		listeners: listeners,
		tasks:     make(chan *growth.Task, cfg.QueueCapacity),
		results:   make(chan growth.Result, cfg.Workers),
		aggDone:   make(chan struct{}),
	}
}

// Start launches the workers and the aggregator.
func (e *Executor) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		logger := ctxlog.FromContext(ctx)
		logger.Debug("Executor starting.", "workers", e.cfg.Workers, "queue_capacity", e.cfg.QueueCapacity, "poll_timeout", e.cfg.PollTimeout)

		go e.aggregate()
		e.workers.Add(e.cfg.Workers)
		for i := range e.cfg.Workers {
			go e.worker(ctx, i+1)
		}
	})
}

// Submit enqueues a task, blocking while the queue is full.
func (e *Executor) Submit(ctx context.Context, task *growth.Task) error {
	if e.finish.Load() {
		return ErrFinished
	}
	select {
	case e.tasks <- task:
		queueDepth.Set(float64(len(e.tasks)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Finish tells the workers that no more tasks will be submitted.
func (e *Executor) Finish() {
	e.finishOnce.Do(func() {
		e.finish.Store(true)
		close(e.tasks)
	})
}

// Wait blocks until every worker is done and all results are aggregated.
// It calls Finish if the producer has not, and starts the pool with a
// background context if nobody did, so queued tasks are still drained.
// Later calls return the same results.
func (e *Executor) Wait() []growth.Result {
	e.Start(context.Background())
	e.Finish()
	e.waitOnce.Do(func() {
		e.workers.Wait()
		close(e.results)
	})
	<-e.aggDone
	return e.collected
}

func (e *Executor) aggregate() {
	defer close(e.aggDone)
	for r := range e.results {
		e.collected = append(e.collected, r)
		for _, l := range e.listeners {
			if r.OK() {
				l.RidgeGrown(r.Task, r.Ridge)
			} else {
				l.GrowthFailed(r.Task, r.Err)
			}
		}
	}
}
