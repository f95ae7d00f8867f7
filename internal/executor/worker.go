package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vk/ridgegrow/internal/ctxlog"
	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/growth"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, workerID int) {
	defer e.workers.Done()
	ctx, logger := ctxlog.With(ctx, "workerID", workerID)
	logger.Debug("Worker started.")

	poll := time.NewTimer(e.cfg.PollTimeout)
	defer poll.Stop()

	for {
		poll.Reset(e.cfg.PollTimeout)
		select {
		case task, ok := <-e.tasks:
			if ok {
				queueDepth.Set(float64(len(e.tasks)))
				e.run(ctx, logger, task)
			}
		case <-poll.C:
			logger.Debug("Worker idle.")
		}

		// Nothing is submitted once finish is requested, so an empty queue stays empty.
		if e.finish.Load() && len(e.tasks) == 0 {
			break
		}
	}
	logger.Debug("Worker finished.")
}

// run grows a single task and reports its outcome.
func (e *Executor) run(ctx context.Context, logger *slog.Logger, task *growth.Task) {
	taskLogger := logger.With("task", task.String())

	if err := ctx.Err(); err != nil {
		taskLogger.Debug("Context done, skipping task.")
		e.report(growth.Result{Task: task, Err: fmt.Errorf("task not started: %w", err)})
		return
	}

	ctx, span := tracer.Start(ctx, "executor.grow", trace.WithAttributes(
		attribute.Int("task.seq", task.Seq),
		attribute.String("task.kind", task.Kind.String()),
	))
	defer span.End()

	taskLogger.Debug("Worker picked up task.")
	started := time.Now()
	ridge, err := e.safeGrow(ctxlog.WithLogger(ctx, taskLogger), task)
	taskDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		taskLogger.Error("Ridge growth failed.", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "growth failed")
		e.report(growth.Result{Task: task, Err: err})
		return
	}

	span.SetAttributes(attribute.Int("ridge.points", len(ridge)))
	span.SetStatus(codes.Ok, "ridge grown")
	taskLogger.Debug("Ridge grown.", "points", len(ridge))
	e.report(growth.Result{Task: task, Ridge: ridge})
}

// safeGrow turns a panic inside a strategy into an invariant error so the
// task is still accounted for.
func (e *Executor) safeGrow(ctx context.Context, task *growth.Task) (ridge geom.Polyline, err error) {
	defer func() {
		if r := recover(); r != nil {
			ridge, err = nil, fmt.Errorf("%w: panic while growing %s: %v", growth.ErrInvariant, task, r)
		}
	}()
	return e.grow(ctx, task)
}

func (e *Executor) report(r growth.Result) {
	if r.OK() {
		tasksTotal.WithLabelValues("grown").Inc()
		ridgePoints.Observe(float64(len(r.Ridge)))
	} else {
		tasksTotal.WithLabelValues("failed").Inc()
	}
	e.results <- r
}
