package grower

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/vk/ridgegrow/internal/ctxlog"
	"github.com/vk/ridgegrow/internal/executor"
	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/growth"
	"github.com/vk/ridgegrow/internal/taskbuilder"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/vk/ridgegrow/internal/grower")

// Ridge is a grown catchment boundary.
type Ridge struct {
	ID            string
	Kind          growth.TaskKind
	Line          geom.Polyline
	AdjacentWater *growth.AdjacentWaterPair
}

// Summary counts what happened during a run.
type Summary struct {
	Confluences  int
	Lakes        int
	Tasks        int
	Grown        int
	Failed       int
	SeedFailures int
}

// Result is the outcome of a run. Ridges are ordered by task creation.
type Result struct {
	Ridges       []Ridge
	Failures     []growth.Result
	SeedFailures []taskbuilder.SeedFailure
	Summary      Summary
}

// Grower runs the engine over one mesh and water network.
type Grower struct {
	mesh      growth.MeshGraph
	water     growth.WaterIndex
	router    growth.Router
	cfg       Config
	strategy  growth.Strategy
	listeners []executor.Listener
}

// New validates cfg and prepares the configured strategy.
func New(mesh growth.MeshGraph, water growth.WaterIndex, router growth.Router, cfg Config, listeners ...executor.Listener) (*Grower, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	strategy, err := growth.NewStrategy(cfg.Strategy, mesh, water, growth.Params{
		Lookahead:   cfg.Lookahead,
		Uncertainty: cfg.Uncertainty,
	})
	if err != nil {
		return nil, err
	}
	return &Grower{
		mesh:      mesh,
		water:     water,
		router:    router,
		cfg:       cfg,
		strategy:  strategy,
		listeners: listeners,
	}, nil
}

// Strategy returns the strategy driving growth.
func (g *Grower) Strategy() growth.Strategy {
	return g.strategy
}

func (g *Grower) growTask(ctx context.Context, task *growth.Task) (geom.Polyline, error) {
	return growth.Grow(ctx, g.strategy, g.water, task, g.cfg.MaxLength)
}

// Run grows every ridge. Individual task failures are reported in the
// result; a fatal structural error stops task production and is returned
// together with whatever was grown so far.
func (g *Grower) Run(ctx context.Context) (*Result, error) {
	ctx, span := tracer.Start(ctx, "grower.run", trace.WithAttributes(attribute.String("strategy", g.strategy.Name())))
	defer span.End()
	logger := ctxlog.FromContext(ctx)

	builder := taskbuilder.New(g.mesh, g.water, g.router, taskbuilder.WithLakeSeeds(g.cfg.LakeSeeds))
	pool := executor.New(g.growTask, executor.Config{
		Workers:       g.cfg.Workers,
		QueueCapacity: g.cfg.QueueCapacity,
		PollTimeout:   g.cfg.PollTimeout,
	}, g.listeners...)

	logger.Info("🚀 Starting ridge growth...", "strategy", g.strategy.Name(), "workers", g.cfg.Workers)
	pool.Start(ctx)

	res := &Result{}
	fatal := g.produce(ctx, builder, pool, res)

	results := pool.Wait()
	g.collect(results, res)
	for _, r := range res.Failures {
		if growth.IsFatal(r.Err) {
			fatal = errors.Join(fatal, fmt.Errorf("task %s: %w", r.Task, r.Err))
		}
	}

	span.SetAttributes(
		attribute.Int("ridges.grown", res.Summary.Grown),
		attribute.Int("tasks.failed", res.Summary.Failed),
	)
	if fatal != nil {
		span.RecordError(fatal)
		span.SetStatus(codes.Error, "fatal structural error")
		logger.Error("Ridge growth aborted.", "error", fatal, "ridges", res.Summary.Grown, "failed", res.Summary.Failed)
		return res, fatal
	}

	logger.Info("🏁 Ridge growth finished.",
		"ridges", res.Summary.Grown,
		"failed", res.Summary.Failed,
		"tasks", res.Summary.Tasks,
		"seed_failures", res.Summary.SeedFailures,
	)
	return res, nil
}

// produce builds and submits every task. It returns the first fatal error.
func (g *Grower) produce(ctx context.Context, builder *taskbuilder.Builder, pool *executor.Executor, res *Result) error {
	ctx, span := tracer.Start(ctx, "grower.produce")
	defer span.End()
	logger := ctxlog.FromContext(ctx)

	submit := func(tasks []*growth.Task) error {
		for _, t := range tasks {
			if err := pool.Submit(ctx, t); err != nil {
				return fmt.Errorf("submitting task %s: %w", t, err)
			}
			res.Summary.Tasks++
		}
		return nil
	}

	confluences := g.water.Confluences()
	res.Summary.Confluences = len(confluences)
	for i, conf := range confluences {
		tasks, err := builder.ConfluenceTasks(ctx, conf)
		if err != nil {
			return err
		}
		logger.Info("Confluence processed.", "confluence", conf.String(), "n", i+1, "of", len(confluences), "tasks", len(tasks))
		if err := submit(tasks); err != nil {
			return err
		}
	}

	lakes := g.water.LakePolygons()
	if g.cfg.LakeSeeds == 0 {
		logger.Debug("Isolated lake seeding disabled.", "lakes", len(lakes))
		return nil
	}
	for i, lake := range lakes {
		tasks, failures, err := builder.LakeTasks(ctx, lake)
		if err != nil {
			if growth.IsFatal(err) {
				return err
			}
			logger.Warn("Lake skipped.", "n", i+1, "error", err)
			continue
		}
		res.SeedFailures = append(res.SeedFailures, failures...)
		res.Summary.SeedFailures += len(failures)
		if len(tasks) > 0 {
			res.Summary.Lakes++
		}
		logger.Info("Lake processed.", "n", i+1, "of", len(lakes), "tasks", len(tasks), "failed_pre_seeds", len(failures))
		if err := submit(tasks); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grower) collect(results []growth.Result, res *Result) {
	slices.SortFunc(results, func(a, b growth.Result) int {
		return cmp.Compare(a.Task.Seq, b.Task.Seq)
	})
	for _, r := range results {
		if !r.OK() {
			res.Failures = append(res.Failures, r)
			res.Summary.Failed++
			continue
		}
		res.Summary.Grown++
		res.Ridges = append(res.Ridges, Ridge{
			ID:            fmt.Sprintf("ridge-%d", res.Summary.Grown),
			Kind:          r.Task.Kind,
			Line:          r.Ridge,
			AdjacentWater: r.Task.AdjacentWater,
		})
	}
}
