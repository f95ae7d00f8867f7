package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/ridgegrow/internal/ctxlog"
	"github.com/vk/ridgegrow/internal/executor"
	"github.com/vk/ridgegrow/internal/grower"
	"github.com/vk/ridgegrow/internal/growth"
	"github.com/vk/ridgegrow/internal/meshgraph"
	"github.com/vk/ridgegrow/internal/output"
	"github.com/vk/ridgegrow/internal/publish"
	"github.com/vk/ridgegrow/internal/waterindex"
)

// Run grows every ridge of the loaded scene and writes them as GeoJSON. The
// partial result is still written when a fatal error stops the run.
func (a *App) Run(ctx context.Context) (*grower.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	a.healthCheckServer()
	defer a.closeHealthCheckServer()

	mesh, err := meshgraph.New(a.scene.Mesh.Vertices, a.scene.Mesh.Triangles)
	if err != nil {
		return nil, fmt.Errorf("failed to build mesh graph: %w", err)
	}
	water, err := waterindex.New(a.scene.Rivers, a.scene.Lakes, waterindex.WithTolerance(a.scene.Engine.WaterTolerance))
	if err != nil {
		return nil, fmt.Errorf("failed to index water: %w", err)
	}
	a.logger.Debug("Scene indexed.",
		"vertices", mesh.VertexCount(),
		"edges", mesh.EdgeCount(),
		"water_features", len(water.Features()),
		"confluences", len(water.Confluences()),
	)

	var listeners []executor.Listener
	var pub *publish.Publisher
	if a.config.PublishURL != "" {
		pub, err = publish.Connect(ctx, publish.Options{
			URL:       a.config.PublishURL,
			Namespace: a.config.PublishNamespace,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect publisher: %w", err)
		}
		defer pub.Close()
		listeners = append(listeners, pub)
	}

	g, err := grower.New(mesh, water, meshgraph.NewRouter(mesh), a.engineConfig(), listeners...)
	if err != nil {
		return nil, err
	}

	res, runErr := g.Run(ctx)
	if res == nil {
		return nil, runErr
	}
	if pub != nil {
		pub.Summary(res.Summary)
	}
	if err := a.writeResult(res); err != nil {
		return res, err
	}
	if a.config.UploadURL != "" {
		u := &output.Uploader{URL: a.config.UploadURL, Name: a.config.OutputPath}
		if err := u.Upload(ctx, res); err != nil {
			return res, fmt.Errorf("failed to upload ridges: %w", err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	if runErr != nil {
		return res, fmt.Errorf("execution failed: %w", runErr)
	}
	return res, nil
}

// engineConfig merges the scene's engine block with the CLI overrides.
func (a *App) engineConfig() grower.Config {
	e := a.scene.Engine
	cfg := grower.Config{
		Strategy:      growth.Kind(e.Strategy),
		Lookahead:     e.Lookahead,
		Uncertainty:   e.Uncertainty,
		MaxLength:     e.MaxLength,
		Workers:       e.Workers,
		QueueCapacity: e.QueueCapacity,
		PollTimeout:   e.PollTimeout,
		LakeSeeds:     e.LakeSeeds,
	}
	if a.config.Strategy != "" {
		cfg.Strategy = growth.Kind(a.config.Strategy)
	}
	if a.config.Lookahead > 0 {
		cfg.Lookahead = a.config.Lookahead
	}
	if a.config.Workers > 0 {
		cfg.Workers = a.config.Workers
	}
	return cfg
}

func (a *App) writeResult(res *grower.Result) error {
	path := a.config.OutputPath
	if path == "" || path == "-" {
		return output.WriteGeoJSON(a.outW, res)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := output.WriteGeoJSON(f, res); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	a.logger.Info("Ridges written.", "path", path, "ridges", len(res.Ridges))
	return nil
}
