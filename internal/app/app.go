package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/ridgegrow/internal/config"
	"github.com/vk/ridgegrow/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	scene      *config.Model
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a loaded scene.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger, err := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	if err != nil {
		panic(fmt.Errorf("invalid logging configuration: %w", err))
	}
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	scene, err := loader.Load(ctx, appConfig.ScenePath)
	if err != nil {
		// A scene that cannot be loaded is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Scene loaded and translated into unified model.",
		"vertices", len(scene.Mesh.Vertices),
		"triangles", len(scene.Mesh.Triangles),
		"rivers", len(scene.Rivers),
		"lakes", len(scene.Lakes),
	)

	return &App{
		ctx:    ctx,
		outW:   outW,
		logger: logger,
		config: appConfig,
		scene:  scene,
	}
}

// Scene returns the loaded scene. This is primarily for testing.
func (a *App) Scene() *config.Model {
	return a.scene
}
