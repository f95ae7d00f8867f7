package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/ridgegrow/internal/growth"
	"github.com/vk/ridgegrow/internal/hcl_adapter"
	"github.com/vk/ridgegrow/internal/testutil"
)

const testEngine = `
engine {
  strategy     = "hill_climb"
  lookahead    = 2
  workers      = 2
  poll_timeout = "10ms"
}
`

// setupApp writes src to a scene file and returns an App loaded from it.
func setupApp(t *testing.T, src string, mutate func(*Config)) (*App, *testutil.SafeBuffer) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	cfg := &Config{ScenePath: path, LogLevel: "debug", LogFormat: "text"}
	if mutate != nil {
		mutate(cfg)
	}
	logs := &testutil.SafeBuffer{}
	testutil.DumpLogsOnCleanup(t, logs)
	return NewApp(logs, cfg, hcl_adapter.NewLoader()), logs
}

func TestApp_RunWritesGeoJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ridges.geojson")
	a, logs := setupApp(t, testEngine+testutil.ConfluenceScene().HCL(), func(c *Config) {
		c.OutputPath = out
	})

	res, err := a.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Ridges, 1)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "ridge-1", f.ID)
	assert.True(t, f.Geometry.IsLineString())
	assert.Equal(t, [][]float64{{7, 1, 10}, {5, 1, 11}, {3, 1, 12}, {1, 1, 13}}, f.Geometry.LineString)
	assert.Equal(t, "confluence", f.Properties["kind"])
	assert.Equal(t, "main#2", f.Properties["left_water"])
	assert.Equal(t, "main#1", f.Properties["right_water"])
	assert.Contains(t, logs.String(), "Ridges written.")
}

func TestApp_RunWritesToOutputByDefault(t *testing.T) {
	a, logs := setupApp(t, testEngine+testutil.ConfluenceScene().HCL(), func(c *Config) {
		c.LogLevel = "error"
	})

	_, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"type":"FeatureCollection"`)
	assert.Contains(t, logs.String(), `"ridge-1"`)
}

func TestApp_FatalErrorStillWritesPartialResult(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ridges.geojson")
	a, _ := setupApp(t, testEngine+testutil.StarScene().HCL(), func(c *Config) {
		c.OutputPath = out
	})

	res, err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, growth.IsFatal(err))
	require.NotNil(t, res)
	assert.FileExists(t, out)
}

func TestApp_EngineConfigOverrides(t *testing.T) {
	a, _ := setupApp(t, testEngine+testutil.ConfluenceScene().HCL(), nil)

	cfg := a.engineConfig()
	assert.Equal(t, growth.KindHillClimb, cfg.Strategy)
	assert.Equal(t, 2, cfg.Lookahead)
	assert.Equal(t, 2, cfg.Workers)

	a.config.Strategy = string(growth.KindMedialAxis)
	a.config.Lookahead = 5
	a.config.Workers = 7
	cfg = a.engineConfig()
	assert.Equal(t, growth.KindMedialAxis, cfg.Strategy)
	assert.Equal(t, 5, cfg.Lookahead)
	assert.Equal(t, 7, cfg.Workers)
}

func TestApp_SceneDefaultsWithoutEngineBlock(t *testing.T) {
	a, _ := setupApp(t, testutil.ConfluenceScene().HCL(), nil)
	assert.Equal(t, string(growth.KindPlanAPlanB), a.Scene().Engine.Strategy)
	assert.Len(t, a.Scene().Mesh.Vertices, 13)
	assert.Len(t, a.Scene().Rivers, 2)
}

func TestNewApp_PanicsOnLoadError(t *testing.T) {
	cfg := &Config{ScenePath: filepath.Join(t.TempDir(), "missing"), LogLevel: "error"}
	defer func() {
		r := recover()
		require.NotNil(t, r, "NewApp should panic")
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorContains(t, err, "failed to load configuration")
	}()
	NewApp(&testutil.SafeBuffer{}, cfg, hcl_adapter.NewLoader())
}

func TestApp_HealthAndMetrics(t *testing.T) {
	a, _ := setupApp(t, testutil.ConfluenceScene().HCL(), nil)
	srv := httptest.NewServer(a.newHealthMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{})
	assert.ErrorContains(t, err, "ScenePath")

	_, err = NewConfig(Config{ScenePath: "x", Strategy: "random_walk"})
	assert.ErrorContains(t, err, "unknown strategy")

	_, err = NewConfig(Config{ScenePath: "x", Workers: -1})
	assert.Error(t, err)

	cfg, err := NewConfig(Config{ScenePath: "x", Strategy: "medial_axis", Lookahead: 3})
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.ScenePath)
}

func TestApp_RunUploadsResult(t *testing.T) {
	var uploads int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			uploads++
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "ridges.geojson")
	a, _ := setupApp(t, testEngine+testutil.ConfluenceScene().HCL(), func(c *Config) {
		c.OutputPath = out
		c.UploadURL = srv.URL + "/ridges.geojson"
	})

	_, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, uploads)
}
