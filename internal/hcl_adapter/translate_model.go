// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/ridgegrow/internal/config"
	"github.com/vk/ridgegrow/internal/ctxlog"
	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/growth"
	"github.com/vk/ridgegrow/internal/waterindex"
	"github.com/zclconf/go-cty/cty"
)

var numberGrid = cty.List(cty.List(cty.Number))

// defaultEngine mirrors grower.DefaultConfig. It is repeated here so the
// loader can fill omitted attributes without importing the engine.
func defaultEngine() config.Engine {
	return config.Engine{
		Strategy:       string(growth.KindPlanAPlanB),
		Lookahead:      growth.DefaultLookahead,
		MaxLength:      growth.DefaultMaxLength,
		Workers:        4,
		PollTimeout:    5 * time.Second,
		LakeSeeds:      2,
		WaterTolerance: waterindex.DefaultTolerance,
	}
}

// translateEngine converts the engine block, applying defaults to omitted attributes.
func (l *Loader) translateEngine(ctx context.Context, evalCtx *hcl.EvalContext, b *EngineBlock) (config.Engine, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Translating HCL engine block to internal config model.")

	e := defaultEngine()
	var pollTimeout string
	fields := []struct {
		expr hcl.Expression
		name string
		want cty.Type
		out  any
	}{
		{b.Strategy, "strategy", cty.String, &e.Strategy},
		{b.Lookahead, "lookahead", cty.Number, &e.Lookahead},
		{b.Uncertainty, "uncertainty", cty.Number, &e.Uncertainty},
		{b.MaxLength, "max_length", cty.Number, &e.MaxLength},
		{b.Workers, "workers", cty.Number, &e.Workers},
		{b.QueueCapacity, "queue_capacity", cty.Number, &e.QueueCapacity},
		{b.PollTimeout, "poll_timeout", cty.String, &pollTimeout},
		{b.LakeSeeds, "lake_seeds", cty.Number, &e.LakeSeeds},
		{b.WaterTolerance, "water_tolerance", cty.Number, &e.WaterTolerance},
	}
	for _, f := range fields {
		if err := evalOptional(ctx, evalCtx, f.expr, f.name, f.want, f.out); err != nil {
			return config.Engine{}, err
		}
	}
	if pollTimeout != "" {
		d, err := time.ParseDuration(pollTimeout)
		if err != nil {
			return config.Engine{}, fmt.Errorf("attribute \"poll_timeout\": %w", err)
		}
		e.PollTimeout = d
	}
	return e, nil
}

// translateMesh converts the mesh block. Vertices must carry an elevation.
func (l *Loader) translateMesh(ctx context.Context, evalCtx *hcl.EvalContext, b *MeshBlock) (config.Mesh, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Translating HCL mesh block to internal config model.")

	var raw [][]float64
	if err := evalInto(evalCtx, b.Vertices, numberGrid, &raw); err != nil {
		return config.Mesh{}, fmt.Errorf("attribute \"vertices\": %w", err)
	}
	vertices := make([]geom.Coordinate, len(raw))
	for i, v := range raw {
		if len(v) != 3 {
			return config.Mesh{}, fmt.Errorf("vertex %d: want [x, y, z], got %d values", i, len(v))
		}
		vertices[i] = geom.XYZ(v[0], v[1], v[2])
	}

	var rawTris [][]int
	if err := evalInto(evalCtx, b.Triangles, numberGrid, &rawTris); err != nil {
		return config.Mesh{}, fmt.Errorf("attribute \"triangles\": %w", err)
	}
	triangles := make([][3]int, len(rawTris))
	for i, t := range rawTris {
		if len(t) != 3 {
			return config.Mesh{}, fmt.Errorf("triangle %d: want 3 vertex indices, got %d", i, len(t))
		}
		triangles[i] = [3]int{t[0], t[1], t[2]}
	}

	return config.Mesh{Vertices: vertices, Triangles: triangles}, nil
}

func (l *Loader) translateRiver(evalCtx *hcl.EvalContext, b *WaterBlock) (waterindex.River, error) {
	coords, err := translateCoordinates(evalCtx, b.Coordinates)
	if err != nil {
		return waterindex.River{}, err
	}
	return waterindex.River{Name: b.Name, Coords: coords}, nil
}

func (l *Loader) translateLake(evalCtx *hcl.EvalContext, b *WaterBlock) (waterindex.Lake, error) {
	coords, err := translateCoordinates(evalCtx, b.Coordinates)
	if err != nil {
		return waterindex.Lake{}, err
	}
	return waterindex.Lake{Name: b.Name, Ring: coords}, nil
}

// translateCoordinates accepts [x, y] or [x, y, z] tuples.
func translateCoordinates(evalCtx *hcl.EvalContext, expr hcl.Expression) ([]geom.Coordinate, error) {
	var raw [][]float64
	if err := evalInto(evalCtx, expr, numberGrid, &raw); err != nil {
		return nil, fmt.Errorf("attribute \"coordinates\": %w", err)
	}
	coords := make([]geom.Coordinate, len(raw))
	for i, v := range raw {
		switch len(v) {
		case 2:
			coords[i] = geom.XY(v[0], v[1])
		case 3:
			coords[i] = geom.XYZ(v[0], v[1], v[2])
		default:
			return nil, fmt.Errorf("coordinate %d: want [x, y] or [x, y, z], got %d values", i, len(v))
		}
	}
	return coords, nil
}
