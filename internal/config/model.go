package config

import (
	"time"

	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/waterindex"
)

// Model is the unified representation of a scene and its engine settings.
type Model struct {
	Engine Engine
	Mesh   Mesh
	Rivers []waterindex.River
	Lakes  []waterindex.Lake
}

// Engine holds the tunable parameters of the growth engine.
type Engine struct {
	Strategy       string
	Lookahead      int
	Uncertainty    float64
	MaxLength      int
	Workers        int
	QueueCapacity  int
	PollTimeout    time.Duration
	LakeSeeds      int
	WaterTolerance float64
}

// Mesh is a triangulated surface given as vertices and vertex-index triples.
type Mesh struct {
	Vertices  []geom.Coordinate
	Triangles [][3]int
}
