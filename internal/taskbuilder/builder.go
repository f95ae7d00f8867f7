package taskbuilder

import (
	"sync/atomic"

	"github.com/vk/ridgegrow/internal/growth"
)

// DefaultLakeSeeds is the number of pre-seed points tried per isolated lake.
const DefaultLakeSeeds = 2

// Builder creates growth tasks. Sequence numbers are unique per Builder.
type Builder struct {
	mesh      growth.MeshGraph
	water     growth.WaterIndex
	router    growth.Router
	lakeSeeds int
	seq       atomic.Int64
}

// Option customises a Builder.
type Option func(*Builder)

// WithLakeSeeds sets the number of pre-seed points per isolated lake.
func WithLakeSeeds(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.lakeSeeds = n
		}
	}
}

// New returns a Builder. router is only used for isolated lakes and may be
// nil when those are not built.
func New(mesh growth.MeshGraph, water growth.WaterIndex, router growth.Router, opts ...Option) *Builder {
	b := &Builder{
		mesh:      mesh,
		water:     water,
		router:    router,
		lakeSeeds: DefaultLakeSeeds,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) nextSeq() int {
	return int(b.seq.Add(1))
}
