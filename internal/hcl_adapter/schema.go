package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Engine *EngineBlock  `hcl:"engine,block"`
	Mesh   *MeshBlock    `hcl:"mesh,block"`
	Rivers []*WaterBlock `hcl:"river,block"`
	Lakes  []*WaterBlock `hcl:"lake,block"`
	Remain hcl.Body      `hcl:",remain"`
}

// EngineBlock holds the engine attributes as raw expressions so that omitted
// ones can be told apart from explicit values.
type EngineBlock struct {
	Strategy       hcl.Expression `hcl:"strategy,optional"`
	Lookahead      hcl.Expression `hcl:"lookahead,optional"`
	Uncertainty    hcl.Expression `hcl:"uncertainty,optional"`
	MaxLength      hcl.Expression `hcl:"max_length,optional"`
	Workers        hcl.Expression `hcl:"workers,optional"`
	QueueCapacity  hcl.Expression `hcl:"queue_capacity,optional"`
	PollTimeout    hcl.Expression `hcl:"poll_timeout,optional"`
	LakeSeeds      hcl.Expression `hcl:"lake_seeds,optional"`
	WaterTolerance hcl.Expression `hcl:"water_tolerance,optional"`
}

// MeshBlock is the `mesh` block.
type MeshBlock struct {
	Vertices  hcl.Expression `hcl:"vertices"`
	Triangles hcl.Expression `hcl:"triangles"`
}

// WaterBlock is a `river` or `lake` block.
type WaterBlock struct {
	Name        string         `hcl:"name,label"`
	Coordinates hcl.Expression `hcl:"coordinates"`
}
