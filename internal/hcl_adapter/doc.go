// Package hcl_adapter loads scenes written in HCL into the format-agnostic
// config.Model.
//
// A scene is any number of .hcl files holding at most one `engine` block, at
// most one `mesh` block and any number of `river "<name>"` and
// `lake "<name>"` blocks:
//
//	engine {
//	  strategy  = "plan_a_plan_b"
//	  lookahead = 2
//	  workers   = 8
//	}
//
//	mesh {
//	  vertices  = [[0, 0, 10], [1, 0, 12], [0, 1, 11]]
//	  triangles = [[0, 1, 2]]
//	}
//
//	river "main" {
//	  coordinates = [[0, 0], [0, 1]]
//	}
//
// Attribute values are ordinary HCL expressions evaluated with a small set
// of numeric and collection functions so generated scenes can be written
// compactly. The process environment is available as the `env` map, read
// with lookup(env, "NAME", "default").
package hcl_adapter
