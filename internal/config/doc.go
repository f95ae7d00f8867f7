// Package config defines the format-agnostic model of a ridge-growing run:
// the engine parameters, the terrain mesh and the water network, together
// with the Loader interface that concrete formats implement.
//
// The `config.Model` is the single source of truth for the `app` package.
// The HCL implementation lives in the hcl_adapter package.
package config
