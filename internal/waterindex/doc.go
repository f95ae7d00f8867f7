// Package waterindex is a planar, in-memory index over a hydrographic
// network: river linestrings and lake polygons.
//
// River linestrings are split at every confluence they pass through, so each
// arm meeting at a confluence is its own feature with its own handle. A
// confluence is a vertex where three or more river edges meet.
//
// All queries are read-only and the index is safe for concurrent use once
// built.
package waterindex
