// Package taskbuilder turns confluences and isolated lakes into growth tasks:
// a two-point seed stem plus the pair of water features the ridge separates.
//
// Confluence tasks are built from the circular order of mesh edges around
// the confluence. Lake tasks are built from pre-seed points on the lake
// boundary, a route to the nearest water opposite each of them and the
// mesh edges perpendicular to that route.
//
// A confluence that cannot be bracketed by two distinct water features is a
// fatal data error. A lake pre-seed that cannot be turned into a task is
// reported as a SeedFailure and skipped.
package taskbuilder
