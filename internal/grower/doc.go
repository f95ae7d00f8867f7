// Package grower orchestrates a full ridge-growing run: it builds tasks for
// every confluence and isolated lake, feeds them through the executor and
// assembles the grown polylines into an ordered, identified ridge set.
package grower
