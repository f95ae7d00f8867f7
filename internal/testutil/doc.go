// Package testutil holds fixtures shared by the package tests: synthetic
// scenes with known answers and a goroutine-safe log buffer.
package testutil
