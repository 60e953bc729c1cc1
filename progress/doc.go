// Package progress keeps aggregated counters for a scheduling session so
// observers can follow a run without inspecting engine internals.
package progress
