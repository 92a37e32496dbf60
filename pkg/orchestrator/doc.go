// Package orchestrator wires the loader, reader, planner and renderer into a
// single Generate call. Each selected struct is processed independently: one
// that cannot be generated is reported as a diagnostic and the others still
// produce code.
package orchestrator
