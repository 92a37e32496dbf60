// Package buildergen generates fluent builders for Go structs.
//
// For every selected struct the generated code holds a constructor, a builder
// type that records which fields were set, one chaining mutator per field (or
// an accumulator for repeated fields declared with `builder:"each=AddX"`), and
// a Build method that fails with a *builderr.MissingFieldError when a required
// field was never set. Pointer fields are optional and slice fields with an
// each directive are repeated; every other field is required.
//
// Typical use is through go:generate:
//
//	//go:generate go run github.com/goliatone/go-buildergen/cmd/buildergen -type User
package buildergen

import (
	"context"

	"github.com/goliatone/go-buildergen/pkg/orchestrator"
	"github.com/goliatone/go-buildergen/pkg/schema"
)

// Result aliases orchestrator.Result for callers of the root package.
type Result = orchestrator.Result

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate reads src and generates builders for the named types, or for the
// types marked //buildergen:generate when none are named.
func Generate(ctx context.Context, src schema.Source, types []string, options ...orchestrator.Option) (*Result, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source: src,
		Types:  types,
	})
}

// GenerateFromDocument is Generate for a document the caller already loaded.
func GenerateFromDocument(ctx context.Context, doc schema.Document, types []string, options ...orchestrator.Option) (*Result, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Document: &doc,
		Types:    types,
	})
}
