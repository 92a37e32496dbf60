package orchestrator

import (
	"context"

	"github.com/goliatone/go-buildergen/pkg/model"
)

// Transformer rewrites a builder plan after naming and before rendering.
// Implementations can rename mutators or adjust storage names; the plan must
// stay internally consistent.
type Transformer interface {
	Transform(ctx context.Context, plan *model.Builder) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, plan *model.Builder) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, plan *model.Builder) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, plan)
}
