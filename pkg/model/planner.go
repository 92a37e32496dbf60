package model

import (
	"log/slog"

	"github.com/hashicorp/hcl/v2"

	"github.com/goliatone/go-buildergen/internal/model"
	"github.com/goliatone/go-buildergen/pkg/schema"
)

// Planner converts schemas into builder plans.
type Planner interface {
	Plan(s schema.Schema, scope Scope) (Builder, hcl.Diagnostics, error)
}

// PlannerOption configures the planner behaviour.
type PlannerOption func(*plannerOptions)

type plannerOptions struct {
	patterns        *Patterns
	repeatedSetters bool
	logger          *slog.Logger
}

// WithPatterns overrides the naming patterns used for generated identifiers.
func WithPatterns(patterns Patterns) PlannerOption {
	return func(opts *plannerOptions) {
		opts.patterns = &patterns
	}
}

// WithRepeatedSetters also emits a whole-slice setter for repeated fields.
func WithRepeatedSetters(enabled bool) PlannerOption {
	return func(opts *plannerOptions) {
		opts.repeatedSetters = enabled
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) PlannerOption {
	return func(opts *plannerOptions) {
		opts.logger = logger
	}
}

// NewPlanner returns a Planner backed by the internal implementation.
func NewPlanner(options ...PlannerOption) Planner {
	cfg := plannerOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	internalOpts := model.Options{
		RepeatedSetters: cfg.repeatedSetters,
		Logger:          cfg.logger,
	}
	if cfg.patterns != nil {
		internalOpts.Patterns = *cfg.patterns
	}

	return model.New(internalOpts)
}
