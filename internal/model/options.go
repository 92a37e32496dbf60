package model

import (
	"log/slog"

	"github.com/goliatone/go-buildergen/internal/naming"
)

// Options configures the Planner. Options are constructed by the public
// adapter in pkg/model and passed into New.
type Options struct {
	Patterns naming.Patterns

	// RepeatedSetters adds a whole-slice setter next to the accumulator of
	// every repeated field.
	RepeatedSetters bool

	Logger *slog.Logger
}

func defaultOptions() Options {
	return Options{
		Patterns: naming.Defaults(),
		Logger:   slog.Default(),
	}
}
