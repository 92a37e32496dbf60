package render

import (
	"context"

	"github.com/goliatone/go-buildergen/pkg/model"
)

// Renderer turns a planned file into output bytes (Go source, a JSON plan).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, file model.File, options RenderOptions) ([]byte, error)
}

// RenderOptions carries per-request settings that are not part of the plan.
type RenderOptions struct {
	// Filename is where the output will be written. The Go renderer resolves
	// imports relative to its directory. May be empty.
	Filename string
}
