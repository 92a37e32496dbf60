// Package jsonplan renders builder plans as indented JSON. It is useful for
// inspecting how fields were classified and named without generating code.
package jsonplan

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-buildergen/pkg/model"
	"github.com/goliatone/go-buildergen/pkg/render"
)

// Name is the registry key of the JSON plan renderer.
const Name = "json"

type Option func(*Renderer)

// WithIndent overrides the two-space indent. An empty indent produces
// compact output.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) *Renderer {
	r := &Renderer{indent: "  "}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(ctx context.Context, file model.File, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if file.Builders == nil {
		file.Builders = []model.Builder{}
	}

	var (
		payload []byte
		err     error
	)
	if r.indent == "" {
		payload, err = json.Marshal(file)
	} else {
		payload, err = json.MarshalIndent(file, "", r.indent)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonplan renderer: marshal plan: %w", err)
	}
	return append(payload, '\n'), nil
}
