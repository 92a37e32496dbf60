// Package golang renders builder plans as Go source through pongo2 templates
// and formats the result.
package golang

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/goliatone/go-buildergen/pkg/model"
	"github.com/goliatone/go-buildergen/pkg/render"
	rendertemplate "github.com/goliatone/go-buildergen/pkg/render/template"
	gotemplate "github.com/goliatone/go-buildergen/pkg/render/template/gotemplate"
)

// Name is the registry key of the Go renderer.
const Name = "golang"

const templateName = "templates/builder.go.tmpl"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	format           string
	logger           *slog.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must contain templates/builder.go.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithFormat selects FormatImports (default) or FormatGofmt.
func WithFormat(mode string) Option {
	return func(cfg *config) {
		cfg.format = mode
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer emits one Go file holding a builder per plan in the file.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	format    string
	logger    *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the Go renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		format:     FormatImports,
		logger:     slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	switch cfg.format {
	case "":
		cfg.format = FormatImports
	case FormatImports, FormatGofmt:
	default:
		return nil, fmt.Errorf("golang renderer: unknown format mode %q", cfg.format)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithSuffix(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("golang renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, format: cfg.format, logger: cfg.logger}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/x-go; charset=utf-8"
}

// Render executes the builder template and formats the output. When
// formatting fails the unformatted source is returned alongside the error so
// callers can inspect it.
func (r *Renderer) Render(ctx context.Context, file model.File, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("golang renderer: template renderer is nil")
	}
	if file.Package == "" {
		return nil, errors.New("golang renderer: package name is required")
	}
	if file.Runtime.Path == "" {
		return nil, errors.New("golang renderer: runtime import path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	builders := make([]builderView, 0, len(file.Builders))
	for _, b := range file.Builders {
		builders = append(builders, newBuilderView(b))
	}

	var raw bytes.Buffer
	err := r.templates.Execute(&raw, templateName, map[string]any{
		"file":     file,
		"builders": builders,
		"runtime":  file.RuntimeName(),
	})
	if err != nil {
		return nil, fmt.Errorf("golang renderer: render template: %w", err)
	}

	formatted, err := formatSource(options.Filename, raw.Bytes(), r.format)
	if err != nil {
		return raw.Bytes(), fmt.Errorf("golang renderer: format %s output: %w", r.format, err)
	}
	r.logger.DebugContext(ctx, "rendered builders",
		slog.String("package", file.Package),
		slog.Int("builders", len(file.Builders)),
		slog.Int("bytes", len(formatted)),
	)
	return formatted, nil
}
