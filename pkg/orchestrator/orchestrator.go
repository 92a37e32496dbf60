package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"slices"

	"github.com/hashicorp/hcl/v2"

	internalLoader "github.com/goliatone/go-buildergen/internal/loader"
	"github.com/goliatone/go-buildergen/internal/naming"
	"github.com/goliatone/go-buildergen/internal/reader"
	"github.com/goliatone/go-buildergen/pkg/builderr"
	"github.com/goliatone/go-buildergen/pkg/config"
	"github.com/goliatone/go-buildergen/pkg/diag"
	"github.com/goliatone/go-buildergen/pkg/model"
	"github.com/goliatone/go-buildergen/pkg/render"
	"github.com/goliatone/go-buildergen/pkg/renderers/golang"
	"github.com/goliatone/go-buildergen/pkg/renderers/jsonplan"
	"github.com/goliatone/go-buildergen/pkg/schema"
)

const defaultRendererName = golang.Name

var (
	// ErrNoTypes is returned when a request names no types and the source
	// marks none for generation.
	ErrNoTypes = errors.New("orchestrator: no types selected")
	// ErrUnknownType is returned when a requested type is not declared in the
	// source file.
	ErrUnknownType = errors.New("orchestrator: unknown type")
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom source loader.
func WithLoader(loader schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithPlanner injects a custom builder planner.
func WithPlanner(planner model.Planner) Option {
	return func(o *Orchestrator) {
		o.planner = planner
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithConfig applies settings to the built-in reader, planner and renderers.
// Injected components are not reconfigured.
func WithConfig(cfg config.Config) Option {
	return func(o *Orchestrator) {
		o.config = cfg
	}
}

// WithTransformer registers a Transformer that can rewrite each plan before
// rendering.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates loading, reading, planning and rendering for one
// source file per call. Missing dependencies are filled with the built-in
// implementations.
type Orchestrator struct {
	loader          schema.Loader
	reader          *reader.Reader
	planner         model.Planner
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	config          config.Config
	logger          *slog.Logger
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		config:          config.Default(),
		logger:          slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one generation run.
type Request struct {
	// Source identifies the Go file to read. Optional when Document is set.
	Source schema.Source

	// Document bypasses the loader when the caller already holds the bytes.
	Document *schema.Document

	// Types lists the struct types to generate builders for, in output
	// order. When empty, types marked with //buildergen:generate are used.
	Types []string

	// Renderer names the renderer to use. Empty selects the default.
	Renderer string

	// Output is the path the result will be written to, if known.
	Output string
}

// Artifact describes one generated builder.
type Artifact struct {
	Schema  string        `json:"schema"`
	Builder string        `json:"builder"`
	Plan    model.Builder `json:"plan"`
}

// Result is the outcome of a generation run. Schemas that could not be
// generated are reported in Diagnostics and have no artifact; Code holds the
// output for the rest and is nil when none succeeded.
type Result struct {
	Package     string
	Source      string
	Code        []byte
	ContentType string
	Artifacts   []Artifact
	Diagnostics hcl.Diagnostics
	// Sources holds the input bytes keyed by filename for diagnostic output.
	Sources diag.Sources
}

// HasErrors reports whether any schema failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Diagnostics.HasErrors()
}

// Generate runs the pipeline for every selected type. Per-schema problems
// (shape, directive, and naming conflicts) become diagnostics; the returned
// error is reserved for request problems such as unreadable sources, unknown
// types, or renderer failures.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	file, err := o.reader.Parse(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: read source: %w", err)
	}

	names, err := selectTypes(file, req.Types)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Package:     file.Package,
		Source:      doc.Location(),
		ContentType: renderer.ContentType(),
		Sources:     diag.Sources{doc.Location(): doc.Raw()},
	}
	out := model.File{
		Package: file.Package,
		Source:  doc.Filename(),
		Runtime: runtimeImport(file),
	}
	out.Imports = outputImports(file.Imports, out.Runtime.Path)

	generated := make(map[string]struct{})
	scope := model.Scope{
		Declared: func(name string) bool {
			if _, ok := generated[name]; ok {
				return true
			}
			return file.Declared(name)
		},
		Reserved: []string{out.RuntimeName()},
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger := o.logger.With(slog.String("schema", name))

		s, warnings, err := file.Read(name)
		result.Diagnostics = append(result.Diagnostics, warnings...)
		if err != nil {
			if !o.report(result, logger, err) {
				return nil, fmt.Errorf("orchestrator: read %s: %w", name, err)
			}
			continue
		}

		plan, warnings, err := o.planner.Plan(s, scope)
		result.Diagnostics = append(result.Diagnostics, warnings...)
		if err != nil {
			if !o.report(result, logger, err) {
				return nil, fmt.Errorf("orchestrator: plan %s: %w", name, err)
			}
			continue
		}

		if err := o.applyTransformer(ctx, &plan); err != nil {
			return nil, err
		}

		generated[plan.BuilderType] = struct{}{}
		generated[plan.Constructor] = struct{}{}
		out.Builders = append(out.Builders, plan)
		result.Artifacts = append(result.Artifacts, Artifact{Schema: name, Builder: plan.BuilderType, Plan: plan})
		logger.Debug("schema planned", slog.String("builder", plan.BuilderType), slog.Int("fields", len(plan.Fields)))
	}

	if len(out.Builders) == 0 {
		o.logger.Debug("nothing to render", slog.String("source", doc.Location()))
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	code, err := renderer.Render(ctx, out, render.RenderOptions{Filename: req.Output})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	result.Code = code
	return result, nil
}

// report records err as an error diagnostic when it describes a schema
// problem. It returns false for any other error.
func (o *Orchestrator) report(result *Result, logger *slog.Logger, err error) bool {
	var d diag.Diagnoser
	if !errors.As(err, &d) {
		return false
	}
	logger.Debug("schema rejected", slog.String("reason", err.Error()))
	result.Diagnostics = append(result.Diagnostics, d.Diagnostic())
	return true
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.registry.Get(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, plan *model.Builder) error {
	if o.transformer == nil || plan == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, plan); err != nil {
		return fmt.Errorf("orchestrator: transform %s: %w", plan.Schema, err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}
	o.defaultsApplied = true

	if err := o.config.Validate(); err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: config: %w", err)
		return
	}

	if o.loader == nil {
		o.loader = internalLoader.New(schema.NewLoaderOptions())
	}
	o.reader = reader.New(reader.Options{TagKey: o.config.Tag})
	if o.planner == nil {
		patterns, err := o.config.Patterns()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: config: %w", err)
			return
		}
		o.planner = model.NewPlanner(
			model.WithPatterns(patterns),
			model.WithRepeatedSetters(o.config.RepeatedSetters),
			model.WithLogger(o.logger),
		)
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := golang.New(
			golang.WithFormat(o.config.Output.Format),
			golang.WithLogger(o.logger),
		)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer, "go")
		o.registry.MustRegister(jsonplan.New(), "plan")
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

// selectTypes resolves the requested type names, dropping duplicates. Every
// requested name must be declared in the file.
func selectTypes(file *reader.File, requested []string) ([]string, error) {
	if len(requested) == 0 {
		requested = file.Marked()
		if len(requested) == 0 {
			return nil, fmt.Errorf("%w: %s has no type marked %s", ErrNoTypes, file.Filename, reader.DefaultMarker)
		}
	}

	declared := file.Types()
	names := make([]string, 0, len(requested))
	for _, name := range requested {
		if slices.Contains(names, name) {
			continue
		}
		if !slices.Contains(declared, name) {
			return nil, fmt.Errorf("%w %q in %s", ErrUnknownType, name, file.Filename)
		}
		names = append(names, name)
	}
	return names, nil
}

// runtimeImport picks the qualifier for the runtime package, renaming it when
// the source file already uses "builderr" for something else.
func runtimeImport(file *reader.File) model.Import {
	taken := make(naming.Taken)
	for _, imp := range file.Imports {
		if imp.Path == builderr.ImportPath {
			return model.Import{Name: imp.Name, Path: imp.Path}
		}
		name := imp.Name
		if name == "" {
			name = path.Base(imp.Path)
		}
		taken.Add(name)
	}
	if file.Declared("builderr") {
		taken.Add("builderr")
	}

	name := taken.Free("builderr")
	if name == "builderr" {
		name = ""
	}
	return model.Import{Name: name, Path: builderr.ImportPath}
}

func outputImports(imports []schema.Import, runtimePath string) []model.Import {
	out := make([]model.Import, 0, len(imports))
	for _, imp := range imports {
		if imp.Path == runtimePath {
			continue
		}
		out = append(out, model.Import{Name: imp.Name, Path: imp.Path})
	}
	return out
}
