// Package gotemplate implements template.TemplateRenderer with a pongo2
// template set. View data is normalised through JSON, so templates address
// struct fields by their json names.
package gotemplate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-buildergen/pkg/render/template"
)

// Option configures an Engine.
type Option func(*Engine) error

// WithDir adds a directory on disk as a template source.
func WithDir(dir string) Option {
	return func(e *Engine) error {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			return nil
		}
		loader, err := pongo2.NewLocalFileSystemLoader(dir)
		if err != nil {
			return fmt.Errorf("template dir %s: %w", dir, err)
		}
		e.loaders = append(e.loaders, loader)
		return nil
	}
}

// WithFS adds an fs.FS, typically an embed.FS, as a template source.
func WithFS(files fs.FS) Option {
	return func(e *Engine) error {
		if files != nil {
			e.loaders = append(e.loaders, pongo2.NewFSLoader(files))
		}
		return nil
	}
}

// WithSuffix sets the suffix appended to template names that lack it.
// Defaults to ".tmpl".
func WithSuffix(suffix string) Option {
	return func(e *Engine) error {
		suffix = strings.TrimSpace(suffix)
		if suffix != "" && !strings.HasPrefix(suffix, ".") {
			suffix = "." + suffix
		}
		e.suffix = suffix
		return nil
	}
}

// WithGlobals seeds values every template can see.
func WithGlobals(data map[string]any) Option {
	return func(e *Engine) error {
		e.pendingGlobals = data
		return nil
	}
}

// Engine renders pongo2 templates. Parsed templates are cached by name.
type Engine struct {
	loaders        []pongo2.TemplateLoader
	suffix         string
	pendingGlobals map[string]any

	set   *pongo2.TemplateSet
	mu    sync.RWMutex
	cache map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine. At least one template source is required.
func New(options ...Option) (*Engine, error) {
	e := &Engine{suffix: ".tmpl", cache: make(map[string]*pongo2.Template)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("gotemplate: %w", err)
		}
	}
	if len(e.loaders) == 0 {
		return nil, errors.New("gotemplate: no template source configured")
	}

	e.set = pongo2.NewSet("buildergen", e.loaders...)
	if err := builtinFilters(); err != nil {
		return nil, err
	}
	if err := e.SetGlobals(e.pendingGlobals); err != nil {
		return nil, err
	}
	e.pendingGlobals = nil
	return e, nil
}

// Execute renders the named template into w.
func (e *Engine) Execute(w io.Writer, name string, data any) error {
	if !strings.HasSuffix(name, e.suffix) {
		name += e.suffix
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return err
	}
	if err := e.run(w, tmpl, data); err != nil {
		return fmt.Errorf("gotemplate: execute %s: %w", name, err)
	}
	return nil
}

// ExecuteString parses src on every call and renders it into w.
func (e *Engine) ExecuteString(w io.Writer, src string, data any) error {
	tmpl, err := e.set.FromString(src)
	if err != nil {
		return fmt.Errorf("gotemplate: parse inline template: %w", err)
	}
	if err := e.run(w, tmpl, data); err != nil {
		return fmt.Errorf("gotemplate: execute inline template: %w", err)
	}
	return nil
}

// AddFilter registers fn with pongo2. Filters are process wide, so a name
// that is already registered is rejected.
func (e *Engine) AddFilter(name string, fn template.Filter) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter needs a name and a function")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q is already registered", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		out, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(out), nil
	})
}

// SetGlobals merges data into the template set globals.
func (e *Engine) SetGlobals(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	values, err := toContext(data)
	if err != nil {
		return fmt.Errorf("gotemplate: globals: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = pongo2.Context{}
	}
	e.set.Globals.Update(values)
	return nil
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl := e.cache[name]
	e.mu.RUnlock()
	if tmpl != nil {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl := e.cache[name]; tmpl != nil {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %s: %w", name, err)
	}
	e.cache[name] = tmpl
	return tmpl, nil
}

func (e *Engine) run(w io.Writer, tmpl *pongo2.Template, data any) error {
	ctx, err := toContext(data)
	if err != nil {
		return err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return tmpl.ExecuteWriter(ctx, w)
}

// toContext turns view data into a pongo2.Context by round-tripping it
// through JSON. A pongo2.Context is passed through untouched.
func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode view data: %w", err)
	}
	ctx := pongo2.Context{}
	if err := json.Unmarshal(raw, &ctx); err != nil {
		return nil, fmt.Errorf("view data must encode as a JSON object: %w", err)
	}
	return ctx, nil
}

var registerBuiltins sync.Once

// builtinFilters registers goquote, which prints a value as a Go string
// literal, and lowerfirst.
func builtinFilters() error {
	var err error
	registerBuiltins.Do(func() {
		for name, fn := range map[string]pongo2.FilterFunction{
			"goquote":    goQuote,
			"lowerfirst": lowerFirst,
		} {
			if pongo2.FilterExists(name) {
				continue
			}
			if err = pongo2.RegisterFilter(name, fn); err != nil {
				err = fmt.Errorf("gotemplate: register %s: %w", name, err)
				return
			}
		}
	})
	return err
}

func goQuote(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsSafeValue(strconv.Quote(in.String())), nil
}

func lowerFirst(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	s := in.String()
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(string(unicode.ToLower(r)) + s[size:]), nil
}
