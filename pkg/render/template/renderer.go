package template

import "io"

// Filter transforms a template value. param is nil when the template passes
// no argument.
type Filter func(input any, param any) (any, error)

// TemplateRenderer is the seam between renderers and a concrete template
// engine.
type TemplateRenderer interface {
	// Execute renders the template stored under name into w.
	Execute(w io.Writer, name string, data any) error
	// ExecuteString parses src and renders it into w.
	ExecuteString(w io.Writer, src string, data any) error
	// AddFilter exposes fn to templates under name.
	AddFilter(name string, fn Filter) error
	// SetGlobals merges values every template can see.
	SetGlobals(data map[string]any) error
}
