package schema

import (
	"go/ast"
	"go/token"
	"strings"
)

// Visibility records whether a declaration is exported from its package.
type Visibility int

const (
	Unexported Visibility = iota
	Exported
)

// VisibilityOf reports the visibility of a Go identifier.
func VisibilityOf(name string) Visibility {
	if token.IsExported(name) {
		return Exported
	}
	return Unexported
}

func (v Visibility) String() string {
	if v == Exported {
		return "exported"
	}
	return "unexported"
}

// Import is one import spec of the source file. Name is empty for imports
// without an explicit package name.
type Import struct {
	Name string `json:"name,omitempty"`
	Path string `json:"path"`
}

// Directive is one key/value pair read from a field's directive group. A bare
// key written without "=" has HasValue false.
type Directive struct {
	Key      string `json:"key"`
	Value    string `json:"value,omitempty"`
	HasValue bool   `json:"hasValue"`
}

// FieldSpec describes one named struct field as written in the source.
type FieldSpec struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Directives []Directive    `json:"directives,omitempty"`
	Pos        token.Position `json:"-"`
	End        token.Position `json:"-"`

	// TagError describes a directive group that could not be parsed. Such a
	// field has no Directives.
	TagError string `json:"tagError,omitempty"`

	// Expr is the declared type. It is kept for syntactic inspection only.
	Expr ast.Expr `json:"-"`
}

// TypeParam is one group of a generic type parameter list, e.g. "K, V any".
type TypeParam struct {
	Names      []string `json:"names"`
	Constraint string   `json:"constraint"`
}

// Schema is the reader's view of a struct declaration: its name, visibility,
// type parameters, and ordered fields.
type Schema struct {
	Name       string      `json:"name"`
	Visibility Visibility  `json:"visibility"`
	TypeParams []TypeParam `json:"typeParams,omitempty"`
	Fields     []FieldSpec `json:"fields"`

	// Refs lists every identifier referenced by field types and type
	// parameter constraints (package qualifiers included), sorted.
	Refs []string       `json:"-"`
	Pos  token.Position `json:"-"`
	End  token.Position `json:"-"`
}

// Generic reports whether the schema declares type parameters.
func (s Schema) Generic() bool {
	return len(s.TypeParams) > 0
}

// TypeParamDecl renders the declaration form of the type parameter list,
// e.g. "[K comparable, V any]". It is empty for non-generic schemas.
func (s Schema) TypeParamDecl() string {
	if len(s.TypeParams) == 0 {
		return ""
	}
	groups := make([]string, 0, len(s.TypeParams))
	for _, tp := range s.TypeParams {
		groups = append(groups, strings.Join(tp.Names, ", ")+" "+tp.Constraint)
	}
	return "[" + strings.Join(groups, ", ") + "]"
}

// TypeArgs renders the instantiation form of the type parameter list, e.g.
// "[K, V]". It is empty for non-generic schemas.
func (s Schema) TypeArgs() string {
	if len(s.TypeParams) == 0 {
		return ""
	}
	var names []string
	for _, tp := range s.TypeParams {
		names = append(names, tp.Names...)
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// Field returns the field with the given name.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}
