// Package classify assigns every struct field one of three shapes by looking
// at the written type and its directives only. Type identity is never
// resolved: a named type whose underlying type is a slice is not a sequence.
package classify

import (
	"go/ast"
	"go/printer"
	"go/token"
	"strings"

	"github.com/goliatone/go-buildergen/internal/directive"
	"github.com/goliatone/go-buildergen/pkg/schema"
)

// Kind is the shape of a field.
type Kind string

const (
	KindRequired Kind = "required"
	KindOptional Kind = "optional"
	KindRepeated Kind = "repeated"
)

// Classification is the shape of one field plus the type the builder works
// with: the declared type for required fields, the pointer element for
// optional fields, and the slice element for repeated fields.
type Classification struct {
	Kind        Kind   `json:"kind"`
	Type        string `json:"type"`
	Accumulator string `json:"accumulator,omitempty"`

	// IgnoredEach is set when a well-formed each directive had no effect
	// because the field is not a slice (or is a pointer).
	IgnoredEach string `json:"ignoredEach,omitempty"`
}

// Required builds a required classification.
func Required(typ string) Classification {
	return Classification{Kind: KindRequired, Type: typ}
}

// Optional builds an optional classification over the pointer element.
func Optional(inner string) Classification {
	return Classification{Kind: KindOptional, Type: inner}
}

// Repeated builds a repeated classification over the slice element.
func Repeated(elem, accumulator string) Classification {
	return Classification{Kind: KindRepeated, Type: elem, Accumulator: accumulator}
}

// Classify derives the classification of a field. Directive errors are
// returned as *directive.Error.
func Classify(field schema.FieldSpec) (Classification, error) {
	if field.TagError != "" {
		return Classification{}, &directive.Error{Reason: field.TagError}
	}
	set, err := directive.Interpret(field.Directives)
	if err != nil {
		return Classification{}, err
	}

	expr := unparen(field.Expr)
	if expr == nil {
		return Required(field.Type), nil
	}

	if star, ok := expr.(*ast.StarExpr); ok {
		c := Optional(typeText(field, star.X))
		c.IgnoredEach = set.Each
		return c, nil
	}

	if arr, ok := expr.(*ast.ArrayType); ok && arr.Len == nil && set.Each != "" {
		return Repeated(typeText(field, arr.Elt), set.Each), nil
	}

	c := Required(typeText(field, expr))
	c.IgnoredEach = set.Each
	return c, nil
}

func unparen(expr ast.Expr) ast.Expr {
	for {
		p, ok := expr.(*ast.ParenExpr)
		if !ok {
			return expr
		}
		expr = p.X
	}
}

// typeText returns the source text of part, a node inside field.Expr. The
// text is cut out of field.Type when that holds the declared type as written;
// otherwise part is printed, which keeps struct tags but not the original
// layout.
func typeText(field schema.FieldSpec, part ast.Expr) string {
	base := field.Expr.Pos()
	if base.IsValid() && int(field.Expr.End()-base) == len(field.Type) {
		start, end := int(part.Pos()-base), int(part.End()-base)
		if start >= 0 && end <= len(field.Type) && start < end {
			return field.Type[start:end]
		}
	}
	var buf strings.Builder
	if err := printer.Fprint(&buf, token.NewFileSet(), part); err != nil {
		return field.Type
	}
	return buf.String()
}
