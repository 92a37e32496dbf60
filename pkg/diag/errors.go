// Package diag defines the generation-time failures reported for a schema and
// their conversion into hcl diagnostics. A failure blocks output for the
// schema it names and nothing else.
package diag

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/hashicorp/hcl/v2"
)

var (
	// ErrShape matches every *ShapeError.
	ErrShape = errors.New("not a named-field struct")
	// ErrDirective matches every *DirectiveError.
	ErrDirective = errors.New("invalid field directive")
	// ErrConflict matches every *ConflictError.
	ErrConflict = errors.New("conflicting generated name")
)

// Span locates the offending declaration or field.
type Span struct {
	Start token.Position
	End   token.Position
}

// SpanOf returns a span covering start through end.
func SpanOf(start, end token.Position) Span {
	return Span{Start: start, End: end}
}

// Range converts the span into an hcl.Range. It returns nil when the span has
// no filename or line information.
func (s Span) Range() *hcl.Range {
	if !s.Start.IsValid() {
		return nil
	}
	end := s.End
	if !end.IsValid() {
		end = s.Start
	}
	return &hcl.Range{
		Filename: s.Start.Filename,
		Start:    hcl.Pos{Line: s.Start.Line, Column: s.Start.Column, Byte: s.Start.Offset},
		End:      hcl.Pos{Line: end.Line, Column: end.Column, Byte: end.Offset},
	}
}

// ShapeError reports a declaration that is not a struct with named fields.
type ShapeError struct {
	Schema string
	Reason string
	Span   Span
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Schema, ErrShape, e.Reason)
}

func (e *ShapeError) Is(target error) bool { return target == ErrShape }

// Diagnostic converts the error into an hcl diagnostic.
func (e *ShapeError) Diagnostic() *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Unsupported declaration",
		Detail:   fmt.Sprintf("Cannot generate a builder for %s: %s. Builders require a struct type with named fields.", e.Schema, e.Reason),
		Subject:  e.Span.Range(),
	}
}

// DirectiveError reports a malformed or unrecognised field directive.
type DirectiveError struct {
	Schema string
	Field  string
	Key    string
	Reason string
	Span   Span
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("%s.%s: %s: %s", e.Schema, e.Field, ErrDirective, e.Reason)
}

func (e *DirectiveError) Is(target error) bool { return target == ErrDirective }

// Diagnostic converts the error into an hcl diagnostic.
func (e *DirectiveError) Diagnostic() *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid builder directive",
		Detail:   fmt.Sprintf("Field %s of %s: %s.", e.Field, e.Schema, e.Reason),
		Subject:  e.Span.Range(),
	}
}

// ConflictError reports two generated declarations that would share a name.
type ConflictError struct {
	Schema string
	Field  string
	Name   string
	Reason string
	Span   Span
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s %q: %s", e.Schema, ErrConflict, e.Name, e.Reason)
	}
	return fmt.Sprintf("%s.%s: %s %q: %s", e.Schema, e.Field, ErrConflict, e.Name, e.Reason)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Diagnostic converts the error into an hcl diagnostic.
func (e *ConflictError) Diagnostic() *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Conflicting generated name",
		Detail:   fmt.Sprintf("Builder for %s cannot declare %s: %s.", e.Schema, e.Name, e.Reason),
		Subject:  e.Span.Range(),
	}
}

// Diagnoser is implemented by every error in this package.
type Diagnoser interface {
	error
	Diagnostic() *hcl.Diagnostic
}

// FromError converts err into a single error diagnostic. Errors that do not
// carry a position are reported with their message as the summary.
func FromError(err error) *hcl.Diagnostic {
	if err == nil {
		return nil
	}
	var d Diagnoser
	if errors.As(err, &d) {
		return d.Diagnostic()
	}
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Generation failed",
		Detail:   err.Error(),
	}
}

// Warning builds a non-blocking diagnostic.
func Warning(summary, detail string, span Span) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagWarning,
		Summary:  summary,
		Detail:   detail,
		Subject:  span.Range(),
	}
}
