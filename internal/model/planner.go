package model

import (
	"errors"
	"fmt"
	"go/token"
	"log/slog"

	"github.com/hashicorp/hcl/v2"

	"github.com/goliatone/go-buildergen/internal/classify"
	"github.com/goliatone/go-buildergen/internal/directive"
	"github.com/goliatone/go-buildergen/internal/naming"
	"github.com/goliatone/go-buildergen/pkg/diag"
	"github.com/goliatone/go-buildergen/pkg/schema"
)

// Planner turns schemas into builder plans.
type Planner struct {
	opts Options
}

// New creates a Planner with the supplied options.
func New(options Options) *Planner {
	opts := defaultOptions()
	if options.Patterns.Builder.String() != "" {
		opts.Patterns = options.Patterns
	}
	opts.RepeatedSetters = options.RepeatedSetters
	if options.Logger != nil {
		opts.Logger = options.Logger
	}
	return &Planner{opts: opts}
}

// Scope describes the file a plan is generated into.
type Scope struct {
	// Declared reports top-level identifiers already declared by the file.
	Declared func(name string) bool
	// Reserved lists identifiers generated bodies reference at file level,
	// such as the runtime package qualifier.
	Reserved []string
}

func (s Scope) declared(name string) bool {
	return s.Declared != nil && s.Declared(name)
}

// Plan classifies every field of s and resolves the names of the constructor,
// builder type, storage fields, mutators and finalize method. It returns a
// *diag.DirectiveError or *diag.ConflictError when the schema cannot be
// generated. Warnings never block the plan.
func (p *Planner) Plan(s schema.Schema, scope Scope) (Builder, hcl.Diagnostics, error) {
	logger := p.opts.Logger.With(slog.String("schema", s.Name))
	span := diag.SpanOf(s.Pos, s.End)

	var warnings hcl.Diagnostics
	fields := make([]Field, 0, len(s.Fields))
	for _, spec := range s.Fields {
		c, err := classify.Classify(spec)
		if err != nil {
			return Builder{}, nil, directiveError(s.Name, spec, err)
		}
		if c.IgnoredEach != "" {
			warnings = append(warnings, diag.Warning(
				"Directive has no effect",
				fmt.Sprintf("Field %s of %s is %s, so %s=%s is ignored; only slice fields get accumulators.",
					spec.Name, s.Name, describeKind(c.Kind), directive.KeyEach, c.IgnoredEach),
				diag.SpanOf(spec.Pos, spec.End),
			))
		}
		logger.Debug("field classified",
			slog.String("field", spec.Name),
			slog.String("kind", string(c.Kind)),
			slog.String("type", c.Type),
		)
		fields = append(fields, Field{
			Name:           spec.Name,
			DeclaredType:   spec.Type,
			Classification: c,
			StorageType:    storageType(c),
		})
	}

	exported := s.Visibility == schema.Exported
	vars := naming.Vars{Name: naming.Exported(s.Name)}

	builderType, err := p.expand(p.opts.Patterns.Builder, vars, exported, s.Name, span)
	if err != nil {
		return Builder{}, nil, err
	}
	constructor, err := p.expand(p.opts.Patterns.Constructor, vars, exported, s.Name, span)
	if err != nil {
		return Builder{}, nil, err
	}
	buildMethod, err := p.expand(p.opts.Patterns.Build, vars, exported, s.Name, span)
	if err != nil {
		return Builder{}, nil, err
	}

	for _, name := range []string{builderType, constructor} {
		switch {
		case name == s.Name:
			return Builder{}, nil, &diag.ConflictError{Schema: s.Name, Name: name, Reason: "it is the name of the struct itself", Span: span}
		case scope.declared(name):
			return Builder{}, nil, &diag.ConflictError{Schema: s.Name, Name: name, Reason: "it is already declared in this file", Span: span}
		}
	}
	if builderType == constructor {
		return Builder{}, nil, &diag.ConflictError{Schema: s.Name, Name: builderType, Reason: "the builder type and its constructor would share the name", Span: span}
	}

	methods := map[string]string{buildMethod: ""}

	// Setters come from the naming pattern, so clashes between them are
	// configuration conflicts. The exception is two fields whose names only
	// differ in the case of the first letter, such as name and Name: the
	// later one gets a numbered setter.
	for i := range fields {
		f := &fields[i]
		if f.Classification.Kind == KindRepeated && !p.opts.RepeatedSetters {
			continue
		}
		vars.Field = naming.Exported(f.Name)
		setter, err := p.expand(p.opts.Patterns.Setter, vars, exported, s.Name, span)
		if err != nil {
			return Builder{}, nil, err
		}
		if owner, taken := methods[setter]; taken && owner != "" && naming.Exported(owner) == vars.Field {
			used := make(naming.Taken, len(methods))
			for name := range methods {
				used.Add(name)
			}
			renamed := used.Free(setter)
			warnings = append(warnings, diag.Warning(
				"Setter renamed",
				fmt.Sprintf("Fields %s and %s of %s both map to %s, so the setter of %s is %s.", owner, f.Name, s.Name, setter, f.Name, renamed),
				diag.SpanOf(s.Fields[i].Pos, s.Fields[i].End),
			))
			setter = renamed
		}
		if owner, taken := methods[setter]; taken {
			return Builder{}, nil, &diag.ConflictError{
				Schema: s.Name,
				Field:  f.Name,
				Name:   setter,
				Reason: clashReason(owner, buildMethod),
				Span:   diag.SpanOf(s.Fields[i].Pos, s.Fields[i].End),
			}
		}
		methods[setter] = f.Name
		f.Setter = setter
	}

	// Accumulator names are written by hand in the each directive.
	for i := range fields {
		f := &fields[i]
		if f.Classification.Kind != KindRepeated {
			continue
		}
		acc := f.Classification.Accumulator
		if f.Setter == acc {
			delete(methods, acc)
			f.Setter = ""
		}
		if owner, taken := methods[acc]; taken {
			return Builder{}, nil, &diag.DirectiveError{
				Schema: s.Name,
				Field:  f.Name,
				Key:    directive.KeyEach,
				Reason: fmt.Sprintf("accumulator %s %s", acc, clashReason(owner, buildMethod)),
				Span:   diag.SpanOf(s.Fields[i].Pos, s.Fields[i].End),
			}
		}
		methods[acc] = f.Name
		f.Accumulator = acc
	}

	storage := make(naming.Taken, len(methods)+len(fields))
	for name := range methods {
		storage.Add(name)
	}
	for i := range fields {
		want := naming.Unexported(fields[i].Name)
		if token.IsKeyword(want) {
			want += "Value"
		}
		fields[i].Storage = storage.Free(want)
		storage.Add(fields[i].Storage)
	}

	// Method bodies name the record and builder types, type parameters,
	// every type a field refers to, and the runtime qualifier.
	locals := make(naming.Taken, len(s.Refs)+len(scope.Reserved)+2)
	locals.Add(s.Name)
	locals.Add(builderType)
	for _, tp := range s.TypeParams {
		for _, name := range tp.Names {
			locals.Add(name)
		}
	}
	for _, ref := range s.Refs {
		locals.Add(ref)
	}
	for _, name := range scope.Reserved {
		locals.Add(name)
	}
	receiver := locals.Free("b")
	locals.Add(receiver)
	out := locals.Free("out")
	locals.Add(out)
	value := locals.Free("value")

	plan := Builder{
		Schema:      s.Name,
		Exported:    exported,
		TypeParams:  s.TypeParamDecl(),
		TypeArgs:    s.TypeArgs(),
		BuilderType: builderType,
		Constructor: constructor,
		BuildMethod: buildMethod,
		Receiver:    receiver,
		Out:         out,
		Value:       value,
		Fields:      fields,
	}
	logger.Debug("builder planned",
		slog.String("builder", builderType),
		slog.Int("fields", len(fields)),
	)
	return plan, warnings, nil
}

func (p *Planner) expand(pattern naming.Pattern, vars naming.Vars, exported bool, schemaName string, span diag.Span) (string, error) {
	name, err := pattern.Expand(vars)
	if err != nil {
		return "", &diag.ConflictError{Schema: schemaName, Field: vars.Field, Name: pattern.String(), Reason: err.Error(), Span: span}
	}
	return naming.WithVisibility(name, exported), nil
}

func storageType(c Classification) string {
	if c.Kind == KindRepeated {
		return "[]" + c.Type
	}
	return c.Type
}

func directiveError(schemaName string, spec schema.FieldSpec, err error) error {
	out := &diag.DirectiveError{
		Schema: schemaName,
		Field:  spec.Name,
		Reason: err.Error(),
		Span:   diag.SpanOf(spec.Pos, spec.End),
	}
	var derr *directive.Error
	if errors.As(err, &derr) {
		out.Key = derr.Key
	}
	return out
}

func clashReason(owner, buildMethod string) string {
	if owner == "" {
		return "collides with the " + buildMethod + " method"
	}
	return "collides with the mutator of field " + owner
}

func describeKind(kind Kind) string {
	if kind == KindOptional {
		return "a pointer"
	}
	return "not a slice"
}
