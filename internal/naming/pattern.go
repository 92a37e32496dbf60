// Package naming expands the identifier patterns used for generated
// declarations. Patterns are HCL template strings such as "New${name}Builder";
// they see the variables name (the struct name, exported form) and field (the
// field name, exported form) plus the lower and upper functions.
package naming

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Default patterns.
const (
	DefaultBuilder     = "${name}Builder"
	DefaultConstructor = "New${name}Builder"
	DefaultSetter      = "With${field}"
	DefaultBuild       = "Build"
)

var functions = map[string]function.Function{
	"lower": stdlib.LowerFunc,
	"upper": stdlib.UpperFunc,
}

// Pattern is a compiled naming template.
type Pattern struct {
	raw  string
	expr hclsyntax.Expression
}

// Compile parses raw as an HCL template.
func Compile(raw string) (Pattern, error) {
	if strings.TrimSpace(raw) == "" {
		return Pattern{}, fmt.Errorf("naming: pattern is empty")
	}
	expr, diags := hclsyntax.ParseTemplate([]byte(raw), "pattern", hcl.InitialPos)
	if diags.HasErrors() {
		return Pattern{}, fmt.Errorf("naming: parse %q: %s", raw, diags.Error())
	}
	return Pattern{raw: raw, expr: expr}, nil
}

// MustCompile panics when raw does not compile.
func MustCompile(raw string) Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source text of the pattern.
func (p Pattern) String() string {
	return p.raw
}

// Vars are the values a pattern can reference.
type Vars struct {
	Name  string
	Field string
}

// Expand evaluates the pattern and checks that the result is a Go identifier.
func (p Pattern) Expand(vars Vars) (string, error) {
	if p.expr == nil {
		return "", fmt.Errorf("naming: pattern is not compiled")
	}
	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"name":  cty.StringVal(vars.Name),
			"field": cty.StringVal(vars.Field),
		},
		Functions: functions,
	}
	val, diags := p.expr.Value(ctx)
	if diags.HasErrors() {
		return "", fmt.Errorf("naming: expand %q: %s", p.raw, diags.Error())
	}
	if val.IsNull() || !val.IsKnown() || !val.Type().Equals(cty.String) {
		return "", fmt.Errorf("naming: pattern %q does not produce a string", p.raw)
	}
	out := val.AsString()
	if !token.IsIdentifier(out) {
		return "", fmt.Errorf("naming: pattern %q expands to %q, which is not a valid identifier", p.raw, out)
	}
	return out, nil
}

// Patterns groups the compiled patterns used for one generation run.
type Patterns struct {
	Builder     Pattern
	Constructor Pattern
	Setter      Pattern
	Build       Pattern
}

// Defaults returns the default patterns.
func Defaults() Patterns {
	return Patterns{
		Builder:     MustCompile(DefaultBuilder),
		Constructor: MustCompile(DefaultConstructor),
		Setter:      MustCompile(DefaultSetter),
		Build:       MustCompile(DefaultBuild),
	}
}

// CompileAll compiles the four patterns, falling back to defaults for empty
// strings.
func CompileAll(builder, constructor, setter, build string) (Patterns, error) {
	out := Defaults()
	for _, item := range []struct {
		raw    string
		target *Pattern
	}{
		{builder, &out.Builder},
		{constructor, &out.Constructor},
		{setter, &out.Setter},
		{build, &out.Build},
	} {
		if strings.TrimSpace(item.raw) == "" {
			continue
		}
		p, err := Compile(item.raw)
		if err != nil {
			return Patterns{}, err
		}
		*item.target = p
	}
	return out, nil
}
