package reader

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/goliatone/go-buildergen/internal/directive"
	"github.com/goliatone/go-buildergen/pkg/diag"
	"github.com/goliatone/go-buildergen/pkg/schema"
)

// DefaultMarker selects a type for generation when written on its own line in
// the type's doc comment.
const DefaultMarker = "//buildergen:generate"

// ErrNotFound is returned when a requested type is not declared in the file.
var ErrNotFound = errors.New("type not found")

// Options configures the reader.
type Options struct {
	// TagKey is the struct tag key holding field directives.
	TagKey string
	// Marker is the doc comment line that selects a type.
	Marker string
}

// Reader turns Go source documents into schemas.
type Reader struct {
	opts Options
}

// New constructs a Reader with the given options.
func New(options Options) *Reader {
	if options.TagKey == "" {
		options.TagKey = directive.DefaultTag
	}
	if options.Marker == "" {
		options.Marker = DefaultMarker
	}
	return &Reader{opts: options}
}

// File is a parsed Go source file ready for schema extraction.
type File struct {
	Package  string
	Filename string
	Imports  []schema.Import

	fset     *token.FileSet
	raw      []byte
	types    []*typeDecl
	byName   map[string]*typeDecl
	declared map[string]struct{}
	tagKey   string
	marker   string
}

type typeDecl struct {
	spec *ast.TypeSpec
	doc  *ast.CommentGroup
}

// Parse parses the document. Syntax errors are returned as errors; schema
// problems are reported later by File.Read.
func (r *Reader) Parse(ctx context.Context, doc schema.Document) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("reader: document payload is empty")
	}

	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, doc.Location(), raw, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("reader: parse %s: %w", doc.Location(), err)
	}

	file := &File{
		Package:  node.Name.Name,
		Filename: doc.Location(),
		fset:     fset,
		raw:      raw,
		byName:   make(map[string]*typeDecl),
		declared: make(map[string]struct{}),
		tagKey:   r.opts.TagKey,
		marker:   r.opts.Marker,
	}

	for _, spec := range node.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := schema.Import{Path: path}
		if spec.Name != nil {
			if spec.Name.Name == "_" {
				continue
			}
			imp.Name = spec.Name.Name
		}
		file.Imports = append(file.Imports, imp)
	}

	for _, decl := range node.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				file.declare(d.Name.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					file.declare(s.Name.Name)
					td := &typeDecl{spec: s, doc: s.Doc}
					if td.doc == nil && len(d.Specs) == 1 {
						td.doc = d.Doc
					}
					file.types = append(file.types, td)
					file.byName[s.Name.Name] = td
				case *ast.ValueSpec:
					for _, name := range s.Names {
						file.declare(name.Name)
					}
				}
			}
		}
	}

	return file, nil
}

func (f *File) declare(name string) {
	if name == "" || name == "_" {
		return
	}
	f.declared[name] = struct{}{}
}

// Declared reports whether name is a top-level identifier of the file.
func (f *File) Declared(name string) bool {
	_, ok := f.declared[name]
	return ok
}

// Types returns the names of every type declared in the file, in order.
func (f *File) Types() []string {
	names := make([]string, 0, len(f.types))
	for _, td := range f.types {
		names = append(names, td.spec.Name.Name)
	}
	return names
}

// Structs returns the names of struct types declared in the file, in order.
func (f *File) Structs() []string {
	var names []string
	for _, td := range f.types {
		if td.spec.Assign.IsValid() {
			continue
		}
		if _, ok := td.spec.Type.(*ast.StructType); ok {
			names = append(names, td.spec.Name.Name)
		}
	}
	return names
}

// Marked returns the names of types whose doc comment carries the marker.
func (f *File) Marked() []string {
	var names []string
	for _, td := range f.types {
		if td.doc == nil {
			continue
		}
		for _, c := range td.doc.List {
			if strings.TrimSpace(c.Text) == f.marker {
				names = append(names, td.spec.Name.Name)
				break
			}
		}
	}
	return names
}

// Position resolves a token position inside the file.
func (f *File) Position(pos token.Pos) token.Position {
	return f.fset.Position(pos)
}

// Read extracts the schema of the named type. A declaration that is not a
// struct with named fields yields a *diag.ShapeError. Blank fields are
// skipped and reported as warnings.
func (f *File) Read(name string) (schema.Schema, hcl.Diagnostics, error) {
	td, ok := f.byName[name]
	if !ok {
		return schema.Schema{}, nil, fmt.Errorf("reader: %s: %q: %w", f.Filename, name, ErrNotFound)
	}
	ts := td.spec
	span := diag.SpanOf(f.Position(ts.Pos()), f.Position(ts.End()))

	if ts.Assign.IsValid() {
		return schema.Schema{}, nil, &diag.ShapeError{Schema: name, Reason: "type aliases are not supported", Span: span}
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return schema.Schema{}, nil, &diag.ShapeError{Schema: name, Reason: describe(ts.Type), Span: span}
	}

	out := schema.Schema{
		Name:       name,
		Visibility: schema.VisibilityOf(name),
		Pos:        span.Start,
		End:        span.End,
	}
	refs := make(map[string]struct{})

	if ts.TypeParams != nil {
		for _, group := range ts.TypeParams.List {
			tp := schema.TypeParam{Constraint: f.text(group.Type)}
			for _, n := range group.Names {
				tp.Names = append(tp.Names, n.Name)
				refs[n.Name] = struct{}{}
			}
			collectIdents(group.Type, refs)
			out.TypeParams = append(out.TypeParams, tp)
		}
	}

	var warnings hcl.Diagnostics
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			return schema.Schema{}, nil, &diag.ShapeError{
				Schema: name,
				Reason: fmt.Sprintf("embedded field %s has no name", types.ExprString(field.Type)),
				Span:   diag.SpanOf(f.Position(field.Pos()), f.Position(field.End())),
			}
		}
		directives, tagErr := f.directives(field)
		collectIdents(field.Type, refs)
		for _, ident := range field.Names {
			fieldSpan := diag.SpanOf(f.Position(ident.Pos()), f.Position(field.End()))
			if ident.Name == "_" {
				warnings = append(warnings, diag.Warning(
					"Blank field skipped",
					fmt.Sprintf("Field _ of %s cannot be assigned and gets no mutator.", name),
					fieldSpan,
				))
				continue
			}
			out.Fields = append(out.Fields, schema.FieldSpec{
				Name:       ident.Name,
				Type:       f.text(field.Type),
				Directives: directives,
				TagError:   tagErr,
				Pos:        fieldSpan.Start,
				End:        fieldSpan.End,
				Expr:       field.Type,
			})
		}
	}

	out.Refs = make([]string, 0, len(refs))
	for ref := range refs {
		out.Refs = append(out.Refs, ref)
	}
	sort.Strings(out.Refs)

	return out, warnings, nil
}

// directives returns the field's directive group split into pairs. A tag
// whose directive group cannot be parsed yields the syntax problem instead.
func (f *File) directives(field *ast.Field) ([]schema.Directive, string) {
	if field.Tag == nil {
		return nil, ""
	}
	tag, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return nil, ""
	}
	group, ok, err := directive.Lookup(tag, f.tagKey)
	if err != nil {
		return nil, err.Error()
	}
	if !ok {
		return nil, ""
	}
	return directive.Split(group), ""
}

// text returns expr exactly as written in the source, so struct tags and
// other details types.ExprString drops survive.
func (f *File) text(expr ast.Expr) string {
	start, end := f.fset.Position(expr.Pos()).Offset, f.fset.Position(expr.End()).Offset
	if start < 0 || end > len(f.raw) || start >= end {
		return types.ExprString(expr)
	}
	return string(f.raw[start:end])
}

func collectIdents(expr ast.Expr, into map[string]struct{}) {
	if expr == nil {
		return
	}
	ast.Inspect(expr, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			into[id.Name] = struct{}{}
		}
		return true
	})
}

func describe(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.InterfaceType:
		return "it is an interface type"
	case *ast.FuncType:
		return "it is a function type"
	case *ast.MapType:
		return "it is a map type"
	case *ast.ArrayType:
		if t.Len == nil {
			return "it is a slice type"
		}
		return "it is an array type"
	case *ast.ChanType:
		return "it is a channel type"
	case *ast.StarExpr:
		return "it is a pointer type"
	default:
		return fmt.Sprintf("it is defined as %s, not a struct", types.ExprString(expr))
	}
}
