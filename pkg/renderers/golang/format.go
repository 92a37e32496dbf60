package golang

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"path"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/imports"
)

// Formatting modes for generated source.
const (
	// FormatImports runs goimports: unused imports are dropped and the file
	// is gofmt'ed. Package names of non-standard imports may be resolved
	// through the module graph of the output directory.
	FormatImports = "imports"
	// FormatGofmt prunes imports by their assumed package name and gofmt's
	// the result without consulting the module graph.
	FormatGofmt = "gofmt"
)

func formatSource(filename string, src []byte, mode string) ([]byte, error) {
	switch mode {
	case "", FormatImports:
		return imports.Process(filename, src, &imports.Options{
			Comments:  true,
			TabIndent: true,
			TabWidth:  8,
		})
	case FormatGofmt:
		return gofmtSource(filename, src)
	default:
		return nil, fmt.Errorf("unknown format mode %q", mode)
	}
}

func gofmtSource(filename string, src []byte) ([]byte, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	used := qualifiers(file)
	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			return nil, err
		}
		name := assumedName(importPath)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "." || name == "_" || used[name] {
			continue
		}
		explicit := ""
		if spec.Name != nil {
			explicit = spec.Name.Name
		}
		astutil.DeleteNamedImport(fset, file, explicit, importPath)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// qualifiers collects every identifier used as the left side of a selector,
// except names declared inside the enclosing function. Field selectors on
// package level values are included too, which can only keep an import
// alive, never drop a used one.
func qualifiers(file *ast.File) map[string]bool {
	used := make(map[string]bool)
	collect := func(n ast.Node, locals map[string]bool) {
		ast.Inspect(n, func(n ast.Node) bool {
			if sel, ok := n.(*ast.SelectorExpr); ok {
				if id, ok := sel.X.(*ast.Ident); ok && !locals[id.Name] {
					used[id.Name] = true
				}
			}
			return true
		})
	}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			collect(decl, nil)
			continue
		}
		collect(fn, localNames(fn))
	}
	return used
}

// localNames lists the receiver, parameters, results and body-level
// declarations of fn, regardless of the block they belong to.
func localNames(fn *ast.FuncDecl) map[string]bool {
	locals := make(map[string]bool)
	addFields := func(list *ast.FieldList) {
		if list == nil {
			return
		}
		for _, field := range list.List {
			for _, name := range field.Names {
				locals[name.Name] = true
			}
		}
	}
	addIdent := func(expr ast.Expr) {
		if id, ok := expr.(*ast.Ident); ok && id.Name != "_" {
			locals[id.Name] = true
		}
	}

	addFields(fn.Recv)
	addFields(fn.Type.TypeParams)
	addFields(fn.Type.Params)
	addFields(fn.Type.Results)
	if fn.Body == nil {
		return locals
	}
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.AssignStmt:
			if n.Tok == token.DEFINE {
				for _, lhs := range n.Lhs {
					addIdent(lhs)
				}
			}
		case *ast.RangeStmt:
			if n.Tok == token.DEFINE {
				addIdent(n.Key)
				addIdent(n.Value)
			}
		case *ast.ValueSpec:
			for _, name := range n.Names {
				addIdent(name)
			}
		case *ast.FuncLit:
			addFields(n.Type.Params)
			addFields(n.Type.Results)
		}
		return true
	})
	return locals
}

// assumedName guesses a package name from its import path the way goimports
// does: the last element, skipping a major version suffix, without a "go-"
// prefix, cut at the first character that cannot appear in an identifier.
func assumedName(importPath string) string {
	base := path.Base(importPath)
	if strings.HasPrefix(base, "v") {
		if _, err := strconv.Atoi(base[1:]); err == nil {
			if dir := path.Dir(importPath); dir != "." {
				base = path.Base(dir)
			}
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	}); i >= 0 {
		base = base[:i]
	}
	return base
}
