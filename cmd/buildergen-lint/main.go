package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"

	"github.com/goliatone/go-buildergen/internal/loader"
	"github.com/goliatone/go-buildergen/internal/reader"
	"github.com/goliatone/go-buildergen/pkg/config"
	"github.com/goliatone/go-buildergen/pkg/diag"
	"github.com/goliatone/go-buildergen/pkg/model"
	"github.com/goliatone/go-buildergen/pkg/schema"
)

type violation struct {
	file     string
	location string
	severity string
	message  string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}

// run lints every path and returns the process exit code.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("buildergen-lint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "buildergen config file (JSON or YAML)")
	strict := fs.Bool("strict", false, "treat warnings as failures")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] [files...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(fs.Output(), "\nLint builder directives and generated names in Go source files.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{"examples/basic/user.go"}
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}

	var violations []violation
	for _, path := range paths {
		linted, err := lintFile(ctx, cfg, path)
		if err != nil {
			fmt.Fprintf(stderr, "lint %s: %v\n", path, err)
			return 1
		}
		violations = append(violations, linted...)
	}

	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})

	failed := false
	for _, v := range violations {
		fmt.Fprintf(stderr, "%s: %s: %s -> %s\n", v.file, v.severity, v.location, v.message)
		if v.severity == "error" || *strict {
			failed = true
		}
	}
	if failed {
		return 1
	}
	return 0
}

// lintFile plans every struct that is marked for generation or carries a
// directive, the way generation would, and collects what it reports.
func lintFile(ctx context.Context, cfg config.Config, path string) ([]violation, error) {
	doc, err := loader.New(schema.NewLoaderOptions()).Load(ctx, schema.SourceFromFile(path))
	if err != nil {
		return nil, err
	}
	file, err := reader.New(reader.Options{TagKey: cfg.Tag}).Parse(ctx, doc)
	if err != nil {
		return nil, err
	}
	patterns, err := cfg.Patterns()
	if err != nil {
		return nil, err
	}
	planner := model.NewPlanner(model.WithPatterns(patterns), model.WithRepeatedSetters(cfg.RepeatedSetters))

	marked := make(map[string]bool)
	for _, name := range file.Marked() {
		marked[name] = true
	}

	generated := make(map[string]bool)
	scope := model.Scope{
		Declared: func(name string) bool { return generated[name] || file.Declared(name) },
		Reserved: []string{"builderr"},
	}

	var result []violation
	for _, name := range file.Structs() {
		s, warnings, err := file.Read(name)
		if err != nil {
			result = append(result, fromError(path, name, err))
			continue
		}
		if !marked[name] && !hasDirectives(s) {
			continue
		}
		result = append(result, fromDiagnostics(path, name, warnings)...)

		plan, warnings, err := planner.Plan(s, scope)
		result = append(result, fromDiagnostics(path, name, warnings)...)
		if err != nil {
			result = append(result, fromError(path, name, err))
			continue
		}
		generated[plan.BuilderType] = true
		generated[plan.Constructor] = true
	}
	return result, nil
}

func hasDirectives(s schema.Schema) bool {
	for _, f := range s.Fields {
		if len(f.Directives) > 0 || f.TagError != "" {
			return true
		}
	}
	return false
}

func fromError(file, typeName string, err error) violation {
	return fromDiagnostic(file, typeName, diag.FromError(err))
}

func fromDiagnostics(file, typeName string, diags hcl.Diagnostics) []violation {
	out := make([]violation, 0, len(diags))
	for _, d := range diags {
		out = append(out, fromDiagnostic(file, typeName, d))
	}
	return out
}

func fromDiagnostic(file, typeName string, d *hcl.Diagnostic) violation {
	v := violation{
		file:     file,
		location: typeName,
		severity: "error",
		message:  d.Summary + ": " + d.Detail,
	}
	if d.Severity == hcl.DiagWarning {
		v.severity = "warning"
	}
	if d.Subject != nil {
		v.location = fmt.Sprintf("%s > line %d", typeName, d.Subject.Start.Line)
	}
	return v
}
