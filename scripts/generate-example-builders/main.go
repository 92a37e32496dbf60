package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-buildergen/pkg/model"
	"github.com/goliatone/go-buildergen/pkg/orchestrator"
	"github.com/goliatone/go-buildergen/pkg/render"
	"github.com/goliatone/go-buildergen/pkg/renderers/golang"
	"github.com/goliatone/go-buildergen/pkg/renderers/jsonplan"
	"github.com/goliatone/go-buildergen/pkg/schema"
)

const snapshotRendererName = "plan-snapshot"

// snapshotRenderer writes the JSON plan to disk before handing the file to
// the Go renderer.
type snapshotRenderer struct {
	path string
	plan render.Renderer
	code render.Renderer
}

func (r *snapshotRenderer) Name() string {
	return snapshotRendererName
}

func (r *snapshotRenderer) ContentType() string {
	return r.code.ContentType()
}

func (r *snapshotRenderer) Render(ctx context.Context, file model.File, options render.RenderOptions) ([]byte, error) {
	payload, err := r.plan.Render(ctx, file, options)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(r.path, payload, 0o644); err != nil {
		return nil, err
	}
	return r.code.Render(ctx, file, options)
}

func main() {
	var (
		sourcePath = flag.String("source", "examples/basic/user.go", "Go file declaring the example types")
		types      = flag.String("type", "User,Pair", "comma separated types to generate")
		outputPath = flag.String("output", "examples/basic/user_builder.go", "generated builder file")
		planPath   = flag.String("plan", "examples/basic/testdata/plan.json", "output path for the serialized plan")
	)
	flag.Parse()

	ctx := context.Background()

	code, err := golang.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to configure renderer: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(*planPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create plan directory: %v\n", err)
		os.Exit(1)
	}

	registry := render.NewRegistry()
	registry.MustRegister(&snapshotRenderer{path: *planPath, plan: jsonplan.New(), code: code})

	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(snapshotRendererName),
	)

	result, err := orch.Generate(ctx, orchestrator.Request{
		Source: schema.SourceFromFile(*sourcePath),
		Types:  splitList(*types),
		Output: *outputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate example builders: %v\n", err)
		os.Exit(1)
	}
	if result.HasErrors() {
		fmt.Fprintf(os.Stderr, "example types could not be generated: %v\n", result.Diagnostics)
		os.Exit(1)
	}
	if err := os.WriteFile(*outputPath, result.Code, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write builders: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Wrote %d builders to %s and the plan to %s\n", len(result.Artifacts), *outputPath, *planPath)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
