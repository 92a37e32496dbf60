package main

import (
	"context"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/goliatone/go-buildergen/internal/loader"
	"github.com/goliatone/go-buildergen/internal/prompt"
	"github.com/goliatone/go-buildergen/internal/reader"
	"github.com/goliatone/go-buildergen/pkg/config"
	"github.com/goliatone/go-buildergen/pkg/diag"
	"github.com/goliatone/go-buildergen/pkg/orchestrator"
	"github.com/goliatone/go-buildergen/pkg/renderers/jsonplan"
	"github.com/goliatone/go-buildergen/pkg/schema"
)

// newDriver builds the terminal prompt used by -interactive. Tests replace it.
var newDriver = func() prompt.Driver {
	return prompt.NewSurveyDriver(prompt.Stdio{In: os.Stdin, Out: os.Stderr, Err: os.Stderr})
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the command so tests can drive it with their own streams.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, shouldExit, err := parse(args, stderr, os.Getenv)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := newLogger(opts.logLevel, opts.logFormat, stderr)

	cfg := config.Default()
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return &ExitError{Code: 2, Message: err.Error()}
		}
	}

	src := schema.SourceFromFile(opts.file)
	types := opts.types
	if len(types) == 0 && opts.interactive {
		types, err = chooseTypes(ctx, src, cfg)
		if err != nil {
			return &ExitError{Code: 2, Message: err.Error()}
		}
	}

	outPath := opts.output
	if outPath == "" {
		outPath = cfg.OutputPath(opts.file)
		if opts.renderer == jsonplan.Name {
			outPath = "-"
		}
	}
	target := outPath
	if target == "-" {
		target = ""
	}

	gen := orchestrator.New(
		orchestrator.WithConfig(cfg),
		orchestrator.WithLogger(logger),
	)
	result, err := gen.Generate(ctx, orchestrator.Request{
		Source:   src,
		Types:    types,
		Renderer: opts.renderer,
		Output:   target,
	})
	if err != nil {
		code := 1
		if errors.Is(err, orchestrator.ErrNoTypes) || errors.Is(err, orchestrator.ErrUnknownType) {
			code = 2
		}
		return &ExitError{Code: code, Message: err.Error()}
	}

	if err := writeDiagnostics(stderr, opts.diagnostics, result); err != nil {
		return err
	}

	if result.Code != nil {
		if err := writeOutput(outPath, result.Code, stdout); err != nil {
			return &ExitError{Code: 1, Message: err.Error()}
		}
		logger.Info("builders written",
			slog.String("source", opts.file),
			slog.String("output", outPath),
			slog.Int("builders", len(result.Artifacts)),
		)
	} else if outPath != "-" {
		removed, err := removeStale(outPath)
		switch {
		case err != nil:
			logger.Warn("previous output left in place",
				slog.String("output", outPath),
				slog.Any("error", err),
			)
		case removed:
			logger.Info("stale builders removed",
				slog.String("source", opts.file),
				slog.String("output", outPath),
			)
		}
	}

	if result.HasErrors() {
		failed := len(result.Diagnostics.Errs())
		return &ExitError{Code: 1, Message: fmt.Sprintf("buildergen: %d of %d types could not be generated", failed, failed+len(result.Artifacts))}
	}
	return nil
}

// chooseTypes offers every struct in the file, with marked types preselected.
func chooseTypes(ctx context.Context, src schema.Source, cfg config.Config) ([]string, error) {
	doc, err := loader.New(schema.NewLoaderOptions()).Load(ctx, src)
	if err != nil {
		return nil, err
	}
	file, err := reader.New(reader.Options{TagKey: cfg.Tag}).Parse(ctx, doc)
	if err != nil {
		return nil, err
	}
	return prompt.SelectTypes(ctx, newDriver(), file.Structs(), file.Marked())
}

func writeDiagnostics(w io.Writer, format string, result *orchestrator.Result) error {
	if format == "json" {
		return diag.WriteJSON(w, result.Diagnostics)
	}
	return diag.WriteText(w, result.Diagnostics, result.Sources, 0, false)
}

// generatedHeader opens every file buildergen writes.
const generatedHeader = "// Code generated by buildergen"

// removeStale deletes a file left by an earlier run once none of its builders
// can be produced. A file without the generated header is never touched.
func removeStale(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !bytes.HasPrefix(data, []byte(generatedHeader)) {
		return false, fmt.Errorf("%s was not generated by buildergen", path)
	}
	if err := os.Remove(path); err != nil {
		return false, err
	}
	return true, nil
}

func writeOutput(path string, code []byte, stdout io.Writer) error {
	if path == "-" {
		_, err := stdout.Write(code)
		return err
	}
	if err := os.WriteFile(path, code, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
