package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

type options struct {
	types       []string
	file        string
	output      string
	configPath  string
	renderer    string
	interactive bool
	logLevel    string
	logFormat   string
	diagnostics string
}

// parse processes command-line arguments. It returns the options, whether the
// program should exit cleanly (help was printed), or an *ExitError.
func parse(args []string, output io.Writer, getenv func(string) string) (*options, bool, error) {
	flagSet := flag.NewFlagSet("buildergen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
buildergen - generate fluent builders for Go structs.

Usage:
  buildergen [options]

Typically invoked from a go:generate directive:
  //go:generate buildergen -type User,Order

Options:
`)
		flagSet.PrintDefaults()
	}

	typesFlag := flagSet.String("type", "", "Comma-separated struct names. Defaults to types marked //buildergen:generate.")
	fileFlag := flagSet.String("file", getenv("GOFILE"), "Go source file to read. Defaults to $GOFILE.")
	outputFlag := flagSet.String("o", "", "Output file, or '-' for stdout. Defaults to <file>_builder.go.")
	configFlag := flagSet.String("config", "", "Path to a JSON or YAML configuration file.")
	rendererFlag := flagSet.String("renderer", "golang", "Renderer to use. Options: 'golang' (alias 'go') or 'json' (alias 'plan').")
	interactiveFlag := flagSet.Bool("interactive", false, "Choose the struct types in a terminal prompt when -type is empty.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	diagnosticsFlag := flagSet.String("diagnostics", "text", "Diagnostics output format. Options: 'text' or 'json'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))}
	}

	opts := &options{
		types:       splitTypes(*typesFlag),
		file:        strings.TrimSpace(*fileFlag),
		output:      strings.TrimSpace(*outputFlag),
		configPath:  strings.TrimSpace(*configFlag),
		renderer:    strings.ToLower(strings.TrimSpace(*rendererFlag)),
		interactive: *interactiveFlag,
		logLevel:    strings.ToLower(*logLevelFlag),
		logFormat:   strings.ToLower(*logFormatFlag),
		diagnostics: strings.ToLower(*diagnosticsFlag),
	}

	if opts.file == "" {
		return nil, false, &ExitError{Code: 2, Message: "no input file: pass -file or run through go generate"}
	}
	switch opts.renderer {
	case "golang", "json":
	case "go":
		opts.renderer = "golang"
	case "plan":
		opts.renderer = "json"
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid renderer: must be 'golang' or 'json'"}
	}
	switch opts.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if opts.logFormat != "text" && opts.logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	if opts.diagnostics != "text" && opts.diagnostics != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid diagnostics: must be 'text' or 'json'"}
	}

	return opts, false, nil
}

func splitTypes(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}
