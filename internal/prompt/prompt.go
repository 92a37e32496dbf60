// Package prompt asks the user which struct types to generate builders for.
package prompt

import (
	"context"
	"errors"
	"io"
	"slices"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNothingSelected is returned when the user confirms an empty choice.
	ErrNothingSelected = errors.New("prompt: no type selected")
	// ErrNoCandidates is returned when there is nothing to choose from.
	ErrNoCandidates = errors.New("prompt: no struct types to choose from")
)

// SelectConfig configures a multi-select prompt.
type SelectConfig struct {
	Message  string
	Options  []string
	Defaults []int // indices into Options
	Help     string
	PageSize int
}

// Driver abstracts the terminal so selection logic can be tested without one.
type Driver interface {
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
}

// Stdio is the terminal the survey driver talks to.
type Stdio struct {
	In  terminal.FileReader
	Out terminal.FileWriter
	Err io.Writer
}

type surveyDriver struct {
	stdio Stdio
}

// NewSurveyDriver returns a Driver backed by survey. Prompts are drawn on
// stdio.Out, which should not be the stream generated code is written to.
func NewSurveyDriver(stdio Stdio) Driver {
	return &surveyDriver{stdio: stdio}
}

func (d *surveyDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []string
	prompt := &survey.MultiSelect{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if len(cfg.Defaults) > 0 {
		prompt.Default = defaultsFromIndices(cfg.Options, cfg.Defaults)
	}
	var opts []survey.AskOpt
	if d.stdio.In != nil && d.stdio.Out != nil {
		opts = append(opts, survey.WithStdio(d.stdio.In, d.stdio.Out, d.stdio.Err))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return nil, translateSurveyErr(err)
	}
	return indicesOf(cfg.Options, out), nil
}

// SelectTypes asks which of candidates to generate, preselecting marked.
// The answer keeps the order of candidates.
func SelectTypes(ctx context.Context, driver Driver, candidates, marked []string) ([]string, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	indices, err := driver.MultiSelect(ctx, SelectConfig{
		Message:  "Generate builders for",
		Options:  candidates,
		Defaults: indicesOf(candidates, marked),
		Help:     "Space toggles a type, enter confirms.",
	})
	if err != nil {
		return nil, err
	}

	indices = slices.Clone(indices)
	slices.Sort(indices)

	var out []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(candidates) {
			out = append(out, candidates[idx])
		}
	}
	if len(out) == 0 {
		return nil, ErrNothingSelected
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func indicesOf(options, values []string) []int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	var out []int
	for i, option := range options {
		if _, ok := seen[option]; ok {
			out = append(out, i)
		}
	}
	return out
}

func defaultsFromIndices(options []string, indices []int) []string {
	indices = slices.Clone(indices)
	slices.Sort(indices)

	var out []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}
