package diag

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/hcl/v2"
)

// Sources maps filenames to their raw bytes so text output can quote the
// offending lines.
type Sources map[string][]byte

// WriteText prints diagnostics in the familiar hcl layout. Width 0 disables
// wrapping.
func WriteText(w io.Writer, diags hcl.Diagnostics, sources Sources, width uint, color bool) error {
	if len(diags) == 0 {
		return nil
	}
	files := make(map[string]*hcl.File, len(sources))
	for name, raw := range sources {
		files[name] = &hcl.File{Bytes: raw}
	}
	writer := hcl.NewDiagnosticTextWriter(w, files, width, color)
	if err := writer.WriteDiagnostics(diags); err != nil {
		return fmt.Errorf("diag: write text: %w", err)
	}
	return nil
}

// Entry is the JSON shape of a single diagnostic.
type Entry struct {
	Severity string `json:"severity"`
	Summary  string `json:"summary"`
	Detail   string `json:"detail,omitempty"`
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// Report is the JSON document written by WriteJSON.
type Report struct {
	Errors      int     `json:"errors"`
	Warnings    int     `json:"warnings"`
	Diagnostics []Entry `json:"diagnostics"`
}

// NewReport flattens diagnostics into a Report.
func NewReport(diags hcl.Diagnostics) Report {
	report := Report{Diagnostics: make([]Entry, 0, len(diags))}
	for _, d := range diags {
		if d == nil {
			continue
		}
		entry := Entry{Summary: d.Summary, Detail: d.Detail}
		switch d.Severity {
		case hcl.DiagError:
			entry.Severity = "error"
			report.Errors++
		case hcl.DiagWarning:
			entry.Severity = "warning"
			report.Warnings++
		default:
			entry.Severity = "invalid"
		}
		if d.Subject != nil {
			entry.Filename = d.Subject.Filename
			entry.Line = d.Subject.Start.Line
			entry.Column = d.Subject.Start.Column
		}
		report.Diagnostics = append(report.Diagnostics, entry)
	}
	return report
}

// WriteJSON encodes diagnostics as an indented Report.
func WriteJSON(w io.Writer, diags hcl.Diagnostics) error {
	payload, err := json.MarshalIndent(NewReport(diags), "", "  ")
	if err != nil {
		return fmt.Errorf("diag: marshal report: %w", err)
	}
	payload = append(payload, '\n')
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("diag: write report: %w", err)
	}
	return nil
}
