package template_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-buildergen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-buildergen/pkg/testsupport"
)

//go:embed testdata/templates/*.tmpl
var embeddedTemplates embed.FS

func TestEngineExecute(t *testing.T) {
	engine := newEngine(t)

	for _, name := range []string{"hello", "hello.tmpl"} {
		got := testsupport.CaptureTemplateOutput(t, func(w io.Writer) error {
			return engine.Execute(w, name, map[string]any{"name": "User"})
		})
		if want := "type UserBuilder struct{}\n"; got != want {
			t.Fatalf("execute %s\nwant: %q\n got: %q", name, want, got)
		}
	}
}

func TestEngineStructData(t *testing.T) {
	engine := newEngine(t)

	type view struct {
		Name string `json:"name"`
	}
	got := testsupport.CaptureTemplateOutput(t, func(w io.Writer) error {
		return engine.Execute(w, "hello", view{Name: "Order"})
	})
	if got != "type OrderBuilder struct{}\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineRejectsNonObjectData(t *testing.T) {
	engine := newEngine(t)

	var sb strings.Builder
	if err := engine.Execute(&sb, "hello", []string{"User"}); err == nil {
		t.Fatalf("expected slice view data to fail")
	}
	if err := engine.Execute(&sb, "missing", nil); err == nil {
		t.Fatalf("expected missing template to fail")
	}
}

func TestEngineGlobals(t *testing.T) {
	engine := newEngine(t)
	if err := engine.SetGlobals(map[string]any{
		"settings": map[string]any{"tag": `builder:"each"`},
	}); err != nil {
		t.Fatalf("set globals: %v", err)
	}

	got := testsupport.CaptureTemplateOutput(t, func(w io.Writer) error {
		return engine.Execute(w, "use-global", nil)
	})
	if want := "const Tag = \"builder:\\\"each\\\"\"\n"; got != want {
		t.Fatalf("globals\nwant: %q\n got: %q", want, got)
	}
}

func TestEngineGlobalsOption(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobals(map[string]any{
		"settings": map[string]any{"tag": "json"},
	}))

	got := testsupport.CaptureTemplateOutput(t, func(w io.Writer) error {
		return engine.Execute(w, "use-global", nil)
	})
	if got != "const Tag = \"json\"\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineAddFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.AddFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("add filter: %v", err)
	}
	if err := engine.AddFilter("shout", func(input any, _ any) (any, error) { return input, nil }); err == nil {
		t.Fatalf("expected duplicate filter to fail")
	}
	if err := engine.AddFilter("", nil); err == nil {
		t.Fatalf("expected anonymous filter to fail")
	}

	got := testsupport.CaptureTemplateOutput(t, func(w io.Writer) error {
		return engine.Execute(w, "use-filter", map[string]any{"name": "ada"})
	})
	if got != "ADA!\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineAutoescapeOff(t *testing.T) {
	engine := newEngine(t)

	got := testsupport.CaptureTemplateOutput(t, func(w io.Writer) error {
		return engine.Execute(w, "raw", map[string]any{"kind": "<-chan map[string]any"})
	})
	if got != "var _ <-chan map[string]any\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineExecuteString(t *testing.T) {
	engine := newEngine(t)

	got := testsupport.CaptureTemplateOutput(t, func(w io.Writer) error {
		return engine.ExecuteString(w, "{{ name|lowerfirst }}", map[string]any{"name": "URLPath"})
	})
	if got != "uRLPath" {
		t.Fatalf("unexpected output %q", got)
	}

	var sb strings.Builder
	if err := engine.ExecuteString(&sb, "{{ name", nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEngineRequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without a template source")
	}
	if _, err := gotemplate.New(gotemplate.WithDir("testdata/does-not-exist")); err == nil {
		t.Fatalf("expected error for a missing directory")
	}
}

func TestEngineFromDir(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithDir("testdata/templates"), gotemplate.WithSuffix("tmpl"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got := testsupport.CaptureTemplateOutput(t, func(w io.Writer) error {
		return engine.Execute(w, "hello", map[string]any{"name": "Pair"})
	})
	if got != "type PairBuilder struct{}\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func newEngine(t *testing.T, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(templatesFS)}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
