package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl/v2"

	"github.com/goliatone/go-buildergen/internal/loader"
	"github.com/goliatone/go-buildergen/pkg/builderr"
	"github.com/goliatone/go-buildergen/pkg/config"
	"github.com/goliatone/go-buildergen/pkg/model"
	"github.com/goliatone/go-buildergen/pkg/orchestrator"
	"github.com/goliatone/go-buildergen/pkg/render"
	"github.com/goliatone/go-buildergen/pkg/renderers/jsonplan"
	"github.com/goliatone/go-buildergen/pkg/schema"
	"github.com/goliatone/go-buildergen/pkg/testsupport"
)

const shopSource = "package shop\n\n" +
	"//buildergen:generate\n" +
	"type User struct {\n" +
	"\tName string\n" +
	"\tTags []string `builder:\"each=AddTag\"`\n" +
	"}\n\n" +
	"type Status string\n\n" +
	"type Broken struct {\n" +
	"\tTags []string `builder:\"each\"`\n" +
	"}\n\n" +
	"//buildergen:generate\n" +
	"type Order struct {\n" +
	"\tID int\n" +
	"}\n"

// recordingRenderer captures the file it is asked to render.
type recordingRenderer struct {
	files []model.File
}

func (r *recordingRenderer) Name() string        { return "record" }
func (r *recordingRenderer) ContentType() string { return "text/plain" }
func (r *recordingRenderer) Render(_ context.Context, file model.File, _ render.RenderOptions) ([]byte, error) {
	r.files = append(r.files, file)
	var names []string
	for _, b := range file.Builders {
		names = append(names, b.BuilderType)
	}
	return []byte(strings.Join(names, ",")), nil
}

func newRecording(t *testing.T, options ...orchestrator.Option) (*orchestrator.Orchestrator, *recordingRenderer) {
	t.Helper()
	rec := &recordingRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(rec)
	options = append(options, orchestrator.WithRegistry(registry), orchestrator.WithDefaultRenderer(rec.Name()))
	return orchestrator.New(options...), rec
}

func generate(t *testing.T, o *orchestrator.Orchestrator, src string, types ...string) *orchestrator.Result {
	t.Helper()
	doc := testsupport.InlineDocument(t, "shop.go", src)
	result, err := o.Generate(context.Background(), orchestrator.Request{Document: &doc, Types: types})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return result
}

func TestGenerateMarkedTypes(t *testing.T) {
	o, rec := newRecording(t)
	result := generate(t, o, shopSource)

	if string(result.Code) != "UserBuilder,OrderBuilder" {
		t.Fatalf("unexpected output %q", result.Code)
	}
	if result.Package != "shop" || result.ContentType != "text/plain" {
		t.Fatalf("unexpected result metadata %+v", result)
	}
	if result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics)
	}
	if len(rec.files) != 1 {
		t.Fatalf("expected one render call, got %d", len(rec.files))
	}
	file := rec.files[0]
	if file.Source != "shop.go" || file.Runtime.Path != builderr.ImportPath || file.RuntimeName() != "builderr" {
		t.Fatalf("unexpected file header %+v", file)
	}
	var schemas []string
	for _, a := range result.Artifacts {
		schemas = append(schemas, a.Schema+"->"+a.Builder)
	}
	if diff := cmp.Diff([]string{"User->UserBuilder", "Order->OrderBuilder"}, schemas); diff != "" {
		t.Fatalf("artifacts mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateIsolatesFailingSchemas(t *testing.T) {
	o, _ := newRecording(t)
	result := generate(t, o, shopSource, "Status", "Order", "Broken", "User", "Order")

	if string(result.Code) != "OrderBuilder,UserBuilder" {
		t.Fatalf("expected failing schemas to be skipped, got %q", result.Code)
	}
	errs := result.Diagnostics.Errs()
	if len(errs) != 2 {
		t.Fatalf("expected two errors, got %v", result.Diagnostics)
	}
	summaries := []string{result.Diagnostics[0].Summary, result.Diagnostics[1].Summary}
	if diff := cmp.Diff([]string{"Unsupported declaration", "Invalid builder directive"}, summaries); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if _, ok := result.Sources["shop.go"]; !ok {
		t.Fatalf("expected sources to hold shop.go")
	}
}

func TestGenerateRejectsMalformedDirectiveGroup(t *testing.T) {
	src := "package shop\n\n" +
		"type Cart struct {\n" +
		"\tItems []string `builder:each=AddItem`\n" +
		"}\n\n" +
		"type Order struct {\n" +
		"\tID int\n" +
		"}\n"
	o, _ := newRecording(t)
	result := generate(t, o, src, "Cart", "Order")

	if string(result.Code) != "OrderBuilder" {
		t.Fatalf("expected Cart to be skipped, got %q", result.Code)
	}
	if len(result.Artifacts) != 1 || result.Artifacts[0].Schema != "Order" {
		t.Fatalf("unexpected artifacts %+v", result.Artifacts)
	}
	errs := result.Diagnostics.Errs()
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", result.Diagnostics)
	}
	d := result.Diagnostics[0]
	if d.Summary != "Invalid builder directive" || !strings.Contains(d.Detail, "malformed builder tag") {
		t.Fatalf("unexpected diagnostic %s: %s", d.Summary, d.Detail)
	}
}

func TestGenerateNothingRenderable(t *testing.T) {
	o, rec := newRecording(t)
	result := generate(t, o, shopSource, "Status")
	if result.Code != nil || len(rec.files) != 0 {
		t.Fatalf("expected no output when every schema fails")
	}
	if !result.HasErrors() {
		t.Fatalf("expected an error diagnostic")
	}
}

func TestGenerateRequestErrors(t *testing.T) {
	o, _ := newRecording(t)
	unmarked := testsupport.InlineDocument(t, "plain.go", "package p\n\ntype A struct{ X int }\n")
	shop := testsupport.InlineDocument(t, "shop.go", shopSource)

	cases := []struct {
		name   string
		req    orchestrator.Request
		target error
	}{
		{name: "no marked types", req: orchestrator.Request{Document: &unmarked}, target: orchestrator.ErrNoTypes},
		{name: "unknown type", req: orchestrator.Request{Document: &shop, Types: []string{"Missing"}}, target: orchestrator.ErrUnknownType},
		{name: "unknown renderer", req: orchestrator.Request{Document: &shop, Renderer: "pdf"}, target: render.ErrUnknownRenderer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := o.Generate(context.Background(), tc.req); !errors.Is(err, tc.target) {
				t.Fatalf("expected %v, got %v", tc.target, err)
			}
		})
	}

	if _, err := o.Generate(context.Background(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected error without source or document")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := o.Generate(ctx, orchestrator.Request{Document: &shop}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateSecondSchemaSeesFirstBuilder(t *testing.T) {
	src := "package p\n\ntype A struct{ X int }\n\ntype ABuilder struct{ Y int }\n"
	o, _ := newRecording(t)
	result := generate(t, o, src, "A", "ABuilder")
	// ABuilder is declared by the source, so A conflicts; ABuilderBuilder is fine.
	if string(result.Code) != "ABuilderBuilder" {
		t.Fatalf("unexpected output %q", result.Code)
	}
	if len(result.Diagnostics.Errs()) != 1 {
		t.Fatalf("expected one conflict, got %v", result.Diagnostics)
	}

	src = "package p\n\ntype A struct{ X int }\n\ntype B struct{ Y int }\n"
	cfg := config.Default()
	cfg.Naming.Builder = "Shared${name}"
	cfg.Naming.Constructor = "NewShared"
	o, _ = newRecording(t, orchestrator.WithConfig(cfg))
	result = generate(t, o, src, "A", "B")
	if string(result.Code) != "SharedA" {
		t.Fatalf("expected only the first builder, got %q", result.Code)
	}
	if len(result.Diagnostics.Errs()) != 1 || !strings.Contains(result.Diagnostics.Errs()[0].Error(), "NewShared") {
		t.Fatalf("expected constructor conflict for B, got %v", result.Diagnostics)
	}
}

func TestGenerateRenamesRuntimeQualifier(t *testing.T) {
	src := "package p\n\nimport builderr \"example.com/other\"\n\nvar _ builderr.T\n\ntype A struct{ X int }\n"
	o, rec := newRecording(t)
	generate(t, o, src, "A")

	file := rec.files[0]
	if file.Runtime.Name != "builderr2" {
		t.Fatalf("expected renamed runtime, got %+v", file.Runtime)
	}
	want := []model.Import{{Name: "builderr", Path: "example.com/other"}}
	if diff := cmp.Diff(want, file.Imports); diff != "" {
		t.Fatalf("imports mismatch (-want +got):\n%s", diff)
	}
	if file.Builders[0].Receiver != "b" {
		t.Fatalf("unexpected receiver %q", file.Builders[0].Receiver)
	}
}

func TestGenerateTransformer(t *testing.T) {
	o, rec := newRecording(t, orchestrator.WithTransformer(orchestrator.TransformerFunc(func(_ context.Context, b *model.Builder) error {
		b.BuildMethod = "Done"
		return nil
	})))
	generate(t, o, shopSource, "Order")
	if got := rec.files[0].Builders[0].BuildMethod; got != "Done" {
		t.Fatalf("expected transformer to rename Build, got %q", got)
	}

	boom := errors.New("boom")
	o, _ = newRecording(t, orchestrator.WithTransformer(orchestrator.TransformerFunc(func(context.Context, *model.Builder) error {
		return boom
	})))
	doc := testsupport.InlineDocument(t, "shop.go", shopSource)
	if _, err := o.Generate(context.Background(), orchestrator.Request{Document: &doc}); !errors.Is(err, boom) {
		t.Fatalf("expected transformer error, got %v", err)
	}
}

func TestGenerateFromLoaderAndJSONRenderer(t *testing.T) {
	files := fstest.MapFS{"models/shop.go": &fstest.MapFile{Data: []byte(shopSource)}}
	o := orchestrator.New()

	result, err := o.Generate(context.Background(), orchestrator.Request{
		Source:   schema.SourceFromFS("models/shop.go"),
		Renderer: jsonplan.Name,
	})
	if err == nil {
		t.Fatalf("expected fs source to fail without a filesystem, got %+v", result)
	}

	o = orchestrator.New(orchestrator.WithLoader(loader.New(schema.NewLoaderOptions(schema.WithFileSystem(files)))))
	result, err = o.Generate(context.Background(), orchestrator.Request{
		Source:   schema.SourceFromFS("models/shop.go"),
		Renderer: jsonplan.Name,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.ContentType != "application/json" {
		t.Fatalf("unexpected content type %q", result.ContentType)
	}
	out := string(result.Code)
	for _, want := range []string{`"package": "shop"`, `"source": "shop.go"`, `"builderType": "UserBuilder"`, `"accumulator": "AddTag"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in plan:\n%s", want, out)
		}
	}
}

func TestGenerateGoSource(t *testing.T) {
	o := orchestrator.New()
	result := generate(t, o, shopSource, "User", "Status")
	code := string(result.Code)
	for _, want := range []string{
		"package shop",
		"type UserBuilder struct",
		"func NewUserBuilder() *UserBuilder",
		"func (b *UserBuilder) AddTag(value string) *UserBuilder",
		`return User{}, builderr.Missing("User", "Name")`,
	} {
		if !strings.Contains(code, want) {
			t.Fatalf("expected %q in generated code:\n%s", want, code)
		}
	}
	if result.Diagnostics.Errs()[0].(*hcl.Diagnostic).Subject.Filename != "shop.go" {
		t.Fatalf("expected diagnostic positioned in shop.go")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Format = "clang"
	o := orchestrator.New(orchestrator.WithConfig(cfg))
	doc := testsupport.InlineDocument(t, "shop.go", shopSource)
	if _, err := o.Generate(context.Background(), orchestrator.Request{Document: &doc}); err == nil {
		t.Fatalf("expected config error")
	}
}

func TestGeneratePlanGolden(t *testing.T) {
	doc := testsupport.LoadDocument(t, "testdata/shop.go")
	o := orchestrator.New()
	result, err := o.Generate(context.Background(), orchestrator.Request{Document: &doc, Renderer: jsonplan.Name})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	goldenPath := "testdata/shop.plan.json"
	if testsupport.WriteMaybeGolden(t, goldenPath, result.Code) {
		return
	}

	var want, got model.File
	if err := json.Unmarshal(testsupport.MustReadGolden(t, goldenPath), &want); err != nil {
		t.Fatalf("decode golden: %v", err)
	}
	if err := json.Unmarshal(result.Code, &got); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}
