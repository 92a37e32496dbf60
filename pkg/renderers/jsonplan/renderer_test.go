package jsonplan

import (
	"context"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-buildergen/pkg/model"
	"github.com/goliatone/go-buildergen/pkg/render"
)

func TestRender(t *testing.T) {
	file := model.File{
		Package: "shop",
		Source:  "shop.go",
		Runtime: model.Import{Path: "example.com/builderr"},
		Builders: []model.Builder{{
			Schema:      "User",
			Exported:    true,
			BuilderType: "UserBuilder",
			Constructor: "NewUserBuilder",
			BuildMethod: "Build",
			Fields: []model.Field{{
				Name:           "Tags",
				DeclaredType:   "[]string",
				Classification: model.Classification{Kind: model.KindRepeated, Type: "string", Accumulator: "AddTag"},
				Storage:        "tags",
				StorageType:    "[]string",
				Accumulator:    "AddTag",
			}},
		}},
	}

	out, err := New().Render(context.Background(), file, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasSuffix(string(out), "}\n") || !strings.Contains(string(out), "\n  \"package\": \"shop\"") {
		t.Fatalf("expected indented JSON with trailing newline:\n%s", out)
	}

	var decoded model.File
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(file, decoded); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCompactAndEmpty(t *testing.T) {
	out, err := New(WithIndent("")).Render(context.Background(), model.File{Package: "p"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); !strings.Contains(got, `"builders":[]`) || strings.Contains(got, "\n ") {
		t.Fatalf("expected compact output with empty builders, got %q", got)
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Render(ctx, model.File{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}
