package directive

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-buildergen/pkg/schema"
)

func TestLookup(t *testing.T) {
	cases := []struct {
		name   string
		tag    string
		key    string
		want   string
		wantOK bool
	}{
		{name: "default key", tag: `json:"tags" builder:"each=AddTag"`, want: "each=AddTag", wantOK: true},
		{name: "custom key", tag: `gen:"each=Add"`, key: "gen", want: "each=Add", wantOK: true},
		{name: "escaped quote", tag: `builder:"each=A\"B"`, want: `each=A"B`, wantOK: true},
		{name: "extra spaces", tag: `  json:"x"   builder:"each=Add"  `, want: "each=Add", wantOK: true},
		{name: "absent", tag: `json:"tags"`},
		{name: "empty tag"},
		{name: "empty group", tag: `builder:""`, wantOK: true},
		{name: "key only inside a value", tag: `json:"builder"`},
		{name: "broken tag without the key", tag: `json:tags`},
		{name: "prefix of another key", tag: `builders:"each=Add"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok, err := Lookup(tc.tag, tc.key)
			if err != nil {
				t.Fatalf("Lookup(%q, %q): %v", tc.tag, tc.key, err)
			}
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("Lookup(%q, %q) = %q, %v; want %q, %v", tc.tag, tc.key, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestLookupMalformed(t *testing.T) {
	cases := map[string]string{
		"unquoted value":     `builder:each=AddTag`,
		"space after colon":  `builder: "each=AddTag"`,
		"unterminated value": `builder:"each=AddTag`,
		"after another key":  `json:"tags" builder:each=AddTag`,
		"broken before key":  `json:tags builder:"each=AddTag"`,
	}
	for name, tag := range cases {
		t.Run(name, func(t *testing.T) {
			group, ok, err := Lookup(tag, "")
			var derr *Error
			if !errors.As(err, &derr) {
				t.Fatalf("expected *Error for %q, got %q %v %v", tag, group, ok, err)
			}
			if ok || !strings.Contains(derr.Reason, "malformed builder tag") {
				t.Fatalf("unexpected result ok=%v reason=%q", ok, derr.Reason)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	got := Split(" each = AddTag ,, flag,other=")
	want := []schema.Directive{
		{Key: "each", Value: "AddTag", HasValue: true},
		{Key: "flag"},
		{Key: "other", HasValue: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Split mismatch (-want +got):\n%s", diff)
	}
	if got := Split(""); got != nil {
		t.Fatalf("expected no directives for an empty group, got %v", got)
	}
}

func TestInterpret(t *testing.T) {
	set, err := Interpret(Split("each=AddTag"))
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if set.Each != "AddTag" {
		t.Fatalf("expected Each AddTag, got %q", set.Each)
	}

	set, err = Interpret(nil)
	if err != nil || set != (Set{}) {
		t.Fatalf("expected empty set for no directives, got %+v, %v", set, err)
	}
}

func TestInterpretErrors(t *testing.T) {
	cases := []struct {
		name   string
		group  string
		key    string
		reason string
	}{
		{name: "unknown key", group: "append=Add", key: "append", reason: "unrecognized key"},
		{name: "missing value", group: "each", key: "each", reason: "missing value"},
		{name: "empty value", group: "each=", key: "each", reason: "empty value"},
		{name: "invalid identifier", group: "each=Add-Tag", key: "each", reason: "not a valid identifier"},
		{name: "keyword", group: "each=func", key: "each", reason: "Go keyword"},
		{name: "blank", group: "each=_", key: "each", reason: "blank identifier"},
		{name: "duplicate", group: "each=A,each=B", key: "each", reason: "more than once"},
		{name: "last error wins", group: "bogus,each", key: "each", reason: "missing value"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := Interpret(Split(tc.group))
			if err == nil {
				t.Fatalf("expected error for %q, got %+v", tc.group, set)
			}
			var derr *Error
			if !errors.As(err, &derr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if derr.Key != tc.key {
				t.Fatalf("expected key %q, got %q", tc.key, derr.Key)
			}
			if !strings.Contains(derr.Reason, tc.reason) {
				t.Fatalf("expected reason containing %q, got %q", tc.reason, derr.Reason)
			}
			if set != (Set{}) {
				t.Fatalf("expected empty set on error, got %+v", set)
			}
		})
	}
}

func TestKnown(t *testing.T) {
	if !Known(KeyEach) {
		t.Fatalf("expected %q to be known", KeyEach)
	}
	if Known("default") {
		t.Fatalf("expected default to be unknown")
	}
}
