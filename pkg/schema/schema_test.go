package schema

import "testing"

func TestSources(t *testing.T) {
	cases := []struct {
		src      Source
		kind     SourceKind
		location string
	}{
		{SourceFromFile("models/../models/user.go"), SourceKindFile, "models/user.go"},
		{SourceFromFS("models/user.go"), SourceKindFS, "models/user.go"},
		{SourceFromBytes("", []byte("package p")), SourceKindInline, "inline.go"},
		{SourceFromBytes(" user.go ", []byte("package p")), SourceKindInline, "user.go"},
	}
	for _, tc := range cases {
		if tc.src.Kind() != tc.kind || tc.src.Location() != tc.location {
			t.Fatalf("unexpected source %s %q, want %s %q", tc.src.Kind(), tc.src.Location(), tc.kind, tc.location)
		}
	}

	data, ok := InlineBytes(SourceFromBytes("a.go", []byte("package a")))
	if !ok || string(data) != "package a" {
		t.Fatalf("expected inline payload, got %q %v", data, ok)
	}
	if _, ok := InlineBytes(SourceFromFile("a.go")); ok {
		t.Fatalf("file sources carry no inline payload")
	}
}

func TestDocument(t *testing.T) {
	if _, err := NewDocument(nil, []byte("package p")); err == nil {
		t.Fatalf("expected missing source error")
	}
	if _, err := NewDocument(SourceFromFile("a.go"), nil); err == nil {
		t.Fatalf("expected empty payload error")
	}

	raw := []byte("package p")
	doc := MustNewDocument(SourceFromFile("a.go"), raw)
	raw[0] = 'X'
	got := doc.Raw()
	if string(got) != "package p" {
		t.Fatalf("document must not alias the input, got %q", got)
	}
	got[0] = 'Y'
	if string(doc.Raw()) != "package p" {
		t.Fatalf("Raw must return a copy")
	}
	if doc.Location() != "a.go" || (Document{}).Location() != "" {
		t.Fatalf("unexpected locations")
	}
	if _, err := NewDocument(SourceFromFile("a.go"), []byte(" \n\t")); err == nil {
		t.Fatalf("expected whitespace-only payload error")
	}
	nested := MustNewDocument(SourceFromFS("models/user.go"), raw)
	if nested.Filename() != "user.go" || (Document{}).Filename() != "" {
		t.Fatalf("unexpected filenames %q", nested.Filename())
	}
}

func TestSchemaHelpers(t *testing.T) {
	s := Schema{
		Name: "Pair",
		TypeParams: []TypeParam{
			{Names: []string{"K"}, Constraint: "comparable"},
			{Names: []string{"V", "W"}, Constraint: "any"},
		},
		Fields: []FieldSpec{{Name: "Key", Type: "K"}},
	}
	if got := s.TypeParamDecl(); got != "[K comparable, V, W any]" {
		t.Fatalf("unexpected declaration %q", got)
	}
	if got := s.TypeArgs(); got != "[K, V, W]" {
		t.Fatalf("unexpected arguments %q", got)
	}
	if _, ok := s.Field("Key"); !ok {
		t.Fatalf("expected Key field")
	}
	if _, ok := s.Field("Value"); ok {
		t.Fatalf("unexpected Value field")
	}
	if (Schema{Name: "A"}).Generic() || VisibilityOf("a") != Unexported || VisibilityOf("A").String() != "exported" {
		t.Fatalf("unexpected helper results")
	}
}
