package schema

import (
	"bytes"
	"errors"
	"path"
)

// Document is one loaded Go source file. The payload is copied on the way in
// and on the way out, so a Document can be shared between goroutines.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument pairs src with its contents. Whitespace-only input is rejected
// because no Go file can be empty.
func NewDocument(src Source, raw []byte) (Document, error) {
	switch {
	case src == nil:
		return Document{}, errors.New("schema: document needs a source")
	case len(bytes.TrimSpace(raw)) == 0:
		return Document{}, errors.New("schema: document " + src.Location() + " has no content")
	}
	return Document{source: src, raw: bytes.Clone(raw)}, nil
}

func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source { return d.source }

// Raw returns a copy of the Go source.
func (d Document) Raw() []byte { return bytes.Clone(d.raw) }

// Location names the document in diagnostics and go/token positions. The zero
// Document has no location.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Filename is the base name of Location, e.g. "user.go".
func (d Document) Filename() string {
	if loc := d.Location(); loc != "" {
		return path.Base(loc)
	}
	return ""
}
