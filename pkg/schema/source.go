package schema

import (
	"path/filepath"
	"strings"
)

// Source identifies where a Go source document originated so loaders can
// operate on files, fs.FS entries, or in-memory buffers without leaking
// implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
	SourceKindInline SourceKind = "inline"
)

// fileSource identifies on-disk Go files.
type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// fsSource references a path within an fs.FS.
type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

// inlineSource carries source text directly. The name is only used for
// positions in diagnostics.
type inlineSource struct {
	name string
	data []byte
}

func (s inlineSource) Location() string {
	return s.name
}

func (s inlineSource) Kind() SourceKind {
	return SourceKindInline
}

// Bytes returns the inline payload.
func (s inlineSource) Bytes() []byte {
	return s.data
}

// SourceFromBytes returns a Source backed by an in-memory buffer. The name is
// reported in diagnostics; it defaults to "inline.go".
func SourceFromBytes(name string, data []byte) Source {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "inline.go"
	}
	return inlineSource{name: name, data: append([]byte(nil), data...)}
}

// InlineBytes returns the payload of an inline source.
func InlineBytes(src Source) ([]byte, bool) {
	in, ok := src.(inlineSource)
	if !ok {
		return nil, false
	}
	return in.Bytes(), true
}
