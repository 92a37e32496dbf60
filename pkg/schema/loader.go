package schema

import (
	"context"
	"io/fs"
)

// Loader turns a Source into a Document.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions is the resolved loader configuration.
type LoaderOptions struct {
	// FileSystem backs SourceFromFS. Without it those sources cannot load.
	FileSystem fs.FS
	// MaxBytes caps the size of a loaded file. Zero means DefaultMaxBytes.
	MaxBytes int64
}

// DefaultMaxBytes bounds a single Go source file.
const DefaultMaxBytes int64 = 8 << 20

type LoaderOption func(*LoaderOptions)

func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) { opts.FileSystem = files }
}

// WithMaxBytes overrides DefaultMaxBytes. Non-positive values are ignored.
func WithMaxBytes(n int64) LoaderOption {
	return func(opts *LoaderOptions) {
		if n > 0 {
			opts.MaxBytes = n
		}
	}
}

func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{MaxBytes: DefaultMaxBytes}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
