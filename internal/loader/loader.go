// Package loader reads Go source documents from disk, an fs.FS, or memory.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/goliatone/go-buildergen/pkg/schema"
)

// ErrTooLarge is returned for sources over the configured size limit.
var ErrTooLarge = errors.New("loader: source exceeds size limit")

type Loader struct {
	files fs.FS
	limit int64
}

var _ schema.Loader = (*Loader)(nil)

func New(options schema.LoaderOptions) *Loader {
	limit := options.MaxBytes
	if limit <= 0 {
		limit = schema.DefaultMaxBytes
	}
	return &Loader{files: options.FileSystem, limit: limit}
}

// Load reads src. Read failures wrap the underlying error, so callers can
// test for fs.ErrNotExist.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return schema.Document{}, err
	}

	data, err := l.read(src)
	if err != nil {
		return schema.Document{}, fmt.Errorf("loader: read %s: %w", src.Location(), err)
	}
	return schema.NewDocument(src, data)
}

func (l *Loader) read(src schema.Source) ([]byte, error) {
	switch src.Kind() {
	case schema.SourceKindInline:
		data, ok := schema.InlineBytes(src)
		if !ok {
			return nil, errors.New("inline source carries no bytes")
		}
		if int64(len(data)) > l.limit {
			return nil, ErrTooLarge
		}
		return data, nil
	case schema.SourceKindFile:
		f, err := os.Open(src.Location())
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return l.readAll(f)
	case schema.SourceKindFS:
		if l.files == nil {
			return nil, errors.New("no filesystem configured for fs sources")
		}
		f, err := l.files.Open(src.Location())
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return l.readAll(f)
	}
	return nil, fmt.Errorf("unsupported source kind %q", src.Kind())
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.limit {
		return nil, ErrTooLarge
	}
	return data, nil
}
