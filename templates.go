package buildergen

import (
	"io/fs"

	"github.com/goliatone/go-buildergen/pkg/renderers/golang"
)

// EmbeddedTemplates returns the template bundle of the Go renderer. Copy it as
// a starting point for golang.WithTemplatesFS or WithTemplatesDir.
func EmbeddedTemplates() fs.FS {
	return golang.TemplatesFS()
}
