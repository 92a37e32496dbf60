package golang

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle so callers can start from
// it when supplying their own via WithTemplatesFS.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
