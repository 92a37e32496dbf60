package buildergen

import (
	internalLoader "github.com/goliatone/go-buildergen/internal/loader"
	"github.com/goliatone/go-buildergen/pkg/schema"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return internalLoader.New(schema.NewLoaderOptions(options...))
}
