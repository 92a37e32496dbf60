package model

import (
	internalmodel "github.com/goliatone/go-buildergen/internal/model"
	"github.com/goliatone/go-buildergen/internal/naming"
)

// Kind re-exports the internal field shape enumeration.
type Kind = internalmodel.Kind

const (
	KindRequired = internalmodel.KindRequired
	KindOptional = internalmodel.KindOptional
	KindRepeated = internalmodel.KindRepeated
)

type Classification = internalmodel.Classification
type Field = internalmodel.Field
type Builder = internalmodel.Builder
type Import = internalmodel.Import
type File = internalmodel.File
type Scope = internalmodel.Scope

// Patterns is the compiled set of naming templates for generated identifiers.
type Patterns = naming.Patterns
