package model

import "github.com/goliatone/go-buildergen/internal/classify"

// Kind re-exports the field shape enumeration.
type Kind = classify.Kind

const (
	KindRequired = classify.KindRequired
	KindOptional = classify.KindOptional
	KindRepeated = classify.KindRepeated
)

// Classification re-exports the classifier result.
type Classification = classify.Classification

// Field is the plan for one struct field. Storage is the builder field that
// holds the value behind a pointer; a nil pointer means the field is absent.
type Field struct {
	Name           string         `json:"name"`
	DeclaredType   string         `json:"declaredType"`
	Classification Classification `json:"classification"`
	Storage        string         `json:"storage"`
	StorageType    string         `json:"storageType"`

	// Setter takes one value of the field type. Empty for repeated fields
	// unless repeated setters are enabled.
	Setter string `json:"setter,omitempty"`
	// Accumulator appends one element. Only set for repeated fields.
	Accumulator string `json:"accumulator,omitempty"`
}

// Required reports whether Build fails when the field is absent.
func (f Field) Required() bool {
	return f.Classification.Kind == KindRequired
}

// Builder is the complete plan for one generated builder.
type Builder struct {
	Schema      string `json:"schema"`
	Exported    bool   `json:"exported"`
	TypeParams  string `json:"typeParams,omitempty"`
	TypeArgs    string `json:"typeArgs,omitempty"`
	BuilderType string `json:"builderType"`
	Constructor string `json:"constructor"`
	BuildMethod string `json:"buildMethod"`

	// Receiver, Out, and Value are the identifiers used inside generated
	// method bodies.
	Receiver string `json:"receiver"`
	Out      string `json:"out"`
	Value    string `json:"value"`

	Fields []Field `json:"fields"`
}

// RecordType is the instantiated schema type, e.g. "Pair[K, V]".
func (b Builder) RecordType() string {
	return b.Schema + b.TypeArgs
}

// BuilderRef is the instantiated builder type, e.g. "PairBuilder[K, V]".
func (b Builder) BuilderRef() string {
	return b.BuilderType + b.TypeArgs
}

// Import is one import of the generated file.
type Import struct {
	Name string `json:"name,omitempty"`
	Path string `json:"path"`
}

// File groups every builder generated for one source file.
type File struct {
	Package  string    `json:"package"`
	Source   string    `json:"source"`
	Imports  []Import  `json:"imports,omitempty"`
	Runtime  Import    `json:"runtime"`
	Builders []Builder `json:"builders"`
}

// RuntimeName is the qualifier generated code uses for the runtime package.
func (f File) RuntimeName() string {
	if f.Runtime.Name != "" {
		return f.Runtime.Name
	}
	return "builderr"
}
