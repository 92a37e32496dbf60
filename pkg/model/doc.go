// Package model defines the builder plan consumed by renderers. A plan is the
// classified view of one struct: every field carries its shape (required,
// optional, or repeated), the type its mutator accepts, the builder field that
// stores it, and the names of its mutators. Planners reside in internal/model
// but return the types defined here.
package model
