package openapi

import "errors"

// Schema generation errors.
var (
	// ErrUnsupportedType is returned when schema generation encounters a Go
	// type that has no JSON Schema representation (chan, func, complex,
	// unsafe.Pointer, or a map keyed by anything but strings or integers).
	// The wrapped message names the offending type.
	ErrUnsupportedType = errors.New("openapi: unsupported type")

	// ErrInvalidUnion is returned when a registered oneOf hierarchy cannot
	// be built: no variants, a duplicate discriminator value, or a variant
	// sample that is not a struct type.
	ErrInvalidUnion = errors.New("openapi: invalid oneOf registration")
)

// Reference resolution errors.
var (
	// ErrUnresolvedReference is returned when a schema fragment points at a
	// component name that was neither generated nor registered. This is an
	// internal consistency failure: the document is not emitted.
	ErrUnresolvedReference = errors.New("openapi: unresolved schema reference")
)
