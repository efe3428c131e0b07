package openapi

import (
	"context"
	"reflect"
)

// SchemaContext describes the origin of a schema visited by a
// SchemaTransformer.
type SchemaContext struct {
	// DocumentName is the name of the document being built.
	DocumentName string

	// Type is the Go type the schema was generated from. It is nil for
	// schemas registered directly without a backing type.
	Type reflect.Type

	// Parameter identifies the parameter binding, when the schema was
	// generated for a parameter carrying extra constraints.
	Parameter *ParameterContext

	// Spec is the specification the document is built from.
	Spec *Spec
}

// OperationContext describes the operation visited by an
// OperationTransformer.
type OperationContext struct {
	// DocumentName is the name of the document being built.
	DocumentName string

	// Method is the lowercase HTTP method ("get", "post", ...). Webhook
	// operations use their method the same way.
	Method string

	// Path is the route template the operation is registered under. For
	// webhooks it is the webhook name.
	Path string

	// Spec is the specification the document is built from.
	Spec *Spec
}

// DocumentContext describes the document visited by a DocumentTransformer.
type DocumentContext struct {
	// DocumentName is the name of the document being built.
	DocumentName string

	// Spec is the specification the document is built from.
	Spec *Spec
}

// SchemaTransformer customizes generated schemas during a document build.
// It runs against the build's private clone of every cached schema the
// document uses, component contents and inline attachments alike, in first
// use order. Reference placeholders have not been rewritten yet, so the
// transformer sees full schema contents. Mutations never leak back into
// the schema cache. A returned error aborts the build.
type SchemaTransformer interface {
	TransformSchema(ctx context.Context, schema *Schema, tctx *SchemaContext) error
}

// SchemaTransformerFunc adapts a function to the SchemaTransformer
// interface.
type SchemaTransformerFunc func(ctx context.Context, schema *Schema, tctx *SchemaContext) error

func (f SchemaTransformerFunc) TransformSchema(ctx context.Context, schema *Schema, tctx *SchemaContext) error {
	return f(ctx, schema, tctx)
}

// OperationTransformer customizes assembled operations during a document
// build. It runs once per operation, paths in lexicographic order and
// methods in canonical order, after schema transformers and before
// reference resolution. Operations assemble from per-build copies of the
// registered metadata, so mutations never leak into later builds. A
// returned error aborts the build.
type OperationTransformer interface {
	TransformOperation(ctx context.Context, op *Operation, tctx *OperationContext) error
}

// OperationTransformerFunc adapts a function to the OperationTransformer
// interface.
type OperationTransformerFunc func(ctx context.Context, op *Operation, tctx *OperationContext) error

func (f OperationTransformerFunc) TransformOperation(ctx context.Context, op *Operation, tctx *OperationContext) error {
	return f(ctx, op, tctx)
}

// DocumentTransformer customizes the fully assembled document. It runs
// last, after reference resolution, and sees the final document including
// components. Top-level metadata and component maps are per-build copies,
// so mutations never leak into later builds. A returned error aborts the
// build.
type DocumentTransformer interface {
	TransformDocument(ctx context.Context, doc *Document, tctx *DocumentContext) error
}

// DocumentTransformerFunc adapts a function to the DocumentTransformer
// interface.
type DocumentTransformerFunc func(ctx context.Context, doc *Document, tctx *DocumentContext) error

func (f DocumentTransformerFunc) TransformDocument(ctx context.Context, doc *Document, tctx *DocumentContext) error {
	return f(ctx, doc, tctx)
}

// transformTarget pairs a working set schema with its context for the
// schema transformer pass.
type transformTarget struct {
	schema *Schema
	tctx   *SchemaContext
}
