package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaTransformer(t *testing.T) {
	t.Run("mutates generated schemas in the document", func(t *testing.T) {
		type Account struct {
			ID string `json:"id"`
		}

		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddSchemaTransformer(SchemaTransformerFunc(func(ctx context.Context, schema *Schema, tctx *SchemaContext) error {
				if tctx.Type == reflect.TypeOf(Account{}) {
					schema.Description = "An account record"
				}
				return nil
			}))

		spec.Get("/accounts").Response(http.StatusOK, Account{})

		doc := mustBuild(t, spec)
		assert.Equal(t, "An account record", doc.Components.Schemas["Account"].Description)
	})

	t.Run("changes do not accumulate across builds", func(t *testing.T) {
		type Account struct {
			ID string `json:"id"`
		}

		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddSchemaTransformer(SchemaTransformerFunc(func(ctx context.Context, schema *Schema, tctx *SchemaContext) error {
				if tctx.Type == reflect.TypeOf(Account{}) {
					schema.Description += "!"
				}
				return nil
			}))

		spec.Get("/accounts").Response(http.StatusOK, Account{})

		first := mustBuild(t, spec)
		assert.Equal(t, "!", first.Components.Schemas["Account"].Description)

		// The transformer ran on a build-private clone, so the second
		// build starts from the untouched cache entry.
		second := mustBuild(t, spec)
		assert.Equal(t, "!", second.Components.Schemas["Account"].Description)
	})

	t.Run("schemas visit in first use order", func(t *testing.T) {
		type First struct {
			A string `json:"a"`
		}
		type Second struct {
			B string `json:"b"`
		}

		var seen []string
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			RegisterSchema("Manual", &Schema{Type: TypeString("string")}).
			AddSchemaTransformer(SchemaTransformerFunc(func(ctx context.Context, schema *Schema, tctx *SchemaContext) error {
				if tctx.Type == nil {
					seen = append(seen, "Manual")
				} else {
					seen = append(seen, tctx.Type.Name())
				}
				return nil
			}))

		// Paths assemble in lexicographic order, so Second attaches first.
		spec.Get("/a").Response(http.StatusOK, Second{})
		spec.Get("/b").Response(http.StatusOK, First{})

		mustBuild(t, spec)
		assert.Equal(t, []string{"Manual", "Second", "First"}, seen)
	})

	t.Run("nested components follow their parent", func(t *testing.T) {
		type Leaf struct {
			Label string `json:"label"`
		}
		type Tree struct {
			Root Leaf `json:"root"`
		}

		var seen []string
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddSchemaTransformer(SchemaTransformerFunc(func(ctx context.Context, schema *Schema, tctx *SchemaContext) error {
				seen = append(seen, tctx.Type.Name())
				return nil
			}))

		spec.Get("/tree").Response(http.StatusOK, Tree{})

		mustBuild(t, spec)
		assert.Equal(t, []string{"Tree", "Leaf"}, seen)
	})

	t.Run("each schema visits once", func(t *testing.T) {
		type Shared struct {
			ID string `json:"id"`
		}

		count := 0
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddSchemaTransformer(SchemaTransformerFunc(func(ctx context.Context, schema *Schema, tctx *SchemaContext) error {
				if tctx.Type == reflect.TypeOf(Shared{}) {
					count++
				}
				return nil
			}))

		spec.Get("/a").Response(http.StatusOK, Shared{})
		spec.Get("/b").Response(http.StatusOK, Shared{})
		spec.Post("/b").Request(Shared{})

		mustBuild(t, spec)
		assert.Equal(t, 1, count)
	})

	t.Run("transformers run in registration order", func(t *testing.T) {
		type Item struct {
			ID string `json:"id"`
		}

		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddSchemaTransformer(SchemaTransformerFunc(func(ctx context.Context, schema *Schema, tctx *SchemaContext) error {
				schema.Description += "a"
				return nil
			})).
			AddSchemaTransformer(SchemaTransformerFunc(func(ctx context.Context, schema *Schema, tctx *SchemaContext) error {
				schema.Description += "b"
				return nil
			}))

		spec.Get("/items").Response(http.StatusOK, Item{})

		doc := mustBuild(t, spec)
		assert.Equal(t, "ab", doc.Components.Schemas["Item"].Description)
	})

	t.Run("error aborts the build", func(t *testing.T) {
		type Item struct {
			ID string `json:"id"`
		}

		sentinel := errors.New("schema rejected")
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddSchemaTransformer(SchemaTransformerFunc(func(ctx context.Context, schema *Schema, tctx *SchemaContext) error {
				return sentinel
			}))

		spec.Get("/items").Response(http.StatusOK, Item{})

		_, err := spec.Build(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, sentinel)
		assert.Contains(t, err.Error(), "schema transformer:")
	})

	t.Run("context carries document name and spec", func(t *testing.T) {
		type Item struct {
			ID string `json:"id"`
		}

		var got *SchemaContext
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			SetDocumentName("internal").
			AddSchemaTransformer(SchemaTransformerFunc(func(ctx context.Context, schema *Schema, tctx *SchemaContext) error {
				got = tctx
				return nil
			}))

		spec.Get("/items").Response(http.StatusOK, Item{})

		mustBuild(t, spec)
		require.NotNil(t, got)
		assert.Equal(t, "internal", got.DocumentName)
		assert.Same(t, spec, got.Spec)
		assert.Equal(t, reflect.TypeOf(Item{}), got.Type)
	})

	t.Run("constrained parameters carry parameter context", func(t *testing.T) {
		var got *ParameterContext
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddSchemaTransformer(SchemaTransformerFunc(func(ctx context.Context, schema *Schema, tctx *SchemaContext) error {
				if tctx.Parameter != nil {
					got = tctx.Parameter
				}
				return nil
			}))

		spec.Get("/search").TypedParameter("limit", "query", 0, "minimum=1")

		mustBuild(t, spec)
		require.NotNil(t, got)
		assert.Equal(t, "limit", got.Name)
		assert.Equal(t, "query", got.In)
		assert.Equal(t, "minimum=1", got.Constraints)
		assert.Equal(t, "get /search", got.Operation)
	})
}

func TestOperationTransformer(t *testing.T) {
	t.Run("visits operations in document order", func(t *testing.T) {
		var visits []string
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddOperationTransformer(OperationTransformerFunc(func(ctx context.Context, op *Operation, tctx *OperationContext) error {
				visits = append(visits, tctx.Method+" "+tctx.Path)
				return nil
			}))

		spec.Post("/a").Summary("Create")
		spec.Get("/b").Summary("Read")
		spec.Webhook("sync", http.MethodPost).Summary("Sync")

		mustBuild(t, spec)
		assert.Equal(t, []string{"post /a", "get /b", "post sync"}, visits)
	})

	t.Run("path uses the parameter form of the route", func(t *testing.T) {
		var visits []string
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddOperationTransformer(OperationTransformerFunc(func(ctx context.Context, op *Operation, tctx *OperationContext) error {
				visits = append(visits, tctx.Path)
				return nil
			}))

		spec.Get("/users/{id:uuid}").Summary("Get user")

		mustBuild(t, spec)
		assert.Equal(t, []string{"/users/{id}"}, visits)
	})

	t.Run("mutations reach the document and its tags", func(t *testing.T) {
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddOperationTransformer(OperationTransformerFunc(func(ctx context.Context, op *Operation, tctx *OperationContext) error {
				op.Tags = append(op.Tags, "audited")
				return nil
			}))

		spec.Get("/items").Summary("List items").Tags("items")

		doc := mustBuild(t, spec)
		assert.Equal(t, []string{"items", "audited"}, doc.Paths["/items"].Get.Tags)

		// Tag aggregation runs after operation transformers.
		require.Len(t, doc.Tags, 2)
		assert.Equal(t, "items", doc.Tags[0].Name)
		assert.Equal(t, "audited", doc.Tags[1].Name)
	})

	t.Run("header edits stay within one build", func(t *testing.T) {
		builds := 0
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddOperationTransformer(OperationTransformerFunc(func(ctx context.Context, op *Operation, tctx *OperationContext) error {
				builds++
				op.Responses["200"].Headers[fmt.Sprintf("X-Injected-%d", builds)] = &Header{Description: "injected"}
				return nil
			}))

		spec.Get("/items").
			Response(http.StatusOK, nil).
			ResponseHeader(http.StatusOK, "X-Seed", &Header{Description: "seed"})

		first := mustBuild(t, spec)
		second := mustBuild(t, spec)

		// Each build gets a private copy of the registered header map, so
		// neither document carries the other's injection and the second
		// build never rewrites the first.
		firstHeaders := first.Paths["/items"].Get.Responses["200"].Headers
		assert.Contains(t, firstHeaders, "X-Seed")
		assert.Contains(t, firstHeaders, "X-Injected-1")
		assert.NotContains(t, firstHeaders, "X-Injected-2")

		secondHeaders := second.Paths["/items"].Get.Responses["200"].Headers
		assert.Contains(t, secondHeaders, "X-Seed")
		assert.Contains(t, secondHeaders, "X-Injected-2")
		assert.NotContains(t, secondHeaders, "X-Injected-1")
	})

	t.Run("appended tags do not share a backing array", func(t *testing.T) {
		builds := 0
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddOperationTransformer(OperationTransformerFunc(func(ctx context.Context, op *Operation, tctx *OperationContext) error {
				builds++
				op.Tags = append(op.Tags, fmt.Sprintf("extra-%d", builds))
				return nil
			}))

		// Two Tags calls leave the registered slice with spare capacity;
		// a shared backing array would let the second build's append
		// overwrite the first document's tag.
		spec.Get("/items").Summary("List items").Tags("a", "b").Tags("c")

		first := mustBuild(t, spec)
		second := mustBuild(t, spec)

		assert.Equal(t, []string{"a", "b", "c", "extra-1"}, first.Paths["/items"].Get.Tags)
		assert.Equal(t, []string{"a", "b", "c", "extra-2"}, second.Paths["/items"].Get.Tags)
	})

	t.Run("error names the operation", func(t *testing.T) {
		sentinel := errors.New("operation rejected")
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddOperationTransformer(OperationTransformerFunc(func(ctx context.Context, op *Operation, tctx *OperationContext) error {
				return sentinel
			}))

		spec.Get("/things").Summary("List things")

		_, err := spec.Build(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, sentinel)
		assert.Contains(t, err.Error(), "operation transformer get /things:")
	})

	t.Run("context carries document name and spec", func(t *testing.T) {
		var got *OperationContext
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			SetDocumentName("partner").
			AddOperationTransformer(OperationTransformerFunc(func(ctx context.Context, op *Operation, tctx *OperationContext) error {
				got = tctx
				return nil
			}))

		spec.Get("/items").Summary("List items")

		mustBuild(t, spec)
		require.NotNil(t, got)
		assert.Equal(t, "partner", got.DocumentName)
		assert.Same(t, spec, got.Spec)
	})
}

func TestDocumentTransformer(t *testing.T) {
	t.Run("runs after resolution and tag merge", func(t *testing.T) {
		type Item struct {
			ID string `json:"id"`
		}

		var gotRef string
		var gotTags int
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddDocumentTransformer(DocumentTransformerFunc(func(ctx context.Context, doc *Document, tctx *DocumentContext) error {
				mt, ok := doc.Paths["/items"].Get.Responses["200"].Content.Get("application/json")
				if ok {
					gotRef = mt.Schema.Ref
				}
				gotTags = len(doc.Tags)
				doc.Info.Description = "amended"
				return nil
			}))

		spec.Get("/items").Tags("items").Response(http.StatusOK, Item{})

		doc := mustBuild(t, spec)
		assert.Equal(t, "#/components/schemas/Item", gotRef)
		assert.Equal(t, 1, gotTags)
		assert.Equal(t, "amended", doc.Info.Description)
	})

	t.Run("component and server edits stay within one build", func(t *testing.T) {
		builds := 0
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddServer(Server{URL: "https://api.example.com"}).
			AddComponentResponse("NotFound", &Response{Description: "Resource not found"}).
			AddDocumentTransformer(DocumentTransformerFunc(func(ctx context.Context, doc *Document, tctx *DocumentContext) error {
				builds++
				doc.Components.Responses[fmt.Sprintf("Extra%d", builds)] = &Response{Description: "injected"}
				doc.Servers = append(doc.Servers, Server{URL: fmt.Sprintf("https://mirror-%d.example.com", builds)})
				return nil
			}))

		spec.Get("/health").Summary("Health")

		first := mustBuild(t, spec)
		second := mustBuild(t, spec)

		// The component maps attach as per-build copies: the registry keeps
		// only NotFound and each document keeps only its own injection.
		assert.Contains(t, first.Components.Responses, "NotFound")
		assert.Contains(t, first.Components.Responses, "Extra1")
		assert.NotContains(t, first.Components.Responses, "Extra2")

		assert.Contains(t, second.Components.Responses, "NotFound")
		assert.Contains(t, second.Components.Responses, "Extra2")
		assert.NotContains(t, second.Components.Responses, "Extra1")

		require.Len(t, spec.compResponses, 1)

		require.Len(t, first.Servers, 2)
		require.Len(t, second.Servers, 2)
		assert.Equal(t, "https://mirror-1.example.com", first.Servers[1].URL)
		assert.Equal(t, "https://mirror-2.example.com", second.Servers[1].URL)
	})

	t.Run("transformers run in registration order", func(t *testing.T) {
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddDocumentTransformer(DocumentTransformerFunc(func(ctx context.Context, doc *Document, tctx *DocumentContext) error {
				doc.Info.Description += "a"
				return nil
			})).
			AddDocumentTransformer(DocumentTransformerFunc(func(ctx context.Context, doc *Document, tctx *DocumentContext) error {
				doc.Info.Description += "b"
				return nil
			}))

		spec.Get("/health").Summary("Health")

		doc := mustBuild(t, spec)
		assert.Equal(t, "ab", doc.Info.Description)
	})

	t.Run("error aborts the build", func(t *testing.T) {
		sentinel := errors.New("document rejected")
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			AddDocumentTransformer(DocumentTransformerFunc(func(ctx context.Context, doc *Document, tctx *DocumentContext) error {
				return sentinel
			}))

		spec.Get("/health").Summary("Health")

		_, err := spec.Build(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, sentinel)
		assert.Contains(t, err.Error(), "document transformer:")
	})

	t.Run("context carries document name and spec", func(t *testing.T) {
		var got *DocumentContext
		spec := NewSpec(Info{Title: "Test", Version: "1.0.0"}).
			SetDocumentName("admin").
			AddDocumentTransformer(DocumentTransformerFunc(func(ctx context.Context, doc *Document, tctx *DocumentContext) error {
				got = tctx
				return nil
			}))

		spec.Get("/health").Summary("Health")

		mustBuild(t, spec)
		require.NotNil(t, got)
		assert.Equal(t, "admin", got.DocumentName)
		assert.Same(t, spec, got.Spec)
	})
}
