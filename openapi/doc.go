// Package openapi provides automatic OpenAPI v3.1.0 document generation
// from declared routes using Go reflection and struct tags.
//
// The package targets the OpenAPI Specification v3.1.0 and uses JSON Schema
// Draft 2020-12 for schema generation. It produces a complete OpenAPI document
// from registered operations with zero external schema files.
//
// See: https://spec.openapis.org/oas/v3.1.0
// See: https://json-schema.org/draft/2020-12/json-schema-core
// See: https://json-schema.org/draft/2020-12/json-schema-validation
//
// # Spec Builder
//
// Create a spec, declare operations on it, and build the document:
//
//	spec := openapi.NewSpec(openapi.Info{Title: "My API", Version: "1.0.0"})
//
//	spec.Get("/users").
//	    OperationID("listUsers").
//	    Summary("List all users").
//	    Tags("users").
//	    Response(http.StatusOK, []User{})
//
//	spec.Post("/users").
//	    OperationID("createUser").
//	    Summary("Create a user").
//	    Tags("users").
//	    Request(CreateUserInput{}).
//	    Response(http.StatusCreated, User{})
//
//	doc, err := spec.Build(ctx)
//
// Get, Put, Post, Delete, Options, Head, Patch, and Trace each return an
// *OperationBuilder for fluent configuration. Declaring the same method and
// path twice returns the original builder, so an operation can be enriched
// from several places.
//
// # Route Groups
//
// Use Group to apply a shared path prefix and shared metadata defaults to a
// logical group of operations. Operations created through a group inherit the
// group's tags, security, servers, parameters, responses, and external docs:
//
//	users := spec.Group("/users").
//	    Tags("users").
//	    Security(openapi.SecurityRequirement{"basic": {}}).
//	    Response(http.StatusForbidden, ErrorResponse{}).
//	    Response(http.StatusNotFound, ErrorResponse{})
//
//	users.Get("").
//	    Summary("List users").
//	    Response(http.StatusOK, []User{})
//
//	users.Post("").
//	    Summary("Create user").
//	    Request(CreateUserInput{}).
//	    Response(http.StatusCreated, User{})
//
// Both operations above automatically include 403 and 404 responses from the
// group. Groups nest; a child group concatenates its prefix onto the parent's
// and starts from a copy of the parent's defaults:
//
//	v1 := spec.Group("/api/v1").Tags("v1")
//	admin := v1.Group("/admin").Security(openapi.SecurityRequirement{"admin": {}})
//	admin.Get("/stats").Response(http.StatusOK, Stats{})
//	// registers GET /api/v1/admin/stats with tags [v1] and admin security
//
// Override/merge semantics per field:
//
//   - Tags: append (group tags + operation tags combined)
//   - Security: replace (operation-level Security call overrides group value)
//   - Deprecated: one-way latch (group deprecation cannot be undone per-operation)
//   - Servers: append (group servers + operation servers combined)
//   - Parameters: append (group parameters + operation parameters combined)
//   - Responses: merge (group responses + operation responses; operation overrides per status code)
//   - ExternalDocs: replace (operation-level ExternalDocs call overrides group value)
//
// # Security
//
// Register security schemes and apply them at document or operation level:
//
//	spec.AddSecurityScheme("bearerAuth", &openapi.SecurityScheme{
//	    Type:         "http",
//	    Scheme:       "bearer",
//	    BearerFormat: "JWT",
//	})
//	spec.SetSecurity(openapi.SecurityRequirement{"bearerAuth": {}})
//
// Override security per operation (empty Security() marks an endpoint as public):
//
//	spec.Get("/health").
//	    Summary("Health check").
//	    Security()
//
// # Tags
//
// Tags used in operations are automatically collected into the document-level
// tags list. Tags registered via AddTag come first, in registration order;
// tags seen only on operations follow in first-use order. Use AddTag to
// provide descriptions and external documentation:
//
//	spec.AddTag(openapi.Tag{
//	    Name:         "users",
//	    Description:  "User management operations",
//	    ExternalDocs: &openapi.ExternalDocs{URL: "https://docs.example.com/users"},
//	})
//
// User-defined tags take precedence over auto-collected tags. Tags defined
// via AddTag but not used by any operation are still included in the output.
//
// # Reusable Components
//
// Register reusable objects in components:
//
//	spec.AddComponentResponse("NotFound", &openapi.Response{Description: "Not found"})
//	spec.AddComponentParameter("pageParam", &openapi.Parameter{Name: "page", In: "query"})
//	spec.AddComponentExample("sample", &openapi.Example{Summary: "A sample", Value: "test"})
//	spec.AddComponentRequestBody("CreatePet", &openapi.RequestBody{Description: "Pet to create"})
//	spec.AddComponentHeader("X-Rate-Limit", &openapi.Header{Schema: &openapi.Schema{Type: openapi.TypeString("integer")}})
//	spec.AddComponentLink("GetUser", &openapi.Link{OperationID: "getUser"})
//
// Named schemas register with RegisterSchema and appear under
// #/components/schemas even when no operation references them:
//
//	spec.RegisterSchema("Money", &openapi.Schema{
//	    Type: openapi.TypeString("string"),
//	    Pattern: `^\d+\.\d{2}$`,
//	})
//
// # Path-Level Metadata
//
// Set summary, description, and shared parameters on a path. These apply to
// all operations under the path:
//
//	spec.SetPathSummary("/users/{id}", "Represents a user")
//	spec.SetPathDescription("/users/{id}", "Individual user identified by ID.")
//	spec.AddPathParameter("/users/{id}", &openapi.Parameter{
//	    Name: "X-Tenant-ID", In: "header",
//	    Schema: &openapi.Schema{Type: openapi.TypeString("string")},
//	})
//
// # Server Overrides
//
// Servers can be overridden at the path or operation level. Path-level servers
// apply to all operations under a path, while operation-level servers apply to
// a single operation:
//
//	// Path-level: all operations under /files use the file server.
//	spec.AddPathServer("/files", openapi.Server{URL: "https://files.example.com"})
//
//	// Operation-level: only this operation uses the upload server.
//	spec.Post("/upload").Server(openapi.Server{URL: "https://upload.example.com"})
//
// Servers support URL template variables with enum and default values:
//
//	spec.AddServer(openapi.Server{
//	    URL: "https://{environment}.example.com/v2",
//	    Variables: map[string]*openapi.ServerVariable{
//	        "environment": {
//	            Default: "api",
//	            Enum:    []string{"api", "api.dev", "api.staging"},
//	        },
//	    },
//	})
//
// # Media Types
//
// Request and Response are JSON shortcuts. Use RequestContent and
// ResponseContent for any content type:
//
//	// JSON (default)
//	spec.Post("/employees").Request(Employee{}).Response(http.StatusOK, Employee{})
//
//	// XML
//	spec.Post("/employees").RequestContent("application/xml", Employee{})
//
//	// Multiple content types for the same operation
//	spec.Get("/employees/{id}").
//	    Response(http.StatusOK, Employee{}).
//	    ResponseContent(http.StatusOK, "application/xml", Employee{})
//
//	// Binary file upload
//	spec.Post("/upload").RequestContent("application/octet-stream", &openapi.Schema{
//	    Type: openapi.TypeString("string"), Format: "binary",
//	})
//
//	// Form data
//	spec.Post("/submit").RequestContent("multipart/form-data", FormInput{})
//
// Pass a *Schema directly for explicit schema control (binary, text, etc.)
// or a Go type for automatic schema generation via reflection. Content
// entries keep their registration order in the serialized document.
//
// # Request Body Metadata
//
// Set description and required flag on request bodies:
//
//	spec.Post("/resources").
//	    Request(CreateInput{}).
//	    RequestDescription("The resource to create").
//	    RequestRequired(false)
//
// By default, request bodies are required (true).
//
// # Default Response
//
// Use DefaultResponse to define a catch-all response for status codes not
// covered by specific responses:
//
//	spec.Get("/users/{id}").
//	    Response(http.StatusOK, User{}).
//	    DefaultResponse(ErrorResponse{})
//
// DefaultResponseContent works like ResponseContent for custom content types.
//
// # Response Headers and Links
//
// Add headers and links to responses:
//
//	spec.Get("/users").
//	    Response(http.StatusOK, []User{}).
//	    ResponseHeader(http.StatusOK, "X-Total-Count", &openapi.Header{
//	        Description: "Total number of users",
//	        Schema:      &openapi.Schema{Type: openapi.TypeString("integer")},
//	    }).
//	    ResponseLink(http.StatusOK, "GetNext", &openapi.Link{
//	        OperationID: "listUsers",
//	        Parameters:  map[string]any{"page": "$response.body#/nextPage"},
//	    })
//
// # Response Descriptions
//
// Response descriptions are auto-generated from HTTP status text. Override
// them per status code:
//
//	spec.Get("/users/{id}").
//	    Response(http.StatusOK, User{}).
//	    ResponseDescription(http.StatusOK, "The requested user").
//	    DefaultResponse(ErrorResponse{}).
//	    DefaultResponseDescription("Unexpected error")
//
// # Webhooks
//
// Webhooks describe API-initiated callbacks not tied to a path:
//
//	spec.Webhook("newUser", http.MethodPost).
//	    Summary("New user notification").
//	    Request(UserEvent{}).
//	    Response(http.StatusOK, nil)
//
// Group defaults also apply to webhooks:
//
//	events := spec.Group("").Tags("events")
//	events.Webhook("userCreated", http.MethodPost).Summary("User created")
//
// # Operation Extensions
//
// Operations support callbacks:
//
//	cb := openapi.Callback{"{$request.body#/callbackUrl}": &openapi.PathItem{...}}
//	spec.Post("/subscribe").Callback("onEvent", &cb)
//
// # Parameters
//
// Path template variables become path parameters automatically. Macros map
// to OpenAPI types:
//
//	{id:uuid}   -> type: string, format: uuid
//	{page:int}  -> type: integer
//	{v:float}   -> type: number
//	{d:date}    -> type: string, format: date
//	{h:domain}  -> type: string, format: hostname
//
// TypedParameter declares a parameter whose schema comes from a Go sample
// value, optionally constrained with openapi tag syntax:
//
//	spec.Get("/users").
//	    TypedParameter("limit", "query", 0, "minimum=1", "maximum=100").
//	    TypedParameter("cursor", "query", "")
//
// Constrained parameter schemas stay inline in the operation; the same type
// used without constraints elsewhere still shares its component schema.
//
// # Struct Tags
//
// Use the "openapi" struct tag to enrich JSON Schema output:
//
//	type CreateUserInput struct {
//	    Name  string `json:"name" openapi:"description=User name,minLength=1,maxLength=100"`
//	    Email string `json:"email" openapi:"format=email"`
//	    Age   int    `json:"age,omitempty" openapi:"minimum=0,maximum=150"`
//	    Role  string `json:"role" openapi:"enum=admin|user|guest"`
//	}
//
// Supported tag keys: description, example, format, title, minimum, maximum,
// exclusiveMinimum, exclusiveMaximum, minLength, maxLength, pattern,
// multipleOf, minItems, maxItems, uniqueItems, minProperties, maxProperties,
// const, enum (pipe-separated), deprecated, readOnly, writeOnly.
//
// When constraints target a field whose type resolves to a component
// reference, the reference is wrapped in allOf so the constraints apply
// alongside it.
//
// # JSON Schema Generation
//
// Go types are converted to JSON Schema via reflection:
//
//   - bool -> {type: "boolean"}
//   - int8/int16/int32 -> {type: "integer", format: "int32"}
//   - int/int64/uint variants -> {type: "integer", format: "int64"}
//   - float32 -> {type: "number", format: "float"}
//   - float64 -> {type: "number", format: "double"}
//   - string -> {type: "string"}
//   - []byte -> {type: "string", format: "byte"}
//   - time.Time -> {type: "string", format: "date-time"}
//   - uuid.UUID -> {type: "string", format: "uuid"}
//   - *T -> nullable type using type arrays (e.g., ["string", "null"])
//   - []T -> {type: "array", items: schema(T)}
//   - map[string]V -> {type: "object", additionalProperties: schema(V)}
//   - struct -> {type: "object", properties: {...}, required: [...]}
//
// Named struct types are deduplicated into #/components/schemas/{TypeName}
// and referenced via $ref. Self-referential and mutually recursive types
// work without special handling. Channels, functions, and complex numbers
// report ErrUnsupportedType.
//
// Generated schemas are cached per spec and shared across operations and
// documents built from the same spec. Concurrent builds of the same type
// collapse into a single generation.
//
// # Polymorphism
//
// OneOf registers a discriminated union for a base type. Variants carry a
// discriminator property whose value selects the concrete schema:
//
//	spec.OneOf((*Shape)(nil), "kind").
//	    Variant("circle", Circle{}).
//	    Variant("square", Square{})
//
//	spec.Post("/shapes").Request(Shape{}).Response(http.StatusCreated, Shape{})
//
// The generated Shape schema is a oneOf over ShapeCircle and ShapeSquare
// component schemas, each carrying a required "kind" property fixed to its
// variant value, plus a discriminator mapping. Registration problems
// (no variants, duplicate discriminator values, unsupported discriminator
// types) surface as ErrInvalidUnion from Build.
//
// # Transformers
//
// Transformers adjust generated output before serialization. Schema
// transformers run once per generated schema in first-use order, operation
// transformers run per assembled operation, and document transformers run
// last on the finished document:
//
//	spec.AddSchemaTransformer(openapi.SchemaTransformerFunc(
//	    func(ctx context.Context, s *openapi.Schema, c *openapi.SchemaContext) error {
//	        if c.Type == reflect.TypeOf(User{}) {
//	            s.Description = "A registered user"
//	        }
//	        return nil
//	    }))
//
//	spec.AddOperationTransformer(openapi.OperationTransformerFunc(
//	    func(ctx context.Context, op *openapi.Operation, c *openapi.OperationContext) error {
//	        op.Extensions = map[string]any{"x-audit": true}
//	        return nil
//	    }))
//
// A transformer error aborts Build. Transformer edits apply to the cached
// working copies for the document being built, never to the shared schema
// cache, so different documents from the same spec can transform the same
// type differently.
//
// # Type-Level Examples
//
// Implement the Exampler interface to provide a complete example value
// for a type's component schema:
//
//	func (User) OpenAPIExample() any {
//	    return User{ID: "550e8400-...", Name: "Alice", Email: "alice@example.com"}
//	}
//
// The returned value is serialized as the "example" field on the component
// schema. This works alongside field-level examples set via struct tags.
//
// # Generic Response Wrappers
//
// Go generics work naturally with the schema generator. Each concrete
// instantiation produces a distinct component schema with a sanitized name:
//
//	type ResponseData[T any] struct {
//	    Success bool     `json:"success"`
//	    Errors  []string `json:"errors,omitempty"`
//	    Result  T        `json:"result"`
//	}
//
//	spec.Get("/users/{id}").Response(http.StatusOK, ResponseData[User]{})
//	// → schema "ResponseDataUser" with Result typed as $ref User
//
//	spec.Get("/users").Response(http.StatusOK, ResponseData[[]User]{})
//	// → schema "ResponseDataUserList" with Result typed as array of $ref User
//
// # Standalone Schema Generation
//
// SchemaGenerator exposes the reflection engine without a Spec for tools
// that only need JSON Schemas:
//
//	gen := openapi.NewSchemaGenerator()
//	schema, err := gen.Generate(User{})
//	// schema references #/components/schemas/...; gen.Schemas() holds them
//
// # Serving the Specification
//
// Handle registers all OpenAPI endpoints under a base path on an
// *http.ServeMux. The config parameter is optional -- pass nil for defaults:
//
//	mux := http.NewServeMux()
//	spec.Handle(mux, "/swagger", nil)
//
// This registers three routes:
//
//	/swagger/            - interactive HTML docs
//	/swagger/schema.json - OpenAPI document as JSON
//	/swagger/schema.yaml - OpenAPI document as YAML
//
// Both /swagger and /swagger/ serve the docs UI. The document is built once,
// on first request; a failed build answers 500 and the next request retries.
//
// Choose the docs UI via HandleConfig:
//
//	openapi.DocsSwaggerUI (default)
//	openapi.DocsRapiDoc
//	openapi.DocsRedoc
//
// Pass additional Swagger UI options via SwaggerUIConfig:
//
//	spec.Handle(mux, "/swagger", &openapi.HandleConfig{
//	    SwaggerUIConfig: map[string]any{
//	        "docExpansion": "none",
//	        "deepLinking":  true,
//	    },
//	})
//
// # Building the Document
//
// Build assembles a complete *Document from everything declared on the spec.
// It is called automatically by Handle, but can be used directly:
//
//	doc, err := spec.Build(ctx)
//	if err != nil {
//	    return err
//	}
//	data, _ := json.MarshalIndent(doc, "", "  ")
//
// Output is deterministic: paths, methods, response codes, and component
// names serialize in a stable order, so two builds of the same spec produce
// byte-identical documents.
package openapi
