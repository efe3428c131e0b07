package openapi

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strings"
)

// macroTypeMap maps route template macros to OpenAPI type and format.
var macroTypeMap = map[string][2]string{
	"uuid":     {"string", "uuid"},
	"int":      {"integer", ""},
	"float":    {"number", ""},
	"slug":     {"string", ""},
	"alpha":    {"string", ""},
	"alphanum": {"string", ""},
	"date":     {"string", "date"},
	"hex":      {"string", ""},
	"domain":   {"string", "hostname"},
}

// pathVarRegexp matches route variables in the form {name} or {name:macro}.
var pathVarRegexp = regexp.MustCompile(`\{([^}]+)\}`)

// Spec collects OpenAPI metadata for routes and builds complete Documents.
// Registration is not safe for concurrent use; Build is, and repeated
// builds share one schema cache so reflection work happens once per type.
type Spec struct {
	info         Info
	documentName string
	servers      []Server

	store  *schemaStore
	unions *unionRegistry

	pathOps  map[string]map[string]*OperationBuilder // path -> method -> builder
	webhooks map[string]map[string]*OperationBuilder // name -> method -> builder

	regSchemas     map[string]*Schema
	regSchemaOrder []string

	schemaTransformers   []SchemaTransformer
	opTransformers       []OperationTransformer
	documentTransformers []DocumentTransformer

	pathServers      map[string][]Server     // keyed by OpenAPI path
	pathSummaries    map[string]string       // keyed by OpenAPI path
	pathDescriptions map[string]string       // keyed by OpenAPI path
	pathParameters   map[string][]*Parameter // keyed by OpenAPI path

	externalDocs    *ExternalDocs
	security        []SecurityRequirement
	tags            []Tag
	securitySchemes map[string]*SecurityScheme
	compResponses   map[string]*Response
	compParameters  map[string]*Parameter
	compExamples    map[string]*Example
	compReqBodies   map[string]*RequestBody
	compHeaders     map[string]*Header
	compLinks       map[string]*Link
	compCallbacks   map[string]*Callback
	compPathItems   map[string]*PathItem
}

// NewSpec creates a new spec builder with the given API info.
func NewSpec(info Info) *Spec {
	return &Spec{
		info:         info,
		documentName: "v1",
		store:        newSchemaStore(),
		unions:       newUnionRegistry(),
		pathOps:      make(map[string]map[string]*OperationBuilder),
		webhooks:     make(map[string]map[string]*OperationBuilder),
	}
}

func (s *Spec) generator() *generator {
	return &generator{store: s.store, unions: s.unions}
}

// SetDocumentName names the documents this spec builds. Transformers see
// the name through their contexts. The default name is "v1".
func (s *Spec) SetDocumentName(name string) *Spec {
	s.documentName = name
	return s
}

// DocumentName returns the name documents built from this spec carry.
func (s *Spec) DocumentName() string {
	return s.documentName
}

// AddServer adds a server to the spec.
func (s *Spec) AddServer(server Server) *Spec {
	s.servers = append(s.servers, server)
	return s
}

// AddPathServer adds a server override for a specific path. The path must use
// OpenAPI format (e.g., "/files", "/users/{id}"). All operations under this
// path inherit these servers, overriding the document-level servers.
func (s *Spec) AddPathServer(path string, server Server) *Spec {
	if s.pathServers == nil {
		s.pathServers = make(map[string][]Server)
	}
	s.pathServers[path] = append(s.pathServers[path], server)
	return s
}

// SetPathSummary sets a brief summary for a specific path. The path must use
// OpenAPI format (e.g., "/users/{id}"). The summary applies to all operations
// under this path.
func (s *Spec) SetPathSummary(path, summary string) *Spec {
	if s.pathSummaries == nil {
		s.pathSummaries = make(map[string]string)
	}
	s.pathSummaries[path] = summary
	return s
}

// SetPathDescription sets a detailed description for a specific path. The path
// must use OpenAPI format (e.g., "/users/{id}"). The description applies to all
// operations under this path and supports Markdown.
func (s *Spec) SetPathDescription(path, description string) *Spec {
	if s.pathDescriptions == nil {
		s.pathDescriptions = make(map[string]string)
	}
	s.pathDescriptions[path] = description
	return s
}

// AddPathParameter adds a shared parameter for a specific path. The path must
// use OpenAPI format (e.g., "/users/{id}"). Path-level parameters apply to all
// operations under this path and can be overridden at the operation level.
func (s *Spec) AddPathParameter(path string, param *Parameter) *Spec {
	if s.pathParameters == nil {
		s.pathParameters = make(map[string][]*Parameter)
	}
	s.pathParameters[path] = append(s.pathParameters[path], param)
	return s
}

// SetExternalDocs sets the document-level external documentation link.
func (s *Spec) SetExternalDocs(url, description string) *Spec {
	s.externalDocs = &ExternalDocs{URL: url, Description: description}
	return s
}

// SetSecurity sets the document-level security requirements.
func (s *Spec) SetSecurity(reqs ...SecurityRequirement) *Spec {
	s.security = reqs
	return s
}

// AddTag adds a user-defined tag with optional description and external docs.
// Registered tags lead the document's tag list in registration order.
func (s *Spec) AddTag(tag Tag) *Spec {
	s.tags = append(s.tags, tag)
	return s
}

// AddSecurityScheme registers a reusable security scheme in components.
func (s *Spec) AddSecurityScheme(name string, scheme *SecurityScheme) *Spec {
	if s.securitySchemes == nil {
		s.securitySchemes = make(map[string]*SecurityScheme)
	}
	s.securitySchemes[name] = scheme
	return s
}

// AddComponentResponse registers a reusable response in components.
func (s *Spec) AddComponentResponse(name string, resp *Response) *Spec {
	if s.compResponses == nil {
		s.compResponses = make(map[string]*Response)
	}
	s.compResponses[name] = resp
	return s
}

// AddComponentParameter registers a reusable parameter in components.
func (s *Spec) AddComponentParameter(name string, param *Parameter) *Spec {
	if s.compParameters == nil {
		s.compParameters = make(map[string]*Parameter)
	}
	s.compParameters[name] = param
	return s
}

// AddComponentExample registers a reusable example in components.
func (s *Spec) AddComponentExample(name string, ex *Example) *Spec {
	if s.compExamples == nil {
		s.compExamples = make(map[string]*Example)
	}
	s.compExamples[name] = ex
	return s
}

// AddComponentRequestBody registers a reusable request body in components.
func (s *Spec) AddComponentRequestBody(name string, rb *RequestBody) *Spec {
	if s.compReqBodies == nil {
		s.compReqBodies = make(map[string]*RequestBody)
	}
	s.compReqBodies[name] = rb
	return s
}

// AddComponentHeader registers a reusable header in components.
func (s *Spec) AddComponentHeader(name string, h *Header) *Spec {
	if s.compHeaders == nil {
		s.compHeaders = make(map[string]*Header)
	}
	s.compHeaders[name] = h
	return s
}

// AddComponentLink registers a reusable link in components.
func (s *Spec) AddComponentLink(name string, l *Link) *Spec {
	if s.compLinks == nil {
		s.compLinks = make(map[string]*Link)
	}
	s.compLinks[name] = l
	return s
}

// AddComponentCallback registers a reusable callback in components.
func (s *Spec) AddComponentCallback(name string, cb *Callback) *Spec {
	if s.compCallbacks == nil {
		s.compCallbacks = make(map[string]*Callback)
	}
	s.compCallbacks[name] = cb
	return s
}

// AddComponentPathItem registers a reusable path item in components.
func (s *Spec) AddComponentPathItem(name string, pi *PathItem) *Spec {
	if s.compPathItems == nil {
		s.compPathItems = make(map[string]*PathItem)
	}
	s.compPathItems[name] = pi
	return s
}

// RegisterSchema registers a hand-built schema under a fixed component
// name. The schema appears in every built document's components and can be
// referenced from other schemas via "#/components/schemas/<name>". The
// name is reserved: generated types that would collide pick a different
// one.
//
// See: https://spec.openapis.org/oas/v3.1.0#components-object (schemas)
func (s *Spec) RegisterSchema(name string, schema *Schema) *Spec {
	if s.regSchemas == nil {
		s.regSchemas = make(map[string]*Schema)
	}
	if _, ok := s.regSchemas[name]; !ok {
		s.regSchemaOrder = append(s.regSchemaOrder, name)
	}
	s.regSchemas[name] = schema
	s.store.register(nil, name, schema)
	return s
}

// OneOf registers a discriminated union rooted at base's type, selected by
// the given discriminator property. Variants are added through the
// returned builder:
//
//	spec.OneOf((*Shape)(nil), "kind").
//	    Variant("circle", Circle{}).
//	    Variant("square", Square{})
//
// Struct bases pass a value directly; interface bases pass a typed nil
// pointer as above. Wherever the base type appears, its schema becomes a
// oneOf over the variants with a discriminator, and each variant publishes
// as a component named after the base joined with the variant type name.
//
// See: https://spec.openapis.org/oas/v3.1.0#discriminator-object
func (s *Spec) OneOf(base any, property string) *OneOfBuilder {
	return s.unions.oneOf(reflect.TypeOf(base), property)
}

// AddSchemaTransformer appends a schema transformer. Transformers run in
// registration order during Build.
func (s *Spec) AddSchemaTransformer(t SchemaTransformer) *Spec {
	s.schemaTransformers = append(s.schemaTransformers, t)
	return s
}

// AddOperationTransformer appends an operation transformer. Transformers
// run in registration order during Build.
func (s *Spec) AddOperationTransformer(t OperationTransformer) *Spec {
	s.opTransformers = append(s.opTransformers, t)
	return s
}

// AddDocumentTransformer appends a document transformer. Transformers run
// in registration order at the end of Build.
func (s *Spec) AddDocumentTransformer(t DocumentTransformer) *Spec {
	s.documentTransformers = append(s.documentTransformers, t)
	return s
}

// Webhook registers an OpenAPI webhook with the given name and HTTP method.
// Webhooks describe API-initiated callbacks that are not tied to a path.
// The returned OperationBuilder has the same fluent API as route
// operations; registering the same name and method again returns the
// existing builder.
//
// See: https://spec.openapis.org/oas/v3.1.0#oas-webhooks
func (s *Spec) Webhook(name, method string) *OperationBuilder {
	if b, ok := s.lookupWebhook(name, method); ok {
		return b
	}
	b := newOperationBuilder()
	s.registerWebhook(name, method, b)
	return b
}

// Group creates a RouteGroup that registers operations under the given
// path prefix with shared metadata defaults.
func (s *Spec) Group(prefix string) *RouteGroup {
	return &RouteGroup{spec: s, prefix: prefix}
}

// Get registers a GET operation for the given route template. Templates
// use {name} or {name:macro} variables ("/users/{id:uuid}"); macros map to
// typed path parameters. Registering the same method and path again
// returns the existing builder.
func (s *Spec) Get(path string) *OperationBuilder { return s.operation("get", path) }

// Put registers a PUT operation for the given route template.
func (s *Spec) Put(path string) *OperationBuilder { return s.operation("put", path) }

// Post registers a POST operation for the given route template.
func (s *Spec) Post(path string) *OperationBuilder { return s.operation("post", path) }

// Delete registers a DELETE operation for the given route template.
func (s *Spec) Delete(path string) *OperationBuilder { return s.operation("delete", path) }

// Options registers an OPTIONS operation for the given route template.
func (s *Spec) Options(path string) *OperationBuilder { return s.operation("options", path) }

// Head registers a HEAD operation for the given route template.
func (s *Spec) Head(path string) *OperationBuilder { return s.operation("head", path) }

// Patch registers a PATCH operation for the given route template.
func (s *Spec) Patch(path string) *OperationBuilder { return s.operation("patch", path) }

// Trace registers a TRACE operation for the given route template.
func (s *Spec) Trace(path string) *OperationBuilder { return s.operation("trace", path) }

func (s *Spec) operation(method, path string) *OperationBuilder {
	if b, ok := s.lookupOperation(method, path); ok {
		return b
	}
	b := newOperationBuilder()
	s.registerOperation(method, path, b)
	return b
}

func (s *Spec) lookupOperation(method, path string) (*OperationBuilder, bool) {
	b, ok := s.pathOps[path][strings.ToLower(method)]
	return b, ok
}

func (s *Spec) registerOperation(method, path string, b *OperationBuilder) {
	if s.pathOps[path] == nil {
		s.pathOps[path] = make(map[string]*OperationBuilder)
	}
	s.pathOps[path][strings.ToLower(method)] = b
}

func (s *Spec) lookupWebhook(name, method string) (*OperationBuilder, bool) {
	b, ok := s.webhooks[name][strings.ToLower(method)]
	return b, ok
}

func (s *Spec) registerWebhook(name, method string, b *OperationBuilder) {
	if s.webhooks[name] == nil {
		s.webhooks[name] = make(map[string]*OperationBuilder)
	}
	s.webhooks[name][strings.ToLower(method)] = b
}

// buildState is the per-build working set. Schema contents cloned out of
// the cache belong to this build alone: transformers and reference
// resolution mutate them freely without touching committed entries or
// concurrent builds.
type buildState struct {
	spec    *Spec
	docName string
	comps   map[string]*Schema      // component name -> content clone
	inline  map[schemaKey]*Schema   // non-shareable attachment clones, one per key
	targets []transformTarget       // schema transformer inputs, first use order
}

// attach returns the schema to place at a use site for t. Shareable types
// yield a reference placeholder and pull their content clone into the
// working set; other types yield an inline clone shared by every site with
// the same cache key.
func (b *buildState) attach(ctx context.Context, t reflect.Type, param *ParameterContext) (*Schema, error) {
	if t == nil {
		return nil, nil
	}

	entry, key, err := b.spec.generator().entryFor(ctx, t, param)
	if err != nil {
		return nil, err
	}

	if entry.shareable {
		if err := b.materialize(entry.name); err != nil {
			return nil, err
		}
		return &Schema{refName: entry.name}, nil
	}

	if s, ok := b.inline[key]; ok {
		return s, nil
	}
	s := entry.schema.Clone()
	b.inline[key] = s
	b.targets = append(b.targets, transformTarget{
		schema: s,
		tctx: &SchemaContext{
			DocumentName: b.docName,
			Type:         t,
			Parameter:    param,
			Spec:         b.spec,
		},
	})
	if err := b.adopt(s); err != nil {
		return nil, err
	}
	return s, nil
}

// materialize pulls the named component's content clone into the working
// set and recursively adopts everything it references.
func (b *buildState) materialize(name string) error {
	if _, ok := b.comps[name]; ok {
		return nil
	}
	entry, ok := b.spec.store.lookupName(name)
	if !ok {
		return fmt.Errorf("%w: %s%s", ErrUnresolvedReference, componentsPrefix, name)
	}

	content := entry.schema.Clone()
	b.comps[name] = content
	b.targets = append(b.targets, transformTarget{
		schema: content,
		tctx: &SchemaContext{
			DocumentName: b.docName,
			Type:         entry.typ,
			Spec:         b.spec,
		},
	})
	return b.adopt(content)
}

// adopt walks a working set schema and materializes the target of every
// bare placeholder the cache knows. Tagged oneOf branches stay put; they
// become components during reference resolution.
func (b *buildState) adopt(s *Schema) error {
	if s == nil {
		return nil
	}
	if s.isBarePlaceholder() {
		if _, ok := b.comps[s.refName]; !ok {
			if _, known := b.spec.store.lookupName(s.refName); known {
				return b.materialize(s.refName)
			}
		}
		return nil
	}
	return visitChildSchemas(s, b.adopt)
}

// schemaFor resolves a body registration: nil means no schema, a *Schema
// is embedded as a copy so later caller edits do not rewrite built
// documents, anything else attaches by its reflected type.
func (b *buildState) schemaFor(ctx context.Context, body any) (*Schema, error) {
	if body == nil {
		return nil, nil
	}
	if s, ok := body.(*Schema); ok {
		return s.Clone(), nil
	}
	return b.attach(ctx, reflect.TypeOf(body), nil)
}

// Build assembles a complete OpenAPI Document: operations in deterministic
// order, schema transformers over the working set, operation transformers,
// reference resolution, components, tags, and finally document
// transformers. The context cancels schema generation waits and is handed
// to every transformer.
func (s *Spec) Build(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.unions.validateAll(); err != nil {
		return nil, err
	}

	// Top-level metadata is cloned so document transformer edits stay
	// within one build instead of reaching the Spec.
	doc := &Document{
		OpenAPI:      "3.1.0",
		Info:         s.info,
		Servers:      slices.Clone(s.servers),
		Paths:        make(map[string]*PathItem),
		ExternalDocs: clonePtr(s.externalDocs),
		Security:     slices.Clone(s.security),
	}

	state := &buildState{
		spec:    s,
		docName: s.documentName,
		comps:   make(map[string]*Schema),
		inline:  make(map[schemaKey]*Schema),
	}

	// Registered schemas are part of every document.
	for _, name := range s.regSchemaOrder {
		content := s.regSchemas[name].Clone()
		state.comps[name] = content
		state.targets = append(state.targets, transformTarget{
			schema: content,
			tctx:   &SchemaContext{DocumentName: s.documentName, Spec: s},
		})
	}

	// Assemble operations: paths in lexicographic order of their route
	// template, methods in canonical order.
	for _, path := range slices.Sorted(maps.Keys(s.pathOps)) {
		methods := s.pathOps[path]
		openAPIPath, pathParams := parsePath(path)

		pathItem, ok := doc.Paths[openAPIPath]
		if !ok {
			pathItem = &PathItem{}
			doc.Paths[openAPIPath] = pathItem
		}

		for _, method := range canonicalMethods {
			builder, ok := methods[method]
			if !ok {
				continue
			}
			site := method + " " + openAPIPath
			op, err := builder.buildOperation(ctx, state, site, pathParams)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", site, err)
			}
			assignOperation(pathItem, method, op)
		}
	}

	// Build webhooks.
	if len(s.webhooks) > 0 {
		doc.Webhooks = make(map[string]*PathItem, len(s.webhooks))
		for _, name := range slices.Sorted(maps.Keys(s.webhooks)) {
			pathItem := &PathItem{}
			for _, method := range canonicalMethods {
				builder, ok := s.webhooks[name][method]
				if !ok {
					continue
				}
				site := method + " webhook " + name
				op, err := builder.buildOperation(ctx, state, site, nil)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", site, err)
				}
				assignOperation(pathItem, method, op)
			}
			doc.Webhooks[name] = pathItem
		}
	}

	// Apply path-level metadata.
	for path, summary := range s.pathSummaries {
		if pathItem, ok := doc.Paths[path]; ok {
			pathItem.Summary = summary
		}
	}
	for path, description := range s.pathDescriptions {
		if pathItem, ok := doc.Paths[path]; ok {
			pathItem.Description = description
		}
	}
	for path, servers := range s.pathServers {
		if pathItem, ok := doc.Paths[path]; ok {
			pathItem.Servers = append(pathItem.Servers, servers...)
		}
	}
	for path, params := range s.pathParameters {
		if pathItem, ok := doc.Paths[path]; ok {
			pathItem.Parameters = append(pathItem.Parameters, params...)
		}
	}

	// Schema transformers over the working set, first use order.
	if len(s.schemaTransformers) > 0 {
		for _, target := range state.targets {
			for _, tr := range s.schemaTransformers {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				if err := tr.TransformSchema(ctx, target.schema, target.tctx); err != nil {
					return nil, fmt.Errorf("schema transformer: %w", err)
				}
			}
		}
	}

	// Operation transformers, document order.
	if len(s.opTransformers) > 0 {
		if err := s.transformOperations(ctx, doc); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := resolveDocument(doc, state.comps, s.store); err != nil {
		return nil, err
	}

	s.attachComponents(doc)
	doc.Tags = s.mergeTags(doc)

	for _, tr := range s.documentTransformers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tctx := &DocumentContext{DocumentName: s.documentName, Spec: s}
		if err := tr.TransformDocument(ctx, doc, tctx); err != nil {
			return nil, fmt.Errorf("document transformer: %w", err)
		}
	}

	return doc, nil
}

func (s *Spec) transformOperations(ctx context.Context, doc *Document) error {
	run := func(path string, pi *PathItem) error {
		for _, mo := range pathItemOperations(pi) {
			tctx := &OperationContext{
				DocumentName: s.documentName,
				Method:       mo.method,
				Path:         path,
				Spec:         s,
			}
			for _, tr := range s.opTransformers {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := tr.TransformOperation(ctx, mo.op, tctx); err != nil {
					return fmt.Errorf("operation transformer %s %s: %w", mo.method, path, err)
				}
			}
		}
		return nil
	}

	for _, path := range slices.Sorted(maps.Keys(doc.Paths)) {
		if err := run(path, doc.Paths[path]); err != nil {
			return err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(doc.Webhooks)) {
		if err := run(name, doc.Webhooks[name]); err != nil {
			return err
		}
	}
	return nil
}

// attachComponents merges user-registered component maps into the
// document. Component schemas are already in place from reference
// resolution. Each map is cloned: document transformers must edit a
// per-build copy, not the registry.
func (s *Spec) attachComponents(doc *Document) {
	hasData := len(s.securitySchemes) > 0 ||
		len(s.compResponses) > 0 ||
		len(s.compParameters) > 0 ||
		len(s.compExamples) > 0 ||
		len(s.compReqBodies) > 0 ||
		len(s.compHeaders) > 0 ||
		len(s.compLinks) > 0 ||
		len(s.compCallbacks) > 0 ||
		len(s.compPathItems) > 0

	if !hasData {
		return
	}

	if doc.Components == nil {
		doc.Components = &Components{}
	}
	if len(s.securitySchemes) > 0 {
		doc.Components.SecuritySchemes = maps.Clone(s.securitySchemes)
	}
	if len(s.compResponses) > 0 {
		doc.Components.Responses = maps.Clone(s.compResponses)
	}
	if len(s.compParameters) > 0 {
		doc.Components.Parameters = maps.Clone(s.compParameters)
	}
	if len(s.compExamples) > 0 {
		doc.Components.Examples = maps.Clone(s.compExamples)
	}
	if len(s.compReqBodies) > 0 {
		doc.Components.RequestBodies = maps.Clone(s.compReqBodies)
	}
	if len(s.compHeaders) > 0 {
		doc.Components.Headers = maps.Clone(s.compHeaders)
	}
	if len(s.compLinks) > 0 {
		doc.Components.Links = maps.Clone(s.compLinks)
	}
	if len(s.compCallbacks) > 0 {
		doc.Components.Callbacks = maps.Clone(s.compCallbacks)
	}
	if len(s.compPathItems) > 0 {
		doc.Components.PathItems = maps.Clone(s.compPathItems)
	}
}

// mergeTags combines user-defined tags with tags collected from
// operations. User-defined tags lead in registration order and keep their
// description and external docs; operation tags follow in first seen
// document order.
func (s *Spec) mergeTags(doc *Document) []Tag {
	userTags := make(map[string]Tag, len(s.tags))
	for _, tag := range s.tags {
		userTags[tag.Name] = tag
	}

	seen := make(map[string]bool)
	var tags []Tag
	add := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		if userTag, ok := userTags[name]; ok {
			tags = append(tags, userTag)
		} else {
			tags = append(tags, Tag{Name: name})
		}
	}

	for _, tag := range s.tags {
		add(tag.Name)
	}
	for _, path := range slices.Sorted(maps.Keys(doc.Paths)) {
		for _, mo := range pathItemOperations(doc.Paths[path]) {
			for _, name := range mo.op.Tags {
				add(name)
			}
		}
	}
	for _, wh := range slices.Sorted(maps.Keys(doc.Webhooks)) {
		for _, mo := range pathItemOperations(doc.Webhooks[wh]) {
			for _, name := range mo.op.Tags {
				add(name)
			}
		}
	}

	return tags
}

// canonicalMethods orders operations the way PathItem declares its fields.
var canonicalMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// assignOperation assigns an operation to the correct HTTP method field
// on the path item.
func assignOperation(pathItem *PathItem, method string, op *Operation) {
	switch method {
	case "get":
		pathItem.Get = op
	case "put":
		pathItem.Put = op
	case "post":
		pathItem.Post = op
	case "delete":
		pathItem.Delete = op
	case "options":
		pathItem.Options = op
	case "head":
		pathItem.Head = op
	case "patch":
		pathItem.Patch = op
	case "trace":
		pathItem.Trace = op
	}
}

// parsePath extracts variables from a route template, converts it to
// OpenAPI format, and generates parameter objects. Macros type the
// parameter schema: "/users/{id:uuid}" becomes "/users/{id}" with a
// string/uuid path parameter.
func parsePath(tpl string) (string, []*Parameter) {
	var params []*Parameter

	openAPIPath := pathVarRegexp.ReplaceAllStringFunc(tpl, func(match string) string {
		inner := match[1 : len(match)-1]
		varName, macroName, _ := strings.Cut(inner, ":")

		param := &Parameter{
			Name:     varName,
			In:       "path",
			Required: true,
			Schema:   &Schema{Type: TypeString("string")},
		}

		if macroName != "" {
			if typeInfo, ok := macroTypeMap[macroName]; ok {
				param.Schema = &Schema{Type: TypeString(typeInfo[0])}
				if typeInfo[1] != "" {
					param.Schema.Format = typeInfo[1]
				}
			}
		}

		params = append(params, param)
		return "{" + varName + "}"
	})

	return openAPIPath, params
}
