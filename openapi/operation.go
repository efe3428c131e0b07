package openapi

import (
	"context"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// operationMeta stores metadata collected via the fluent builder
// before the final document is built. Fields correspond to the Operation
// Object. Content registrations keep their order so that media types
// appear in the emitted document as registered.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object
type operationMeta struct {
	operationID  string
	summary      string
	description  string
	tags         []string
	deprecated   bool
	parameters   []*Parameter
	typedParams  []*typedParameter
	security     []SecurityRequirement
	externalDocs *ExternalDocs
	callbacks    map[string]*Callback
	servers      []Server

	requestContents      *OrderedMap[any]               // contentType -> body
	requestDescription   string                         // request body description
	requestRequired      *bool                          // nil = default (true), non-nil = explicit
	responseContents     map[string]*OrderedMap[any]    // statusKey -> contentType -> body
	responseDescriptions map[string]string              // statusKey -> custom description
	responseHeaders      map[string]map[string]*Header  // statusKey -> headerName -> header
	responseLinks        map[string]map[string]*Link    // statusKey -> linkName -> link
	responseNoContent    map[string]bool                // statusKey registered with nil body
}

// typedParameter is a parameter whose schema is generated from a Go type.
type typedParameter struct {
	name        string
	in          string
	sample      any
	constraints string
}

// OperationBuilder provides a fluent API for attaching OpenAPI metadata
// to a registered route. It assembles an Operation Object.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object
type OperationBuilder struct {
	meta *operationMeta
}

func newOperationBuilder() *OperationBuilder {
	return &OperationBuilder{
		meta: &operationMeta{
			requestContents:   NewOrderedMap[any](),
			responseContents:  make(map[string]*OrderedMap[any]),
			responseNoContent: make(map[string]bool),
		},
	}
}

// OperationID sets the operation ID. Operations without an explicit ID are
// emitted without one.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object (operationId)
func (b *OperationBuilder) OperationID(id string) *OperationBuilder {
	b.meta.operationID = id
	return b
}

// Summary sets the operation summary.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object (summary)
func (b *OperationBuilder) Summary(s string) *OperationBuilder {
	b.meta.summary = s
	return b
}

// Description sets the operation description.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object (description)
func (b *OperationBuilder) Description(d string) *OperationBuilder {
	b.meta.description = d
	return b
}

// Tags adds one or more tags to the operation.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object (tags)
func (b *OperationBuilder) Tags(tags ...string) *OperationBuilder {
	b.meta.tags = append(b.meta.tags, tags...)
	return b
}

// Deprecated marks the operation as deprecated.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object (deprecated)
func (b *OperationBuilder) Deprecated() *OperationBuilder {
	b.meta.deprecated = true
	return b
}

// Request registers an application/json request body type for the operation.
// This is a shortcut for RequestContent("application/json", body).
//
// See: https://spec.openapis.org/oas/v3.1.0#request-body-object
func (b *OperationBuilder) Request(body any) *OperationBuilder {
	b.meta.requestContents.Set("application/json", body)
	return b
}

// RequestContent registers a request body with the given content type.
// The body can be a Go value (schema generated via reflection from its
// type), a *Schema for explicit schema control, or nil for a content type
// with no schema. Content types appear in registration order.
//
// See: https://spec.openapis.org/oas/v3.1.0#request-body-object
func (b *OperationBuilder) RequestContent(contentType string, body any) *OperationBuilder {
	b.meta.requestContents.Set(contentType, body)
	return b
}

// RequestDescription sets the description for the request body.
//
// See: https://spec.openapis.org/oas/v3.1.0#request-body-object (description)
func (b *OperationBuilder) RequestDescription(desc string) *OperationBuilder {
	b.meta.requestDescription = desc
	return b
}

// RequestRequired sets whether the request body is required.
// By default, request bodies are required (true).
//
// See: https://spec.openapis.org/oas/v3.1.0#request-body-object (required)
func (b *OperationBuilder) RequestRequired(required bool) *OperationBuilder {
	b.meta.requestRequired = &required
	return b
}

// Response registers an application/json response type for the given HTTP
// status code. Pass nil body for responses with no content (e.g., 204).
// This is a shortcut for ResponseContent(statusCode, "application/json", body)
// when body is non-nil.
//
// See: https://spec.openapis.org/oas/v3.1.0#responses-object
// See: https://spec.openapis.org/oas/v3.1.0#response-object
func (b *OperationBuilder) Response(statusCode int, body any) *OperationBuilder {
	key := strconv.Itoa(statusCode)
	if body != nil {
		b.registerResponseContent(key, "application/json", body)
	} else {
		b.meta.responseNoContent[key] = true
	}
	return b
}

// ResponseContent registers a response with the given status code and content
// type. The body can be a Go value (schema generated via reflection from its
// type), a *Schema for explicit schema control, or nil for a content type
// with no schema.
//
// See: https://spec.openapis.org/oas/v3.1.0#response-object
func (b *OperationBuilder) ResponseContent(statusCode int, contentType string, body any) *OperationBuilder {
	b.registerResponseContent(strconv.Itoa(statusCode), contentType, body)
	return b
}

// DefaultResponse registers an application/json response for the "default"
// status key. The default response catches any status code not covered by
// specific responses. Pass nil body for a default response with no content.
//
// See: https://spec.openapis.org/oas/v3.1.0#responses-object (default)
func (b *OperationBuilder) DefaultResponse(body any) *OperationBuilder {
	if body != nil {
		b.registerResponseContent("default", "application/json", body)
	} else {
		b.meta.responseNoContent["default"] = true
	}
	return b
}

// DefaultResponseContent registers a response with the given content type
// for the "default" status key.
//
// See: https://spec.openapis.org/oas/v3.1.0#responses-object (default)
// See: https://spec.openapis.org/oas/v3.1.0#media-type-object
func (b *OperationBuilder) DefaultResponseContent(contentType string, body any) *OperationBuilder {
	b.registerResponseContent("default", contentType, body)
	return b
}

func (b *OperationBuilder) registerResponseContent(key, contentType string, body any) {
	delete(b.meta.responseNoContent, key)
	if b.meta.responseContents[key] == nil {
		b.meta.responseContents[key] = NewOrderedMap[any]()
	}
	b.meta.responseContents[key].Set(contentType, body)
}

// ResponseHeader adds a header to the response for the given HTTP status code.
//
// See: https://spec.openapis.org/oas/v3.1.0#response-object (headers)
func (b *OperationBuilder) ResponseHeader(statusCode int, name string, h *Header) *OperationBuilder {
	key := strconv.Itoa(statusCode)
	if b.meta.responseHeaders == nil {
		b.meta.responseHeaders = make(map[string]map[string]*Header)
	}
	if b.meta.responseHeaders[key] == nil {
		b.meta.responseHeaders[key] = make(map[string]*Header)
	}
	b.meta.responseHeaders[key][name] = h
	return b
}

// ResponseLink adds a link to the response for the given HTTP status code.
//
// See: https://spec.openapis.org/oas/v3.1.0#response-object (links)
// See: https://spec.openapis.org/oas/v3.1.0#link-object
func (b *OperationBuilder) ResponseLink(statusCode int, name string, l *Link) *OperationBuilder {
	key := strconv.Itoa(statusCode)
	if b.meta.responseLinks == nil {
		b.meta.responseLinks = make(map[string]map[string]*Link)
	}
	if b.meta.responseLinks[key] == nil {
		b.meta.responseLinks[key] = make(map[string]*Link)
	}
	b.meta.responseLinks[key][name] = l
	return b
}

// DefaultResponseHeader adds a header to the default response.
//
// See: https://spec.openapis.org/oas/v3.1.0#response-object (headers)
// See: https://spec.openapis.org/oas/v3.1.0#header-object
func (b *OperationBuilder) DefaultResponseHeader(name string, h *Header) *OperationBuilder {
	if b.meta.responseHeaders == nil {
		b.meta.responseHeaders = make(map[string]map[string]*Header)
	}
	if b.meta.responseHeaders["default"] == nil {
		b.meta.responseHeaders["default"] = make(map[string]*Header)
	}
	b.meta.responseHeaders["default"][name] = h
	return b
}

// DefaultResponseLink adds a link to the default response.
//
// See: https://spec.openapis.org/oas/v3.1.0#response-object (links)
// See: https://spec.openapis.org/oas/v3.1.0#link-object
func (b *OperationBuilder) DefaultResponseLink(name string, l *Link) *OperationBuilder {
	if b.meta.responseLinks == nil {
		b.meta.responseLinks = make(map[string]map[string]*Link)
	}
	if b.meta.responseLinks["default"] == nil {
		b.meta.responseLinks["default"] = make(map[string]*Link)
	}
	b.meta.responseLinks["default"][name] = l
	return b
}

// ResponseDescription overrides the auto-generated description for a response.
// By default, descriptions are derived from HTTP status text (e.g., "OK", "Not Found").
//
// See: https://spec.openapis.org/oas/v3.1.0#response-object (description)
func (b *OperationBuilder) ResponseDescription(statusCode int, desc string) *OperationBuilder {
	key := strconv.Itoa(statusCode)
	if b.meta.responseDescriptions == nil {
		b.meta.responseDescriptions = make(map[string]string)
	}
	b.meta.responseDescriptions[key] = desc
	return b
}

// DefaultResponseDescription overrides the auto-generated description for the
// default response.
//
// See: https://spec.openapis.org/oas/v3.1.0#response-object (description)
func (b *OperationBuilder) DefaultResponseDescription(desc string) *OperationBuilder {
	if b.meta.responseDescriptions == nil {
		b.meta.responseDescriptions = make(map[string]string)
	}
	b.meta.responseDescriptions["default"] = desc
	return b
}

// Parameter adds a fully specified parameter to the operation.
//
// See: https://spec.openapis.org/oas/v3.1.0#parameter-object
func (b *OperationBuilder) Parameter(param *Parameter) *OperationBuilder {
	b.meta.parameters = append(b.meta.parameters, param)
	return b
}

// TypedParameter adds a parameter whose schema is generated from sample's
// Go type. Constraints use the openapi struct tag grammar
// ("minimum=1,maximum=100") and are embedded in the parameter's inline
// schema; a constrained parameter never shares a cache entry with plain
// occurrences of the same type. Path parameters are always required.
//
// See: https://spec.openapis.org/oas/v3.1.0#parameter-object
func (b *OperationBuilder) TypedParameter(name, in string, sample any, constraints ...string) *OperationBuilder {
	b.meta.typedParams = append(b.meta.typedParams, &typedParameter{
		name:        name,
		in:          in,
		sample:      sample,
		constraints: strings.Join(constraints, ","),
	})
	return b
}

// Security sets operation-level security requirements.
// Call with no arguments to explicitly mark the operation as unauthenticated
// (overrides document-level security).
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object (security)
// See: https://spec.openapis.org/oas/v3.1.0#security-requirement-object
func (b *OperationBuilder) Security(reqs ...SecurityRequirement) *OperationBuilder {
	if reqs == nil {
		reqs = []SecurityRequirement{}
	}
	b.meta.security = reqs
	return b
}

// ExternalDocs sets external documentation for the operation.
//
// See: https://spec.openapis.org/oas/v3.1.0#external-documentation-object
func (b *OperationBuilder) ExternalDocs(url, description string) *OperationBuilder {
	b.meta.externalDocs = &ExternalDocs{URL: url, Description: description}
	return b
}

// Callback adds a callback to the operation.
//
// See: https://spec.openapis.org/oas/v3.1.0#callback-object
func (b *OperationBuilder) Callback(name string, cb *Callback) *OperationBuilder {
	if b.meta.callbacks == nil {
		b.meta.callbacks = make(map[string]*Callback)
	}
	b.meta.callbacks[name] = cb
	return b
}

// Server adds a server override for the operation.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object (servers)
func (b *OperationBuilder) Server(server Server) *OperationBuilder {
	b.meta.servers = append(b.meta.servers, server)
	return b
}

// mergeParameters combines auto-generated path parameters with custom
// parameters. Custom parameters with the same name+in override the
// auto-generated ones, and repeated custom registrations collapse to the
// last one in its first position. Parameter identity is name plus
// location (in).
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object (parameters)
func mergeParameters(auto, custom []*Parameter) []*Parameter {
	if len(auto) == 0 && len(custom) == 0 {
		return nil
	}

	byKey := make(map[[2]string]*Parameter, len(custom))
	var order [][2]string
	for _, p := range custom {
		key := [2]string{p.Name, p.In}
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = p
	}

	// Keep auto parameters that are not overridden by custom.
	var merged []*Parameter
	for _, p := range auto {
		if _, ok := byKey[[2]string{p.Name, p.In}]; !ok {
			merged = append(merged, p)
		}
	}
	for _, key := range order {
		merged = append(merged, byKey[key])
	}
	return merged
}

// responseDescription returns a human-readable description for a response key.
//
// See: https://spec.openapis.org/oas/v3.1.0#response-object (description)
func responseDescription(key string) string {
	if key == "default" {
		return "Default response"
	}
	code, err := strconv.Atoi(key)
	if err == nil {
		if text := http.StatusText(code); text != "" {
			return text
		}
	}
	return key
}

// buildContent converts body registrations into a media type map, keeping
// registration order. Bodies attach through the build's schema cache
// working set.
func buildContent(ctx context.Context, state *buildState, contents *OrderedMap[any]) (*OrderedMap[*MediaType], error) {
	if contents == nil || contents.Len() == 0 {
		return nil, nil
	}
	out := NewOrderedMap[*MediaType]()
	for contentType, body := range contents.All() {
		mt := &MediaType{}
		schema, err := state.schemaFor(ctx, body)
		if err != nil {
			return nil, err
		}
		mt.Schema = schema
		out.Set(contentType, mt)
	}
	return out, nil
}

// buildOperation converts the collected metadata into an Operation Object.
// Schemas attach through the build state so that shareable types become
// reference placeholders backed by the document's working set. Metadata
// slices and maps are cloned: transformer edits to the assembled operation
// must never reach the registration state or other builds.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object
func (b *OperationBuilder) buildOperation(ctx context.Context, state *buildState, site string, pathParams []*Parameter) (*Operation, error) {
	op := &Operation{
		OperationID:  b.meta.operationID,
		Summary:      b.meta.summary,
		Description:  b.meta.description,
		Tags:         slices.Clone(b.meta.tags),
		Deprecated:   b.meta.deprecated,
		Security:     slices.Clone(b.meta.security),
		ExternalDocs: clonePtr(b.meta.externalDocs),
		Callbacks:    maps.Clone(b.meta.callbacks),
		Servers:      slices.Clone(b.meta.servers),
	}

	// Build typed parameters, then merge: path parameters first, typed
	// next, fully specified parameters last. Later entries override
	// earlier ones with the same name+in (OpenAPI requires unique name+in).
	custom := make([]*Parameter, 0, len(b.meta.typedParams)+len(b.meta.parameters))
	for _, tp := range b.meta.typedParams {
		param := &Parameter{
			Name:     tp.name,
			In:       tp.in,
			Required: tp.in == "path",
		}
		if tp.sample != nil {
			var pc *ParameterContext
			if tp.constraints != "" {
				pc = &ParameterContext{
					Name:        tp.name,
					In:          tp.in,
					Operation:   site,
					Constraints: tp.constraints,
				}
			}
			schema, err := state.attach(ctx, reflect.TypeOf(tp.sample), pc)
			if err != nil {
				return nil, err
			}
			param.Schema = schema
		}
		custom = append(custom, param)
	}
	custom = append(custom, b.meta.parameters...)
	op.Parameters = mergeParameters(pathParams, custom)

	// Build request body.
	if b.meta.requestContents.Len() > 0 {
		required := true
		if b.meta.requestRequired != nil {
			required = *b.meta.requestRequired
		}
		content, err := buildContent(ctx, state, b.meta.requestContents)
		if err != nil {
			return nil, err
		}
		op.RequestBody = &RequestBody{
			Description: b.meta.requestDescription,
			Required:    required,
			Content:     content,
		}
	}

	// Build responses in sorted status order so schema generation and the
	// working set's first-use order stay deterministic.
	statusKeys := make(map[string]bool, len(b.meta.responseContents)+len(b.meta.responseNoContent))
	for key := range b.meta.responseContents {
		statusKeys[key] = true
	}
	for key := range b.meta.responseNoContent {
		statusKeys[key] = true
	}
	if len(statusKeys) > 0 {
		op.Responses = make(map[string]*Response, len(statusKeys))
		for _, key := range slices.Sorted(maps.Keys(statusKeys)) {
			desc := responseDescription(key)
			if custom, ok := b.meta.responseDescriptions[key]; ok {
				desc = custom
			}
			resp := &Response{Description: desc}

			content, err := buildContent(ctx, state, b.meta.responseContents[key])
			if err != nil {
				return nil, err
			}
			resp.Content = content

			if headers, ok := b.meta.responseHeaders[key]; ok && len(headers) > 0 {
				resp.Headers = maps.Clone(headers)
			}
			if links, ok := b.meta.responseLinks[key]; ok && len(links) > 0 {
				resp.Links = maps.Clone(links)
			}
			op.Responses[key] = resp
		}
	}

	return op, nil
}
