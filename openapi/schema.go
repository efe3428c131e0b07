package openapi

import (
	"context"
	"fmt"
	"mime/multipart"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	timeType       = reflect.TypeOf(time.Time{})
	uuidType       = reflect.TypeOf(uuid.UUID{})
	fileHeaderType = reflect.TypeOf(multipart.FileHeader{})
)

// Exampler can be implemented by types to provide an example value
// for the generated JSON Schema. The returned value is set as the "example"
// field on the component schema.
//
//	func (u User) OpenAPIExample() any {
//	    return User{ID: "550e8400-e29b-41d4-a716-446655440000", Name: "Alice"}
//	}
//
// See: https://json-schema.org/draft/2020-12/json-schema-validation#section-9.5
type Exampler interface {
	OpenAPIExample() any
}

// ParameterContext identifies the parameter binding a schema was generated
// for. It is present only when the binding supplies extra constraints that
// must be embedded in the schema itself; without constraints, identical
// types bound at different call sites share one cached schema.
type ParameterContext struct {
	Name        string
	In          string
	Operation   string
	Constraints string
}

func (pc *ParameterContext) fingerprint() string {
	return pc.Name + "|" + pc.In + "|" + pc.Operation + "|" + pc.Constraints
}

// SchemaGenerator converts Go types to JSON Schema objects and collects
// named types into a component schemas map for $ref deduplication. It is
// the standalone front end to the same engine a Spec uses during document
// builds: generated schemas are cached, so repeated Generate calls for one
// type do the reflection walk once.
//
// See: https://spec.openapis.org/oas/v3.1.0#schema-object
// See: https://spec.openapis.org/oas/v3.1.0#components-object (schemas)
type SchemaGenerator struct {
	store   *schemaStore
	unions  *unionRegistry
	schemas map[string]*Schema
}

// NewSchemaGenerator creates a new schema generator.
//
// See: https://spec.openapis.org/oas/v3.1.0#schema-object
// See: https://spec.openapis.org/oas/v3.1.0#components-object (schemas)
func NewSchemaGenerator() *SchemaGenerator {
	return &SchemaGenerator{
		store:   newSchemaStore(),
		unions:  newUnionRegistry(),
		schemas: make(map[string]*Schema),
	}
}

// Schemas returns the component schemas collected by Generate calls.
//
// See: https://spec.openapis.org/oas/v3.1.0#components-object (schemas)
func (g *SchemaGenerator) Schemas() map[string]*Schema {
	return g.schemas
}

// OneOf registers a discriminated union rooted at base's type, selected by
// the given discriminator property. Variants are added through the
// returned builder.
//
// See: https://spec.openapis.org/oas/v3.1.0#discriminator-object
func (g *SchemaGenerator) OneOf(base any, property string) *OneOfBuilder {
	return g.unions.oneOf(reflect.TypeOf(base), property)
}

// Generate produces a JSON Schema for the given Go value. Named struct
// types are stored in the generator's component schemas and referenced
// via $ref.
//
// See: https://spec.openapis.org/oas/v3.1.0#schema-object
// See: https://json-schema.org/draft/2020-12/json-schema-core#section-8.2.3 ($ref)
func (g *SchemaGenerator) Generate(v any) (*Schema, error) {
	if v == nil {
		return nil, nil
	}

	gen := &generator{store: g.store, unions: g.unions}
	entry, _, err := gen.entryFor(context.Background(), reflect.TypeOf(v), nil)
	if err != nil {
		return nil, err
	}

	var root *Schema
	if entry.shareable {
		root = &Schema{refName: entry.name}
	} else {
		root = entry.schema.Clone()
	}

	rs := &resolveState{comps: g.schemas, store: g.store}
	if err := rs.rewrite(root, ""); err != nil {
		return nil, err
	}
	return root, nil
}

// generator binds the schema cache and the union registry for build
// sessions. A Spec and a standalone SchemaGenerator both drive the engine
// through this type.
type generator struct {
	store  *schemaStore
	unions *unionRegistry
}

// keyFor computes the cache key for a type at a binding site. Shareable
// types carry their component name; parameter bindings with constraints
// carry the binding fingerprint and are never shareable.
func (g *generator) keyFor(t reflect.Type, param *ParameterContext) schemaKey {
	key := schemaKey{typ: t}
	if param != nil {
		key.param = param.fingerprint()
		return key
	}
	key.name = g.shareName(t)
	return key
}

// shareName returns the component name t publishes under, or an empty
// string for types that always stay inline. Registered union roots and
// named struct types are shareable; primitives, maps, slices, and
// anonymous structs are not.
func (g *generator) shareName(t reflect.Type) string {
	if g.unions.lookup(t) != nil {
		return g.store.ensureName(t)
	}
	if t.Kind() == reflect.Struct && t != timeType && t != uuidType && t != fileHeaderType {
		return g.store.ensureName(t)
	}
	return ""
}

// entryFor returns the committed cache entry for t, running one build
// session on a miss. Nested named types discovered during the session
// commit atomically with the root.
func (g *generator) entryFor(ctx context.Context, t reflect.Type, param *ParameterContext) (*storeEntry, schemaKey, error) {
	key := g.keyFor(t, param)
	entry, err := g.store.getOrCreate(ctx, key, func() (*storeEntry, map[schemaKey]*storeEntry, error) {
		s := &session{
			gen:        g,
			inProgress: make(map[reflect.Type]bool),
			built:      make(map[schemaKey]*storeEntry),
		}
		return s.buildRoot(t, param)
	})
	if err != nil {
		return nil, key, err
	}
	return entry, key, nil
}

// session is one build run for a single cache miss. It walks one root
// type, records every named nested type it completes, and hands the whole
// set back for an atomic commit. Cycles short-circuit to placeholders
// against the in-progress set.
type session struct {
	gen        *generator
	inProgress map[reflect.Type]bool
	built      map[schemaKey]*storeEntry
}

func (s *session) buildRoot(t reflect.Type, param *ParameterContext) (*storeEntry, map[schemaKey]*storeEntry, error) {
	// Parameter bindings with constraints embed them in an inline schema,
	// even for types that would otherwise publish as components.
	if param != nil {
		schema, err := s.inlineRoot(t)
		if err != nil {
			return nil, nil, err
		}
		applyOpenAPITag(schema, param.Constraints)
		return &storeEntry{schema: schema, typ: t}, s.built, nil
	}

	if name := s.shareableName(t); name != "" {
		s.inProgress[t] = true
		content, err := s.contentFor(t)
		delete(s.inProgress, t)
		if err != nil {
			return nil, nil, err
		}
		return &storeEntry{schema: content, name: name, shareable: true, typ: t}, s.built, nil
	}

	schema, err := s.schemaForType(t)
	if err != nil {
		return nil, nil, err
	}
	return &storeEntry{schema: schema, typ: t}, s.built, nil
}

// inlineRoot expands t without a component placeholder at the root.
// Shareable types still publish their standalone content so that
// self-references inside the inline copy resolve.
func (s *session) inlineRoot(t reflect.Type) (*Schema, error) {
	if binaryTypes[t] {
		return binarySchema(), nil
	}
	if binaryCollectionTypes[t] {
		return binaryCollectionSchema(), nil
	}

	nullable := false
	if t.Kind() == reflect.Pointer {
		nullable = true
		t = t.Elem()
	}

	if name := s.shareableName(t); name != "" {
		if err := s.ensureBuilt(t, name); err != nil {
			return nil, err
		}
		content := s.sessionContent(t, name).Clone()
		if nullable {
			applyNullable(content)
		}
		return content, nil
	}

	schema, err := s.inlineType(t)
	if err != nil {
		return nil, err
	}
	if nullable {
		applyNullable(schema)
	}
	return schema, nil
}

func (s *session) sessionContent(t reflect.Type, name string) *Schema {
	key := schemaKey{typ: t, name: name}
	if e, ok := s.built[key]; ok {
		return e.schema
	}
	if e, ok := s.gen.store.committed(key); ok {
		return e.schema
	}
	return nil
}

func (s *session) shareableName(t reflect.Type) string {
	if s.gen.unions.lookup(t) != nil {
		return s.gen.store.ensureName(t)
	}
	if t.Kind() == reflect.Struct && t != timeType && t != uuidType && t != fileHeaderType {
		return s.gen.store.ensureName(t)
	}
	return ""
}

// schemaForType produces the schema for one node of the walk. Stream and
// file types force string/binary before anything else looks at the type,
// shareable types become reference placeholders, and everything else maps
// inline.
func (s *session) schemaForType(t reflect.Type) (*Schema, error) {
	if binaryTypes[t] {
		return binarySchema(), nil
	}
	if binaryCollectionTypes[t] {
		return binaryCollectionSchema(), nil
	}

	// Unwrap pointer and mark nullable.
	nullable := false
	if t.Kind() == reflect.Pointer {
		nullable = true
		t = t.Elem()
	}
	if t == fileHeaderType {
		return binarySchema(), nil
	}

	if name := s.shareableName(t); name != "" {
		if err := s.ensureBuilt(t, name); err != nil {
			return nil, err
		}
		placeholder := &Schema{refName: name}
		if nullable {
			return &Schema{
				AnyOf: []*Schema{
					placeholder,
					{Type: TypeString("null")},
				},
			}, nil
		}
		return placeholder, nil
	}

	schema, err := s.inlineType(t)
	if err != nil {
		return nil, err
	}
	if nullable {
		applyNullable(schema)
	}
	return schema, nil
}

// ensureBuilt makes sure the content for a shareable type exists, either
// committed in the store, completed earlier in this session, or built now.
// Re-entering a type that is still being walked is a cycle: the caller's
// placeholder is enough, the content finishes upstack.
func (s *session) ensureBuilt(t reflect.Type, name string) error {
	if s.inProgress[t] {
		return nil
	}

	key := schemaKey{typ: t, name: name}
	if _, ok := s.built[key]; ok {
		return nil
	}
	if _, ok := s.gen.store.committed(key); ok {
		return nil
	}

	s.inProgress[t] = true
	content, err := s.contentFor(t)
	delete(s.inProgress, t)
	if err != nil {
		return err
	}

	s.built[key] = &storeEntry{schema: content, name: name, shareable: true, typ: t}
	return nil
}

// contentFor builds the full component content for a shareable type:
// a oneOf fragment for registered unions, an object schema for structs.
func (s *session) contentFor(t reflect.Type) (*Schema, error) {
	if u := s.gen.unions.lookup(t); u != nil {
		return s.unionContent(t, u)
	}

	content, err := s.structContent(t)
	if err != nil {
		return nil, err
	}

	if ex, ok := reflect.New(t).Interface().(Exampler); ok {
		content.Example = ex.OpenAPIExample()
	}
	return content, nil
}

// inlineType maps Go primitive and composite types to JSON Schema types
// with canonical formats.
//
// See: https://spec.openapis.org/oas/v3.1.0#data-types
// See: https://json-schema.org/draft/2020-12/json-schema-validation#section-6.1.1
func (s *session) inlineType(t reflect.Type) (*Schema, error) {
	// Special cases first.
	if t == timeType {
		return &Schema{Type: TypeString("string"), Format: "date-time"}, nil
	}
	if t == uuidType {
		return &Schema{Type: TypeString("string"), Format: "uuid"}, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return &Schema{Type: TypeString("boolean")}, nil

	case reflect.Int8, reflect.Int16, reflect.Int32:
		return &Schema{Type: TypeString("integer"), Format: "int32"}, nil

	case reflect.Int, reflect.Int64:
		return &Schema{Type: TypeString("integer"), Format: "int64"}, nil

	case reflect.Uint8, reflect.Uint16:
		return &Schema{Type: TypeString("integer"), Format: "int32"}, nil

	case reflect.Uint, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &Schema{Type: TypeString("integer"), Format: "int64"}, nil

	case reflect.Float32:
		return &Schema{Type: TypeString("number"), Format: "float"}, nil

	case reflect.Float64:
		return &Schema{Type: TypeString("number"), Format: "double"}, nil

	case reflect.String:
		return &Schema{Type: TypeString("string")}, nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: TypeString("string"), Format: "byte"}, nil
		}
		items, err := s.schemaForType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: TypeString("array"), Items: items}, nil

	case reflect.Array:
		items, err := s.schemaForType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: TypeString("array"), Items: items}, nil

	case reflect.Map:
		switch t.Key().Kind() {
		case reflect.String,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			// encoding/json renders these keys as JSON object keys.
		default:
			return nil, fmt.Errorf("%w: map key type %s", ErrUnsupportedType, t.Key())
		}
		additional, err := s.schemaForType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: TypeString("object"), AdditionalProperties: additional}, nil

	case reflect.Struct:
		return s.structContent(t)

	case reflect.Interface:
		return &Schema{}, nil
	}

	return nil, fmt.Errorf("%w: %s (kind %s)", ErrUnsupportedType, t, t.Kind())
}

// structContent builds an object schema from struct fields.
//
// See: https://json-schema.org/draft/2020-12/json-schema-core#section-10.3.2 (properties)
// See: https://json-schema.org/draft/2020-12/json-schema-validation#section-6.5.3 (required)
func (s *session) structContent(t reflect.Type) (*Schema, error) {
	schema := &Schema{
		Type:       TypeString("object"),
		Properties: NewOrderedMap[*Schema](),
	}

	if err := s.collectFields(t, schema, false); err != nil {
		return nil, err
	}

	if schema.Properties.Len() == 0 {
		schema.Properties = nil
	}

	return schema, nil
}

// collectFields recursively collects struct fields into the schema,
// preserving declaration order. When allOptional is true, all fields are
// treated as optional regardless of their json tags. This is used for
// pointer-embedded structs where the entire embedded struct can be nil
// and thus all its fields may be absent.
//
// See: https://json-schema.org/draft/2020-12/json-schema-core#section-10.3.2.1 (properties)
// See: https://json-schema.org/draft/2020-12/json-schema-validation#section-6.5.3 (required)
func (s *session) collectFields(t reflect.Type, schema *Schema, allOptional bool) error {
	for i := range t.NumField() {
		field := t.Field(i)

		// Skip unexported fields.
		if !field.IsExported() {
			continue
		}

		// Handle embedded structs: inline only when the field has no
		// explicit json tag name. encoding/json treats an anonymous field
		// with a tag name as a regular named field, not inlined.
		if field.Anonymous {
			jsonName, _ := parseJSONTag(field.Tag.Get("json"))
			if jsonName == "" {
				ft := field.Type
				isPtr := ft.Kind() == reflect.Pointer
				if isPtr {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					// Pointer-embedded structs: all inlined fields become
					// optional because the pointer can be nil, omitting
					// all fields from JSON output.
					if err := s.collectFields(ft, schema, allOptional || isPtr); err != nil {
						return err
					}
					continue
				}
			}
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name, opts := parseJSONTag(jsonTag)
		if name == "" {
			name = field.Name
		}

		fieldSchema, err := s.schemaForType(field.Type)
		if err != nil {
			return fmt.Errorf("field %s.%s: %w", t.Name(), field.Name, err)
		}

		fieldSchema = applyFieldTag(fieldSchema, field.Tag.Get("openapi"))

		// The encoding/json ",string" option encodes numeric and boolean
		// values as JSON strings. Override the schema type accordingly.
		if opts.stringEncode && fieldSchema.Ref == "" && fieldSchema.refName == "" && len(fieldSchema.AnyOf) == 0 {
			applyStringEncoding(fieldSchema)
		}

		schema.Properties.Set(name, fieldSchema)

		if !opts.omitempty && !allOptional {
			schema.Required = append(schema.Required, name)
		}
	}
	return nil
}

// applyFieldTag applies openapi tag constraints to a field schema.
// Reference placeholders must stay bare, so their constraints move to an
// allOf wrapper around the placeholder.
func applyFieldTag(s *Schema, tag string) *Schema {
	if tag == "" {
		return s
	}
	if s.refName != "" {
		wrapper := &Schema{AllOf: []*Schema{s}}
		applyOpenAPITag(wrapper, tag)
		return wrapper
	}
	applyOpenAPITag(s, tag)
	return s
}

type jsonTagOpts struct {
	omitempty    bool
	stringEncode bool // encoding/json ",string" option
}

func parseJSONTag(tag string) (string, jsonTagOpts) {
	if tag == "" {
		return "", jsonTagOpts{}
	}
	name, rest, _ := strings.Cut(tag, ",")
	return name, jsonTagOpts{
		omitempty:    strings.Contains(rest, "omitempty") || strings.Contains(rest, "omitzero"),
		stringEncode: strings.Contains(rest, "string"),
	}
}

// applyOpenAPITag parses the `openapi` struct tag and applies constraints to the schema.
// Tag keys map to JSON Schema and OpenAPI Schema Object keywords. The same
// grammar is used for per-parameter constraints.
//
// See: https://spec.openapis.org/oas/v3.1.0#schema-object
// See: https://json-schema.org/draft/2020-12/json-schema-validation
func applyOpenAPITag(schema *Schema, tag string) {
	if tag == "" {
		return
	}

	for part := range strings.SplitSeq(tag, ",") {
		key, value, hasValue := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if hasValue {
			value = strings.TrimSpace(value)
		}

		switch key {
		case "description":
			schema.Description = value
		case "example":
			schema.Example = parseExampleValue(schema, value)
		case "format":
			schema.Format = value
		case "minimum":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				schema.Minimum = &v
			}
		case "maximum":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				schema.Maximum = &v
			}
		case "exclusiveMinimum":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				schema.ExclusiveMinimum = &v
			}
		case "exclusiveMaximum":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				schema.ExclusiveMaximum = &v
			}
		case "minLength":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MinLength = &v
			}
		case "maxLength":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MaxLength = &v
			}
		case "pattern":
			schema.Pattern = value
		case "enum":
			values := strings.Split(value, "|")
			schema.Enum = make([]any, len(values))
			for i, v := range values {
				schema.Enum[i] = v
			}
		case "deprecated":
			schema.Deprecated = true
		case "readOnly":
			schema.ReadOnly = true
		case "writeOnly":
			schema.WriteOnly = true
		case "title":
			schema.Title = value
		case "multipleOf":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				schema.MultipleOf = &v
			}
		case "minItems":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MinItems = &v
			}
		case "maxItems":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MaxItems = &v
			}
		case "uniqueItems":
			schema.UniqueItems = true
		case "minProperties":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MinProperties = &v
			}
		case "maxProperties":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MaxProperties = &v
			}
		case "const":
			schema.Const = parseExampleValue(schema, value)
		}
	}
}

// parseExampleValue converts a string tag value to the appropriate Go type
// based on the schema's type field.
//
// See: https://json-schema.org/draft/2020-12/json-schema-validation#section-9.5
func parseExampleValue(schema *Schema, value string) any {
	types := schema.Type.Values()
	if len(types) == 0 {
		return value
	}

	switch types[0] {
	case "integer":
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	case "number":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	case "boolean":
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return value
}

// pkgPrefix extracts the last segment of a Go package path and capitalizes
// it for use as a schema name prefix (e.g., "net/http" -> "Http").
//
// See: https://spec.openapis.org/oas/v3.1.0#components-object (schemas)
func pkgPrefix(pkgPath string) string {
	if idx := strings.LastIndexByte(pkgPath, '/'); idx >= 0 {
		pkgPath = pkgPath[idx+1:]
	}
	if len(pkgPath) == 0 {
		return ""
	}
	pkgPath = strings.ReplaceAll(pkgPath, "-", "_")
	pkgPath = strings.ReplaceAll(pkgPath, ".", "_")
	return strings.ToUpper(pkgPath[:1]) + pkgPath[1:]
}

// sanitizeSchemaName cleans up Go type names for use as OpenAPI component
// schema keys. Generic type names like "ResponseData[User]" are converted
// to "ResponseDataUser", and "ResponseData[[]User]" becomes
// "ResponseDataUserList". Package paths in type parameters are stripped.
//
// See: https://spec.openapis.org/oas/v3.1.0#components-object (schemas)
func sanitizeSchemaName(name string) string {
	idx := strings.IndexByte(name, '[')
	if idx < 0 {
		return name
	}

	base := name[:idx]
	inner := name[idx+1 : len(name)-1]

	isList := strings.HasPrefix(inner, "[]")
	inner = strings.TrimPrefix(inner, "[]")

	// Strip package path: "github.com/foo/bar.User" → "User".
	if dot := strings.LastIndexByte(inner, '.'); dot >= 0 {
		inner = inner[dot+1:]
	}

	result := base + inner
	if isList {
		result += "List"
	}

	return result
}

// applyNullable modifies a schema to allow null values by converting
// the type to an array (e.g., "string" becomes ["string", "null"]).
// In JSON Schema Draft 2020-12, nullable is expressed via type arrays
// rather than the OpenAPI 3.0 "nullable" keyword.
//
// See: https://json-schema.org/draft/2020-12/json-schema-validation#section-6.1.1
func applyNullable(schema *Schema) {
	if schema.Ref != "" || schema.refName != "" {
		return
	}
	types := schema.Type.Values()
	if len(types) > 0 {
		schema.Type = TypeArray(append(types, "null")...)
	}
}

// applyStringEncoding overrides the schema type to "string" to match the
// encoding/json ",string" tag option, which encodes numeric and boolean
// values as JSON strings. Nullable types preserve the "null" variant.
//
// See: https://spec.openapis.org/oas/v3.1.0#data-types
func applyStringEncoding(schema *Schema) {
	types := schema.Type.Values()
	if len(types) == 0 {
		return
	}
	var hasNull bool
	for _, t := range types {
		if t == "null" {
			hasNull = true
			break
		}
	}
	if hasNull {
		schema.Type = TypeArray("string", "null")
	} else {
		schema.Type = TypeString("string")
	}
}
