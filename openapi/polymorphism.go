package openapi

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"sync"
)

// unionRegistry holds discriminated union registrations keyed by base type.
// Registrations are validated lazily: a fluent builder has no error return,
// so problems surface as ErrInvalidUnion when a document or schema is built.
type unionRegistry struct {
	mu      sync.RWMutex
	unions  map[reflect.Type]*union
	orphans []*union
}

type union struct {
	base     reflect.Type
	property string
	variants []*unionVariant
	err      error
}

type unionVariant struct {
	value any
	typ   reflect.Type
}

func newUnionRegistry() *unionRegistry {
	return &unionRegistry{unions: make(map[reflect.Type]*union)}
}

// OneOfBuilder accumulates the variants of a discriminated union.
//
// See: https://spec.openapis.org/oas/v3.1.0#discriminator-object
type OneOfBuilder struct {
	registry *unionRegistry
	union    *union
}

func (r *unionRegistry) oneOf(base reflect.Type, property string) *OneOfBuilder {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Interface bases arrive as pointers: OneOf((*Shape)(nil), "kind").
	if base != nil && base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	if base == nil {
		u := &union{property: property, err: fmt.Errorf("%w: base value is nil", ErrInvalidUnion)}
		r.orphans = append(r.orphans, u)
		return &OneOfBuilder{registry: r, union: u}
	}

	u, ok := r.unions[base]
	if !ok {
		u = &union{base: base, property: property}
		if base.Kind() != reflect.Struct && base.Kind() != reflect.Interface {
			u.err = fmt.Errorf("%w: base %s must be a struct or interface", ErrInvalidUnion, base)
		} else if base.Name() == "" || base.PkgPath() == "" {
			u.err = fmt.Errorf("%w: base %s has no stable name", ErrInvalidUnion, base)
		}
		r.unions[base] = u
	}
	u.property = property
	return &OneOfBuilder{registry: r, union: u}
}

func (r *unionRegistry) lookup(t reflect.Type) *union {
	if r == nil || t == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.unions[t]
}

// validateAll reports the first registration problem across all unions,
// in a stable order.
func (r *unionRegistry) validateAll() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.orphans {
		if u.err != nil {
			return u.err
		}
	}

	bases := make([]reflect.Type, 0, len(r.unions))
	for t := range r.unions {
		bases = append(bases, t)
	}
	sort.Slice(bases, func(i, j int) bool { return bases[i].String() < bases[j].String() })

	for _, t := range bases {
		if err := r.unions[t].validate(); err != nil {
			return err
		}
	}
	return nil
}

func (u *union) validate() error {
	if u.err != nil {
		return u.err
	}
	if len(u.variants) == 0 {
		return fmt.Errorf("%w: %s has no variants", ErrInvalidUnion, u.base)
	}
	return nil
}

// Variant adds one union member. The discriminator value selects the
// variant on the wire and must be a string or an integer; the sample's
// type supplies the variant schema and must be a named struct.
//
// See: https://spec.openapis.org/oas/v3.1.0#discriminator-object
func (b *OneOfBuilder) Variant(value any, sample any) *OneOfBuilder {
	b.registry.mu.Lock()
	defer b.registry.mu.Unlock()

	u := b.union
	if u.err != nil {
		return b
	}

	switch value.(type) {
	case string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
	default:
		u.err = fmt.Errorf("%w: discriminator value %v (%T) must be a string or integer", ErrInvalidUnion, value, value)
		return b
	}

	if sample == nil {
		u.err = fmt.Errorf("%w: variant sample for value %v is nil", ErrInvalidUnion, value)
		return b
	}
	vt := reflect.TypeOf(sample)
	if vt.Kind() == reflect.Pointer {
		vt = vt.Elem()
	}
	if vt.Kind() != reflect.Struct {
		u.err = fmt.Errorf("%w: variant %s must be a struct", ErrInvalidUnion, vt)
		return b
	}
	if vt.Name() == "" || vt.PkgPath() == "" {
		u.err = fmt.Errorf("%w: variant %s has no stable name", ErrInvalidUnion, vt)
		return b
	}

	key := discriminatorKey(value)
	for _, existing := range u.variants {
		if discriminatorKey(existing.value) == key {
			u.err = fmt.Errorf("%w: duplicate discriminator value %v", ErrInvalidUnion, value)
			return b
		}
	}

	u.variants = append(u.variants, &unionVariant{value: value, typ: vt})
	return b
}

// unionContent builds the oneOf fragment for a registered union. Each
// branch carries the variant's full object schema plus a single-value enum
// for the discriminator property; the branch is tagged with the variant
// name so reference resolution can publish it under the base name joined
// with the variant name.
//
// See: https://spec.openapis.org/oas/v3.1.0#discriminator-object
// See: https://json-schema.org/draft/2020-12/json-schema-core#section-10.2.1.3 (oneOf)
func (s *session) unionContent(base reflect.Type, u *union) (*Schema, error) {
	if err := u.validate(); err != nil {
		return nil, err
	}

	baseName := s.gen.store.ensureName(base)

	oneOf := make([]*Schema, 0, len(u.variants))
	mapping := NewOrderedMap[string]()
	for _, v := range u.variants {
		variantName := s.gen.store.ensureName(v.typ)

		content, err := s.structContent(v.typ)
		if err != nil {
			return nil, err
		}
		if ex, ok := reflect.New(v.typ).Interface().(Exampler); ok {
			content.Example = ex.OpenAPIExample()
		}

		injectDiscriminator(content, u.property, v.value)
		content.refName = variantName

		oneOf = append(oneOf, content)
		mapping.Set(discriminatorKey(v.value), componentsPrefix+baseName+variantName)
	}

	return &Schema{
		OneOf: oneOf,
		Discriminator: &Discriminator{
			PropertyName: u.property,
			Mapping:      mapping,
		},
	}, nil
}

// injectDiscriminator adds the discriminator property to a variant schema
// as a single-value enum. A property the variant already declares keeps
// its position and is narrowed in place; otherwise the property is
// inserted first and made required.
func injectDiscriminator(content *Schema, property string, value any) {
	prop := &Schema{Enum: []any{value}}
	switch value.(type) {
	case string:
		prop.Type = TypeString("string")
	default:
		prop.Type = TypeString("integer")
	}

	if content.Properties == nil {
		content.Properties = NewOrderedMap[*Schema]()
	}

	if existing, ok := content.Properties.Get(property); ok {
		*existing = *prop
	} else {
		rebuilt := NewOrderedMap[*Schema]()
		rebuilt.Set(property, prop)
		for name, schema := range content.Properties.All() {
			rebuilt.Set(name, schema)
		}
		content.Properties = rebuilt
	}

	if !slices.Contains(content.Required, property) {
		content.Required = append([]string{property}, content.Required...)
	}
}

// discriminatorKey renders a discriminator value as its mapping key.
// Integer values use their decimal form.
//
// See: https://spec.openapis.org/oas/v3.1.0#discriminator-object (mapping)
func discriminatorKey(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
