package openapi

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// componentsPrefix is the reference prefix for component schemas.
//
// See: https://spec.openapis.org/oas/v3.1.0#reference-object
const componentsPrefix = "#/components/schemas/"

// resolveState rewrites reference placeholders into $ref strings against a
// components map. Placeholder targets missing from the map are
// materialized from the schema cache; a name neither present nor cached
// fails the build.
type resolveState struct {
	comps map[string]*Schema
	store *schemaStore
}

// isBarePlaceholder reports whether s is a contentless reference
// placeholder. Bare placeholders rewrite to a $ref in place; tagged oneOf
// branches carry content and are synthesized into components instead.
func (s *Schema) isBarePlaceholder() bool {
	return s.refName != "" && s.Ref == "" && s.Type.IsZero() &&
		s.Properties == nil && s.Items == nil &&
		len(s.AllOf) == 0 && len(s.OneOf) == 0 && len(s.AnyOf) == 0
}

// visitChildSchemas calls fn for every direct subschema of s in a fixed
// order: defs, array keywords, object keywords, composition keywords,
// conditionals, content schema. Nil children are skipped.
func visitChildSchemas(s *Schema, fn func(*Schema) error) error {
	visit := func(sub *Schema) error {
		if sub == nil {
			return nil
		}
		return fn(sub)
	}

	for _, name := range slices.Sorted(maps.Keys(s.Defs)) {
		if err := visit(s.Defs[name]); err != nil {
			return err
		}
	}

	if err := visit(s.Items); err != nil {
		return err
	}
	for _, sub := range s.PrefixItems {
		if err := visit(sub); err != nil {
			return err
		}
	}
	if err := visit(s.Contains); err != nil {
		return err
	}
	if err := visit(s.UnevaluatedItems); err != nil {
		return err
	}

	if s.Properties != nil {
		for _, sub := range s.Properties.All() {
			if err := visit(sub); err != nil {
				return err
			}
		}
	}
	for _, name := range slices.Sorted(maps.Keys(s.PatternProperties)) {
		if err := visit(s.PatternProperties[name]); err != nil {
			return err
		}
	}
	if err := visit(s.AdditionalProperties); err != nil {
		return err
	}
	if err := visit(s.UnevaluatedProperties); err != nil {
		return err
	}
	if err := visit(s.PropertyNames); err != nil {
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(s.DependentSchemas)) {
		if err := visit(s.DependentSchemas[name]); err != nil {
			return err
		}
	}

	for _, sub := range s.AllOf {
		if err := visit(sub); err != nil {
			return err
		}
	}
	for _, sub := range s.OneOf {
		if err := visit(sub); err != nil {
			return err
		}
	}
	for _, sub := range s.AnyOf {
		if err := visit(sub); err != nil {
			return err
		}
	}
	if err := visit(s.Not); err != nil {
		return err
	}

	if err := visit(s.If); err != nil {
		return err
	}
	if err := visit(s.Then); err != nil {
		return err
	}
	if err := visit(s.Else); err != nil {
		return err
	}

	return visit(s.ContentSchema)
}

// rewrite resolves every placeholder in the schema tree rooted at s.
// Schemas that already carry $ref are left untouched, which makes the pass
// idempotent and keeps user-supplied references intact. Tagged oneOf
// branches are synthesized before the generic child walk; by the time the
// walk reaches them they are plain references.
//
// See: https://json-schema.org/draft/2020-12/json-schema-core#section-8.2.3 ($ref)
func (rs *resolveState) rewrite(s *Schema, enclosing string) error {
	if s == nil {
		return nil
	}
	if s.Ref != "" {
		return nil
	}

	if s.isBarePlaceholder() {
		name := s.refName
		if err := rs.materialize(name); err != nil {
			return err
		}
		*s = Schema{Ref: componentsPrefix + name}
		return nil
	}

	if err := rs.rewriteOneOf(s, enclosing); err != nil {
		return err
	}

	return visitChildSchemas(s, func(sub *Schema) error {
		return rs.rewrite(sub, enclosing)
	})
}

// rewriteOneOf synthesizes tagged oneOf branches. A branch tagged with a
// variant name keeps its full content: the content is published as a
// component named after the enclosing union, and the branch slot becomes
// a $ref to it. Untagged and bare branches are left for the generic walk.
//
// See: https://spec.openapis.org/oas/v3.1.0#discriminator-object
func (rs *resolveState) rewriteOneOf(s *Schema, enclosing string) error {
	for _, branch := range s.OneOf {
		if branch == nil || branch.refName == "" || branch.isBarePlaceholder() {
			continue
		}
		name := rs.branchName(s, branch, enclosing)
		if _, ok := rs.comps[name]; !ok {
			content := branch.Clone()
			content.refName = ""
			rs.comps[name] = content
			if err := rs.rewrite(content, name); err != nil {
				return err
			}
		}
		*branch = Schema{Ref: componentsPrefix + name}
	}
	return nil
}

// branchName derives the component name for a synthesized oneOf branch.
// The discriminator mapping is authoritative when present: the branch's
// single-value enum selects its mapping entry, whose reference carries the
// final name. Without a mapping the name joins the enclosing component
// name with the branch tag.
func (rs *resolveState) branchName(parent, branch *Schema, enclosing string) string {
	d := parent.Discriminator
	if d != nil && d.Mapping != nil && d.PropertyName != "" {
		if prop, ok := branch.Properties.Get(d.PropertyName); ok && len(prop.Enum) == 1 {
			if ref, ok := d.Mapping.Get(discriminatorKey(prop.Enum[0])); ok {
				if name, found := strings.CutPrefix(ref, componentsPrefix); found {
					return name
				}
			}
		}
	}
	return enclosing + branch.refName
}

// materialize ensures the named component exists in the components map,
// cloning its content out of the schema cache on first use.
func (rs *resolveState) materialize(name string) error {
	if _, ok := rs.comps[name]; ok {
		return nil
	}
	if rs.store != nil {
		if entry, ok := rs.store.lookupName(name); ok {
			content := entry.schema.Clone()
			rs.comps[name] = content
			return rs.rewrite(content, name)
		}
	}
	return fmt.Errorf("%w: %s%s", ErrUnresolvedReference, componentsPrefix, name)
}

// methodOperation pairs an operation with its lowercase HTTP method.
type methodOperation struct {
	method string
	op     *Operation
}

// pathItemOperations returns the item's operations in canonical method
// order: get, put, post, delete, options, head, patch, trace.
func pathItemOperations(pi *PathItem) []methodOperation {
	var out []methodOperation
	for _, mo := range []methodOperation{
		{"get", pi.Get},
		{"put", pi.Put},
		{"post", pi.Post},
		{"delete", pi.Delete},
		{"options", pi.Options},
		{"head", pi.Head},
		{"patch", pi.Patch},
		{"trace", pi.Trace},
	} {
		if mo.op != nil {
			out = append(out, mo)
		}
	}
	return out
}

// resolveDocument publishes the working set as components.schemas and
// rewrites every reference placeholder in the document to point at it.
// Component contents resolve first so that variants synthesized from
// shared unions exist before operations reference them, then operations
// in deterministic order: paths lexicographically, methods canonically,
// webhooks last.
func resolveDocument(doc *Document, working map[string]*Schema, store *schemaStore) error {
	rs := &resolveState{comps: working, store: store}

	for _, name := range slices.Sorted(maps.Keys(working)) {
		if err := rs.rewrite(working[name], name); err != nil {
			return err
		}
	}

	for _, path := range slices.Sorted(maps.Keys(doc.Paths)) {
		if err := rs.rewritePathItem(doc.Paths[path]); err != nil {
			return err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(doc.Webhooks)) {
		if err := rs.rewritePathItem(doc.Webhooks[name]); err != nil {
			return err
		}
	}

	if len(rs.comps) > 0 {
		if doc.Components == nil {
			doc.Components = &Components{}
		}
		doc.Components.Schemas = rs.comps
	}
	return nil
}

func (rs *resolveState) rewritePathItem(pi *PathItem) error {
	if pi == nil {
		return nil
	}
	for _, p := range pi.Parameters {
		if err := rs.rewriteParameter(p); err != nil {
			return err
		}
	}
	for _, mo := range pathItemOperations(pi) {
		if err := rs.rewriteOperation(mo.op); err != nil {
			return err
		}
	}
	return nil
}

// rewriteOperation visits an operation's schema carriers in document
// order: parameters, request body, responses by status code, callbacks.
func (rs *resolveState) rewriteOperation(op *Operation) error {
	for _, p := range op.Parameters {
		if err := rs.rewriteParameter(p); err != nil {
			return err
		}
	}

	if op.RequestBody != nil {
		if err := rs.rewriteContent(op.RequestBody.Content); err != nil {
			return err
		}
	}

	for _, status := range slices.Sorted(maps.Keys(op.Responses)) {
		resp := op.Responses[status]
		if resp == nil {
			continue
		}
		for _, name := range slices.Sorted(maps.Keys(resp.Headers)) {
			h := resp.Headers[name]
			if h == nil {
				continue
			}
			if err := rs.rewrite(h.Schema, ""); err != nil {
				return err
			}
			if err := rs.rewriteContent(h.Content); err != nil {
				return err
			}
		}
		if err := rs.rewriteContent(resp.Content); err != nil {
			return err
		}
	}

	for _, name := range slices.Sorted(maps.Keys(op.Callbacks)) {
		cb := op.Callbacks[name]
		if cb == nil {
			continue
		}
		for _, expr := range slices.Sorted(maps.Keys(*cb)) {
			if err := rs.rewritePathItem((*cb)[expr]); err != nil {
				return err
			}
		}
	}

	return nil
}

func (rs *resolveState) rewriteParameter(p *Parameter) error {
	if p == nil {
		return nil
	}
	if err := rs.rewrite(p.Schema, ""); err != nil {
		return err
	}
	return rs.rewriteContent(p.Content)
}

func (rs *resolveState) rewriteContent(content *OrderedMap[*MediaType]) error {
	if content == nil {
		return nil
	}
	for _, mt := range content.All() {
		if mt == nil {
			continue
		}
		if err := rs.rewrite(mt.Schema, ""); err != nil {
			return err
		}
	}
	return nil
}
