package openapi

import (
	"context"
	"io"
	"mime/multipart"
	"reflect"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// schemaKey identifies one cached schema: the Go type it was generated
// from, the component name it resolves to (empty for inline fragments),
// and the parameter binding fingerprint when per-binding constraints are
// embedded in the schema itself. The name is part of the key, not derived
// from the type alone, so hand-built entries can be registered under a
// fixed name for well-known types.
type schemaKey struct {
	typ   reflect.Type
	name  string
	param string
}

// storeEntry is one committed schema. Entries are immutable once
// committed; builds clone before mutating.
type storeEntry struct {
	schema    *Schema
	name      string
	shareable bool
	typ       reflect.Type
}

// binaryTypes are stream and file upload types whose schemas never go
// through reflection: they map directly to string/binary.
var binaryTypes = map[reflect.Type]bool{
	reflect.TypeOf((*multipart.FileHeader)(nil)): true,
	reflect.TypeOf((*io.PipeReader)(nil)):        true,
	reflect.TypeOf((*io.Reader)(nil)).Elem():     true,
	reflect.TypeOf((*io.ReadCloser)(nil)).Elem(): true,
	reflect.TypeOf((*multipart.File)(nil)).Elem(): true,
}

// binaryCollectionTypes are the common multi-upload types, mapped directly
// to an array of string/binary items.
var binaryCollectionTypes = map[reflect.Type]bool{
	reflect.TypeOf([]*multipart.FileHeader(nil)): true,
	reflect.TypeOf([]multipart.File(nil)):        true,
}

func binarySchema() *Schema {
	return &Schema{Type: TypeString("string"), Format: "binary"}
}

func binaryCollectionSchema() *Schema {
	return &Schema{Type: TypeString("array"), Items: binarySchema()}
}

// schemaStore memoizes generated schemas for one Spec. Committed entries
// are complete and immutable, so the store grows to the set of distinct
// keys in use and stays there. A failed or cancelled build session commits
// nothing: a retry never observes a partial entry.
//
// The store also owns the type naming table, so component names stay
// stable across builds and concurrent sessions agree on them.
type schemaStore struct {
	mu        sync.RWMutex
	entries   map[schemaKey]*storeEntry
	byName    map[string]*storeEntry
	typeNames map[reflect.Type]string
	nameTypes map[string]reflect.Type

	flights   singleflight.Group
	flightIDs map[schemaKey]string
	nextID    int
}

func newSchemaStore() *schemaStore {
	st := &schemaStore{
		entries:   make(map[schemaKey]*storeEntry),
		byName:    make(map[string]*storeEntry),
		typeNames: make(map[reflect.Type]string),
		nameTypes: make(map[string]reflect.Type),
		flightIDs: make(map[schemaKey]string),
	}
	for t := range binaryTypes {
		st.entries[schemaKey{typ: t}] = &storeEntry{schema: binarySchema(), typ: t}
	}
	for t := range binaryCollectionTypes {
		st.entries[schemaKey{typ: t}] = &storeEntry{schema: binaryCollectionSchema(), typ: t}
	}
	return st
}

// getOrCreate returns the committed entry for key, running build at most
// once per key across concurrent callers. build returns the root entry
// plus any nested named schemas completed in the same session; all of them
// commit atomically, and only on success. Waiters abort when their context
// is cancelled.
func (st *schemaStore) getOrCreate(ctx context.Context, key schemaKey, build func() (*storeEntry, map[schemaKey]*storeEntry, error)) (*storeEntry, error) {
	if e, ok := st.committed(key); ok {
		return e, nil
	}

	ch := st.flights.DoChan(st.flightKey(key), func() (any, error) {
		// A previous flight may have committed between our miss and the
		// flight starting.
		if e, ok := st.committed(key); ok {
			return e, nil
		}
		root, nested, err := build()
		if err != nil {
			return nil, err
		}
		st.commit(key, root, nested)
		return root, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*storeEntry), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (st *schemaStore) committed(key schemaKey) (*storeEntry, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	e, ok := st.entries[key]
	return e, ok
}

// lookupName returns the committed shareable entry published under name.
func (st *schemaStore) lookupName(name string) (*storeEntry, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	e, ok := st.byName[name]
	return e, ok
}

// commit installs a session's entries. The root key is protected by
// single-flight; nested entries are first-writer-wins since two sessions
// with different roots may have built the same nested type concurrently.
func (st *schemaStore) commit(rootKey schemaKey, root *storeEntry, nested map[schemaKey]*storeEntry) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.entries[rootKey]; !ok {
		st.entries[rootKey] = root
		if root.shareable && root.name != "" {
			st.byName[root.name] = root
		}
	}
	for k, e := range nested {
		if _, ok := st.entries[k]; ok {
			continue
		}
		st.entries[k] = e
		if e.shareable && e.name != "" {
			if _, taken := st.byName[e.name]; !taken {
				st.byName[e.name] = e
			}
		}
	}
}

// register installs a hand-built schema under a fixed component name,
// bypassing generation. Later requests for t resolve to this entry.
func (st *schemaStore) register(t reflect.Type, name string, schema *Schema) {
	st.mu.Lock()
	defer st.mu.Unlock()

	e := &storeEntry{schema: schema.Clone(), name: name, shareable: true, typ: t}
	st.entries[schemaKey{typ: t, name: name}] = e
	st.byName[name] = e
	if t != nil {
		st.typeNames[t] = name
	}
	st.nameTypes[name] = t
}

// ensureName returns the stable component name for t, assigning one on
// first use. Assignment is shared across concurrent build sessions, so a
// type keeps one name for the lifetime of the Spec.
func (st *schemaStore) ensureName(t reflect.Type) string {
	st.mu.Lock()
	defer st.mu.Unlock()

	if name, ok := st.typeNames[t]; ok {
		return name
	}

	// Anonymous and predeclared types have no stable name and stay inline.
	simple := sanitizeSchemaName(t.Name())
	if simple == "" || t.PkgPath() == "" {
		return ""
	}

	name := simple
	if _, taken := st.nameTypes[name]; taken {
		name = pkgPrefix(t.PkgPath()) + simple
	}
	if _, taken := st.nameTypes[name]; taken {
		base := name
		for i := 2; ; i++ {
			name = base + strconv.Itoa(i)
			if _, stillTaken := st.nameTypes[name]; !stillTaken {
				break
			}
		}
	}

	st.typeNames[t] = name
	st.nameTypes[name] = t
	return name
}

// flightKey interns a unique single-flight key per schema key. Composite
// fingerprints built from type strings are not collision-free across
// packages, so identity comes from the map, not from formatting.
func (st *schemaStore) flightKey(key schemaKey) string {
	st.mu.Lock()
	defer st.mu.Unlock()

	if id, ok := st.flightIDs[key]; ok {
		return id
	}
	st.nextID++
	id := strconv.Itoa(st.nextID)
	st.flightIDs[key] = id
	return id
}
