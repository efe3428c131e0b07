package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/speakeasy-api/openapi/sequencedmap"
	"gopkg.in/yaml.v3"
)

// OrderedMap is a string-keyed map that preserves insertion order through
// JSON and YAML serialization. Property declaration order is part of the
// document layout contract, so schema properties, discriminator mappings,
// and media type entries all use this instead of a plain Go map.
type OrderedMap[V any] struct {
	m *sequencedmap.Map[string, V]
}

// NewOrderedMap returns an empty ordered map.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{m: sequencedmap.New[string, V]()}
}

// Set stores value under key. New keys append to the iteration order.
// Returns the map for chaining.
func (om *OrderedMap[V]) Set(key string, value V) *OrderedMap[V] {
	if om.m == nil {
		om.m = sequencedmap.New[string, V]()
	}
	om.m.Set(key, value)
	return om
}

// Get returns the value stored under key.
func (om *OrderedMap[V]) Get(key string) (V, bool) {
	if om == nil || om.m == nil {
		var zero V
		return zero, false
	}
	return om.m.Get(key)
}

// Has reports whether key is present.
func (om *OrderedMap[V]) Has(key string) bool {
	_, ok := om.Get(key)
	return ok
}

// Len returns the number of stored keys.
func (om *OrderedMap[V]) Len() int {
	if om == nil || om.m == nil {
		return 0
	}
	return om.m.Len()
}

// All returns an iterator over key/value pairs in insertion order.
func (om *OrderedMap[V]) All() iter.Seq2[string, V] {
	if om == nil || om.m == nil {
		return func(func(string, V) bool) {}
	}
	return om.m.All()
}

// Keys returns the keys in insertion order.
func (om *OrderedMap[V]) Keys() []string {
	keys := make([]string, 0, om.Len())
	for k := range om.All() {
		keys = append(keys, k)
	}
	return keys
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
func (om *OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for k, v := range om.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order.
func (om *OrderedMap[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object for ordered map, got %v", tok)
	}

	om.m = sequencedmap.New[string, V]()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected string key in ordered map, got %v", keyTok)
		}

		var value V
		if err := dec.Decode(&value); err != nil {
			return err
		}
		om.m.Set(key, value)
	}

	_, err = dec.Token()
	return err
}

// MarshalYAML encodes the map as a YAML mapping with keys in insertion order.
// yaml.v3 sorts plain Go map keys, which would destroy declaration order.
func (om *OrderedMap[V]) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range om.All() {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(v); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping, preserving key order.
func (om *OrderedMap[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("unsupported YAML node kind %d for ordered map", node.Kind)
	}
	om.m = sequencedmap.New[string, V]()
	for i := 0; i+1 < len(node.Content); i += 2 {
		var value V
		if err := node.Content[i+1].Decode(&value); err != nil {
			return err
		}
		om.m.Set(node.Content[i].Value, value)
	}
	return nil
}
