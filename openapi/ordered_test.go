package openapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOrderedMapBasics(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		om := NewOrderedMap[int]()
		om.Set("a", 1).Set("b", 2)

		v, ok := om.Get("a")
		require.True(t, ok)
		assert.Equal(t, 1, v)

		v, ok = om.Get("b")
		require.True(t, ok)
		assert.Equal(t, 2, v)

		_, ok = om.Get("missing")
		assert.False(t, ok)
	})

	t.Run("has and len", func(t *testing.T) {
		om := NewOrderedMap[string]()
		assert.Equal(t, 0, om.Len())
		assert.False(t, om.Has("x"))

		om.Set("x", "y")
		assert.Equal(t, 1, om.Len())
		assert.True(t, om.Has("x"))
	})

	t.Run("keys in insertion order", func(t *testing.T) {
		om := NewOrderedMap[int]()
		om.Set("zebra", 1).Set("apple", 2).Set("mango", 3)
		assert.Equal(t, []string{"zebra", "apple", "mango"}, om.Keys())
	})

	t.Run("overwrite keeps position", func(t *testing.T) {
		om := NewOrderedMap[int]()
		om.Set("first", 1).Set("second", 2).Set("third", 3)
		om.Set("first", 10)

		assert.Equal(t, []string{"first", "second", "third"}, om.Keys())
		v, _ := om.Get("first")
		assert.Equal(t, 10, v)
	})

	t.Run("nil receiver is safe to read", func(t *testing.T) {
		var om *OrderedMap[int]
		assert.Equal(t, 0, om.Len())
		assert.False(t, om.Has("a"))
		_, ok := om.Get("a")
		assert.False(t, ok)
		assert.Empty(t, om.Keys())
	})

	t.Run("set on zero value allocates", func(t *testing.T) {
		var om OrderedMap[int]
		om.Set("a", 1)
		assert.True(t, om.Has("a"))
	})

	t.Run("all stops on early break", func(t *testing.T) {
		om := NewOrderedMap[int]()
		om.Set("a", 1).Set("b", 2).Set("c", 3)

		var seen []string
		for k := range om.All() {
			seen = append(seen, k)
			if len(seen) == 2 {
				break
			}
		}
		assert.Equal(t, []string{"a", "b"}, seen)
	})
}

func TestOrderedMapJSON(t *testing.T) {
	t.Run("marshal preserves insertion order", func(t *testing.T) {
		om := NewOrderedMap[int]()
		om.Set("zebra", 1).Set("apple", 2).Set("mango", 3)

		data, err := json.Marshal(om)
		require.NoError(t, err)
		assert.Equal(t, `{"zebra":1,"apple":2,"mango":3}`, string(data))
	})

	t.Run("marshal empty map", func(t *testing.T) {
		om := NewOrderedMap[int]()
		data, err := json.Marshal(om)
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(data))
	})

	t.Run("marshal escapes keys", func(t *testing.T) {
		om := NewOrderedMap[int]()
		om.Set(`with"quote`, 1)
		data, err := json.Marshal(om)
		require.NoError(t, err)
		assert.Equal(t, `{"with\"quote":1}`, string(data))
	})

	t.Run("unmarshal preserves key order", func(t *testing.T) {
		var om OrderedMap[int]
		require.NoError(t, json.Unmarshal([]byte(`{"c":3,"a":1,"b":2}`), &om))
		assert.Equal(t, []string{"c", "a", "b"}, om.Keys())

		v, ok := om.Get("a")
		require.True(t, ok)
		assert.Equal(t, 1, v)
	})

	t.Run("unmarshal rejects non-object", func(t *testing.T) {
		var om OrderedMap[int]
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &om))
	})

	t.Run("round trip with struct values", func(t *testing.T) {
		om := NewOrderedMap[*Schema]()
		om.Set("name", &Schema{Type: TypeString("string")})
		om.Set("age", &Schema{Type: TypeString("integer")})

		data, err := json.Marshal(om)
		require.NoError(t, err)

		var back OrderedMap[*Schema]
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, []string{"name", "age"}, back.Keys())

		age, ok := back.Get("age")
		require.True(t, ok)
		assert.Equal(t, TypeString("integer"), age.Type)
	})
}

func TestOrderedMapYAML(t *testing.T) {
	t.Run("marshal preserves insertion order", func(t *testing.T) {
		om := NewOrderedMap[int]()
		om.Set("zebra", 1).Set("apple", 2).Set("mango", 3)

		data, err := yaml.Marshal(om)
		require.NoError(t, err)
		assert.Equal(t, "zebra: 1\napple: 2\nmango: 3\n", string(data))
	})

	t.Run("unmarshal preserves key order", func(t *testing.T) {
		var om OrderedMap[int]
		require.NoError(t, yaml.Unmarshal([]byte("c: 3\na: 1\nb: 2\n"), &om))
		assert.Equal(t, []string{"c", "a", "b"}, om.Keys())
	})

	t.Run("unmarshal rejects non-mapping", func(t *testing.T) {
		var om OrderedMap[int]
		assert.Error(t, yaml.Unmarshal([]byte("- 1\n- 2\n"), &om))
	})

	t.Run("round trip with schema values", func(t *testing.T) {
		om := NewOrderedMap[*Schema]()
		om.Set("id", &Schema{Type: TypeString("string"), Format: "uuid"})
		om.Set("count", &Schema{Type: TypeString("integer")})

		data, err := yaml.Marshal(om)
		require.NoError(t, err)

		var back OrderedMap[*Schema]
		require.NoError(t, yaml.Unmarshal(data, &back))
		assert.Equal(t, []string{"id", "count"}, back.Keys())

		id, ok := back.Get("id")
		require.True(t, ok)
		assert.Equal(t, "uuid", id.Format)
	})
}
