package stablejson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplacerFunc(t *testing.T) {
	helper := NewTestHelper(t)
	s := helper.MustConfigure()

	t.Run("TransformsValues", func(t *testing.T) {
		double := ReplacerFunc(func(_ string, v any, _ any) any {
			if n, ok := v.(int); ok {
				return n * 2
			}
			return v
		})
		helper.AssertJSONWith(s, `{"a":2,"b":[4,"x"]}`, map[string]any{"a": 1, "b": []any{2, "x"}}, double, "")
	})

	t.Run("RootCall", func(t *testing.T) {
		var keys []string
		var rootHolder any
		r := ReplacerFunc(func(k string, v any, holder any) any {
			keys = append(keys, k)
			if k == "" {
				rootHolder = holder
			}
			return v
		})
		helper.AssertJSONWith(s, `{"a":[1]}`, map[string]any{"a": []int{1}}, r, "")
		assert.Equal(t, []string{"", "a", "0"}, keys)

		obj, ok := rootHolder.(*Object)
		require.True(t, ok)
		assert.Equal(t, []string{""}, obj.Keys())
	})

	t.Run("ReplacesRoot", func(t *testing.T) {
		r := ReplacerFunc(func(k string, v any, _ any) any {
			if k == "" {
				return "replaced"
			}
			return v
		})
		helper.AssertJSONWith(s, `"replaced"`, 42, r, "")
	})

	t.Run("UndefinedDropsEntries", func(t *testing.T) {
		r := ReplacerFunc(func(k string, v any, _ any) any {
			if k == "secret" || k == "1" {
				return Undefined
			}
			return v
		})
		helper.AssertJSONWith(s, `{"list":["a",null,"c"],"name":"x"}`, map[string]any{
			"name":   "x",
			"secret": "hunter2",
			"list":   []string{"a", "b", "c"},
		}, r, "")
	})

	t.Run("UndefinedRoot", func(t *testing.T) {
		r := ReplacerFunc(func(string, any, any) any { return Undefined })
		got, err := s.StringifyWith(map[string]any{"a": 1}, r, "")
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("HolderIsContainer", func(t *testing.T) {
		m := map[string]any{"k": 1}
		r := ReplacerFunc(func(k string, v any, holder any) any {
			if k == "k" {
				h, ok := holder.(map[string]any)
				require.True(t, ok)
				assert.Equal(t, 1, h["k"])
			}
			return v
		})
		helper.AssertJSONWith(s, `{"k":1}`, m, r, "")
	})

	t.Run("SeesValuerResult", func(t *testing.T) {
		var seen any
		r := ReplacerFunc(func(k string, v any, _ any) any {
			if k == "t" {
				seen = v
			}
			return v
		})
		helper.AssertJSONWith(s, `{"t":"1.0C"}`, map[string]any{"t": celsius(1)}, r, "")
		assert.Equal(t, "1.0C", seen)
	})

	t.Run("NotCalledForTypedArrayElements", func(t *testing.T) {
		var keys []string
		r := ReplacerFunc(func(k string, v any, _ any) any {
			keys = append(keys, k)
			return v
		})
		helper.AssertJSONWith(s, `{"0":1,"1":2,"n":"x"}`, NewTypedArray(1, 2).Set("n", "x"), r, "")
		assert.Equal(t, []string{"", "n"}, keys)
	})

	t.Run("IntroducesCycle", func(t *testing.T) {
		m := map[string]any{"a": 1}
		r := ReplacerFunc(func(k string, v any, _ any) any {
			if k == "a" {
				return m
			}
			return v
		})
		helper.AssertJSONWith(s, `{"a":"[Circular]"}`, m, r, "")
	})

	t.Run("NilFunc", func(t *testing.T) {
		var r ReplacerFunc
		helper.AssertJSONWith(s, `{"a":1}`, map[string]any{"a": 1}, r, "")
	})
}

func TestKeyList(t *testing.T) {
	helper := NewTestHelper(t)
	s := helper.MustConfigure()

	t.Run("Build", func(t *testing.T) {
		l := Keys("x", 1, 1.5, true, nil, "x", uint8(2), []int{3}, 1)
		assert.Equal(t, []string{"x", "1", "1.5", "2"}, l.Strings())
		assert.Equal(t, 4, l.Len())
	})

	t.Run("FiltersAndOrders", func(t *testing.T) {
		helper.AssertJSONWith(s, `{"b":2,"a":1}`, map[string]int{"a": 1, "b": 2, "c": 3}, Keys("b", "a", "missing"), "")
	})

	t.Run("OverridesDeterministic", func(t *testing.T) {
		o := ObjectOf("a", 1, "b", 2)
		helper.AssertJSONWith(s, `{"b":2,"a":1}`, o, Keys("b", "a"), "")
	})

	t.Run("Nested", func(t *testing.T) {
		helper.AssertJSONWith(s, `{"a":{"a":1},"b":[{"b":1},3]}`, map[string]any{
			"a": map[string]any{"a": 1, "z": 2},
			"b": []any{map[string]any{"b": 1, "c": 2}, 3},
			"c": 9,
		}, Keys("a", "b"), "")
	})

	t.Run("Structs", func(t *testing.T) {
		type point struct {
			X int `json:"x"`
			Y int `json:"y"`
			Z int `json:"z"`
		}
		helper.AssertJSONWith(s, `{"z":3,"x":1}`, point{1, 2, 3}, Keys("z", "x"), "")
	})

	t.Run("TypedArrayIndices", func(t *testing.T) {
		arr := NewTypedArray(5, 6, 7).Set("n", "v")
		helper.AssertJSONWith(s, `{"2":7,"n":"v"}`, arr, Keys("2", "n", "9", "01"), "")
		helper.AssertJSONWith(s, `{"0":5}`, arr, Keys(0), "")
	})

	t.Run("NoMatch", func(t *testing.T) {
		helper.AssertJSONWith(s, `{}`, map[string]int{"c": 1}, Keys("a"), "")
		helper.AssertJSONWith(s, `{}`, map[string]int{"c": 1}, Keys(), "")
	})

	t.Run("Pretty", func(t *testing.T) {
		helper.AssertJSONWith(s, "{\n  \"b\": 2,\n  \"a\": 1\n}", map[string]int{"a": 1, "b": 2}, Keys("b", "a"), Spaces(2))
	})

	t.Run("NilKeyList", func(t *testing.T) {
		var l *KeyList
		helper.AssertJSONWith(s, `{"a":1,"b":2}`, map[string]int{"b": 2, "a": 1}, l, "")
	})
}
