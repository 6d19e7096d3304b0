package stablejson

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaximumDepth(t *testing.T) {
	helper := NewTestHelper(t)

	t.Run("One", func(t *testing.T) {
		s := helper.MustConfigure(WithMaximumDepth(1))
		helper.AssertJSON(s, `{"a":"[Object]","c":"[Array]","d":1}`, map[string]any{
			"a": map[string]any{"b": 1},
			"c": []any{1},
			"d": 1,
		})
		helper.AssertJSON(s, `["[Array]","[Object]",2]`, []any{[]int{1}, struct{ A int }{1}, 2})
	})

	t.Run("Two", func(t *testing.T) {
		s := helper.MustConfigure(WithMaximumDepth(2))
		helper.AssertJSON(s, `{"a":{"b":"[Object]"}}`, map[string]any{
			"a": map[string]any{"b": map[string]any{"c": 1}},
		})
	})

	t.Run("EmptyContainersAreNotReplaced", func(t *testing.T) {
		s := helper.MustConfigure(WithMaximumDepth(1))
		helper.AssertJSON(s, `{"a":{},"b":[]}`, map[string]any{"a": map[string]any{}, "b": []any{}})
	})

	t.Run("TypedArrayAndObject", func(t *testing.T) {
		s := helper.MustConfigure(WithMaximumDepth(1))
		helper.AssertJSON(s, `{"o":"[Object]","t":"[Object]"}`, map[string]any{
			"o": ObjectOf("k", 1),
			"t": NewTypedArray(1, 2),
		})
	})

	t.Run("Pretty", func(t *testing.T) {
		s := helper.MustConfigure(WithMaximumDepth(1))
		helper.AssertJSONWith(s, "{\n  \"a\": \"[Object]\"\n}", map[string]any{"a": map[string]any{"b": 1}}, nil, Spaces(2))
	})

	t.Run("TenLevelsCutAtFive", func(t *testing.T) {
		s := helper.MustConfigure(WithMaximumDepth(5))
		v := map[string]any{"leaf": true}
		for range 10 {
			v = map[string]any{"n": v}
		}
		expected := strings.Repeat(`{"n":`, 5) + `"[Object]"` + strings.Repeat("}", 5)
		helper.AssertJSON(s, expected, v)
	})

	t.Run("Unbounded", func(t *testing.T) {
		s := helper.MustConfigure(WithMaximumDepth(Unbounded))
		var v any = "leaf"
		expected := `"leaf"`
		for range 50 {
			v = []any{v}
			expected = "[" + expected + "]"
		}
		helper.AssertJSON(s, expected, v)
	})
}

func TestMaximumBreadth(t *testing.T) {
	helper := NewTestHelper(t)
	s := helper.MustConfigure(WithMaximumBreadth(2))

	t.Run("Sequence", func(t *testing.T) {
		helper.AssertJSON(s, `[1,2]`, []int{1, 2})
		helper.AssertJSON(s, `[1,2,"... 1 item not stringified"]`, []int{1, 2, 3})
		helper.AssertJSON(s, `[1,2,"... 3 items not stringified"]`, []int{1, 2, 3, 4, 5})
	})

	t.Run("Mapping", func(t *testing.T) {
		helper.AssertJSON(s, `{"a":1,"b":2}`, map[string]int{"a": 1, "b": 2})
		helper.AssertJSON(s, `{"a":1,"b":2,"...":"1 item not stringified"}`, map[string]int{"a": 1, "b": 2, "c": 3})
		helper.AssertJSON(s, `{"a":1,"b":2,"...":"2 items not stringified"}`, map[string]int{"d": 4, "c": 3, "b": 2, "a": 1})
	})

	t.Run("HundredKeysCutAtTen", func(t *testing.T) {
		ten := helper.MustConfigure(WithMaximumBreadth(10))
		m := make(map[string]int, 100)
		for i := range 100 {
			m[fmt.Sprintf("k%03d", i)] = i
		}
		var b strings.Builder
		b.WriteByte('{')
		for i := range 10 {
			fmt.Fprintf(&b, `"k%03d":%d,`, i, i)
		}
		b.WriteString(`"...":"90 items not stringified"}`)
		helper.AssertJSON(ten, b.String(), m)

		list := make([]int, 100)
		helper.AssertJSON(ten, `[0,0,0,0,0,0,0,0,0,0,"... 90 items not stringified"]`, list)
	})

	t.Run("UndefinedMembersCount", func(t *testing.T) {
		helper.AssertJSON(s, `{"b":1,"...":"1 item not stringified"}`, map[string]any{
			"a": func() {},
			"b": 1,
			"c": 2,
		})
	})

	t.Run("TypedArray", func(t *testing.T) {
		helper.AssertJSON(s, `{"0":1,"1":2,"...":"2 items not stringified"}`, NewTypedArray(1, 2, 3).Set("x", 1))
	})

	t.Run("Nested", func(t *testing.T) {
		helper.AssertJSON(s, `[[1,2,"... 1 item not stringified"],2,"... 1 item not stringified"]`,
			[]any{[]int{1, 2, 3}, 2, 3})
	})

	t.Run("Pretty", func(t *testing.T) {
		one := helper.MustConfigure(WithMaximumBreadth(1))
		helper.AssertJSONWith(one, "[\n  1,\n  \"... 1 item not stringified\"\n]", []int{1, 2}, nil, Spaces(2))
		helper.AssertJSONWith(one, "{\n  \"a\": 1,\n  \"...\": \"1 item not stringified\"\n}", map[string]int{"a": 1, "b": 2}, nil, Spaces(2))
	})

	t.Run("WithKeyList", func(t *testing.T) {
		one := helper.MustConfigure(WithMaximumBreadth(1))
		helper.AssertJSONWith(one, `{"c":3,"...":"1 item not stringified"}`,
			map[string]int{"a": 1, "b": 2, "c": 3}, Keys("c", "a", "missing"), "")
	})
}

func TestLimitValidation(t *testing.T) {
	tests := []struct {
		name   string
		opt    Option
		option string
	}{
		{"ZeroDepth", WithMaximumDepth(0), "maximumDepth"},
		{"NegativeDepth", WithMaximumDepth(-3), "maximumDepth"},
		{"ZeroBreadth", WithMaximumBreadth(0), "maximumBreadth"},
		{"InvalidCircularValue", WithCircularValue(CircularValue{}), "circularValue"},
		{"NilLogger", WithLogger(nil), "logger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Configure(tt.opt)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, errors.Is(err, ErrInvalidOption))

			var cerr *ConfigurationError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.option, cerr.Option)
		})
	}

	t.Run("NilOptionIgnored", func(t *testing.T) {
		_, err := Configure(nil, WithMaximumDepth(1))
		assert.NoError(t, err)
	})
}
