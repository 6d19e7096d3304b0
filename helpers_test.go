package stablejson

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelper bundles the assertions the serializer tests use.
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// MustConfigure builds a Stringifier or stops the test.
func (h *TestHelper) MustConfigure(opts ...Option) *Stringifier {
	h.t.Helper()
	s, err := Configure(opts...)
	require.NoError(h.t, err)
	return s
}

// AssertJSON serializes value with s and compares the exact output.
func (h *TestHelper) AssertJSON(s *Stringifier, expected string, value any, msgAndArgs ...any) {
	h.t.Helper()
	got, err := s.Stringify(value)
	require.NoError(h.t, err, msgAndArgs...)
	assert.Equal(h.t, expected, got, msgAndArgs...)
}

// AssertJSONWith is AssertJSON with a replacer and indent.
func (h *TestHelper) AssertJSONWith(s *Stringifier, expected string, value any, r Replacer, indent Indent, msgAndArgs ...any) {
	h.t.Helper()
	got, err := s.StringifyWith(value, r, indent)
	require.NoError(h.t, err, msgAndArgs...)
	assert.Equal(h.t, expected, got, msgAndArgs...)
}

// AssertValidJSON checks that s is parseable by an independent parser.
func (h *TestHelper) AssertValidJSON(s string) {
	h.t.Helper()
	assert.True(h.t, jsonAPI.Valid([]byte(s)), "invalid JSON: %s", s)
}

func (h *TestHelper) AssertNoError(err error, msgAndArgs ...any) {
	h.t.Helper()
	assert.NoError(h.t, err, msgAndArgs...)
}

func (h *TestHelper) AssertErrorIs(err, target error, msgAndArgs ...any) {
	h.t.Helper()
	assert.ErrorIs(h.t, err, target, msgAndArgs...)
	assert.True(h.t, errors.Is(err, target), msgAndArgs...)
}

func (h *TestHelper) AssertEqual(expected, actual any, msgAndArgs ...any) {
	h.t.Helper()
	assert.Equal(h.t, expected, actual, msgAndArgs...)
}

// cyclicNode is a self-referencing struct shared by several tests.
type cyclicNode struct {
	Name     string        `json:"name"`
	Parent   *cyclicNode   `json:"parent,omitempty"`
	Children []*cyclicNode `json:"children,omitempty"`
}
