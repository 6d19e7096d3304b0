package stablejson

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestConcurrentStringify(t *testing.T) {
	s, err := Configure(WithMaximumBreadth(50))
	require.NoError(t, err)

	shared := familyTree()
	shared.Children = append(shared.Children, &cyclicNode{Name: "second", Parent: shared})
	want, err := s.Stringify(shared)
	require.NoError(t, err)

	const workers = 16
	results := make([]string, workers)

	g, ctx := errgroup.WithContext(context.Background())
	for i := range workers {
		g.Go(func() error {
			for range 200 {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				got, err := s.StringifyWith(shared, nil, Spaces(i%2*2))
				if err != nil {
					return err
				}
				results[i] = got
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, got := range results {
		if i%2 == 0 {
			assert.Equal(t, want, got)
		} else {
			assert.Equal(t, want, compactOf(t, got))
		}
	}
}

func TestConcurrentPackageLevel(t *testing.T) {
	var g errgroup.Group
	g.SetLimit(4)
	for i := range 32 {
		g.Go(func() error {
			_, err := Stringify(map[string]any{"worker": i, "tree": familyTree()})
			return err
		})
	}
	require.NoError(t, g.Wait())
}

// compactOf strips the indentation from pretty output of this package, whose
// string values never contain newlines in these tests.
func compactOf(t *testing.T, pretty string) string {
	t.Helper()
	out, err := Stringify(parse(t, pretty))
	require.NoError(t, err)
	return out
}
