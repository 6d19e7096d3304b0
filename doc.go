// Package stablejson is a deterministic, cycle-safe JSON serializer.
//
// Output is stable across runs: mapping keys are sorted byte-wise unless
// deterministic output is disabled, and Go maps are always sorted. Circular
// references are replaced by a marker ("[Circular]" by default) instead of
// recursing forever, and optional depth and breadth limits bound the output
// for pathological inputs.
//
// # Basic Usage
//
// The package-level functions use the default configuration:
//
//	s, err := stablejson.Stringify(map[string]any{"b": 1, "a": 2})
//	// {"a":2,"b":1}
//
// Pretty printing and replacers:
//
//	s, err := stablejson.StringifyWith(v, stablejson.Keys("id", "name"), stablejson.Spaces(2))
//
// # Configuration
//
// Configure builds an independent, immutable Stringifier:
//
//	sj, err := stablejson.Configure(
//		stablejson.WithCircularValue(stablejson.CircularError),
//		stablejson.WithMaximumDepth(8),
//		stablejson.WithMaximumBreadth(100),
//	)
//	s, err := sj.Stringify(v)
//
// Options can also be read from a map (ParseOptions) or a TOML, YAML or JSON
// file (LoadOptions).
//
// # Values
//
//   - nil, nil pointers, nil maps and nil slices emit null
//   - NaN and ±Inf emit null
//   - *big.Int emits a bare integer literal, or is dropped when WithBigInt(false)
//   - []byte emits base64 text
//   - json.Marshaler output is embedded after validation
//   - Object keeps insertion order for WithDeterministic(false)
//   - TypedArray emits its elements under index keys, then named properties
//   - funcs, chans, complex numbers and Undefined are dropped from mappings
//     and emit null inside sequences
//
// A Stringifier is safe for concurrent use. Recursion depth is bounded only
// by the goroutine stack unless WithMaximumDepth is set.
package stablejson
