package stablejson

import (
	"math"
	"reflect"
	"slices"

	"github.com/samber/lo"
)

const (
	keyCircularValue  = "circularValue"
	keyBigInt         = "bigint"
	keyDeterministic  = "deterministic"
	keyMaximumDepth   = "maximumDepth"
	keyMaximumBreadth = "maximumBreadth"
)

var knownOptionKeys = []string{
	keyCircularValue,
	keyBigInt,
	keyDeterministic,
	keyMaximumDepth,
	keyMaximumBreadth,
}

// ParseOptions converts loosely typed settings, as decoded from JSON, YAML or
// TOML, into Options. Absent keys keep their defaults. Unknown keys and values
// of the wrong type are reported as *ConfigurationError.
//
//   - circularValue: a string (the marker text), nil (emit null) or a CircularValue
//   - bigint, deterministic: bool
//   - maximumDepth, maximumBreadth: a positive integer, an integral float, or +Inf for no limit
func ParseOptions(settings map[string]any) ([]Option, error) {
	unknown := lo.Filter(lo.Keys(settings), func(k string, _ int) bool {
		return !lo.Contains(knownOptionKeys, k)
	})
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, newConfigurationError(unknown[0], settings[unknown[0]], "unknown option")
	}

	opts := make([]Option, 0, len(settings))
	for _, key := range knownOptionKeys {
		raw, ok := settings[key]
		if !ok {
			continue
		}
		var (
			opt Option
			err error
		)
		switch key {
		case keyCircularValue:
			opt, err = parseCircularValue(raw)
		case keyBigInt:
			opt, err = parseBool(key, raw, WithBigInt)
		case keyDeterministic:
			opt, err = parseBool(key, raw, WithDeterministic)
		case keyMaximumDepth:
			opt, err = parseLimit(key, raw, WithMaximumDepth)
		case keyMaximumBreadth:
			opt, err = parseLimit(key, raw, WithMaximumBreadth)
		}
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

func parseCircularValue(raw any) (Option, error) {
	switch v := raw.(type) {
	case nil:
		return WithCircularValue(CircularNull), nil
	case string:
		return WithCircularValue(CircularText(v)), nil
	case CircularValue:
		if v.kind == circularInvalid {
			break
		}
		return WithCircularValue(v), nil
	}
	return nil, newConfigurationError(keyCircularValue, raw, "must be a string, null or a CircularValue")
}

func parseBool(key string, raw any, with func(bool) Option) (Option, error) {
	b, ok := raw.(bool)
	if !ok {
		return nil, newConfigurationError(key, raw, "must be a boolean")
	}
	return with(b), nil
}

func parseLimit(key string, raw any, with func(int) Option) (Option, error) {
	n, ok := toLimit(raw)
	if !ok || n < 1 {
		return nil, newConfigurationError(key, raw, "must be a positive integer")
	}
	return with(n), nil
}

// toLimit accepts every integer kind and integral floats. +Inf maps to Unbounded.
func toLimit(raw any) (int, bool) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(max(rv.Int(), 0)), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt {
			return Unbounded, true
		}
		return int(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		switch {
		case math.IsInf(f, 1):
			return Unbounded, true
		case math.IsNaN(f) || math.IsInf(f, -1) || f != math.Trunc(f):
			return 0, false
		case f >= math.MaxInt:
			return Unbounded, true
		}
		return int(f), true
	}
	return 0, false
}
