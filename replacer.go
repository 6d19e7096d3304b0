package stablejson

import (
	"reflect"
	"strconv"

	"github.com/samber/lo"

	"github.com/cybergodev/stablejson/internal"
)

// Replacer controls which entries are emitted and what values they carry.
// It is implemented by ReplacerFunc and KeyList only.
type Replacer interface {
	isReplacer()
}

// ReplacerFunc is called for every candidate entry, including the root (key
// ""), after any Valuer conversion. holder is the container the entry belongs
// to; for the root it is an *Object holding the value under "". The returned
// value is serialized instead. Returning Undefined drops a mapping entry and
// turns a sequence element into null.
type ReplacerFunc func(key string, value any, holder any) any

func (ReplacerFunc) isReplacer() {}

// KeyList is an allow-list of mapping keys that also fixes their output order,
// overriding deterministic sorting. It does not apply to sequence elements.
type KeyList struct {
	keys []string
}

func (*KeyList) isReplacer() {}

// Keys builds a KeyList. Strings are kept as they are, numbers are converted
// to their JSON form, and everything else is ignored. Duplicates are
// dropped, keeping the first occurrence.
func Keys(entries ...any) *KeyList {
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if k, ok := keyListEntry(e); ok {
			keys = append(keys, k)
		}
	}
	return &KeyList{keys: lo.Uniq(keys)}
}

// Len returns the number of distinct keys.
func (l *KeyList) Len() int { return len(l.keys) }

// Strings returns a copy of the keys.
func (l *KeyList) Strings() []string { return append([]string(nil), l.keys...) }

func keyListEntry(e any) (string, bool) {
	switch v := e.(type) {
	case string:
		return v, true
	case nil:
		return "", false
	}
	rv := reflect.ValueOf(e)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if !internal.IsFinite(f) {
			return "", false
		}
		return string(internal.AppendFloat(nil, f, rv.Type().Bits())), true
	}
	return "", false
}
