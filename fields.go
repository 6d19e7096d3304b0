package stablejson

import (
	"reflect"
	"strings"
	"sync"
)

// structField is the cached encoding metadata of one exported struct field.
type structField struct {
	name      string
	index     []int
	tagged    bool
	omitEmpty bool
	omitZero  bool
}

// fieldCache maps reflect.Type to []structField. Entries never change once
// computed, so the map only grows with the number of distinct struct types.
var fieldCache sync.Map

func cachedFields(t reflect.Type) []structField {
	if f, ok := fieldCache.Load(t); ok {
		return f.([]structField)
	}
	f, _ := fieldCache.LoadOrStore(t, typeFields(t))
	return f.([]structField)
}

// typeFields walks t and its embedded structs breadth first. A promoted name
// is kept only when a single field owns it at the shallowest depth (a tagged
// field beats untagged ones), which mirrors encoding/json.
func typeFields(t reflect.Type) []structField {
	type candidate struct {
		structField
		depth int
	}

	type level struct {
		typ   reflect.Type
		index []int
	}

	var all []candidate
	visited := map[reflect.Type]bool{}
	current := []level{{typ: t}}

	for depth := 0; len(current) > 0; depth++ {
		var next []level
		for _, lv := range current {
			if visited[lv.typ] {
				continue
			}
			visited[lv.typ] = true

			for i := 0; i < lv.typ.NumField(); i++ {
				sf := lv.typ.Field(i)
				index := make([]int, len(lv.index)+1)
				copy(index, lv.index)
				index[len(lv.index)] = i

				tag := sf.Tag.Get("json")
				if tag == "-" {
					continue
				}
				name, opts := parseTag(tag)

				if sf.Anonymous {
					ft := sf.Type
					if ft.Kind() == reflect.Pointer {
						ft = ft.Elem()
					}
					if !sf.IsExported() && (ft.Kind() != reflect.Struct || sf.Type.Kind() == reflect.Pointer) {
						continue
					}
					if name == "" && ft.Kind() == reflect.Struct {
						next = append(next, level{typ: ft, index: index})
						continue
					}
				} else if !sf.IsExported() {
					continue
				}

				tagged := name != ""
				if name == "" {
					name = sf.Name
				}
				all = append(all, candidate{
					structField: structField{
						name:      name,
						index:     index,
						tagged:    tagged,
						omitEmpty: opts.contains("omitempty"),
						omitZero:  opts.contains("omitzero"),
					},
					depth: depth,
				})
			}
		}
		current = next
	}

	byName := make(map[string][]int, len(all))
	for i, c := range all {
		byName[c.name] = append(byName[c.name], i)
	}

	fields := make([]structField, 0, len(all))
	for i, c := range all {
		if !dominates(c.depth, c.tagged, byName[c.name], func(j int) (int, bool) {
			return all[j].depth, all[j].tagged
		}, i) {
			continue
		}
		fields = append(fields, c.structField)
	}

	// Declaration order: shallow fields interleave with promoted ones by index path.
	sortByIndex(fields)
	return fields
}

// dominates reports whether candidate self is the single winner among owners.
func dominates(depth int, tagged bool, owners []int, get func(int) (int, bool), self int) bool {
	for _, j := range owners {
		if j == self {
			continue
		}
		d, t := get(j)
		switch {
		case d < depth:
			return false
		case d > depth:
			continue
		case t && !tagged:
			return false
		case t == tagged:
			return false
		}
	}
	return true
}

func sortByIndex(fields []structField) {
	for i := 1; i < len(fields); i++ {
		current := fields[i]
		pos := i
		for pos > 0 && indexLess(current.index, fields[pos-1].index) {
			fields[pos] = fields[pos-1]
			pos--
		}
		fields[pos] = current
	}
}

func indexLess(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

type tagOptions string

func parseTag(tag string) (string, tagOptions) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, tagOptions(opts)
}

func (o tagOptions) contains(option string) bool {
	s := string(o)
	for s != "" {
		var opt string
		opt, s, _ = strings.Cut(s, ",")
		if opt == option {
			return true
		}
	}
	return false
}

// fieldByIndex follows index through embedded pointers. It reports false when
// an embedded pointer on the way is nil.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

type zeroer interface {
	IsZero() bool
}

func isZeroValue(v reflect.Value) bool {
	if v.CanInterface() {
		if z, ok := v.Interface().(zeroer); ok {
			if v.Kind() == reflect.Pointer && v.IsNil() {
				return true
			}
			return z.IsZero()
		}
	}
	return v.IsZero()
}
