package stablejson

import (
	"bytes"
	"encoding"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"reflect"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/cybergodev/stablejson/internal"
)

var (
	objectType   = reflect.TypeFor[*Object]()
	anySliceType = reflect.TypeFor[[]any]()
	anyMapType   = reflect.TypeFor[map[string]any]()

	marshalerType     = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

const (
	arrayPlaceholder  = `"[Array]"`
	objectPlaceholder = `"[Object]"`
	truncatedKey      = "..."
)

// identity is the structural identity of a container on the traversal stack.
// A nil typ means the value has no identity (a struct or array held by value)
// and cannot be part of a cycle on its own.
type identity struct {
	ptr uintptr
	n   int
	typ reflect.Type
}

type mapEntry struct {
	key   string
	value any
}

// member is one candidate entry of a mapping. elem >= 0 marks an element of
// a numeric buffer, which is formatted directly.
type member struct {
	key   string
	value any
	elem  int
}

// encodeState is owned by a single call. Nothing in it outlives the call.
type encodeState struct {
	opts      *options
	buf       []byte
	replaceFn ReplacerFunc
	keyList   []string
	byKeyList bool
	spacer    string
	stack     []identity
	path      []internal.PathElem
	stats     callStats
}

// encodeEntry appends the value stored under key in holder and reports
// whether anything was appended. A false result means undefined.
func (e *encodeState) encodeEntry(key string, value any, holder any, depth int, indentation string) (bool, error) {
	if v, ok := value.(Valuer); ok && !isNilPointer(value) {
		value = v.JSONValue(key)
	}
	if e.replaceFn != nil {
		value = e.replaceFn(key, value, holder)
	}
	return e.encodeValue(value, depth, indentation)
}

func (e *encodeState) encodeValue(value any, depth int, indentation string) (bool, error) {
	switch v := value.(type) {
	case nil:
		e.buf = append(e.buf, "null"...)
	case undefined:
		return false, nil
	case string:
		e.buf = internal.AppendQuoted(e.buf, v)
	case bool:
		e.buf = strconv.AppendBool(e.buf, v)
	case float64:
		e.appendFloat(v, 64)
	case float32:
		e.appendFloat(float64(v), 32)
	case int:
		e.buf = internal.AppendInt(e.buf, int64(v))
	case int64:
		e.buf = internal.AppendInt(e.buf, v)
	case int32:
		e.buf = internal.AppendInt(e.buf, int64(v))
	case int16:
		e.buf = internal.AppendInt(e.buf, int64(v))
	case int8:
		e.buf = internal.AppendInt(e.buf, int64(v))
	case uint:
		e.buf = internal.AppendUint(e.buf, uint64(v))
	case uint64:
		e.buf = internal.AppendUint(e.buf, v)
	case uint32:
		e.buf = internal.AppendUint(e.buf, uint64(v))
	case uint16:
		e.buf = internal.AppendUint(e.buf, uint64(v))
	case uint8:
		e.buf = internal.AppendUint(e.buf, uint64(v))
	case json.Number:
		return true, e.appendNumber(v)
	case *big.Int:
		return e.appendBigInt(v), nil
	case big.Int:
		return e.appendBigInt(&v), nil
	case *Object:
		if v == nil {
			e.buf = append(e.buf, "null"...)
			return true, nil
		}
		return e.encodeObject(v, depth, indentation)
	case numericBuffer:
		if isNilPointer(v) {
			e.buf = append(e.buf, "null"...)
			return true, nil
		}
		return e.encodeBuffer(v, depth, indentation)
	case []any:
		if v == nil {
			e.buf = append(e.buf, "null"...)
			return true, nil
		}
		id := identity{ptr: reflect.ValueOf(v).Pointer(), n: len(v), typ: anySliceType}
		return e.encodeSequence(len(v), func(i int) any { return v[i] }, v, id, depth, indentation)
	case map[string]any:
		if v == nil {
			e.buf = append(e.buf, "null"...)
			return true, nil
		}
		entries := make([]mapEntry, 0, len(v))
		for k, val := range v {
			entries = append(entries, mapEntry{key: k, value: val})
		}
		id := identity{ptr: reflect.ValueOf(v).Pointer(), typ: anyMapType}
		return e.encodeMapping(entries, nil, v, id, true, depth, indentation)
	case json.Marshaler:
		if isNilPointer(v) {
			e.buf = append(e.buf, "null"...)
			return true, nil
		}
		return true, e.appendRaw(v, indentation)
	case encoding.TextMarshaler:
		if isNilPointer(v) {
			e.buf = append(e.buf, "null"...)
			return true, nil
		}
		text, err := v.MarshalText()
		if err != nil {
			return false, newMarshalerError("MarshalText", e.pathString(), err)
		}
		e.buf = internal.AppendQuoted(e.buf, string(text))
	default:
		return e.encodeReflect(reflect.ValueOf(value), value, depth, indentation)
	}
	return true, nil
}

func (e *encodeState) encodeReflect(rv reflect.Value, value any, depth int, indentation string) (bool, error) {
	switch rv.Kind() {
	case reflect.Bool:
		e.buf = strconv.AppendBool(e.buf, rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.buf = internal.AppendInt(e.buf, rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.buf = internal.AppendUint(e.buf, rv.Uint())
	case reflect.Float32, reflect.Float64:
		e.appendFloat(rv.Float(), rv.Type().Bits())
	case reflect.String:
		e.buf = internal.AppendQuoted(e.buf, rv.String())
	case reflect.Pointer:
		if rv.IsNil() {
			e.buf = append(e.buf, "null"...)
			return true, nil
		}
		elem := rv.Elem()
		switch elem.Kind() {
		case reflect.Struct:
			id := identity{ptr: rv.Pointer(), typ: elem.Type()}
			return e.encodeStruct(elem, value, id, depth, indentation)
		case reflect.Array:
			id := identity{ptr: rv.Pointer(), typ: elem.Type()}
			return e.encodeArray(elem, value, id, depth, indentation)
		case reflect.Pointer, reflect.Interface:
			// Chains of pointers and interfaces can loop without passing
			// through a container, so they take part in cycle detection.
			id := identity{ptr: rv.Pointer(), typ: rv.Type()}
			if e.onStack(id) {
				return e.circular()
			}
			e.stack = append(e.stack, id)
			defer e.pop()
		}
		return e.encodeValue(elem.Interface(), depth, indentation)
	case reflect.Struct:
		return e.encodeStruct(rv, value, identity{}, depth, indentation)
	case reflect.Array:
		return e.encodeArray(rv, value, identity{}, depth, indentation)
	case reflect.Slice:
		if rv.IsNil() {
			e.buf = append(e.buf, "null"...)
			return true, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			e.appendBytes(rv.Bytes())
			return true, nil
		}
		id := identity{ptr: rv.Pointer(), n: rv.Len(), typ: rv.Type()}
		return e.encodeSequence(rv.Len(), func(i int) any { return interfaceOf(rv.Index(i)) }, value, id, depth, indentation)
	case reflect.Map:
		if rv.IsNil() {
			e.buf = append(e.buf, "null"...)
			return true, nil
		}
		entries, ok, err := e.mapEntries(rv)
		if err != nil || !ok {
			return false, err
		}
		id := identity{ptr: rv.Pointer(), typ: rv.Type()}
		return e.encodeMapping(entries, nil, value, id, true, depth, indentation)
	case reflect.Interface:
		if rv.IsNil() {
			e.buf = append(e.buf, "null"...)
			return true, nil
		}
		return e.encodeValue(rv.Elem().Interface(), depth, indentation)
	default:
		// func, chan, complex, unsafe.Pointer and invalid values
		return false, nil
	}
	return true, nil
}

func (e *encodeState) encodeObject(o *Object, depth int, indentation string) (bool, error) {
	entries := make([]mapEntry, len(o.keys))
	for i, k := range o.keys {
		entries[i] = mapEntry{key: k, value: o.values[k]}
	}
	id := identity{ptr: reflect.ValueOf(o).Pointer(), typ: objectType}
	return e.encodeMapping(entries, nil, o, id, false, depth, indentation)
}

func (e *encodeState) encodeBuffer(b numericBuffer, depth int, indentation string) (bool, error) {
	var entries []mapEntry
	if props := b.namedProps(); props != nil {
		entries = make([]mapEntry, len(props.keys))
		for i, k := range props.keys {
			entries[i] = mapEntry{key: k, value: props.values[k]}
		}
	}
	rv := reflect.ValueOf(b)
	id := identity{ptr: rv.Pointer(), typ: rv.Type()}
	return e.encodeMapping(entries, b, b, id, false, depth, indentation)
}

func (e *encodeState) encodeStruct(rv reflect.Value, holder any, id identity, depth int, indentation string) (bool, error) {
	fields := cachedFields(rv.Type())
	entries := make([]mapEntry, 0, len(fields))
	for i := range fields {
		f := &fields[i]
		fv, ok := fieldByIndex(rv, f.index)
		if !ok || !fv.CanInterface() {
			continue
		}
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if f.omitZero && isZeroValue(fv) {
			continue
		}
		entries = append(entries, mapEntry{key: f.name, value: interfaceOf(fv)})
	}
	return e.encodeMapping(entries, nil, holder, id, false, depth, indentation)
}

func (e *encodeState) encodeArray(rv reflect.Value, holder any, id identity, depth int, indentation string) (bool, error) {
	return e.encodeSequence(rv.Len(), func(i int) any { return interfaceOf(rv.Index(i)) }, holder, id, depth, indentation)
}

// encodeSequence emits n elements. Undefined elements become null so that
// indices stay aligned.
func (e *encodeState) encodeSequence(n int, at func(int) any, holder any, id identity, depth int, indentation string) (bool, error) {
	if e.onStack(id) {
		return e.circular()
	}
	if n == 0 {
		e.buf = append(e.buf, "[]"...)
		return true, nil
	}
	if depth >= e.opts.maximumDepth {
		e.stats.depthCuts++
		e.buf = append(e.buf, arrayPlaceholder...)
		return true, nil
	}

	e.stack = append(e.stack, id)
	defer e.pop()

	inner := indentation
	pretty := e.spacer != ""
	e.buf = append(e.buf, '[')
	if pretty {
		inner += e.spacer
		e.buf = append(e.buf, '\n')
		e.buf = append(e.buf, inner...)
	}

	limit := min(n, e.opts.maximumBreadth)
	for i := 0; i < limit; i++ {
		if i > 0 {
			e.appendJoin(inner)
		}
		e.path = append(e.path, internal.PathElem{Index: i, IsIdx: true})
		ok, err := e.encodeEntry(strconv.Itoa(i), at(i), holder, depth+1, inner)
		e.path = e.path[:len(e.path)-1]
		if err != nil {
			return false, err
		}
		if !ok {
			e.buf = append(e.buf, "null"...)
		}
	}
	if n > limit {
		e.stats.breadthCuts++
		e.appendJoin(inner)
		e.buf = internal.AppendQuoted(e.buf, truncatedKey+" "+itemCount(n-limit)+" not stringified")
	}

	if pretty {
		e.buf = append(e.buf, '\n')
		e.buf = append(e.buf, indentation...)
	}
	e.buf = append(e.buf, ']')
	return true, nil
}

// encodeMapping emits entries, and the elements of buffer first when it is
// non-nil. sorted forces key order even when deterministic output is off;
// Go maps have no insertion order worth keeping.
func (e *encodeState) encodeMapping(entries []mapEntry, buffer numericBuffer, holder any, id identity, sorted bool, depth int, indentation string) (bool, error) {
	if e.onStack(id) {
		return e.circular()
	}
	members := e.members(entries, buffer, sorted)
	if len(members) == 0 {
		e.buf = append(e.buf, "{}"...)
		return true, nil
	}
	if depth >= e.opts.maximumDepth {
		e.stats.depthCuts++
		e.buf = append(e.buf, objectPlaceholder...)
		return true, nil
	}

	e.stack = append(e.stack, id)
	defer e.pop()

	inner := indentation
	colon := ":"
	pretty := e.spacer != ""
	if pretty {
		inner += e.spacer
		colon = ": "
	}

	e.buf = append(e.buf, '{')
	wrote := false
	limit := min(len(members), e.opts.maximumBreadth)
	for i := 0; i < limit; i++ {
		m := &members[i]
		mark := len(e.buf)
		if wrote {
			e.buf = append(e.buf, ',')
		}
		if pretty {
			e.buf = append(e.buf, '\n')
			e.buf = append(e.buf, inner...)
		}
		e.buf = internal.AppendQuoted(e.buf, m.key)
		e.buf = append(e.buf, colon...)

		if m.elem >= 0 {
			e.buf = buffer.appendElem(e.buf, m.elem)
			wrote = true
			continue
		}

		e.path = append(e.path, internal.PathElem{Key: m.key})
		ok, err := e.encodeEntry(m.key, m.value, holder, depth+1, inner)
		e.path = e.path[:len(e.path)-1]
		if err != nil {
			return false, err
		}
		if !ok {
			e.buf = e.buf[:mark]
			continue
		}
		wrote = true
	}
	if len(members) > limit {
		e.stats.breadthCuts++
		if wrote {
			e.buf = append(e.buf, ',')
		}
		if pretty {
			e.buf = append(e.buf, '\n')
			e.buf = append(e.buf, inner...)
		}
		e.buf = internal.AppendQuoted(e.buf, truncatedKey)
		e.buf = append(e.buf, colon...)
		e.buf = internal.AppendQuoted(e.buf, itemCount(len(members)-limit)+" not stringified")
		wrote = true
	}

	if pretty && wrote {
		e.buf = append(e.buf, '\n')
		e.buf = append(e.buf, indentation...)
	}
	e.buf = append(e.buf, '}')
	return true, nil
}

// members lists the candidate entries of a mapping in output order.
func (e *encodeState) members(entries []mapEntry, buffer numericBuffer, sorted bool) []member {
	if e.byKeyList {
		var index map[string]int
		if len(entries) > 0 {
			index = make(map[string]int, len(entries))
			for i, entry := range entries {
				index[entry.key] = i
			}
		}
		members := make([]member, 0, len(e.keyList))
		for _, k := range e.keyList {
			if buffer != nil {
				if i, ok := bufferIndex(buffer, k); ok {
					members = append(members, member{key: k, elem: i})
					continue
				}
			}
			if i, ok := index[k]; ok {
				members = append(members, member{key: k, value: entries[i].value, elem: -1})
			}
		}
		return members
	}

	n := len(entries)
	if buffer != nil {
		n += buffer.bufferLen()
	}
	members := make([]member, 0, n)
	if buffer != nil {
		for i := 0; i < buffer.bufferLen(); i++ {
			members = append(members, member{key: strconv.Itoa(i), elem: i})
		}
	}
	if sorted || e.opts.deterministic {
		internal.SortByKey(entries, func(m mapEntry) string { return m.key })
	}
	for _, entry := range entries {
		members = append(members, member{key: entry.key, value: entry.value, elem: -1})
	}
	return members
}

// mapEntries converts the keys of a Go map the way encoding/json does. It
// reports false for key types that have no JSON form.
func (e *encodeState) mapEntries(rv reflect.Value) ([]mapEntry, bool, error) {
	kt := rv.Type().Key()
	textKeys := kt.Kind() != reflect.String && kt.Implements(reflect.TypeFor[encoding.TextMarshaler]())
	switch kt.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
	default:
		if !textKeys {
			return nil, false, nil
		}
	}

	entries := make([]mapEntry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		var key string
		switch {
		case k.Kind() == reflect.String:
			key = k.String()
		case textKeys:
			if k.Kind() == reflect.Pointer && k.IsNil() {
				break
			}
			text, err := k.Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return nil, false, newMarshalerError("MarshalText", e.pathString(), err)
			}
			key = string(text)
		case k.CanInt():
			key = strconv.FormatInt(k.Int(), 10)
		default:
			key = strconv.FormatUint(k.Uint(), 10)
		}
		entries = append(entries, mapEntry{key: key, value: iter.Value().Interface()})
	}
	return entries, true, nil
}

func (e *encodeState) appendJoin(indentation string) {
	e.buf = append(e.buf, ',')
	if e.spacer != "" {
		e.buf = append(e.buf, '\n')
		e.buf = append(e.buf, indentation...)
	}
}

func (e *encodeState) appendFloat(f float64, bits int) {
	if !internal.IsFinite(f) {
		e.buf = append(e.buf, "null"...)
		return
	}
	e.buf = internal.AppendFloat(e.buf, f, bits)
}

func (e *encodeState) appendBigInt(v *big.Int) bool {
	if v == nil {
		e.buf = append(e.buf, "null"...)
		return true
	}
	if !e.opts.bigint {
		return false
	}
	e.buf = v.Append(e.buf, 10)
	return true
}

func (e *encodeState) appendNumber(n json.Number) error {
	s := string(n)
	if s == "" {
		s = "0"
	}
	if !internal.IsValidNumber(s) {
		return &Error{
			Op:      "encode_number",
			Path:    e.pathString(),
			Message: "invalid number literal " + strconv.Quote(s),
			Err:     ErrInvalidRawJSON,
		}
	}
	e.buf = append(e.buf, s...)
	return nil
}

func (e *encodeState) appendBytes(b []byte) {
	e.buf = append(e.buf, '"')
	e.buf = base64.StdEncoding.AppendEncode(e.buf, b)
	e.buf = append(e.buf, '"')
}

// appendRaw embeds MarshalJSON output, compacted or re-indented to the
// current level.
func (e *encodeState) appendRaw(m json.Marshaler, indentation string) error {
	raw, err := m.MarshalJSON()
	if err != nil {
		return newMarshalerError("MarshalJSON", e.pathString(), err)
	}
	out := bytes.NewBuffer(e.buf)
	if e.spacer == "" {
		err = json.Compact(out, raw)
	} else {
		err = json.Indent(out, bytes.TrimSpace(raw), indentation, e.spacer)
	}
	if err != nil {
		return &Error{
			Op:      "MarshalJSON",
			Path:    e.pathString(),
			Message: err.Error(),
			Err:     errors.Mark(err, ErrInvalidRawJSON),
		}
	}
	e.buf = out.Bytes()
	return nil
}

func (e *encodeState) onStack(id identity) bool {
	if id.typ == nil {
		return false
	}
	for i := range e.stack {
		if e.stack[i] == id {
			return true
		}
	}
	return false
}

func (e *encodeState) pop() {
	e.stack = e.stack[:len(e.stack)-1]
}

func (e *encodeState) circular() (bool, error) {
	e.stats.circular++
	switch e.opts.circular.kind {
	case circularOmit:
		return false, nil
	case circularError:
		return false, &CircularStructureError{Path: e.pathString()}
	}
	e.buf = append(e.buf, e.opts.circularJSON...)
	return true, nil
}

func (e *encodeState) pathString() string {
	return internal.FormatPath(e.path)
}

func itemCount(n int) string {
	if n == 1 {
		return "1 item"
	}
	return strconv.Itoa(n) + " items"
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// interfaceOf returns the value held by v. Addressable values whose pointer
// type carries MarshalJSON or MarshalText are returned by address so that
// pointer-receiver methods apply, as they do in encoding/json.
func interfaceOf(v reflect.Value) any {
	if v.CanAddr() && v.Kind() != reflect.Pointer {
		t := v.Type()
		if t.Implements(marshalerType) || t.Implements(textMarshalerType) {
			return v.Interface()
		}
		pt := reflect.PointerTo(t)
		if pt.Implements(marshalerType) || pt.Implements(textMarshalerType) {
			return v.Addr().Interface()
		}
	}
	return v.Interface()
}
