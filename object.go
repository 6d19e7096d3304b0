package stablejson

// Object is a keyed mapping that remembers insertion order. With
// deterministic output disabled its keys are emitted in that order; otherwise
// they are sorted like any other mapping.
//
// An Object is not safe for concurrent mutation. It is identified by pointer,
// so an Object stored inside itself is detected as a cycle.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// ObjectOf builds an Object from alternating key/value arguments.
// It panics if a key is not a string or a value is missing.
func ObjectOf(pairs ...any) *Object {
	if len(pairs)%2 != 0 {
		panic("stablejson: ObjectOf requires key/value pairs")
	}
	o := &Object{
		keys:   make([]string, 0, len(pairs)/2),
		values: make(map[string]any, len(pairs)/2),
	}
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic("stablejson: ObjectOf key must be a string")
		}
		o.Set(key, pairs[i+1])
	}
	return o
}

// Set stores value under key. A new key is appended; an existing key keeps its position.
func (o *Object) Set(key string, value any) *Object {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Delete removes key.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns a copy of the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}
