package stablejson

import (
	"reflect"
	"strconv"

	"golang.org/x/exp/constraints"

	"github.com/cybergodev/stablejson/internal"
)

// Number is the element constraint of TypedArray.
type Number interface {
	constraints.Integer | constraints.Float
}

// TypedArray is a fixed-width numeric buffer. It serializes as a mapping whose
// first keys are the element indices ("0", "1", ...) in order, followed by any
// named properties attached with Set. Non-finite float elements emit null.
type TypedArray[T Number] struct {
	data  []T
	props *Object
}

// NewTypedArray wraps data without copying it.
func NewTypedArray[T Number](data ...T) *TypedArray[T] {
	return &TypedArray[T]{data: data}
}

// Set attaches a named property emitted after the elements.
func (a *TypedArray[T]) Set(key string, value any) *TypedArray[T] {
	if a.props == nil {
		a.props = NewObject()
	}
	a.props.Set(key, value)
	return a
}

// Len returns the number of elements.
func (a *TypedArray[T]) Len() int { return len(a.data) }

// Data returns the underlying slice.
func (a *TypedArray[T]) Data() []T { return a.data }

// numericBuffer is the type-erased view the engine works with.
type numericBuffer interface {
	bufferLen() int
	appendElem(dst []byte, i int) []byte
	namedProps() *Object
}

func (a *TypedArray[T]) bufferLen() int { return len(a.data) }

func (a *TypedArray[T]) namedProps() *Object { return a.props }

func (a *TypedArray[T]) appendElem(dst []byte, i int) []byte {
	v := a.data[i]
	var one T = 1
	switch {
	case one/2 != 0:
		f := float64(v)
		if !internal.IsFinite(f) {
			return append(dst, "null"...)
		}
		bits := 64
		if reflect.TypeFor[T]().Size() == 4 {
			bits = 32
		}
		return internal.AppendFloat(dst, f, bits)
	case v < 0:
		return internal.AppendInt(dst, int64(v))
	default:
		return internal.AppendUint(dst, uint64(v))
	}
}

// bufferIndex parses key as an element index of b.
func bufferIndex(b numericBuffer, key string) (int, bool) {
	if key == "" || key[0] < '0' || key[0] > '9' || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= b.bufferLen() {
		return 0, false
	}
	return i, true
}
