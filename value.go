package stablejson

// Undefined is the value that is never serialized. Inside a mapping the entry
// is dropped, inside a sequence it becomes null, and at the top level
// Stringify returns an empty string. ReplacerFunc implementations return it to
// remove an entry.
var Undefined = undefined{}

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Valuer is implemented by values that provide their own JSON representation.
// JSONValue receives the key under which the value is stored ("" at the root,
// the decimal index inside a sequence). The result is serialized in place of
// the receiver and is not converted again, even if it is itself a Valuer.
type Valuer interface {
	JSONValue(key string) any
}

// ValuerFunc adapts a plain function to Valuer.
type ValuerFunc func(key string) any

func (f ValuerFunc) JSONValue(key string) any { return f(key) }

// Indent selects pretty printing. The empty Indent is compact output.
type Indent string

// maxIndentWidth matches the cap JSON.stringify puts on the space argument.
const maxIndentWidth = 10

// Spaces returns an Indent of n spaces, clamped to [0, 10].
func Spaces(n int) Indent {
	if n <= 0 {
		return ""
	}
	if n > maxIndentWidth {
		n = maxIndentWidth
	}
	return Indent("          "[:n])
}

// Tab indents with a single tab per level.
const Tab Indent = "\t"

// normalize keeps at most the first 10 characters of in.
func (in Indent) normalize() string {
	n := 0
	for i := range in {
		if n == maxIndentWidth {
			return string(in[:i])
		}
		n++
	}
	return string(in)
}
