package stablejson

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidOption is the cause of every ConfigurationError.
	ErrInvalidOption = errors.New("invalid option value")

	// ErrCircularStructure is the cause of every CircularStructureError.
	ErrCircularStructure = errors.New("converting circular structure to JSON")

	// ErrMarshaler marks a failure returned by a MarshalJSON or MarshalText method.
	ErrMarshaler = errors.New("marshaler failed")

	// ErrInvalidRawJSON marks MarshalJSON output that is not valid JSON.
	ErrInvalidRawJSON = errors.New("invalid raw JSON")
)

// ConfigurationError reports an option that Configure or ParseOptions rejected.
type ConfigurationError struct {
	Option  string
	Value   any
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("stablejson: option %q: %s (got %T %v)", e.Option, e.Message, e.Value, e.Value)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidOption
}

func newConfigurationError(option string, value any, message string) error {
	return &ConfigurationError{Option: option, Value: value, Message: message}
}

// CircularStructureError is returned when a cycle is found and the
// Stringifier was configured with CircularError.
type CircularStructureError struct {
	// Path locates the back-reference, e.g. $.parent.children[0].parent.
	Path string
}

func (e *CircularStructureError) Error() string {
	return fmt.Sprintf("stablejson: %s: back-reference at %s", ErrCircularStructure, e.Path)
}

func (e *CircularStructureError) Unwrap() error {
	return ErrCircularStructure
}

// Error describes a failure while serializing a particular node.
type Error struct {
	Op      string // operation that failed
	Path    string // key path of the node
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("stablejson: %s failed at %s: %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("stablejson: %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error for error chain support
func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets the standard library errors.Is see the marks on Err.
func (e *Error) Is(target error) bool {
	return e.Err != nil && errors.Is(e.Err, target)
}

// newMarshalerError wraps err from a user marshaler so that both
// ErrMarshaler and err itself match with errors.Is.
func newMarshalerError(op, path string, err error) error {
	return &Error{
		Op:      op,
		Path:    path,
		Message: err.Error(),
		Err:     errors.Mark(err, ErrMarshaler),
	}
}
