package stablejson

import (
	"math"

	"go.uber.org/zap"

	"github.com/cybergodev/stablejson/internal"
)

// Unbounded disables a depth or breadth limit.
const Unbounded = math.MaxInt

// DefaultCircularText is substituted for back-references unless configured otherwise.
const DefaultCircularText = "[Circular]"

type circularKind uint8

const (
	circularInvalid circularKind = iota
	circularText
	circularNull
	circularOmit
	circularError
)

// CircularValue selects what replaces a back-reference to an open ancestor.
// The zero value is invalid; use CircularText or one of the sentinels.
type CircularValue struct {
	kind circularKind
	text string
}

var (
	// CircularNull emits the literal null.
	CircularNull = CircularValue{kind: circularNull}
	// CircularOmit drops the mapping entry; inside a sequence the slot becomes null.
	CircularOmit = CircularValue{kind: circularOmit}
	// CircularError fails the call with a *CircularStructureError.
	CircularError = CircularValue{kind: circularError}
)

// CircularText emits text as a quoted JSON string.
func CircularText(text string) CircularValue {
	return CircularValue{kind: circularText, text: text}
}

func (c CircularValue) String() string {
	switch c.kind {
	case circularText:
		return string(internal.AppendQuoted(nil, c.text))
	case circularNull:
		return "null"
	case circularOmit:
		return "omit"
	case circularError:
		return "error"
	}
	return "invalid"
}

// options is the resolved, immutable configuration of a Stringifier.
type options struct {
	circular       CircularValue
	circularJSON   string // quoted text or "null"; empty for omit/error
	bigint         bool
	deterministic  bool
	maximumDepth   int
	maximumBreadth int
	logger         *zap.Logger
	metrics        *Metrics
}

// Option configures a Stringifier. Invalid values are reported by Configure.
type Option func(*options) error

// WithCircularValue sets the back-reference substitute.
func WithCircularValue(c CircularValue) Option {
	return func(o *options) error {
		if c.kind == circularInvalid {
			return newConfigurationError("circularValue", c, "must be CircularText(...), CircularNull, CircularOmit or CircularError")
		}
		o.circular = c
		return nil
	}
}

// WithBigInt controls whether *big.Int values are emitted (true) or treated as undefined.
func WithBigInt(enabled bool) Option {
	return func(o *options) error {
		o.bigint = enabled
		return nil
	}
}

// WithDeterministic controls key sorting.
func WithDeterministic(enabled bool) Option {
	return func(o *options) error {
		o.deterministic = enabled
		return nil
	}
}

// WithMaximumDepth sets the number of nested containers after which mappings
// and sequences are replaced by "[Object]" and "[Array]".
func WithMaximumDepth(depth int) Option {
	return func(o *options) error {
		if depth < 1 {
			return newConfigurationError("maximumDepth", depth, "must be a positive integer")
		}
		o.maximumDepth = depth
		return nil
	}
}

// WithMaximumBreadth sets the number of entries emitted per container before
// the rest is summarised by a single marker entry.
func WithMaximumBreadth(breadth int) Option {
	return func(o *options) error {
		if breadth < 1 {
			return newConfigurationError("maximumBreadth", breadth, "must be a positive integer")
		}
		o.maximumBreadth = breadth
		return nil
	}
}

// WithLogger sets the logger used for configuration and failure diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return newConfigurationError("logger", logger, "must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithMetrics records per-call statistics into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) error {
		o.metrics = m
		return nil
	}
}

func defaultOptions() *options {
	return &options{
		circular:       CircularText(DefaultCircularText),
		bigint:         true,
		deterministic:  true,
		maximumDepth:   Unbounded,
		maximumBreadth: Unbounded,
		logger:         zap.NewNop(),
	}
}

func resolveOptions(opts []Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	switch o.circular.kind {
	case circularText:
		o.circularJSON = string(internal.AppendQuoted(nil, o.circular.text))
	case circularNull:
		o.circularJSON = "null"
	}
	return o, nil
}

func (o *options) zapFields() []zap.Field {
	return []zap.Field{
		zap.Stringer("circularValue", o.circular),
		zap.Bool("bigint", o.bigint),
		zap.Bool("deterministic", o.deterministic),
		zap.Int("maximumDepth", o.maximumDepth),
		zap.Int("maximumBreadth", o.maximumBreadth),
		zap.Bool("metrics", o.metrics != nil),
	}
}
