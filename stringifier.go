package stablejson

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/cybergodev/stablejson/internal"
)

// Stringifier serializes values with a fixed configuration.
// It is immutable and safe for concurrent use.
type Stringifier struct {
	opts *options
}

// Configure returns a new Stringifier. Options are applied in order; the first
// invalid one aborts with a *ConfigurationError.
func Configure(opts ...Option) (*Stringifier, error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("stablejson configured", o.zapFields()...)
	return &Stringifier{opts: o}, nil
}

// Stringify serializes value compactly without a replacer.
func (s *Stringifier) Stringify(value any) (string, error) {
	return s.StringifyWith(value, nil, "")
}

// StringifyWith serializes value using replacer and indent. A nil replacer
// and an empty indent are the same as Stringify. The result is "" with a nil
// error when value resolves to undefined.
func (s *Stringifier) StringifyWith(value any, replacer Replacer, indent Indent) (string, error) {
	buf := internal.GetBuffer()
	defer internal.PutBuffer(buf)

	out, _, err := s.appendJSON((*buf)[:0], value, replacer, indent)
	*buf = out
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Marshal is the []byte form of Stringify. It returns nil for undefined.
func (s *Stringifier) Marshal(value any) ([]byte, error) {
	buf := internal.GetBuffer()
	defer internal.PutBuffer(buf)

	out, ok, err := s.appendJSON((*buf)[:0], value, nil, "")
	*buf = out
	if err != nil || !ok {
		return nil, err
	}
	return append([]byte(nil), out...), nil
}

// appendJSON appends the document for value to dst. ok is false when the
// value was undefined. On error dst is returned truncated to its original
// length.
func (s *Stringifier) appendJSON(dst []byte, value any, replacer Replacer, indent Indent) ([]byte, bool, error) {
	e := encodeState{
		opts:   s.opts,
		buf:    dst,
		spacer: indent.normalize(),
	}

	var holder any
	switch r := replacer.(type) {
	case nil:
	case ReplacerFunc:
		if r != nil {
			e.replaceFn = r
			holder = ObjectOf("", value)
		}
	case *KeyList:
		if r != nil {
			e.keyList = r.keys
			e.byKeyList = true
		}
	default:
		return dst, false, newConfigurationError("replacer", replacer, "unsupported replacer type")
	}

	start := len(dst)
	ok, err := e.encodeEntry("", value, holder, 0, "")
	if err != nil {
		s.logFailure(err)
		s.opts.metrics.observe(&e.stats, err)
		return e.buf[:start], false, err
	}
	e.stats.outputByteSize = len(e.buf) - start
	s.opts.metrics.observe(&e.stats, nil)
	return e.buf, ok, nil
}

func (s *Stringifier) logFailure(err error) {
	if ce := s.opts.logger.Check(zap.DebugLevel, "stablejson: serialization failed"); ce != nil {
		var circ *CircularStructureError
		var serr *Error
		switch {
		case errors.As(err, &circ):
			ce.Write(zap.String("op", "circular"), zap.String("path", circ.Path), zap.Error(err))
		case errors.As(err, &serr):
			ce.Write(zap.String("op", serr.Op), zap.String("path", serr.Path), zap.Error(err))
		default:
			ce.Write(zap.Error(err))
		}
	}
}
