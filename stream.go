package stablejson

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/cybergodev/stablejson/internal"
)

// Encoder writes complete JSON documents to an output stream, each followed
// by a newline. It is not safe for concurrent use.
type Encoder struct {
	w        io.Writer
	s        *Stringifier
	replacer Replacer
	indent   Indent
}

// NewEncoder returns an Encoder using the default configuration.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, s: getDefaultStringifier()}
}

// NewEncoder returns an Encoder that serializes with s.
func (s *Stringifier) NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, s: s}
}

// SetIndent enables pretty printing for subsequent Encode calls.
func (enc *Encoder) SetIndent(indent Indent) {
	enc.indent = indent
}

// SetReplacer sets the replacer for subsequent Encode calls.
func (enc *Encoder) SetReplacer(r Replacer) {
	enc.replacer = r
}

// Encode writes the document for v. Nothing is written when serialization
// fails or v is undefined.
func (enc *Encoder) Encode(v any) error {
	buf := internal.GetBuffer()
	defer internal.PutBuffer(buf)

	out, ok, err := enc.s.appendJSON((*buf)[:0], v, enc.replacer, enc.indent)
	*buf = out
	if err != nil || !ok {
		return err
	}
	out = append(out, '\n')
	*buf = out
	if _, err := enc.w.Write(out); err != nil {
		return errors.Wrap(err, "stablejson: write document")
	}
	return nil
}
