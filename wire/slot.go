package wire

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Visitor consumes exactly one JSON value from a decoder.
type Visitor interface {
	Visit(dec *jsontext.Decoder) error
}

// VisitorFunc adapts a function to Visitor.
type VisitorFunc func(dec *jsontext.Decoder) error

// Visit calls f.
func (f VisitorFunc) Visit(dec *jsontext.Decoder) error { return f(dec) }

// Slot holds one field of a builder. The zero value is empty; a slot is
// filled once its key has been decoded, even when the value was null.
type Slot[T any] struct {
	value T
	seen  bool
}

// Visit decodes the next value into the slot.
func (s *Slot[T]) Visit(dec *jsontext.Decoder) error {
	var v T
	if err := json.UnmarshalDecode(dec, &v); err != nil {
		return err
	}
	s.Set(v)
	return nil
}

// Set fills the slot.
func (s *Slot[T]) Set(v T) {
	s.value = v
	s.seen = true
}

// Get returns the value and whether the slot was filled.
func (s *Slot[T]) Get() (T, bool) {
	return s.value, s.seen
}

// Value returns the value, or the zero value of an empty slot.
func (s *Slot[T]) Value() T {
	return s.value
}

// Seen reports whether the slot was filled.
func (s *Slot[T]) Seen() bool {
	return s.seen
}

// Required is a Slot for a field whose schema forbids null. A null value
// fails with ErrNull instead of filling the slot with the zero value.
type Required[T any] struct {
	Slot[T]
}

// Visit decodes the next value into the slot, rejecting null.
func (s *Required[T]) Visit(dec *jsontext.Decoder) error {
	if dec.PeekKind() == 'n' {
		return ErrNull
	}
	return s.Slot.Visit(dec)
}
