package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Builder accumulates the fields of one record. Key returns the visitor
// for a wire key, or nil for keys the record does not declare. TakeOut
// returns the finished record, or false while a required key is missing.
type Builder[T any] interface {
	Key(name string) Visitor
	TakeOut() (*T, bool)
}

// missingReporter is implemented by builders that can name absent keys.
type missingReporter interface {
	Missing() []string
}

// DecodeObject reads one JSON object from dec into b and finishes it.
// Unknown keys are skipped. typ names the record in errors.
func DecodeObject[T any](dec *jsontext.Decoder, b Builder[T], typ string) (*T, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind() != '{' {
		return nil, fmt.Errorf("wire: %s: expected object, found %s", typ, tok.Kind())
	}
	for dec.PeekKind() != '}' {
		name, err := dec.ReadToken()
		if err != nil {
			return nil, err
		}
		key := name.String()
		v := b.Key(key)
		if v == nil {
			if err := dec.SkipValue(); err != nil {
				return nil, err
			}
			continue
		}
		if err := v.Visit(dec); err != nil {
			return nil, fmt.Errorf("wire: %s.%s: %w", typ, key, err)
		}
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	return finish(b, typ)
}

// Unmarshal decodes data, which must hold exactly one JSON object.
func Unmarshal[T any](data []byte, b Builder[T], typ string) (*T, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	v, err := DecodeObject(dec, b, typ)
	if err != nil {
		return nil, err
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("wire: %s: unexpected data after object", typ)
	}
	return v, nil
}

// FromValue feeds a decoded value tree into b. It accepts exactly the
// inputs DecodeObject accepts and fails the same way. Keys are visited in
// sorted order.
func FromValue[T any](value any, b Builder[T], typ string) (*T, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("wire: %s: expected object, found %T", typ, value)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		v := b.Key(key)
		if v == nil {
			continue
		}
		raw, err := json.Marshal(m[key])
		if err != nil {
			return nil, fmt.Errorf("wire: %s.%s: %w", typ, key, err)
		}
		if err := v.Visit(jsontext.NewDecoder(bytes.NewReader(raw))); err != nil {
			return nil, fmt.Errorf("wire: %s.%s: %w", typ, key, err)
		}
	}
	return finish(b, typ)
}

func finish[T any](b Builder[T], typ string) (*T, error) {
	v, ok := b.TakeOut()
	if ok {
		return v, nil
	}
	err := &IncompleteError{Type: typ}
	if m, ok := b.(missingReporter); ok {
		err.Missing = m.Missing()
	}
	return nil, err
}

// PeekField returns the string value of a top-level key of a JSON object
// without decoding the rest.
func PeekField(raw jsontext.Value, name string) (string, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.ReadToken()
	if err != nil {
		return "", err
	}
	if tok.Kind() != '{' {
		return "", fmt.Errorf("wire: expected object, found %s", tok.Kind())
	}
	for dec.PeekKind() != '}' {
		key, err := dec.ReadToken()
		if err != nil {
			return "", err
		}
		if key.String() == name && dec.PeekKind() == '"' {
			val, err := dec.ReadToken()
			if err != nil {
				return "", err
			}
			return val.String(), nil
		}
		if err := dec.SkipValue(); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("wire: object has no %q string field", name)
}

// PeekObject returns the `object` literal that tags Stripe resources.
func PeekObject(raw jsontext.Value) (string, error) {
	return PeekField(raw, "object")
}

// Into decodes raw into a new T and stores it in dst only on success.
func Into[T any](raw jsontext.Value, dst **T) error {
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return err
	}
	*dst = v
	return nil
}

// Untagged tries each branch in order and stops at the first that accepts
// raw. Branches must leave their destination untouched on failure.
func Untagged(typ string, raw jsontext.Value, branches ...func(jsontext.Value) error) error {
	errs := make([]error, 0, len(branches))
	for _, try := range branches {
		err := try(raw)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return &NoVariantError{Type: typ, Errs: errs}
}
