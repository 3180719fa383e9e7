package wire

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Expandable is a reference that arrives either as an id or, when the
// request asked for expansion, as the full object.
type Expandable[ID ~string, T any] struct {
	id     ID
	object *T
}

// ExpandableID returns an unexpanded reference.
func ExpandableID[ID ~string, T any](id ID) Expandable[ID, T] {
	return Expandable[ID, T]{id: id}
}

// ExpandedObject returns an expanded reference.
func ExpandedObject[ID ~string, T any](obj *T) Expandable[ID, T] {
	e := Expandable[ID, T]{object: obj}
	e.id = e.objectID()
	return e
}

// ID returns the referenced id. For expanded references it is read from
// the object when the object exposes GetID.
func (e Expandable[ID, T]) ID() ID {
	if e.id == "" {
		return e.objectID()
	}
	return e.id
}

// Object returns the expanded object.
func (e Expandable[ID, T]) Object() (*T, bool) {
	return e.object, e.object != nil
}

// IsExpanded reports whether the full object is present.
func (e Expandable[ID, T]) IsExpanded() bool {
	return e.object != nil
}

func (e Expandable[ID, T]) objectID() ID {
	if o, ok := any(e.object).(interface{ GetID() ID }); ok && e.object != nil {
		return o.GetID()
	}
	return ""
}

// UnmarshalJSONFrom implements json.UnmarshalerFrom.
func (e *Expandable[ID, T]) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	if dec.PeekKind() == '"' {
		tok, err := dec.ReadToken()
		if err != nil {
			return err
		}
		*e = Expandable[ID, T]{id: ID(tok.String())}
		return nil
	}
	obj := new(T)
	if err := json.UnmarshalDecode(dec, obj); err != nil {
		return err
	}
	*e = ExpandedObject[ID](obj)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for encoding/json callers.
func (e *Expandable[ID, T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, e)
}

// MarshalJSONTo implements json.MarshalerTo. Expanded references encode
// the object, others the id.
func (e Expandable[ID, T]) MarshalJSONTo(enc *jsontext.Encoder) error {
	if e.object != nil {
		return json.MarshalEncode(enc, e.object)
	}
	return enc.WriteToken(jsontext.String(string(e.id)))
}
