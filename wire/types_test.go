package wire_test

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/arlyon/async-stripe-sub040/wire"
)

// The types below are written the way stripegen renders them.

type Formula string

const (
	FormulaCount Formula = "count"
	FormulaLast  Formula = "last"
	FormulaSum   Formula = "sum"
)

var formulaValues = [...]Formula{FormulaCount, FormulaLast, FormulaSum}

func ParseFormula(s string) (Formula, error) {
	return wire.ParseEnum("Formula", s, false, formulaValues[:]...)
}

func (e Formula) String() string { return string(e) }

func (e Formula) MarshalText() ([]byte, error) { return []byte(e), nil }

func (e *Formula) UnmarshalText(b []byte) error {
	v, err := ParseFormula(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

type Reason string

const (
	ReasonFeeAcknowledged            Reason = "fee_acknowledged"
	ReasonRequiresFeeAcknowledgement Reason = "requires_fee_acknowledgement"
)

var reasonValues = [...]Reason{ReasonFeeAcknowledged, ReasonRequiresFeeAcknowledgement}

func ParseReason(s string) (Reason, error) {
	return wire.ParseEnum("Reason", s, true, reasonValues[:]...)
}

func (e Reason) IsUnknown() bool { return !wire.Known(e, reasonValues[:]...) }

func (e Reason) MarshalText() ([]byte, error) { return []byte(e), nil }

func (e *Reason) UnmarshalText(b []byte) error {
	v, err := ParseReason(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

type Settings struct {
	Formula Formula `json:"formula"`
	Reason  *Reason `json:"reason,omitzero"`
}

type settingsBuilder struct {
	formula wire.Required[Formula]
	reason  wire.Slot[*Reason]
}

func (b *settingsBuilder) Key(name string) wire.Visitor {
	switch name {
	case "formula":
		return &b.formula
	case "reason":
		return &b.reason
	}
	return nil
}

func (b *settingsBuilder) Missing() []string {
	var out []string
	if !b.formula.Seen() {
		out = append(out, "formula")
	}
	return out
}

func (b *settingsBuilder) TakeOut() (*Settings, bool) {
	v0, ok := b.formula.Get()
	if !ok {
		return nil, false
	}
	return &Settings{
		Formula: v0,
		Reason:  b.reason.Value(),
	}, true
}

func (x *Settings) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	v, err := wire.DecodeObject[Settings](dec, &settingsBuilder{}, "Settings")
	if err != nil {
		return err
	}
	*x = *v
	return nil
}

func SettingsFromValue(v any) (*Settings, error) {
	return wire.FromValue[Settings](v, &settingsBuilder{}, "Settings")
}

type InvoiceID string

var InvoiceIDPrefixes = [...]string{"in_", "ii_"}

func ParseInvoiceID(s string) (InvoiceID, error) {
	return wire.ParseID[InvoiceID]("InvoiceID", s, InvoiceIDPrefixes[:]...)
}

type CustomerID string

type Customer struct {
	Created wire.Timestamp `json:"created"`
	ID      CustomerID     `json:"id"`
	Object  string         `json:"object"`
}

type customerBuilder struct {
	created wire.Required[wire.Timestamp]
	id      wire.Required[CustomerID]
	object  wire.Required[string]
}

func (b *customerBuilder) Key(name string) wire.Visitor {
	switch name {
	case "created":
		return &b.created
	case "id":
		return &b.id
	case "object":
		return &b.object
	}
	return nil
}

func (b *customerBuilder) TakeOut() (*Customer, bool) {
	v0, ok := b.created.Get()
	if !ok {
		return nil, false
	}
	v1, ok := b.id.Get()
	if !ok {
		return nil, false
	}
	v2, ok := b.object.Get()
	if !ok {
		return nil, false
	}
	return &Customer{Created: v0, ID: v1, Object: v2}, true
}

func (x *Customer) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	v, err := wire.DecodeObject[Customer](dec, &customerBuilder{}, "Customer")
	if err != nil {
		return err
	}
	*x = *v
	return nil
}

func (x Customer) GetID() CustomerID { return x.ID }

type DeletedCustomer struct {
	Deleted bool       `json:"deleted"`
	ID      CustomerID `json:"id"`
}

type deletedCustomerBuilder struct {
	deleted wire.Required[bool]
	id      wire.Required[CustomerID]
}

func (b *deletedCustomerBuilder) Key(name string) wire.Visitor {
	switch name {
	case "deleted":
		return &b.deleted
	case "id":
		return &b.id
	}
	return nil
}

func (b *deletedCustomerBuilder) TakeOut() (*DeletedCustomer, bool) {
	v0, ok := b.deleted.Get()
	if !ok {
		return nil, false
	}
	v1, ok := b.id.Get()
	if !ok {
		return nil, false
	}
	return &DeletedCustomer{Deleted: v0, ID: v1}, true
}

func (x *DeletedCustomer) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	v, err := wire.DecodeObject[DeletedCustomer](dec, &deletedCustomerBuilder{}, "DeletedCustomer")
	if err != nil {
		return err
	}
	*x = *v
	return nil
}

func (x DeletedCustomer) GetID() CustomerID { return x.ID }

// CardCustomer is untagged: a deleted customer lacks `created`.
type CardCustomer struct {
	Customer        *Customer
	DeletedCustomer *DeletedCustomer
}

func (u *CardCustomer) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	raw, err := dec.ReadValue()
	if err != nil {
		return err
	}
	*u = CardCustomer{}
	return wire.Untagged("CardCustomer", raw,
		func(raw jsontext.Value) error { return wire.Into(raw, &u.Customer) },
		func(raw jsontext.Value) error { return wire.Into(raw, &u.DeletedCustomer) },
	)
}

func (u CardCustomer) MarshalJSONTo(enc *jsontext.Encoder) error {
	switch {
	case u.Customer != nil:
		return json.MarshalEncode(enc, u.Customer)
	case u.DeletedCustomer != nil:
		return json.MarshalEncode(enc, u.DeletedCustomer)
	}
	return enc.WriteToken(jsontext.Null)
}

func (u CardCustomer) GetID() CustomerID {
	switch {
	case u.Customer != nil:
		return u.Customer.GetID()
	case u.DeletedCustomer != nil:
		return u.DeletedCustomer.GetID()
	}
	return ""
}

type Card struct {
	Customer *wire.Expandable[CustomerID, CardCustomer] `json:"customer,omitzero"`
}

type Account struct {
	ID     string `json:"id"`
	Object string `json:"object"`
}

type User struct {
	Name   string `json:"name"`
	Object string `json:"object"`
}

type Owner struct {
	Account *Account
	User    *User
}

func (u *Owner) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	raw, err := dec.ReadValue()
	if err != nil {
		return err
	}
	tag, err := wire.PeekObject(raw)
	if err != nil {
		return err
	}
	*u = Owner{}
	switch tag {
	case "account":
		return wire.Into(raw, &u.Account)
	case "user":
		return wire.Into(raw, &u.User)
	}
	return wire.UnknownVariant("Owner", tag)
}

type OpenOwner struct {
	Account *Account
	User    *User
	Unknown wire.Value
}

func (u *OpenOwner) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	raw, err := dec.ReadValue()
	if err != nil {
		return err
	}
	tag, err := wire.PeekObject(raw)
	if err != nil {
		return err
	}
	*u = OpenOwner{}
	switch tag {
	case "account":
		return wire.Into(raw, &u.Account)
	case "user":
		return wire.Into(raw, &u.User)
	}
	wire.WarnUnknown("OpenOwner", tag)
	u.Unknown = raw.Clone()
	return nil
}

func (u OpenOwner) MarshalJSONTo(enc *jsontext.Encoder) error {
	switch {
	case u.Account != nil:
		return json.MarshalEncode(enc, u.Account)
	case u.User != nil:
		return json.MarshalEncode(enc, u.User)
	case u.Unknown != nil:
		return enc.WriteValue(u.Unknown)
	}
	return enc.WriteToken(jsontext.Null)
}
