package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdent(t *testing.T) {
	tests := []struct {
		raw  string
		want Ident
	}{
		{"customer", "Customer"},
		{"tax.registration", "TaxRegistration"},
		{"paymentIntent", "PaymentIntent"},
		{"billing portal configuration", "BillingPortalConfiguration"},
		{"_private", "Private"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NewIdent(tt.raw))
		})
	}
}

func TestJoinIdent(t *testing.T) {
	assert.Equal(t, Ident("InvoiceStatus"), JoinIdent("Invoice", "status"))
	assert.Equal(t, Ident("ChargeBillingDetailsAddress"), JoinIdent("ChargeBillingDetails", "address"))
	assert.Equal(t, Ident("Status"), JoinIdent("", "status"))
	assert.Equal(t, "invoice_status", JoinIdent("Invoice", "status").Snake())
	assert.Equal(t, "type_", Ident("Type").Unexported())
	assert.Equal(t, "customerID", Ident("CustomerID").Unexported())
}

func TestComponentPath(t *testing.T) {
	p, ok := ComponentPathFromRef("#/components/schemas/issuing.card")
	require.True(t, ok)
	assert.Equal(t, ComponentPath("issuing.card"), p)
	assert.Equal(t, "#/components/schemas/issuing.card", p.Ref())
	assert.Equal(t, "issuing", p.Namespace())
	assert.Equal(t, "issuing_card", p.Snake())
	assert.Equal(t, Ident("IssuingCard"), p.Ident())

	_, ok = ComponentPathFromRef("#/paths/x")
	assert.False(t, ok)
	assert.Equal(t, "", ComponentPath("customer").Namespace())
}

func labelObject(ident Ident) *InlineObject {
	return &InlineObject{
		Data: &Struct{Fields: []*Field{
			{Name: "Type", WireName: "type", Type: &InlineObject{
				Data: &FieldlessEnum{Variants: []*Variant{{Wire: "custom", Ident: "Custom"}}},
				Meta: ObjectMetadata{Ident: JoinIdent(ident, "type")},
			}, Required: true},
			{Name: "Custom", WireName: "custom", Type: Optional(NewSimple(String))},
		}},
		Meta: ObjectMetadata{Ident: ident, Title: "CustomFieldLabel"},
	}
}

func TestEqualIgnoresMetadata(t *testing.T) {
	a := labelObject("CustomFieldLabel")
	b := labelObject("CustomFieldOptionLabel")
	b.Meta.Doc = "other docs"

	assert.True(t, Equal(a, b))
	assert.Equal(t, Hash(a.Data), Hash(b.Data))

	b.Data.(*Struct).Fields[1].Type = NewSimple(String)
	assert.False(t, Equal(a, b))
	assert.NotEqual(t, Hash(a.Data), Hash(b.Data))
}

func TestEqualKinds(t *testing.T) {
	a := labelObject("A")
	b := labelObject("B")
	b.Meta.Kind = KindRequest
	assert.False(t, Equal(a, b))

	assert.True(t, Equal(&Ref{Path: "customer"}, &Ref{Path: "customer"}))
	assert.False(t, Equal(&Ref{Path: "customer"}, &ObjectID{Path: "customer"}))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, NewSimple(Bool)))
}

func TestOptionalAndUnwrap(t *testing.T) {
	s := NewSimple(Int64)
	opt := Optional(s)
	assert.True(t, IsOption(opt))
	assert.Same(t, opt, Optional(opt))
	assert.Same(t, s, Unwrap(Wrap(Box, opt)))
	assert.Equal(t, "option<int64>", opt.String())
}

func TestWalkAndRewrite(t *testing.T) {
	obj := labelObject("CustomFieldLabel")
	var inline int
	Walk(obj, func(t Type) bool {
		if _, ok := t.(*InlineObject); ok {
			inline++
		}
		return true
	})
	assert.Equal(t, 2, inline)

	Rewrite(obj, func(t Type) Type {
		if io, ok := t.(*InlineObject); ok && io.Meta.Ident == "CustomFieldLabelType" {
			return &HoistedRef{Component: "custom_field", Ident: "CustomFieldLabelType"}
		}
		return t
	})
	assert.IsType(t, &HoistedRef{}, obj.Data.(*Struct).Fields[0].Type)
}

func TestStripeObjectRefPaths(t *testing.T) {
	obj := NewStripeObject("charge", &Struct{Fields: []*Field{
		{Name: "Customer", WireName: "customer", Type: Optional(Wrap(Expandable, &Ref{Path: "customer"}))},
		{Name: "ID", WireName: "id", Type: &ObjectID{Path: "charge"}},
		{Name: "Invoice", WireName: "invoice", Type: Optional(&Ref{Path: "invoice"})},
	}})
	obj.Requests = append(obj.Requests, &RequestSpec{
		Method: "GET", PathTemplate: "/v1/charges/{charge}",
		Params:   &InlineObject{Data: &Struct{}, Meta: ObjectMetadata{Ident: "RetrieveCharge", Kind: KindRequest}},
		Returned: &Ref{Path: "charge"},
	})

	assert.Equal(t, []ComponentPath{"charge", "customer", "invoice"}, obj.RefPaths())
	assert.Equal(t, Ident("RetrieveCharge"), obj.Requests[0].Ident())
	assert.Equal(t, "get /v1/charges/{charge}", obj.Requests[0].Operation())
}

func TestStructRequiredFields(t *testing.T) {
	s := &Struct{Fields: []*Field{
		{Name: "Formula", WireName: "formula", Type: NewSimple(String), Required: true},
		{Name: "Other", WireName: "other", Type: Optional(NewSimple(String))},
	}}
	req := s.RequiredFields()
	require.Len(t, req, 1)
	assert.Equal(t, "formula", req[0].WireName)
	assert.NotNil(t, s.Field("other"))
	assert.Nil(t, s.Field("missing"))
}
