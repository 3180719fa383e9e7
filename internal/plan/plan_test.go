package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/overrides"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
)

func field(name string, t ir.Type) *ir.Field {
	return &ir.Field{Name: ir.NewIdent(name), WireName: name, Type: t, Required: true}
}

func component(path ir.ComponentPath, fields ...*ir.Field) *ir.StripeObject {
	return ir.NewStripeObject(path, &ir.Struct{Fields: fields})
}

func request(ident ir.Ident, returned ir.Type) *ir.RequestSpec {
	return &ir.RequestSpec{
		Method:       "GET",
		PathTemplate: "/v1/x",
		Params: &ir.InlineObject{
			Data: &ir.Struct{},
			Meta: ir.ObjectMetadata{Ident: ident, Kind: ir.KindRequest},
		},
		Returned: returned,
	}
}

func components(objs ...*ir.StripeObject) *ir.Components {
	out := ir.NewComponents()
	for _, o := range objs {
		out.Set(o.Path, o)
	}
	return out
}

func fileNames(p *Plan, pkg string) []string {
	var out []string
	if got := p.Package(pkg); got != nil {
		for _, f := range got.Files {
			out = append(out, f.Name)
		}
	}
	return out
}

func TestAssignPackages(t *testing.T) {
	meterSettings := component("billing_meter_resource_aggregation_settings")
	meter := component("billing.meter", field("default_aggregation", &ir.Ref{Path: meterSettings.Path}))
	card := component("issuing.card")
	fraud := component("radar.early_fraud_warning")
	session := component("checkout.session")
	session.Resource.InPackage = "Checkout Sessions"
	registration := component("tax.registration")
	customer := component("customer")

	table := &overrides.Table{Packages: map[string]string{"tax.registration": "misc"}}
	p, err := Build(components(meterSettings, meter, card, fraud, session, registration, customer), Options{Overrides: table})
	require.NoError(t, err)

	tests := []struct {
		path ir.ComponentPath
		pkg  string
	}{
		{meter.Path, "billing"},
		{meterSettings.Path, "billing"},
		{card.Path, "issuing"},
		{fraud.Path, "fraud"},
		{session.Path, "checkoutsessions"},
		{registration.Path, "misc"},
		{customer.Path, CorePackage},
	}
	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			assert.Equal(t, tt.pkg, p.HomePackage(tt.path))
			assert.Equal(t, tt.pkg, p.TypesPackage(tt.path))
		})
	}

	assert.Equal(t, []string{"meter.go", "meter_resource_aggregation_settings.go"}, fileNames(p, "billing"))
	assert.Equal(t, []string{"card.go"}, fileNames(p, "issuing"))
	assert.Equal(t, []string{"radar_early_fraud_warning.go"}, fileNames(p, "fraud"))
	assert.Equal(t, []string{"billing", "checkoutsessions", "core", "fraud", "issuing", "misc"}, p.PackageNames())
}

func TestSharedHoisting(t *testing.T) {
	address := component("address")
	customer := component("customer", field("address", ir.Optional(&ir.Ref{Path: "address"})))
	customer.Requests = []*ir.RequestSpec{request("RetrieveCustomer", &ir.Ref{Path: "customer"})}
	charge := component("charge", field("customer", &ir.Ref{Path: "customer"}))
	meter := component("billing.meter", field("customer", &ir.ObjectID{Path: "customer"}))
	meter.Requests = []*ir.RequestSpec{request("ListBillingMeter", &ir.Ref{Path: "billing.meter"})}
	card := component("issuing.card")
	card.Requests = []*ir.RequestSpec{request("RetrieveIssuingCardCharge", &ir.Ref{Path: "charge"})}

	p, err := Build(components(address, customer, charge, meter, card), Options{})
	require.NoError(t, err)

	// billing.meter reaches customer, and customer reaches address.
	assert.Equal(t, SharedPackage, p.TypesPackage("customer"))
	assert.Equal(t, SharedPackage, p.TypesPackage("address"))
	// issuing's request reaches charge, which reaches customer.
	assert.Equal(t, SharedPackage, p.TypesPackage("charge"))
	assert.Equal(t, "billing", p.TypesPackage("billing.meter"))
	assert.Equal(t, "issuing", p.TypesPackage("issuing.card"))

	assert.Equal(t, CorePackage, p.HomePackage("customer"))
	assert.Equal(t, []string{"customer_requests.go"}, fileNames(p, CorePackage))
	assert.Equal(t, []string{"address.go", "charge.go", "customer.go"}, fileNames(p, SharedPackage))

	shared := p.Package(SharedPackage)
	require.NotNil(t, shared)
	for _, f := range shared.Files {
		assert.True(t, f.Types)
		assert.False(t, f.Requests, f.Name)
	}
	reqFile := p.Package(CorePackage).Files[0]
	assert.True(t, reqFile.Requests)
	assert.False(t, reqFile.Types)
	assert.Equal(t, "core/customer_requests.go", reqFile.Path())

	meterFile := p.Package("billing").Files[0]
	assert.True(t, meterFile.Types)
	assert.True(t, meterFile.Requests)
}

func TestPackageGraphIsAcyclic(t *testing.T) {
	a := component("a", field("b", &ir.Ref{Path: "issuing.b"}))
	b := component("issuing.b", field("a", &ir.Ref{Path: "a"}))
	b.Requests = []*ir.RequestSpec{request("RetrieveIssuingB", &ir.Ref{Path: "a"})}

	p, err := Build(components(a, b), Options{})
	require.NoError(t, err)

	objs := components(a, b)
	for path, obj := range objs.All() {
		for _, ref := range typeRefs(obj) {
			pkg := p.TypesPackage(ref)
			assert.True(t, pkg == p.TypesPackage(path) || pkg == SharedPackage, "%s -> %s", path, ref)
		}
		for _, ref := range requestRefs(obj) {
			pkg := p.TypesPackage(ref)
			assert.True(t, pkg == p.HomePackage(path) || pkg == SharedPackage, "%s request -> %s", path, ref)
		}
	}
	for path := range objs.All() {
		if p.TypesPackage(path) != SharedPackage {
			continue
		}
		for _, ref := range typeRefs(mustGet(t, objs, path)) {
			assert.Equal(t, SharedPackage, p.TypesPackage(ref))
		}
	}
}

func mustGet(t *testing.T, objs *ir.Components, path ir.ComponentPath) *ir.StripeObject {
	t.Helper()
	obj, ok := objs.Get(path)
	require.True(t, ok)
	return obj
}

func TestInClassFileNames(t *testing.T) {
	invoice := component("invoice")
	line := component("line_item")
	line.Resource.InClass = "invoice"
	item := component("invoiceitem")
	item.Resource.InClass = "invoice"
	orphan := component("orphan")
	orphan.Resource.InClass = "missing"

	p, err := Build(components(invoice, line, item, orphan), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"invoice.go", "invoice_invoiceitem.go", "invoice_line_item.go", "orphan.go"}, fileNames(p, CorePackage))
}

func TestInClassFollowsParentPackage(t *testing.T) {
	parent := component("issuing.card")
	child := component("card_shipping")
	child.Resource.InClass = "issuing.card"

	p, err := Build(components(parent, child), Options{})
	require.NoError(t, err)
	assert.Equal(t, "issuing", p.HomePackage("card_shipping"))
	assert.Equal(t, []string{"card.go", "card_shipping.go"}, fileNames(p, "issuing"))
}

func TestFileNameSafety(t *testing.T) {
	tests := []struct {
		base     string
		expected string
	}{
		{"customer", "customer"},
		{"payment_method_windows", "payment_method_windows_gen"},
		{"sample_test", "sample_test_gen"},
		{"source_type_js", "source_type_js_gen"},
		{"_private", "x_private"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			assert.Equal(t, tt.expected, safeFileBase(tt.base))
		})
	}
}

func TestFileNameCollisions(t *testing.T) {
	a := component("issuing.card")
	b := component("issuing_card")

	p, err := Build(components(a, b), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"card.go", "card_2.go"}, fileNames(p, "issuing"))

	c := component("doc")
	p, err = Build(components(c), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc_2.go"}, fileNames(p, CorePackage))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Billing", "billing"},
		{"Financial Connections", "financialconnections"},
		{"wire", "stripewire"},
		{"type", "stripetype"},
		{"3ds", "ds"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitize(tt.in))
		})
	}
}

func TestInvalidPin(t *testing.T) {
	table := &overrides.Table{Packages: map[string]string{"customer": "Not-A-Package"}}
	_, err := Build(components(component("customer")), Options{Overrides: table})
	assert.ErrorIs(t, err, oaserrors.ErrConfig)

	table = &overrides.Table{Packages: map[string]string{"customer": "shared"}}
	_, err = Build(components(component("customer")), Options{Overrides: table})
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestDeterminism(t *testing.T) {
	build := func(order []ir.ComponentPath) *Plan {
		all := map[ir.ComponentPath]*ir.StripeObject{}
		all["address"] = component("address")
		all["customer"] = component("customer", field("address", &ir.Ref{Path: "address"}))
		all["billing.meter"] = component("billing.meter", field("customer", &ir.Ref{Path: "customer"}))
		all["issuing.card"] = component("issuing.card")
		objs := ir.NewComponents()
		for _, path := range order {
			objs.Set(path, all[path])
		}
		p, err := Build(objs, Options{})
		require.NoError(t, err)
		return p
	}
	first := build([]ir.ComponentPath{"address", "customer", "billing.meter", "issuing.card"})
	second := build([]ir.ComponentPath{"issuing.card", "billing.meter", "customer", "address"})

	var a, b []string
	for _, f := range first.Files() {
		a = append(a, f.Path())
	}
	for _, f := range second.Files() {
		b = append(b, f.Path())
	}
	assert.Equal(t, a, b)
	assert.Equal(t, []string{"billing/meter.go", "issuing/card.go", "shared/address.go", "shared/customer.go"}, a)
}
