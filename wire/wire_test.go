package wire_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlyon/async-stripe-sub040/wire"
)

type captureLogger struct {
	mu       sync.Mutex
	messages []string
}

func (c *captureLogger) Warn(msg string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, fmt.Sprintf("%s %v", msg, args))
}

func captureWarnings(t *testing.T) *captureLogger {
	t.Helper()
	c := &captureLogger{}
	wire.SetLogger(c)
	t.Cleanup(func() { wire.SetLogger(nil) })
	return c
}

func TestClosedEnum(t *testing.T) {
	t.Run("declared value round-trips", func(t *testing.T) {
		f, err := ParseFormula("sum")
		require.NoError(t, err)
		assert.Equal(t, FormulaSum, f)
		assert.Equal(t, "sum", f.String())

		data, err := json.Marshal(f)
		require.NoError(t, err)
		assert.JSONEq(t, `"sum"`, string(data))
	})

	t.Run("unknown value is rejected", func(t *testing.T) {
		_, err := ParseFormula("median")
		var uv *wire.UnknownVariantError
		require.ErrorAs(t, err, &uv)
		assert.Equal(t, "median", uv.Value)
		assert.Equal(t, "Formula", uv.Type)
		assert.ErrorIs(t, err, wire.ErrUnknownVariant)
	})

	t.Run("decoding rejects unknown value", func(t *testing.T) {
		var s Settings
		err := json.Unmarshal([]byte(`{"formula":"median"}`), &s)
		assert.ErrorIs(t, err, wire.ErrUnknownVariant)
	})
}

func TestOpenEnum(t *testing.T) {
	logs := captureWarnings(t)

	var r Reason
	require.NoError(t, json.Unmarshal([]byte(`"future_value"`), &r))
	assert.True(t, r.IsUnknown())
	assert.Equal(t, Reason("future_value"), r)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `"future_value"`, string(data))

	require.NoError(t, json.Unmarshal([]byte(`"fee_acknowledged"`), &r))
	assert.False(t, r.IsUnknown())

	require.Len(t, logs.messages, 1)
	assert.Contains(t, logs.messages[0], "future_value")
}

func TestIDPrefixes(t *testing.T) {
	id, err := ParseInvoiceID("in_1ABC")
	require.NoError(t, err)
	assert.Equal(t, InvoiceID("in_1ABC"), id)

	_, err = ParseInvoiceID("ii_1ABC")
	assert.NoError(t, err)

	_, err = ParseInvoiceID("xx_1ABC")
	var invalid *wire.InvalidIDError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"in_", "ii_"}, invalid.Prefixes)
	assert.ErrorIs(t, err, wire.ErrInvalidID)

	tests := []struct {
		name     string
		value    string
		prefixes []string
		expected bool
	}{
		{"matching prefix", "cus_123", []string{"cus_"}, true},
		{"prefix only", "cus_", []string{"cus_"}, false},
		{"no prefixes", "anything", nil, true},
		{"no prefixes empty", "", nil, false},
		{"other prefix", "ch_1", []string{"cus_"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, wire.HasIDPrefix(tt.value, tt.prefixes...))
		})
	}
}

func TestBuilderCompleteness(t *testing.T) {
	t.Run("missing required key", func(t *testing.T) {
		var s Settings
		err := json.Unmarshal([]byte(`{"other":"x"}`), &s)
		var inc *wire.IncompleteError
		require.ErrorAs(t, err, &inc)
		assert.Equal(t, []string{"formula"}, inc.Missing)
	})

	t.Run("required key present", func(t *testing.T) {
		var s Settings
		require.NoError(t, json.Unmarshal([]byte(`{"formula":"count","other":{"nested":[1,2]}}`), &s))
		assert.Equal(t, FormulaCount, s.Formula)
		assert.Nil(t, s.Reason)
	})

	t.Run("optional key decoded", func(t *testing.T) {
		logs := captureWarnings(t)
		var s Settings
		require.NoError(t, json.Unmarshal([]byte(`{"formula":"last","reason":"later"}`), &s))
		require.NotNil(t, s.Reason)
		assert.True(t, s.Reason.IsUnknown())
		assert.Len(t, logs.messages, 1)
	})

	t.Run("builder state", func(t *testing.T) {
		var slot wire.Slot[string]
		_, ok := slot.Get()
		assert.False(t, ok)
		slot.Set("")
		v, ok := slot.Get()
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("unmarshal rejects trailing data", func(t *testing.T) {
		v, err := wire.Unmarshal[Settings]([]byte(`{"formula":"sum"}`), &settingsBuilder{}, "Settings")
		require.NoError(t, err)
		assert.Equal(t, FormulaSum, v.Formula)

		_, err = wire.Unmarshal[Settings]([]byte(`{"formula":"sum"} {}`), &settingsBuilder{}, "Settings")
		assert.Error(t, err)
	})
}

func TestFromValue(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantErr error
	}{
		{"complete", map[string]any{"formula": "count"}, nil},
		{"unknown key only", map[string]any{"other": "x"}, wire.ErrIncomplete},
		{"bad variant", map[string]any{"formula": "median"}, wire.ErrUnknownVariant},
		{"null required", map[string]any{"formula": nil}, wire.ErrNull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fromValue, errValue := SettingsFromValue(tt.value)

			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			var streamed Settings
			errStream := json.Unmarshal(data, &streamed)

			if tt.wantErr != nil {
				assert.ErrorIs(t, errValue, tt.wantErr)
				assert.ErrorIs(t, errStream, tt.wantErr)
				return
			}
			require.NoError(t, errValue)
			require.NoError(t, errStream)
			assert.Equal(t, streamed, *fromValue)
		})
	}

	_, err := SettingsFromValue([]any{"formula"})
	assert.Error(t, err)
}

func TestTaggedUnion(t *testing.T) {
	t.Run("known tags dispatch", func(t *testing.T) {
		var o Owner
		require.NoError(t, json.Unmarshal([]byte(`{"object":"user","name":"jenny"}`), &o))
		require.NotNil(t, o.User)
		assert.Nil(t, o.Account)
		assert.Equal(t, "jenny", o.User.Name)

		require.NoError(t, json.Unmarshal([]byte(`{"id":"acct_1","object":"account"}`), &o))
		require.NotNil(t, o.Account)
		assert.Nil(t, o.User)
	})

	t.Run("closed union rejects unknown tag", func(t *testing.T) {
		var o Owner
		err := json.Unmarshal([]byte(`{"object":"unknown"}`), &o)
		assert.ErrorIs(t, err, wire.ErrUnknownVariant)
	})

	t.Run("open union keeps unknown tag", func(t *testing.T) {
		captureWarnings(t)
		var o OpenOwner
		require.NoError(t, json.Unmarshal([]byte(`{"object":"unknown","x":1}`), &o))
		assert.Nil(t, o.Account)
		assert.Nil(t, o.User)
		require.NotNil(t, o.Unknown)

		data, err := json.Marshal(o)
		require.NoError(t, err)
		assert.JSONEq(t, `{"object":"unknown","x":1}`, string(data))
	})

	t.Run("missing tag", func(t *testing.T) {
		var o Owner
		assert.Error(t, json.Unmarshal([]byte(`{"name":"jenny"}`), &o))
	})
}

func TestUntaggedUnion(t *testing.T) {
	var c CardCustomer
	require.NoError(t, json.Unmarshal([]byte(`{"id":"cus_1","object":"customer","created":10}`), &c))
	require.NotNil(t, c.Customer)
	assert.Nil(t, c.DeletedCustomer)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"cus_1","object":"customer","deleted":true}`), &c))
	assert.Nil(t, c.Customer)
	require.NotNil(t, c.DeletedCustomer)
	assert.Equal(t, CustomerID("cus_1"), c.GetID())

	// Both variants accept this payload; the first declared wins.
	require.NoError(t, json.Unmarshal([]byte(`{"id":"cus_1","object":"customer","created":10,"deleted":true}`), &c))
	require.NotNil(t, c.Customer)
	assert.Nil(t, c.DeletedCustomer)

	err := json.Unmarshal([]byte(`{"object":"customer"}`), &c)
	var nv *wire.NoVariantError
	require.ErrorAs(t, err, &nv)
	assert.Len(t, nv.Errs, 2)
	assert.ErrorIs(t, err, wire.ErrIncomplete)
}

func TestUntaggedOrder(t *testing.T) {
	var tried []string
	branch := func(name string, err error) func(jsontext.Value) error {
		return func(jsontext.Value) error {
			tried = append(tried, name)
			return err
		}
	}
	err := wire.Untagged("Pair", jsontext.Value(`{}`),
		branch("first", errors.New("no")),
		branch("second", nil),
		branch("third", nil),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, tried)
}

func TestExpandable(t *testing.T) {
	t.Run("id form", func(t *testing.T) {
		var card Card
		require.NoError(t, json.Unmarshal([]byte(`{"customer":"cus_1"}`), &card))
		require.NotNil(t, card.Customer)
		assert.False(t, card.Customer.IsExpanded())
		assert.Equal(t, CustomerID("cus_1"), card.Customer.ID())

		data, err := json.Marshal(card)
		require.NoError(t, err)
		assert.JSONEq(t, `{"customer":"cus_1"}`, string(data))
	})

	t.Run("object form", func(t *testing.T) {
		var card Card
		require.NoError(t, json.Unmarshal([]byte(`{"customer":{"id":"cus_2","object":"customer","created":5}}`), &card))
		require.NotNil(t, card.Customer)
		assert.True(t, card.Customer.IsExpanded())
		assert.Equal(t, CustomerID("cus_2"), card.Customer.ID())
		obj, ok := card.Customer.Object()
		require.True(t, ok)
		require.NotNil(t, obj.Customer)
		assert.Equal(t, wire.Timestamp(5), obj.Customer.Created)
	})

	t.Run("absent", func(t *testing.T) {
		var card Card
		require.NoError(t, json.Unmarshal([]byte(`{}`), &card))
		assert.Nil(t, card.Customer)

		data, err := json.Marshal(card)
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(data))
	})
}

func TestPeekObject(t *testing.T) {
	tag, err := wire.PeekObject([]byte(`{"a":{"object":"nested"},"object":"charge"}`))
	require.NoError(t, err)
	assert.Equal(t, "charge", tag)

	_, err = wire.PeekObject([]byte(`[1]`))
	assert.Error(t, err)

	_, err = wire.PeekObject([]byte(`{"object":3}`))
	assert.Error(t, err)
}

func TestPaginate(t *testing.T) {
	pages := map[string]wire.List[Customer]{
		"":      {Object: "list", Data: []Customer{{ID: "cus_1"}, {ID: "cus_2"}}, HasMore: true},
		"cus_2": {Object: "list", Data: []Customer{{ID: "cus_3"}}, HasMore: false},
	}
	var cursors []string
	client := wire.ClientFunc(func(_ context.Context, req *wire.Request, out any) error {
		cursors = append(cursors, req.StartingAfter)
		page, ok := pages[req.StartingAfter]
		if !ok {
			return errors.New("unexpected cursor")
		}
		*out.(*wire.List[Customer]) = page
		return nil
	})

	req := &wire.Request{Method: "GET", Path: "/v1/customers"}
	var ids []CustomerID
	for c, err := range wire.Paginate(context.Background(), client, req, wire.ByID[CustomerID, Customer]) {
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []CustomerID{"cus_1", "cus_2", "cus_3"}, ids)
	assert.Equal(t, []string{"", "cus_2"}, cursors)
	assert.Empty(t, req.StartingAfter)

	t.Run("stops early", func(t *testing.T) {
		cursors = nil
		for range wire.Paginate(context.Background(), client, req, wire.ByID[CustomerID, Customer]) {
			break
		}
		assert.Equal(t, []string{""}, cursors)
	})

	t.Run("error ends iteration", func(t *testing.T) {
		failing := wire.ClientFunc(func(context.Context, *wire.Request, any) error {
			return errors.New("boom")
		})
		var errs []error
		for _, err := range wire.Paginate[Customer](context.Background(), failing, req, nil) {
			errs = append(errs, err)
		}
		require.Len(t, errs, 1)
		assert.EqualError(t, errs[0], "boom")
	})
}

func TestSend(t *testing.T) {
	client := wire.ClientFunc(func(_ context.Context, req *wire.Request, out any) error {
		assert.Equal(t, "POST", req.Method)
		assert.True(t, req.Form)
		out.(*Customer).ID = "cus_9"
		return nil
	})
	c, err := wire.Send[Customer](context.Background(), client, &wire.Request{Method: "POST", Path: "/v1/customers", Form: true})
	require.NoError(t, err)
	assert.Equal(t, CustomerID("cus_9"), c.GetID())
}

func TestScalars(t *testing.T) {
	ts := wire.Timestamp(1700000000)
	assert.Equal(t, int64(1700000000), ts.Time().Unix())
	assert.Equal(t, ts, wire.TimestampOf(ts.Time()))

	d, err := wire.Date("2024-02-29").Time()
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day())

	assert.Equal(t, "usd", wire.Currency("usd").String())
}
