package docurl

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlyon/async-stripe-sub040/oaserrors"
)

func TestParseStatic(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"yaml", "customer: https://docs.stripe.com/api/customers/object\nbilling.meter: https://docs.stripe.com/api/billing/meter\nblank: ''\n"},
		{"json", `{"customer": "https://docs.stripe.com/api/customers/object", "billing.meter": "https://docs.stripe.com/api/billing/meter", "blank": ""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseStatic([]byte(tt.src))
			require.NoError(t, err)

			url, ok := s.Lookup("customer")
			assert.True(t, ok)
			assert.Equal(t, "https://docs.stripe.com/api/customers/object", url)

			_, ok = s.Lookup("billing.meter")
			assert.True(t, ok)
			_, ok = s.Lookup("blank")
			assert.False(t, ok)
			_, ok = s.Lookup("invoice")
			assert.False(t, ok)
		})
	}
}

func TestLoadStaticErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := LoadStatic(fs, "missing.yaml")
	assert.ErrorIs(t, err, oaserrors.ErrConfig)

	require.NoError(t, afero.WriteFile(fs, "bad.yaml", []byte("- not\n- a map\n"), 0o644))
	_, err = LoadStatic(fs, "bad.yaml")
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestChain(t *testing.T) {
	c := Chain{nil, Static{"customer": "a"}, Static{"customer": "b", "invoice": "c"}}
	url, ok := c.Lookup("customer")
	assert.True(t, ok)
	assert.Equal(t, "a", url)
	url, _ = c.Lookup("invoice")
	assert.Equal(t, "c", url)
	_, ok = c.Lookup("card")
	assert.False(t, ok)
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)

	require.NoError(t, db.Put("customer", "https://docs.stripe.com/api/customers"))
	require.NoError(t, db.Put("customer", "https://docs.stripe.com/api/customers/object"))

	url, ok := db.Lookup("customer")
	assert.True(t, ok)
	assert.Equal(t, "https://docs.stripe.com/api/customers/object", url)
	_, ok = db.Lookup("invoice")
	assert.False(t, ok)
	require.NoError(t, db.Close())

	l, closeFn, err := Open(afero.NewOsFs(), path)
	require.NoError(t, err)
	defer func() { require.NoError(t, closeFn()) }()
	url, ok = l.Lookup("customer")
	assert.True(t, ok)
	assert.Equal(t, "https://docs.stripe.com/api/customers/object", url)
}

func TestOpenStatic(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "docs.yaml", []byte("customer: https://x\n"), 0o644))
	l, closeFn, err := Open(fs, "docs.yaml")
	require.NoError(t, err)
	assert.NoError(t, closeFn())
	url, ok := l.Lookup("customer")
	assert.True(t, ok)
	assert.Equal(t, "https://x", url)
}
