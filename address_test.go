package brokerpay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondition(t *testing.T) {
	cond := NewCondition("engine", "custody", []byte("vault"))
	require.NoError(t, cond.Validate())

	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, "engine", ext)
	assert.Equal(t, "custody", typ)
	assert.Equal(t, []byte("vault"), data)

	addr := cond.Address()
	assert.NoError(t, addr.Validate())
	assert.Len(t, []byte(addr), AddressLength)

	// The same condition always derives the same address.
	assert.True(t, addr.Equals(NewCondition("engine", "custody", []byte("vault")).Address()))
	assert.False(t, addr.Equals(NewCondition("engine", "custody", []byte("other")).Address()))
}

func TestConditionInvalid(t *testing.T) {
	cases := map[string]Condition{
		"empty":             nil,
		"missing data":      Condition("foo/bar/"),
		"extension too big": NewCondition("waytoolongname", "bar", []byte("data")),
		"bad separator":     Condition("foo.bar.baz"),
	}
	for name, cond := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, cond.Validate())
		})
	}
}

func TestAddressValidate(t *testing.T) {
	assert.Error(t, Address(nil).Validate())
	assert.Error(t, Address(make([]byte, 19)).Validate())
	assert.NoError(t, Address(make([]byte, 20)).Validate())
}

func TestAddressJSON(t *testing.T) {
	addr := NewCondition("test", "user", []byte("alice")).Address()

	raw, err := json.Marshal(addr)
	require.NoError(t, err)

	var got Address
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, addr.Equals(got))

	// Empty value resets the address.
	require.NoError(t, json.Unmarshal([]byte(`""`), &got))
	assert.Nil(t, got)
}

func TestAddressBech32RoundTrip(t *testing.T) {
	addr := NewCondition("test", "user", []byte("bob")).Address()

	enc, err := addr.Bech32("pay")
	require.NoError(t, err)

	got, err := ParseAddress("bech32:" + enc)
	require.NoError(t, err)
	assert.True(t, addr.Equals(got))
}

func TestParseAddress(t *testing.T) {
	addr := NewCondition("test", "user", []byte("carl")).Address()

	got, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.True(t, addr.Equals(got))

	_, err = ParseAddress("hex:xyz")
	assert.Error(t, err)
	_, err = ParseAddress("base64:AAAA")
	assert.Error(t, err)
}
