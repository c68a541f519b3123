package cash

import (
	"testing"

	"github.com/iov-one/brokerpay"
	"github.com/iov-one/brokerpay/errors"
	"github.com/iov-one/brokerpay/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = brokerpay.NewCondition("test", "user", []byte("alice")).Address()
	bob   = brokerpay.NewCondition("test", "user", []byte("bob")).Address()
)

func TestCreditAndBalance(t *testing.T) {
	db := store.MemStore()
	c := NewController()

	w, err := c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Available)
	assert.Equal(t, int64(0), w.Locked)

	require.NoError(t, c.Credit(db, alice, 100))
	require.NoError(t, c.Credit(db, alice, 50))

	w, err = c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(150), w.Available)
	assert.Equal(t, int64(0), w.Locked)
}

func TestCreditNegative(t *testing.T) {
	db := store.MemStore()
	c := NewController()

	err := c.Credit(db, alice, -5)
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestCreditZeroIsNoop(t *testing.T) {
	db := store.MemStore()
	c := NewController()

	require.NoError(t, c.Credit(db, alice, 0))

	w, err := c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Available)

	require.NoError(t, c.Credit(db, alice, 5))
	require.NoError(t, c.Credit(db, alice, 0))

	w, err = c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(5), w.Available)
}

func TestDebit(t *testing.T) {
	db := store.MemStore()
	c := NewController()

	require.NoError(t, c.Credit(db, alice, 100))
	require.NoError(t, c.Debit(db, alice, 40))

	w, err := c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(60), w.Available)

	err = c.Debit(db, alice, 61)
	assert.True(t, ErrInsufficientFunds.Is(err))

	// Failed debit must not change the balance.
	w, err = c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(60), w.Available)
}

func TestDebitUnknownAccount(t *testing.T) {
	db := store.MemStore()
	c := NewController()

	err := c.Debit(db, bob, 1)
	assert.True(t, ErrInsufficientFunds.Is(err))
}

func TestLockAndReleaseSameAccount(t *testing.T) {
	db := store.MemStore()
	c := NewController()

	require.NoError(t, c.Credit(db, alice, 100))
	require.NoError(t, c.Lock(db, alice, 70))

	w, err := c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(30), w.Available)
	assert.Equal(t, int64(70), w.Locked)

	err = c.Lock(db, alice, 31)
	assert.True(t, ErrInsufficientFunds.Is(err))

	// Releasing back to the same account unlocks the funds.
	require.NoError(t, c.Release(db, alice, alice, 70))

	w, err = c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(100), w.Available)
	assert.Equal(t, int64(0), w.Locked)
}

func TestReleaseToOtherAccount(t *testing.T) {
	db := store.MemStore()
	c := NewController()

	require.NoError(t, c.Credit(db, alice, 100))
	require.NoError(t, c.Lock(db, alice, 100))
	require.NoError(t, c.Release(db, alice, bob, 100))

	wa, err := c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(0), wa.Available)
	assert.Equal(t, int64(0), wa.Locked)

	wb, err := c.Balance(db, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(100), wb.Available)
}

func TestReleaseOverLocked(t *testing.T) {
	db := store.MemStore()
	c := NewController()

	require.NoError(t, c.Credit(db, alice, 100))
	require.NoError(t, c.Lock(db, alice, 10))

	err := c.Release(db, alice, bob, 11)
	assert.True(t, ErrCorruptLock.Is(err))
}

func TestMove(t *testing.T) {
	db := store.MemStore()
	c := NewController()

	require.NoError(t, c.Credit(db, alice, 100))
	require.NoError(t, c.Move(db, alice, bob, 25))

	wa, err := c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(75), wa.Available)

	wb, err := c.Balance(db, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(25), wb.Available)

	err = c.Move(db, alice, alice, 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestGenesisAccounts(t *testing.T) {
	db := store.MemStore()
	opts := brokerpay.Options{
		"cash": []byte(`[
			{"address": "` + alice.String() + `", "amount": 500}
		]`),
	}
	var ini Initializer
	require.NoError(t, ini.FromGenesis(opts, db))

	c := NewController()
	w, err := c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(500), w.Available)
}
