package cash

import (
	"github.com/iov-one/brokerpay/errors"
	"github.com/iov-one/brokerpay/orm"
)

var _ orm.Model = (*Wallet)(nil)

// Validate ensures the wallet holds no negative amounts.
func (w *Wallet) Validate() error {
	if w.Available < 0 {
		return errors.Wrapf(errors.ErrAmount, "negative available: %d", w.Available)
	}
	if w.Locked < 0 {
		return errors.Wrapf(errors.ErrAmount, "negative locked: %d", w.Locked)
	}
	return nil
}

// Copy makes a new wallet with the same balances.
func (w *Wallet) Copy() orm.Model {
	return &Wallet{
		Available: w.Available,
		Locked:    w.Locked,
	}
}

// Total returns the sum of available and locked funds.
func (w *Wallet) Total() int64 {
	return w.Available + w.Locked
}

// NewWalletBucket returns a bucket for keeping wallets, keyed by the owner
// address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket("cash", &Wallet{})
}
