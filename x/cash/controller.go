package cash

import (
	"github.com/iov-one/brokerpay"
	"github.com/iov-one/brokerpay/errors"
	"github.com/iov-one/brokerpay/orm"
)

// Controller is the functionality needed by the rest of the application to
// operate on wallets. Higher level components should use this interface and
// never the bucket directly.
type Controller interface {
	Balance(db brokerpay.ReadOnlyKVStore, owner brokerpay.Address) (*Wallet, error)
	Credit(db brokerpay.KVStore, owner brokerpay.Address, amount int64) error
	Debit(db brokerpay.KVStore, owner brokerpay.Address, amount int64) error
	Lock(db brokerpay.KVStore, owner brokerpay.Address, amount int64) error
	Release(db brokerpay.KVStore, src, dest brokerpay.Address, amount int64) error
	Move(db brokerpay.KVStore, src, dest brokerpay.Address, amount int64) error
}

// WalletController implements Controller on top of a wallet bucket.
type WalletController struct {
	bucket orm.ModelBucket
}

var _ Controller = (*WalletController)(nil)

// NewController returns a controller using the default wallet bucket.
func NewController() *WalletController {
	return &WalletController{bucket: NewWalletBucket()}
}

// Balance returns the wallet of the given owner. An account that was never
// credited is reported as an empty wallet, not as an error.
func (c *WalletController) Balance(db brokerpay.ReadOnlyKVStore, owner brokerpay.Address) (*Wallet, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	var w Wallet
	err := c.bucket.One(db, owner, &w)
	switch {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}

// Credit adds the amount to the available balance of the owner, creating the
// wallet if needed. Any non-negative amount is accepted, a zero amount is a
// noop.
func (c *WalletController) Credit(db brokerpay.KVStore, owner brokerpay.Address, amount int64) error {
	if amount == 0 {
		return errors.Wrap(owner.Validate(), "owner")
	}
	w, err := c.load(db, owner, amount)
	if err != nil {
		return err
	}
	w.Available += amount
	return c.bucket.Put(db, owner, w)
}

// Debit removes the amount from the available balance of the owner. It fails
// with ErrInsufficientFunds when the available balance is too low.
func (c *WalletController) Debit(db brokerpay.KVStore, owner brokerpay.Address, amount int64) error {
	w, err := c.load(db, owner, amount)
	if err != nil {
		return err
	}
	if w.Available < amount {
		return errors.Wrapf(ErrInsufficientFunds, "available %d, debit %d", w.Available, amount)
	}
	w.Available -= amount
	return c.bucket.Put(db, owner, w)
}

// Lock moves the amount from the available balance into the locked balance of
// the same owner.
func (c *WalletController) Lock(db brokerpay.KVStore, owner brokerpay.Address, amount int64) error {
	w, err := c.load(db, owner, amount)
	if err != nil {
		return err
	}
	if w.Available < amount {
		return errors.Wrapf(ErrInsufficientFunds, "available %d, lock %d", w.Available, amount)
	}
	w.Available -= amount
	w.Locked += amount
	return c.bucket.Put(db, owner, w)
}

// Release takes the amount out of the locked balance of src and credits it to
// the available balance of dest. When src and dest are the same account this
// is a plain unlock. Releasing more than is locked means the books are broken
// and fails with ErrCorruptLock.
func (c *WalletController) Release(db brokerpay.KVStore, src, dest brokerpay.Address, amount int64) error {
	w, err := c.load(db, src, amount)
	if err != nil {
		return err
	}
	if w.Locked < amount {
		return errors.Wrapf(ErrCorruptLock, "locked %d, release %d", w.Locked, amount)
	}
	w.Locked -= amount
	if src.Equals(dest) {
		w.Available += amount
		return c.bucket.Put(db, src, w)
	}
	if err := c.bucket.Put(db, src, w); err != nil {
		return err
	}
	return c.Credit(db, dest, amount)
}

// Move transfers the amount between the available balances of two accounts.
func (c *WalletController) Move(db brokerpay.KVStore, src, dest brokerpay.Address, amount int64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "same source and destination")
	}
	if err := c.Debit(db, src, amount); err != nil {
		return err
	}
	return c.Credit(db, dest, amount)
}

func (c *WalletController) load(db brokerpay.ReadOnlyKVStore, owner brokerpay.Address, amount int64) (*Wallet, error) {
	if amount <= 0 {
		return nil, errors.Wrapf(errors.ErrAmount, "non-positive amount: %d", amount)
	}
	return c.Balance(db, owner)
}
