package cash

import (
	"github.com/iov-one/brokerpay"
	"github.com/iov-one/brokerpay/errors"
)

// GenesisAccount is one entry in the "cash" genesis option.
type GenesisAccount struct {
	Address brokerpay.Address `json:"address"`
	Amount  int64             `json:"amount"`
}

// Initializer fulfils the Initializer interface to load initial wallet
// balances from genesis.
type Initializer struct{}

var _ brokerpay.Initializer = (*Initializer)(nil)

// FromGenesis initializes wallets from the genesis "cash" option.
func (*Initializer) FromGenesis(opts brokerpay.Options, db brokerpay.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions("cash", &accounts); err != nil {
		return err
	}
	bucket := NewWalletBucket()
	for i, acc := range accounts {
		if err := acc.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		if acc.Amount < 0 {
			return errors.Wrapf(errors.ErrAmount, "account #%d", i)
		}
		w := Wallet{Available: acc.Amount}
		if err := bucket.Put(db, acc.Address, &w); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
	}
	return nil
}
