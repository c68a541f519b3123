package token

import (
	"github.com/iov-one/brokerpay"
	"github.com/iov-one/brokerpay/errors"
)

// GenesisAccount is one entry in the "token" genesis option.
type GenesisAccount struct {
	Address brokerpay.Address `json:"address"`
	Balance int64             `json:"balance"`
}

// genesisConf is the layout of the "token" genesis option.
type genesisConf struct {
	Owner    brokerpay.Address   `json:"owner"`
	Minters  []brokerpay.Address `json:"minters"`
	Pausers  []brokerpay.Address `json:"pausers"`
	Accounts []GenesisAccount    `json:"accounts"`
}

// Initializer fulfils the Initializer interface to load the token
// configuration and the initial balances from genesis.
type Initializer struct{}

var _ brokerpay.Initializer = (*Initializer)(nil)

// FromGenesis initializes the supply from the genesis "token" option. The
// owner is always granted both roles so the supply can be administered.
func (*Initializer) FromGenesis(opts brokerpay.Options, db brokerpay.KVStore) error {
	var gen genesisConf
	if err := opts.ReadOptions("token", &gen); err != nil {
		return err
	}
	if gen.Owner == nil && len(gen.Accounts) == 0 {
		return nil
	}

	conf := Config{Owner: gen.Owner}
	for _, m := range gen.Minters {
		conf.Minters = append(conf.Minters, m)
	}
	for _, p := range gen.Pausers {
		conf.Pausers = append(conf.Pausers, p)
	}
	if gen.Owner != nil {
		if !conf.IsMinter(gen.Owner) {
			conf.Minters = append(conf.Minters, gen.Owner)
		}
		if !conf.IsPauser(gen.Owner) {
			conf.Pausers = append(conf.Pausers, gen.Owner)
		}
	}
	if err := NewConfigBucket().Put(db, configKey, &conf); err != nil {
		return errors.Wrap(err, "config")
	}

	accounts := NewAccountBucket()
	for i, acc := range gen.Accounts {
		if err := acc.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		if acc.Balance < 0 {
			return errors.Wrapf(errors.ErrAmount, "account #%d", i)
		}
		acct := Account{Balance: acc.Balance}
		if err := accounts.Put(db, acc.Address, &acct); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
	}
	return nil
}
