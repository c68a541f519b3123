package token

import (
	"github.com/iov-one/brokerpay"
	"github.com/iov-one/brokerpay/errors"
	"github.com/iov-one/brokerpay/orm"
)

var (
	_ orm.Model = (*Account)(nil)
	_ orm.Model = (*Config)(nil)
)

// Validate ensures the account balance and all approvals are non-negative.
func (a *Account) Validate() error {
	if a.Balance < 0 {
		return errors.Wrapf(errors.ErrAmount, "negative balance: %d", a.Balance)
	}
	for _, ap := range a.Approvals {
		if err := brokerpay.Address(ap.Spender).Validate(); err != nil {
			return errors.Wrap(err, "spender")
		}
		if ap.Amount < 0 {
			return errors.Wrapf(errors.ErrAmount, "negative approval: %d", ap.Amount)
		}
	}
	return nil
}

// Copy makes an independent copy of the account.
func (a *Account) Copy() orm.Model {
	approvals := make([]*Approval, len(a.Approvals))
	for i, ap := range a.Approvals {
		approvals[i] = &Approval{
			Spender: append([]byte(nil), ap.Spender...),
			Amount:  ap.Amount,
		}
	}
	return &Account{
		Balance:   a.Balance,
		Approvals: approvals,
	}
}

// Allowance returns how much the given spender may move out of the account.
func (a *Account) Allowance(spender brokerpay.Address) int64 {
	for _, ap := range a.Approvals {
		if spender.Equals(brokerpay.Address(ap.Spender)) {
			return ap.Amount
		}
	}
	return 0
}

// SetAllowance overwrites the approval for the given spender. A zero amount
// removes the entry.
func (a *Account) SetAllowance(spender brokerpay.Address, amount int64) {
	for i, ap := range a.Approvals {
		if spender.Equals(brokerpay.Address(ap.Spender)) {
			if amount == 0 {
				a.Approvals = append(a.Approvals[:i], a.Approvals[i+1:]...)
			} else {
				ap.Amount = amount
			}
			return
		}
	}
	if amount != 0 {
		a.Approvals = append(a.Approvals, &Approval{Spender: spender, Amount: amount})
	}
}

// Validate ensures all configured addresses are well formed.
func (c *Config) Validate() error {
	if len(c.Owner) != 0 {
		if err := brokerpay.Address(c.Owner).Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	for _, m := range c.Minters {
		if err := brokerpay.Address(m).Validate(); err != nil {
			return errors.Wrap(err, "minter")
		}
	}
	for _, p := range c.Pausers {
		if err := brokerpay.Address(p).Validate(); err != nil {
			return errors.Wrap(err, "pauser")
		}
	}
	return nil
}

// Copy makes an independent copy of the configuration.
func (c *Config) Copy() orm.Model {
	minters := make([][]byte, len(c.Minters))
	for i, m := range c.Minters {
		minters[i] = append([]byte(nil), m...)
	}
	pausers := make([][]byte, len(c.Pausers))
	for i, p := range c.Pausers {
		pausers[i] = append([]byte(nil), p...)
	}
	return &Config{
		Paused:  c.Paused,
		Owner:   append([]byte(nil), c.Owner...),
		Minters: minters,
		Pausers: pausers,
	}
}

// IsMinter returns whether the address holds the minter role.
func (c *Config) IsMinter(addr brokerpay.Address) bool {
	return contains(c.Minters, addr)
}

// IsPauser returns whether the address holds the pauser role.
func (c *Config) IsPauser(addr brokerpay.Address) bool {
	return contains(c.Pausers, addr)
}

// IsOwner returns whether the address is the configured owner.
func (c *Config) IsOwner(addr brokerpay.Address) bool {
	return len(c.Owner) != 0 && addr.Equals(brokerpay.Address(c.Owner))
}

func contains(members [][]byte, addr brokerpay.Address) bool {
	for _, m := range members {
		if addr.Equals(brokerpay.Address(m)) {
			return true
		}
	}
	return false
}

func remove(members [][]byte, addr brokerpay.Address) [][]byte {
	for i, m := range members {
		if addr.Equals(brokerpay.Address(m)) {
			return append(members[:i], members[i+1:]...)
		}
	}
	return members
}

// NewAccountBucket returns a bucket for keeping token accounts, keyed by the
// holder address.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket("tok", &Account{})
}

// NewConfigBucket returns a bucket holding the singleton configuration.
func NewConfigBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokconf", &Config{})
}
