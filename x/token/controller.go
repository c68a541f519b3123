package token

import (
	"github.com/iov-one/brokerpay"
	"github.com/iov-one/brokerpay/errors"
	"github.com/iov-one/brokerpay/orm"
	"github.com/iov-one/brokerpay/x/cash"
)

// configKey is the primary key of the singleton configuration record.
var configKey = []byte("conf")

// Controller is the fungible token supply backing the payment engine. It
// mimics an allowance based token: holders approve a spender, the spender
// pulls funds with TransferFrom. Minting and pausing are role gated.
type Controller struct {
	accounts orm.ModelBucket
	config   orm.ModelBucket
}

// NewController returns a controller using the default token buckets.
func NewController() *Controller {
	return &Controller{
		accounts: NewAccountBucket(),
		config:   NewConfigBucket(),
	}
}

// BalanceOf returns the token balance of the given holder. Unknown holders
// have a zero balance.
func (c *Controller) BalanceOf(db brokerpay.ReadOnlyKVStore, owner brokerpay.Address) (int64, error) {
	acct, err := c.account(db, owner)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

// Transfer moves tokens between two holders.
func (c *Controller) Transfer(db brokerpay.KVStore, src, dest brokerpay.Address, amount int64) error {
	if err := c.requireRunning(db); err != nil {
		return err
	}
	return c.move(db, src, dest, amount)
}

// TransferFrom moves tokens out of the owner account on behalf of the
// spender, consuming the owner's approval for the spender.
func (c *Controller) TransferFrom(db brokerpay.KVStore, spender, owner, dest brokerpay.Address, amount int64) error {
	if err := c.requireRunning(db); err != nil {
		return err
	}
	if amount <= 0 {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount: %d", amount)
	}
	acct, err := c.account(db, owner)
	if err != nil {
		return err
	}
	allowed := acct.Allowance(spender)
	if allowed < amount {
		return errors.Wrapf(cash.ErrInsufficientFunds, "allowance %d, transfer %d", allowed, amount)
	}
	acct.SetAllowance(spender, allowed-amount)
	if err := c.accounts.Put(db, owner, acct); err != nil {
		return err
	}
	return c.move(db, owner, dest, amount)
}

// Approve lets the spender move up to amount tokens out of the owner
// account. The new amount replaces any previous approval.
func (c *Controller) Approve(db brokerpay.KVStore, owner, spender brokerpay.Address, amount int64) error {
	if err := c.requireRunning(db); err != nil {
		return err
	}
	if amount < 0 {
		return errors.Wrapf(errors.ErrAmount, "negative amount: %d", amount)
	}
	if err := spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	acct, err := c.account(db, owner)
	if err != nil {
		return err
	}
	acct.SetAllowance(spender, amount)
	return c.accounts.Put(db, owner, acct)
}

// Allowance returns how much the spender may currently move out of the
// owner account.
func (c *Controller) Allowance(db brokerpay.ReadOnlyKVStore, owner, spender brokerpay.Address) (int64, error) {
	acct, err := c.account(db, owner)
	if err != nil {
		return 0, err
	}
	return acct.Allowance(spender), nil
}

// Mint creates new tokens on the destination account. Restricted to holders
// of the minter role.
func (c *Controller) Mint(db brokerpay.KVStore, actor, dest brokerpay.Address, amount int64) error {
	conf, err := c.loadConfig(db)
	if err != nil {
		return err
	}
	if !conf.IsMinter(actor) {
		return errors.Wrapf(ErrRoleRequired, "%s is not a minter", actor)
	}
	if conf.Paused {
		return errors.Wrap(ErrPaused, "mint")
	}
	if amount <= 0 {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount: %d", amount)
	}
	acct, err := c.account(db, dest)
	if err != nil {
		return err
	}
	acct.Balance += amount
	return c.accounts.Put(db, dest, acct)
}

// Burn destroys tokens from the actor's own balance.
func (c *Controller) Burn(db brokerpay.KVStore, actor brokerpay.Address, amount int64) error {
	if err := c.requireRunning(db); err != nil {
		return err
	}
	if amount <= 0 {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount: %d", amount)
	}
	acct, err := c.account(db, actor)
	if err != nil {
		return err
	}
	if acct.Balance < amount {
		return errors.Wrapf(cash.ErrInsufficientFunds, "balance %d, burn %d", acct.Balance, amount)
	}
	acct.Balance -= amount
	return c.accounts.Put(db, actor, acct)
}

// Pause stops all balance changing operations. Restricted to holders of the
// pauser role.
func (c *Controller) Pause(db brokerpay.KVStore, actor brokerpay.Address) error {
	return c.setPaused(db, actor, true)
}

// Unpause resumes operations. Restricted to holders of the pauser role.
func (c *Controller) Unpause(db brokerpay.KVStore, actor brokerpay.Address) error {
	return c.setPaused(db, actor, false)
}

// AddMinter grants the minter role. Restricted to the owner or an existing
// minter.
func (c *Controller) AddMinter(db brokerpay.KVStore, actor, addr brokerpay.Address) error {
	conf, err := c.loadConfig(db)
	if err != nil {
		return err
	}
	if !conf.IsOwner(actor) && !conf.IsMinter(actor) {
		return errors.Wrapf(ErrRoleRequired, "%s may not grant minter", actor)
	}
	if err := addr.Validate(); err != nil {
		return err
	}
	if !conf.IsMinter(addr) {
		conf.Minters = append(conf.Minters, addr)
	}
	return c.config.Put(db, configKey, conf)
}

// AddPauser grants the pauser role. Restricted to the owner or an existing
// pauser.
func (c *Controller) AddPauser(db brokerpay.KVStore, actor, addr brokerpay.Address) error {
	conf, err := c.loadConfig(db)
	if err != nil {
		return err
	}
	if !conf.IsOwner(actor) && !conf.IsPauser(actor) {
		return errors.Wrapf(ErrRoleRequired, "%s may not grant pauser", actor)
	}
	if err := addr.Validate(); err != nil {
		return err
	}
	if !conf.IsPauser(addr) {
		conf.Pausers = append(conf.Pausers, addr)
	}
	return c.config.Put(db, configKey, conf)
}

// RenounceMinter removes the actor's own minter role.
func (c *Controller) RenounceMinter(db brokerpay.KVStore, actor brokerpay.Address) error {
	conf, err := c.loadConfig(db)
	if err != nil {
		return err
	}
	conf.Minters = remove(conf.Minters, actor)
	return c.config.Put(db, configKey, conf)
}

// RenouncePauser removes the actor's own pauser role.
func (c *Controller) RenouncePauser(db brokerpay.KVStore, actor brokerpay.Address) error {
	conf, err := c.loadConfig(db)
	if err != nil {
		return err
	}
	conf.Pausers = remove(conf.Pausers, actor)
	return c.config.Put(db, configKey, conf)
}

func (c *Controller) setPaused(db brokerpay.KVStore, actor brokerpay.Address, paused bool) error {
	conf, err := c.loadConfig(db)
	if err != nil {
		return err
	}
	if !conf.IsPauser(actor) {
		return errors.Wrapf(ErrRoleRequired, "%s is not a pauser", actor)
	}
	conf.Paused = paused
	return c.config.Put(db, configKey, conf)
}

func (c *Controller) move(db brokerpay.KVStore, src, dest brokerpay.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount: %d", amount)
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	srcAcct, err := c.account(db, src)
	if err != nil {
		return err
	}
	if srcAcct.Balance < amount {
		return errors.Wrapf(cash.ErrInsufficientFunds, "balance %d, transfer %d", srcAcct.Balance, amount)
	}
	srcAcct.Balance -= amount
	if err := c.accounts.Put(db, src, srcAcct); err != nil {
		return err
	}
	destAcct, err := c.account(db, dest)
	if err != nil {
		return err
	}
	destAcct.Balance += amount
	return c.accounts.Put(db, dest, destAcct)
}

func (c *Controller) account(db brokerpay.ReadOnlyKVStore, owner brokerpay.Address) (*Account, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	var acct Account
	err := c.accounts.One(db, owner, &acct)
	switch {
	case err == nil:
		return &acct, nil
	case errors.ErrNotFound.Is(err):
		return &Account{}, nil
	default:
		return nil, err
	}
}

func (c *Controller) loadConfig(db brokerpay.ReadOnlyKVStore) (*Config, error) {
	var conf Config
	err := c.config.One(db, configKey, &conf)
	switch {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		return &Config{}, nil
	default:
		return nil, err
	}
}

func (c *Controller) requireRunning(db brokerpay.ReadOnlyKVStore) error {
	conf, err := c.loadConfig(db)
	if err != nil {
		return err
	}
	if conf.Paused {
		return errors.Wrap(ErrPaused, "supply paused")
	}
	return nil
}
