package engine

import (
	"sync"

	"github.com/iov-one/brokerpay"
	"github.com/iov-one/brokerpay/errors"
	"github.com/iov-one/brokerpay/x/audit"
	"github.com/iov-one/brokerpay/x/cash"
	"github.com/iov-one/brokerpay/x/escrow"
	"github.com/iov-one/brokerpay/x/token"
)

// Custody is the account holding the tokens backing all wallet balances.
// Depositors approve this address on the token supply, deposits pull the
// tokens in and withdrawals push them back out.
var Custody = brokerpay.NewCondition("engine", "custody", []byte("vault")).Address()

// Engine is the public facade of the payment system. It owns the store and
// serializes all operations behind one mutex, running every mutation inside
// a cache wrap so that it either commits completely or not at all.
type Engine struct {
	mu      sync.Mutex
	db      brokerpay.CacheableKVStore
	cash    *cash.WalletController
	escrows *escrow.Controller
	tokens  *token.Controller
	log     *audit.Log
}

// New returns an engine on top of the given store. The protocol fee is paid
// to the given collector; nil selects escrow.DefaultFeeCollector.
func New(db brokerpay.CacheableKVStore, tokens *token.Controller, collector brokerpay.Address) *Engine {
	cashCtrl := cash.NewController()
	log := audit.NewLog()
	return &Engine{
		db:      db,
		cash:    cashCtrl,
		escrows: escrow.NewController(cashCtrl, log, collector),
		tokens:  tokens,
		log:     log,
	}
}

// NewFromGenesis builds an engine and seeds wallets, token balances and the
// fee collector from the given genesis options.
func NewFromGenesis(db brokerpay.CacheableKVStore, tokens *token.Controller, opts brokerpay.Options) (*Engine, error) {
	var conf struct {
		FeeCollector brokerpay.Address `json:"fee_collector"`
	}
	if err := opts.ReadOptions("escrow", &conf); err != nil {
		return nil, err
	}
	cache := db.CacheWrap()
	ini := brokerpay.ChainInitializers(&cash.Initializer{}, &token.Initializer{})
	if err := ini.FromGenesis(opts, cache); err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, err
	}
	return New(db, tokens, conf.FeeCollector), nil
}

// CreateEscrow locks the creator's funds for a new escrow and returns the
// assigned id.
func (e *Engine) CreateEscrow(creator, broker, recipient brokerpay.Address, gross, brokerFeeBps int64, notes string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var id []byte
	err := e.atomic(func(db brokerpay.KVStore) error {
		var err error
		id, err = e.escrows.Create(db, &escrow.CreateMsg{
			Creator:      creator,
			Broker:       broker,
			Recipient:    recipient,
			Gross:        gross,
			BrokerFeeBps: brokerFeeBps,
			Notes:        notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return id, nil
}

// Act applies one protocol action to an existing escrow on behalf of the
// actor and returns the new status.
func (e *Engine) Act(id []byte, actor brokerpay.Address, action escrow.Action) (escrow.Status, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var status escrow.Status
	err := e.atomic(func(db brokerpay.KVStore) error {
		var err error
		status, err = e.escrows.Act(db, id, actor, action)
		return err
	})
	if err != nil {
		return 0, err
	}
	return status, nil
}

// GetDetails returns the escrow record with the given id.
func (e *Engine) GetDetails(id []byte) (*escrow.Escrow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.escrows.GetDetails(e.db, id)
}

// GetBalance returns the available and locked wallet balances of an account.
func (e *Engine) GetBalance(account brokerpay.Address) (available, locked int64, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, err := e.cash.Balance(e.db, account)
	if err != nil {
		return 0, 0, err
	}
	return w.Available, w.Locked, nil
}

// History returns all audit events recorded for the given escrow id, oldest
// first.
func (e *Engine) History(id []byte) ([]audit.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.ByEscrow(e.db, id)
}

// Deposit pulls tokens from the account into custody and credits the
// account's wallet. The account must have approved the custody address on
// the token supply beforehand.
func (e *Engine) Deposit(account brokerpay.Address, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.atomic(func(db brokerpay.KVStore) error {
		if err := e.tokens.TransferFrom(db, Custody, account, Custody, amount); err != nil {
			return errors.Wrap(err, "pull tokens")
		}
		return e.cash.Credit(db, account, amount)
	})
}

// Withdraw debits the account's available wallet balance and pushes the
// tokens back out of custody.
func (e *Engine) Withdraw(account brokerpay.Address, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.atomic(func(db brokerpay.KVStore) error {
		if err := e.cash.Debit(db, account, amount); err != nil {
			return err
		}
		return errors.Wrap(e.tokens.Transfer(db, Custody, account, amount), "push tokens")
	})
}

// atomic runs fn inside a cache wrap. The wrap is written on success and
// discarded on any error, so no partial effect ever reaches the store.
func (e *Engine) atomic(fn func(brokerpay.KVStore) error) error {
	cache := e.db.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}
