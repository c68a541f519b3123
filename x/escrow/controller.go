package escrow

import (
	"github.com/iov-one/brokerpay"
	"github.com/iov-one/brokerpay/errors"
	"github.com/iov-one/brokerpay/orm"
	"github.com/iov-one/brokerpay/x/audit"
	"github.com/iov-one/brokerpay/x/cash"
)

// DefaultFeeCollector is the account receiving the protocol fee when no
// other collector is configured.
var DefaultFeeCollector = brokerpay.NewCondition("escrow", "fee", []byte("collector")).Address()

// Controller creates escrows and drives them through the protocol. It owns
// the registry bucket and the id sequence, moves funds through the wallet
// controller and records every change in the audit log.
type Controller struct {
	bucket    orm.ModelBucket
	seq       orm.Sequence
	cash      cash.Controller
	log       *audit.Log
	collector brokerpay.Address
}

// NewController returns a controller paying the protocol fee to the given
// collector address. A nil collector selects DefaultFeeCollector.
func NewController(cashCtrl cash.Controller, log *audit.Log, collector brokerpay.Address) *Controller {
	if collector == nil {
		collector = DefaultFeeCollector
	}
	return &Controller{
		bucket:    NewBucket(),
		seq:       orm.NewSequence("esc", "id"),
		cash:      cashCtrl,
		log:       log,
		collector: collector,
	}
}

// Create opens a new escrow. The protocol fee is paid out to the collector
// right away and the rest of the gross amount is locked on the creator's
// wallet. Returns the assigned id.
//
// Balance changes are not rolled back on failure. Run inside a cache wrap
// when atomicity is required.
func (c *Controller) Create(db brokerpay.KVStore, msg *CreateMsg) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	net, brokerFee, protocolFee, err := Split(msg.Gross, msg.BrokerFeeBps)
	if err != nil {
		return nil, err
	}
	if protocolFee > 0 {
		if err := c.cash.Move(db, msg.Creator, c.collector, protocolFee); err != nil {
			return nil, errors.Wrap(err, "protocol fee")
		}
	}
	if err := c.cash.Lock(db, msg.Creator, net+brokerFee); err != nil {
		return nil, errors.Wrap(err, "lock")
	}

	id, err := c.seq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "sequence")
	}
	esc := &Escrow{
		Creator:     msg.Creator,
		Broker:      msg.Broker,
		Recipient:   msg.Recipient,
		Gross:       msg.Gross,
		Net:         net,
		BrokerFee:   brokerFee,
		ProtocolFee: protocolFee,
		Notes:       msg.Notes,
		Status:      Status_INITIATED,
	}
	if err := c.bucket.Put(db, id, esc); err != nil {
		return nil, err
	}
	if err := c.log.Created(db, id, msg.Creator, int32(Status_INITIATED)); err != nil {
		return nil, err
	}
	return id, nil
}

// Act applies one protocol action to the escrow with the given id on behalf
// of the given actor. An action not listed for the current status fails with
// ErrInvalidTransition, an actor that is not the required party fails with
// ErrUnauthorized. On success the new status is returned.
//
// Balance changes are not rolled back on failure. Run inside a cache wrap
// when atomicity is required.
func (c *Controller) Act(db brokerpay.KVStore, id []byte, actor brokerpay.Address, action Action) (Status, error) {
	var esc Escrow
	if err := c.bucket.One(db, id, &esc); err != nil {
		return 0, errors.Wrapf(err, "escrow %x", id)
	}
	t, ok := transitions[esc.Status][action]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidTransition, "%s in status %s", action, esc.Status)
	}

	var role Role
	switch {
	case t.allows(RoleCreator) && actor.Equals(brokerpay.Address(esc.Creator)):
		role = RoleCreator
	case t.allows(RoleBroker) && actor.Equals(brokerpay.Address(esc.Broker)):
		role = RoleBroker
	default:
		return 0, errors.Wrapf(errors.ErrUnauthorized, "%s may not %s", actor, action)
	}

	if err := c.payout(db, &esc, t.effect); err != nil {
		return 0, err
	}
	esc.Status = t.next
	if err := c.bucket.Put(db, id, &esc); err != nil {
		return 0, err
	}
	auditRole := audit.Role_CREATOR
	if role == RoleBroker {
		auditRole = audit.Role_BROKER
	}
	if err := c.log.StatusChanged(db, id, auditRole, actor, int32(t.next)); err != nil {
		return 0, err
	}
	return t.next, nil
}

// GetDetails loads the escrow with the given id.
func (c *Controller) GetDetails(db brokerpay.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	var esc Escrow
	if err := c.bucket.One(db, id, &esc); err != nil {
		return nil, errors.Wrapf(err, "escrow %x", id)
	}
	return &esc, nil
}

func (c *Controller) payout(db brokerpay.KVStore, esc *Escrow, eff effect) error {
	creator := brokerpay.Address(esc.Creator)
	switch eff {
	case effectNone:
		return nil
	case effectPayAll:
		return c.cash.Release(db, creator, brokerpay.Address(esc.Recipient), esc.Locked())
	case effectRefund:
		return c.cash.Release(db, creator, creator, esc.Locked())
	case effectSplit:
		return c.settle(db, esc, brokerpay.Address(esc.Recipient))
	case effectRevoke:
		return c.settle(db, esc, creator)
	default:
		return errors.Wrapf(errors.ErrState, "effect %d", eff)
	}
}

// settle releases the net amount to the given destination and the broker fee
// to the broker.
func (c *Controller) settle(db brokerpay.KVStore, esc *Escrow, netDest brokerpay.Address) error {
	creator := brokerpay.Address(esc.Creator)
	if esc.Net > 0 {
		if err := c.cash.Release(db, creator, netDest, esc.Net); err != nil {
			return err
		}
	}
	if esc.BrokerFee > 0 {
		if err := c.cash.Release(db, creator, brokerpay.Address(esc.Broker), esc.BrokerFee); err != nil {
			return err
		}
	}
	return nil
}
