package escrow

import (
	"testing"

	"github.com/iov-one/brokerpay"
	"github.com/iov-one/brokerpay/errors"
	"github.com/iov-one/brokerpay/store"
	"github.com/iov-one/brokerpay/x/audit"
	"github.com/iov-one/brokerpay/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	creator   = brokerpay.NewCondition("test", "user", []byte("creator")).Address()
	broker    = brokerpay.NewCondition("test", "user", []byte("broker")).Address()
	recipient = brokerpay.NewCondition("test", "user", []byte("recipient")).Address()
	stranger  = brokerpay.NewCondition("test", "user", []byte("stranger")).Address()
)

type fixture struct {
	db   brokerpay.KVStore
	cash *cash.WalletController
	ctrl *Controller
}

func newFixture(t *testing.T, funding int64) *fixture {
	t.Helper()
	db := store.MemStore()
	cashCtrl := cash.NewController()
	require.NoError(t, cashCtrl.Credit(db, creator, funding))
	return &fixture{
		db:   db,
		cash: cashCtrl,
		ctrl: NewController(cashCtrl, audit.NewLog(), nil),
	}
}

func (f *fixture) create(t *testing.T, gross, brokerBps int64) []byte {
	t.Helper()
	id, err := f.ctrl.Create(f.db, &CreateMsg{
		Creator:      creator,
		Broker:       broker,
		Recipient:    recipient,
		Gross:        gross,
		BrokerFeeBps: brokerBps,
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) available(t *testing.T, owner brokerpay.Address) int64 {
	t.Helper()
	w, err := f.cash.Balance(f.db, owner)
	require.NoError(t, err)
	return w.Available
}

func (f *fixture) locked(t *testing.T, owner brokerpay.Address) int64 {
	t.Helper()
	w, err := f.cash.Balance(f.db, owner)
	require.NoError(t, err)
	return w.Locked
}

func TestCreate(t *testing.T) {
	f := newFixture(t, 100)
	id := f.create(t, 100, 100)

	esc, err := f.ctrl.GetDetails(f.db, id)
	require.NoError(t, err)
	assert.Equal(t, Status_INITIATED, esc.Status)
	assert.Equal(t, int64(100), esc.Gross)
	assert.Equal(t, int64(97), esc.Net)
	assert.Equal(t, int64(1), esc.BrokerFee)
	assert.Equal(t, int64(2), esc.ProtocolFee)

	assert.Equal(t, int64(0), f.available(t, creator))
	assert.Equal(t, int64(98), f.locked(t, creator))
	assert.Equal(t, int64(2), f.available(t, DefaultFeeCollector))
}

func TestCreateInsufficientFunds(t *testing.T) {
	f := newFixture(t, 99)
	_, err := f.ctrl.Create(f.db, &CreateMsg{
		Creator:      creator,
		Broker:       broker,
		Recipient:    recipient,
		Gross:        100,
		BrokerFeeBps: 100,
	})
	assert.True(t, cash.ErrInsufficientFunds.Is(err))
}

func TestCreateAssignsIncreasingIds(t *testing.T) {
	f := newFixture(t, 200)
	first := f.create(t, 100, 100)
	second := f.create(t, 100, 100)
	assert.NotEqual(t, first, second)

	esc, err := f.ctrl.GetDetails(f.db, second)
	require.NoError(t, err)
	assert.Equal(t, Status_INITIATED, esc.Status)
}

func TestActUnknownEscrow(t *testing.T) {
	f := newFixture(t, 100)
	_, err := f.ctrl.Act(f.db, []byte{0, 0, 0, 0, 0, 0, 0, 9}, creator, ActionAccept)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestDirectAccept(t *testing.T) {
	f := newFixture(t, 100)
	id := f.create(t, 100, 100)

	status, err := f.ctrl.Act(f.db, id, creator, ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, Status_SUCCESS, status)

	// The broker never engaged, so the whole locked amount goes to the
	// recipient.
	assert.Equal(t, int64(98), f.available(t, recipient))
	assert.Equal(t, int64(0), f.available(t, broker))
	assert.Equal(t, int64(0), f.locked(t, creator))
}

func TestCancel(t *testing.T) {
	f := newFixture(t, 100)
	id := f.create(t, 100, 100)

	status, err := f.ctrl.Act(f.db, id, creator, ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, Status_CANCELLED, status)

	// Only the protocol fee is gone.
	assert.Equal(t, int64(98), f.available(t, creator))
	assert.Equal(t, int64(0), f.locked(t, creator))
}

func TestBrokerReject(t *testing.T) {
	f := newFixture(t, 100)
	id := f.create(t, 100, 100)

	status, err := f.ctrl.Act(f.db, id, broker, ActionRejectParticipation)
	require.NoError(t, err)
	assert.Equal(t, Status_CANCELLED, status)

	assert.Equal(t, int64(98), f.available(t, creator))
	assert.Equal(t, int64(0), f.available(t, broker))
}

func TestMediatedAccept(t *testing.T) {
	f := newFixture(t, 100)
	id := f.create(t, 100, 100)

	status, err := f.ctrl.Act(f.db, id, broker, ActionAcceptParticipation)
	require.NoError(t, err)
	assert.Equal(t, Status_PENDING, status)
	// Engagement moves no funds.
	assert.Equal(t, int64(98), f.locked(t, creator))

	status, err = f.ctrl.Act(f.db, id, creator, ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, Status_SUCCESS, status)

	// The broker engaged, so the fee is earned.
	assert.Equal(t, int64(97), f.available(t, recipient))
	assert.Equal(t, int64(1), f.available(t, broker))
	assert.Equal(t, int64(0), f.locked(t, creator))
}

func TestBrokerConfirm(t *testing.T) {
	f := newFixture(t, 100)
	id := f.create(t, 100, 100)

	_, err := f.ctrl.Act(f.db, id, broker, ActionAcceptParticipation)
	require.NoError(t, err)

	status, err := f.ctrl.Act(f.db, id, broker, ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, Status_SUCCESS, status)

	assert.Equal(t, int64(97), f.available(t, recipient))
	assert.Equal(t, int64(1), f.available(t, broker))
}

func TestDisputeAccept(t *testing.T) {
	f := newFixture(t, 100)
	id := f.create(t, 100, 100)

	_, err := f.ctrl.Act(f.db, id, broker, ActionAcceptParticipation)
	require.NoError(t, err)
	status, err := f.ctrl.Act(f.db, id, creator, ActionOpenDispute)
	require.NoError(t, err)
	assert.Equal(t, Status_DISPUTE, status)

	status, err = f.ctrl.Act(f.db, id, creator, ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, Status_SUCCESS, status)

	assert.Equal(t, int64(97), f.available(t, recipient))
	assert.Equal(t, int64(1), f.available(t, broker))
}

func TestDisputeCommit(t *testing.T) {
	f := newFixture(t, 100)
	id := f.create(t, 100, 100)

	_, err := f.ctrl.Act(f.db, id, broker, ActionAcceptParticipation)
	require.NoError(t, err)
	_, err = f.ctrl.Act(f.db, id, creator, ActionOpenDispute)
	require.NoError(t, err)

	status, err := f.ctrl.Act(f.db, id, broker, ActionCommit)
	require.NoError(t, err)
	assert.Equal(t, Status_SUCCESS, status)

	assert.Equal(t, int64(97), f.available(t, recipient))
	assert.Equal(t, int64(1), f.available(t, broker))
}

func TestDisputeRevoke(t *testing.T) {
	f := newFixture(t, 100)
	id := f.create(t, 100, 100)

	_, err := f.ctrl.Act(f.db, id, broker, ActionAcceptParticipation)
	require.NoError(t, err)
	_, err = f.ctrl.Act(f.db, id, creator, ActionOpenDispute)
	require.NoError(t, err)

	status, err := f.ctrl.Act(f.db, id, broker, ActionRevoke)
	require.NoError(t, err)
	assert.Equal(t, Status_CANCELLED, status)

	// The net comes back to the creator but the broker keeps the fee for
	// having engaged.
	assert.Equal(t, int64(97), f.available(t, creator))
	assert.Equal(t, int64(1), f.available(t, broker))
	assert.Equal(t, int64(0), f.available(t, recipient))
	assert.Equal(t, int64(0), f.locked(t, creator))
}

func TestActUnauthorized(t *testing.T) {
	f := newFixture(t, 100)
	id := f.create(t, 100, 100)

	cases := map[string]struct {
		actor  brokerpay.Address
		action Action
	}{
		"stranger cannot accept":           {stranger, ActionAccept},
		"broker cannot use creator accept": {broker, ActionAccept},
		"creator cannot engage":            {creator, ActionAcceptParticipation},
		"recipient cannot cancel":          {recipient, ActionCancel},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.ctrl.Act(f.db, id, tc.actor, tc.action)
			assert.True(t, errors.ErrUnauthorized.Is(err))
		})
	}

	// Nothing moved.
	assert.Equal(t, int64(98), f.locked(t, creator))
}

func TestActInvalidTransition(t *testing.T) {
	f := newFixture(t, 100)
	id := f.create(t, 100, 100)

	// Dispute can only be opened from PENDING.
	_, err := f.ctrl.Act(f.db, id, creator, ActionOpenDispute)
	assert.True(t, ErrInvalidTransition.Is(err))

	// An unknown action is rejected before any authorization check.
	_, err = f.ctrl.Act(f.db, id, stranger, Action("bogus"))
	assert.True(t, ErrInvalidTransition.Is(err))
}

func TestTerminalEscrowRejectsEverything(t *testing.T) {
	f := newFixture(t, 100)
	id := f.create(t, 100, 100)

	_, err := f.ctrl.Act(f.db, id, creator, ActionAccept)
	require.NoError(t, err)

	for _, action := range []Action{
		ActionAccept, ActionCancel, ActionOpenDispute,
		ActionAcceptParticipation, ActionRejectParticipation,
		ActionCommit, ActionRevoke,
	} {
		_, err := f.ctrl.Act(f.db, id, creator, action)
		assert.True(t, ErrInvalidTransition.Is(err), "action %s", action)
		_, err = f.ctrl.Act(f.db, id, broker, action)
		assert.True(t, ErrInvalidTransition.Is(err), "action %s", action)
	}

	// Replays did not move any funds.
	assert.Equal(t, int64(98), f.available(t, recipient))
	assert.Equal(t, int64(0), f.locked(t, creator))
}
