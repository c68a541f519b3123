package engine

import (
	"strconv"
	"testing"

	"github.com/iov-one/brokerpay"
	"github.com/iov-one/brokerpay/errors"
	"github.com/iov-one/brokerpay/store"
	"github.com/iov-one/brokerpay/x/audit"
	"github.com/iov-one/brokerpay/x/cash"
	"github.com/iov-one/brokerpay/x/escrow"
	"github.com/iov-one/brokerpay/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	creator   = brokerpay.NewCondition("test", "user", []byte("creator")).Address()
	broker    = brokerpay.NewCondition("test", "user", []byte("broker")).Address()
	recipient = brokerpay.NewCondition("test", "user", []byte("recipient")).Address()
	collector = brokerpay.NewCondition("test", "fee", []byte("collector")).Address()
)

// newEngine seeds the creator with the given wallet funding and 1000 tokens.
func newEngine(t *testing.T, funding int64) (*Engine, *token.Controller) {
	t.Helper()
	db := store.MemStore()
	tokens := token.NewController()
	opts := brokerpay.Options{
		"escrow": []byte(`{"fee_collector": "` + collector.String() + `"}`),
		"cash": []byte(`[
			{"address": "` + creator.String() + `", "amount": ` + strconv.FormatInt(funding, 10) + `}
		]`),
		"token": []byte(`{
			"accounts": [{"address": "` + creator.String() + `", "balance": 1000}]
		}`),
	}
	eng, err := NewFromGenesis(db, tokens, opts)
	require.NoError(t, err)
	return eng, tokens
}

func balance(t *testing.T, eng *Engine, account brokerpay.Address) (int64, int64) {
	t.Helper()
	available, locked, err := eng.GetBalance(account)
	require.NoError(t, err)
	return available, locked
}

// total sums available plus locked over all involved accounts.
func total(t *testing.T, eng *Engine) int64 {
	t.Helper()
	var sum int64
	for _, acc := range []brokerpay.Address{creator, broker, recipient, collector} {
		available, locked := balance(t, eng, acc)
		sum += available + locked
	}
	return sum
}

func TestCreateLocksAndPaysProtocolFee(t *testing.T) {
	eng, _ := newEngine(t, 100)

	id, err := eng.CreateEscrow(creator, broker, recipient, 100, 100, "rent")
	require.NoError(t, err)

	esc, err := eng.GetDetails(id)
	require.NoError(t, err)
	assert.Equal(t, int64(97), esc.Net)
	assert.Equal(t, int64(1), esc.BrokerFee)
	assert.Equal(t, int64(2), esc.ProtocolFee)
	assert.Equal(t, "rent", esc.Notes)
	assert.Equal(t, escrow.Status_INITIATED, esc.Status)

	available, locked := balance(t, eng, creator)
	assert.Equal(t, int64(0), available)
	assert.Equal(t, int64(98), locked)

	available, _ = balance(t, eng, collector)
	assert.Equal(t, int64(2), available)
}

func TestCreateIsAtomic(t *testing.T) {
	eng, _ := newEngine(t, 2)

	// The protocol fee alone could be paid, but the lock must fail, and
	// then the fee payment has to be rolled back too.
	_, err := eng.CreateEscrow(creator, broker, recipient, 100, 100, "")
	assert.True(t, cash.ErrInsufficientFunds.Is(err))

	available, locked := balance(t, eng, creator)
	assert.Equal(t, int64(2), available)
	assert.Equal(t, int64(0), locked)
	available, _ = balance(t, eng, collector)
	assert.Equal(t, int64(0), available)
}

func TestDirectAccept(t *testing.T) {
	eng, _ := newEngine(t, 100)
	before := total(t, eng)

	id, err := eng.CreateEscrow(creator, broker, recipient, 100, 100, "")
	require.NoError(t, err)

	status, err := eng.Act(id, creator, escrow.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, escrow.Status_SUCCESS, status)

	available, locked := balance(t, eng, creator)
	assert.Equal(t, int64(0), available)
	assert.Equal(t, int64(0), locked)
	available, _ = balance(t, eng, recipient)
	assert.Equal(t, int64(98), available)
	available, _ = balance(t, eng, broker)
	assert.Equal(t, int64(0), available)

	assert.Equal(t, before, total(t, eng))
}

func TestMediatedAccept(t *testing.T) {
	eng, _ := newEngine(t, 100)
	before := total(t, eng)

	id, err := eng.CreateEscrow(creator, broker, recipient, 100, 100, "")
	require.NoError(t, err)

	status, err := eng.Act(id, broker, escrow.ActionAcceptParticipation)
	require.NoError(t, err)
	assert.Equal(t, escrow.Status_PENDING, status)

	status, err = eng.Act(id, creator, escrow.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, escrow.Status_SUCCESS, status)

	available, _ := balance(t, eng, recipient)
	assert.Equal(t, int64(97), available)
	available, _ = balance(t, eng, broker)
	assert.Equal(t, int64(1), available)

	assert.Equal(t, before, total(t, eng))
}

func TestDisputeRevoke(t *testing.T) {
	eng, _ := newEngine(t, 100)
	before := total(t, eng)

	id, err := eng.CreateEscrow(creator, broker, recipient, 100, 100, "")
	require.NoError(t, err)

	_, err = eng.Act(id, broker, escrow.ActionAcceptParticipation)
	require.NoError(t, err)
	status, err := eng.Act(id, creator, escrow.ActionOpenDispute)
	require.NoError(t, err)
	assert.Equal(t, escrow.Status_DISPUTE, status)

	status, err = eng.Act(id, broker, escrow.ActionRevoke)
	require.NoError(t, err)
	assert.Equal(t, escrow.Status_CANCELLED, status)

	available, locked := balance(t, eng, creator)
	assert.Equal(t, int64(97), available)
	assert.Equal(t, int64(0), locked)
	available, _ = balance(t, eng, broker)
	assert.Equal(t, int64(1), available)
	available, _ = balance(t, eng, recipient)
	assert.Equal(t, int64(0), available)

	assert.Equal(t, before, total(t, eng))
}

func TestTerminalIdempotence(t *testing.T) {
	eng, _ := newEngine(t, 100)

	id, err := eng.CreateEscrow(creator, broker, recipient, 100, 100, "")
	require.NoError(t, err)
	_, err = eng.Act(id, creator, escrow.ActionAccept)
	require.NoError(t, err)

	history, err := eng.History(id)
	require.NoError(t, err)
	entries := len(history)
	before := total(t, eng)

	// Resubmitting any action must fail without any effect.
	_, err = eng.Act(id, creator, escrow.ActionAccept)
	assert.True(t, escrow.ErrInvalidTransition.Is(err))
	_, err = eng.Act(id, broker, escrow.ActionRevoke)
	assert.True(t, escrow.ErrInvalidTransition.Is(err))

	history, err = eng.History(id)
	require.NoError(t, err)
	assert.Equal(t, entries, len(history))
	assert.Equal(t, before, total(t, eng))
}

func TestUnauthorizedActor(t *testing.T) {
	eng, _ := newEngine(t, 100)

	id, err := eng.CreateEscrow(creator, broker, recipient, 100, 100, "")
	require.NoError(t, err)

	_, err = eng.Act(id, recipient, escrow.ActionAccept)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// The failed call left no audit trace.
	history, err := eng.History(id)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestUnknownEscrow(t *testing.T) {
	eng, _ := newEngine(t, 100)

	_, err := eng.Act([]byte{0, 0, 0, 0, 0, 0, 0, 9}, creator, escrow.ActionAccept)
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = eng.GetDetails([]byte{0, 0, 0, 0, 0, 0, 0, 9})
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestHistoryOrdering(t *testing.T) {
	eng, _ := newEngine(t, 100)

	id, err := eng.CreateEscrow(creator, broker, recipient, 100, 100, "")
	require.NoError(t, err)
	_, err = eng.Act(id, broker, escrow.ActionAcceptParticipation)
	require.NoError(t, err)
	_, err = eng.Act(id, creator, escrow.ActionOpenDispute)
	require.NoError(t, err)
	_, err = eng.Act(id, broker, escrow.ActionRevoke)
	require.NoError(t, err)

	history, err := eng.History(id)
	require.NoError(t, err)
	require.Len(t, history, 4)

	assert.Equal(t, audit.Type_CREATED, history[0].Type)
	assert.Equal(t, int32(escrow.Status_INITIATED), history[0].Status)
	assert.Equal(t, []byte(creator), history[0].Actor)

	assert.Equal(t, audit.Type_STATUS_CHANGED, history[1].Type)
	assert.Equal(t, audit.Role_BROKER, history[1].Role)
	assert.Equal(t, int32(escrow.Status_PENDING), history[1].Status)

	assert.Equal(t, audit.Role_CREATOR, history[2].Role)
	assert.Equal(t, int32(escrow.Status_DISPUTE), history[2].Status)

	assert.Equal(t, audit.Role_BROKER, history[3].Role)
	assert.Equal(t, int32(escrow.Status_CANCELLED), history[3].Status)
	assert.Equal(t, []byte(broker), history[3].Actor)
}

func TestDepositAndWithdraw(t *testing.T) {
	eng, tokens := newEngine(t, 0)

	// Deposits require an approval for the custody account first.
	err := eng.Deposit(creator, 300)
	assert.True(t, cash.ErrInsufficientFunds.Is(err))

	db := eng.db
	require.NoError(t, tokens.Approve(db, creator, Custody, 500))

	require.NoError(t, eng.Deposit(creator, 300))

	available, locked := balance(t, eng, creator)
	assert.Equal(t, int64(300), available)
	assert.Equal(t, int64(0), locked)

	held, err := tokens.BalanceOf(db, Custody)
	require.NoError(t, err)
	assert.Equal(t, int64(300), held)
	left, err := tokens.BalanceOf(db, creator)
	require.NoError(t, err)
	assert.Equal(t, int64(700), left)

	require.NoError(t, eng.Withdraw(creator, 100))

	available, _ = balance(t, eng, creator)
	assert.Equal(t, int64(200), available)
	held, err = tokens.BalanceOf(db, Custody)
	require.NoError(t, err)
	assert.Equal(t, int64(200), held)
	left, err = tokens.BalanceOf(db, creator)
	require.NoError(t, err)
	assert.Equal(t, int64(800), left)

	err = eng.Withdraw(creator, 201)
	assert.True(t, cash.ErrInsufficientFunds.Is(err))
}

func TestWithdrawCannotTouchLockedFunds(t *testing.T) {
	eng, _ := newEngine(t, 100)

	_, err := eng.CreateEscrow(creator, broker, recipient, 100, 100, "")
	require.NoError(t, err)

	err = eng.Withdraw(creator, 1)
	assert.True(t, cash.ErrInsufficientFunds.Is(err))
}

func TestConservationAcrossManyEscrows(t *testing.T) {
	eng, _ := newEngine(t, 1000)
	before := total(t, eng)

	for i := 0; i < 3; i++ {
		id, err := eng.CreateEscrow(creator, broker, recipient, 100, 100, "")
		require.NoError(t, err)
		switch i {
		case 0:
			_, err = eng.Act(id, creator, escrow.ActionAccept)
		case 1:
			_, err = eng.Act(id, creator, escrow.ActionCancel)
		case 2:
			_, err = eng.Act(id, broker, escrow.ActionRejectParticipation)
		}
		require.NoError(t, err)
		assert.Equal(t, before, total(t, eng))
	}
}
