package escrow

import (
	"github.com/iov-one/brokerpay"
	"github.com/iov-one/brokerpay/errors"
)

// CreateMsg collects the caller provided inputs for opening a new escrow.
type CreateMsg struct {
	Creator      brokerpay.Address
	Broker       brokerpay.Address
	Recipient    brokerpay.Address
	Gross        int64
	BrokerFeeBps int64
	Notes        string
}

// Validate checks the message before any state is touched. The fee rate is
// only range checked here; Split does the full bounds check against gross.
func (m *CreateMsg) Validate() error {
	if err := m.Creator.Validate(); err != nil {
		return errors.Wrap(err, "creator")
	}
	if err := m.Broker.Validate(); err != nil {
		return errors.Wrap(err, "broker")
	}
	if err := m.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if m.Gross <= 0 {
		return errors.Wrapf(errors.ErrAmount, "gross: %d", m.Gross)
	}
	if m.BrokerFeeBps < 0 {
		return errors.Wrapf(ErrInvalidFeeRate, "negative rate: %d", m.BrokerFeeBps)
	}
	return nil
}
