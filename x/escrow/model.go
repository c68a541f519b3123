package escrow

import (
	"github.com/iov-one/brokerpay"
	"github.com/iov-one/brokerpay/errors"
	"github.com/iov-one/brokerpay/orm"
)

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the record is internally consistent: all three parties
// are valid addresses, amounts are non-negative and the fee amounts sum up
// to the gross amount exactly.
func (e *Escrow) Validate() error {
	if err := brokerpay.Address(e.Creator).Validate(); err != nil {
		return errors.Wrap(err, "creator")
	}
	if err := brokerpay.Address(e.Broker).Validate(); err != nil {
		return errors.Wrap(err, "broker")
	}
	if err := brokerpay.Address(e.Recipient).Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if e.Gross <= 0 {
		return errors.Wrapf(errors.ErrAmount, "gross: %d", e.Gross)
	}
	if e.Net < 0 || e.BrokerFee < 0 || e.ProtocolFee < 0 {
		return errors.Wrap(errors.ErrAmount, "negative fee split")
	}
	if e.Net+e.BrokerFee+e.ProtocolFee != e.Gross {
		return errors.Wrapf(errors.ErrAmount, "split does not sum to gross: %d+%d+%d != %d",
			e.Net, e.BrokerFee, e.ProtocolFee, e.Gross)
	}
	if _, ok := Status_name[int32(e.Status)]; !ok {
		return errors.Wrapf(errors.ErrState, "status: %d", e.Status)
	}
	return nil
}

// Copy makes an independent copy of the record.
func (e *Escrow) Copy() orm.Model {
	return &Escrow{
		Creator:     append([]byte(nil), e.Creator...),
		Broker:      append([]byte(nil), e.Broker...),
		Recipient:   append([]byte(nil), e.Recipient...),
		Gross:       e.Gross,
		Net:         e.Net,
		BrokerFee:   e.BrokerFee,
		ProtocolFee: e.ProtocolFee,
		Notes:       e.Notes,
		Status:      e.Status,
	}
}

// Locked returns the amount held on the creator's locked balance while the
// escrow is open. The protocol fee is paid out at creation and is never part
// of it.
func (e *Escrow) Locked() int64 {
	return e.Net + e.BrokerFee
}

// Terminal returns true once no further action is permitted.
func (s Status) Terminal() bool {
	switch s {
	case Status_SUCCESS, Status_CANCELLED, Status_REJECTED:
		return true
	default:
		return false
	}
}

// NewBucket returns a bucket for keeping escrow records, keyed by the 8 byte
// ids the controller assigns from its sequence.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("esc", &Escrow{})
}
