package escrow

import (
	"math"

	"github.com/iov-one/brokerpay/errors"
)

// ProtocolFeeBps is the fixed protocol fee rate in basis points, taken from
// the gross amount of every escrow at creation time.
const ProtocolFeeBps = 200

// maxGross bounds the gross amount so that the basis point multiplications
// below cannot overflow int64.
const maxGross = math.MaxInt64 / 10000

// Split computes the three way division of a gross amount into the net
// amount payable to the recipient, the broker fee and the protocol fee.
// Both fees are rounded down, so any remainder stays in the net amount.
func Split(gross, brokerFeeBps int64) (net, brokerFee, protocolFee int64, err error) {
	if gross < 0 {
		return 0, 0, 0, errors.Wrapf(errors.ErrAmount, "negative gross: %d", gross)
	}
	if gross > maxGross {
		return 0, 0, 0, errors.Wrapf(errors.ErrOverflow, "gross: %d", gross)
	}
	if brokerFeeBps < 0 || brokerFeeBps > 10000 {
		return 0, 0, 0, errors.Wrapf(ErrInvalidFeeRate, "rate: %d", brokerFeeBps)
	}
	protocolFee = gross * ProtocolFeeBps / 10000
	brokerFee = gross * brokerFeeBps / 10000
	if protocolFee+brokerFee > gross {
		return 0, 0, 0, errors.Wrapf(ErrInvalidFeeRate, "fees %d exceed gross %d", protocolFee+brokerFee, gross)
	}
	net = gross - protocolFee - brokerFee
	return net, brokerFee, protocolFee, nil
}
