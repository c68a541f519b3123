package escrow

import "github.com/iov-one/brokerpay/errors"

var (
	// ErrInvalidTransition is returned when the requested action is not
	// permitted in the current escrow status.
	ErrInvalidTransition = errors.Register(1010, "invalid transition")

	// ErrInvalidFeeRate is returned when a fee rate is negative or the
	// resulting fees would exceed the gross amount.
	ErrInvalidFeeRate = errors.Register(1011, "invalid fee rate")
)
