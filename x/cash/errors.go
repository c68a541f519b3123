package cash

import "github.com/iov-one/brokerpay/errors"

var (
	// ErrInsufficientFunds is returned when the available balance cannot
	// cover a debit or a lock.
	ErrInsufficientFunds = errors.Register(1000, "insufficient funds")

	// ErrCorruptLock is returned when a release asks for more than the
	// locked balance holds. This signals a bookkeeping bug, not user error.
	ErrCorruptLock = errors.Register(1001, "locked balance out of sync")
)
