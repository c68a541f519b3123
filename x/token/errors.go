package token

import "github.com/iov-one/brokerpay/errors"

var (
	// ErrPaused is returned when the supply is paused and a balance
	// changing operation is requested.
	ErrPaused = errors.Register(1020, "token supply is paused")

	// ErrRoleRequired is returned when the caller does not hold the role
	// an operation is restricted to.
	ErrRoleRequired = errors.Register(1021, "role required")
)
