package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterDuplicateCodePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register(2, "duplicate of unauthorized")
	})
}

func TestWrapPreservesKind(t *testing.T) {
	cases := map[string]struct {
		err  error
		kind *Error
		want bool
	}{
		"bare root error":   {ErrNotFound, ErrNotFound, true},
		"single wrap":       {Wrap(ErrNotFound, "escrow"), ErrNotFound, true},
		"double wrap":       {Wrap(Wrap(ErrNotFound, "escrow"), "engine"), ErrNotFound, true},
		"wrapf":             {Wrapf(ErrState, "status %d", 4), ErrState, true},
		"different kind":    {Wrap(ErrNotFound, "escrow"), ErrUnauthorized, false},
		"stdlib error":      {fmt.Errorf("oops"), ErrNotFound, false},
		"nil is not a kind": {nil, ErrNotFound, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.Is(tc.err))
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "no error here"))
}

func TestWrapMessage(t *testing.T) {
	err := Wrap(ErrEmpty, "broker")
	assert.Equal(t, "broker: value is empty", err.Error())
}

func TestNewf(t *testing.T) {
	err := ErrInput.Newf("fee rate %d", -3)
	assert.True(t, ErrInput.Is(err))
	assert.Equal(t, "fee rate -3: invalid input", err.Error())
}

func TestRecover(t *testing.T) {
	var err error
	func() {
		defer Recover(&err)
		panic("buckets on fire")
	}()
	assert.True(t, ErrPanic.Is(err))
}
