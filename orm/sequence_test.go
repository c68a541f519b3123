package orm

import (
	"bytes"
	"testing"

	"github.com/iov-one/brokerpay/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceMonotonic(t *testing.T) {
	db := store.MemStore()
	seq := NewSequence("escrow", "id")

	n, err := seq.NextInt(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var last []byte
	for i := 0; i < 10; i++ {
		val, err := seq.NextVal(db)
		require.NoError(t, err)
		if last != nil {
			assert.True(t, bytes.Compare(last, val) < 0)
		}
		last = val
	}

	n, err = seq.NextInt(db)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestSequenceIndependentCounters(t *testing.T) {
	db := store.MemStore()
	a := NewSequence("escrow", "id")
	b := NewSequence("audit", "id")

	n, err := a.NextInt(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = b.NextInt(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestEncodeDecodeSequence(t *testing.T) {
	assert.Equal(t, int64(0), DecodeSequence(nil))
	assert.Equal(t, int64(12345), DecodeSequence(EncodeSequence(12345)))
}
