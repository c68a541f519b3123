package brokerpay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOptions(t *testing.T) {
	opts := Options{
		"fee": []byte(`{"rate": 200}`),
	}

	var conf struct {
		Rate int64 `json:"rate"`
	}
	require.NoError(t, opts.ReadOptions("fee", &conf))
	assert.Equal(t, int64(200), conf.Rate)

	// Missing keys are a noop.
	conf.Rate = 0
	require.NoError(t, opts.ReadOptions("missing", &conf))
	assert.Equal(t, int64(0), conf.Rate)

	opts["fee"] = []byte(`{broken`)
	assert.Error(t, opts.ReadOptions("fee", &conf))
}

type initRecorder struct {
	calls int
	fail  error
}

func (r *initRecorder) FromGenesis(Options, KVStore) error {
	r.calls++
	return r.fail
}

func TestChainInitializers(t *testing.T) {
	first := &initRecorder{}
	second := &initRecorder{fail: assert.AnError}
	third := &initRecorder{}

	err := ChainInitializers(first, second, third).FromGenesis(Options{}, nil)
	assert.Error(t, err)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	// The chain aborts at the first failure.
	assert.Equal(t, 0, third.calls)
}
