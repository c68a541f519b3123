package orm

import (
	"testing"

	"github.com/iov-one/brokerpay/errors"
	"github.com/iov-one/brokerpay/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// note is a minimal model used to test bucket behavior.
type note struct {
	Body []byte
}

func (n *note) Marshal() ([]byte, error) {
	return n.Body, nil
}

func (n *note) Unmarshal(raw []byte) error {
	n.Body = append([]byte(nil), raw...)
	return nil
}

func (n *note) Validate() error {
	if len(n.Body) == 0 {
		return errors.Wrap(errors.ErrEmpty, "body")
	}
	return nil
}

func (n *note) Copy() Model {
	return &note{Body: append([]byte(nil), n.Body...)}
}

func TestModelBucketPutOne(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("notes", &note{})

	require.NoError(t, b.Put(db, []byte("k1"), &note{Body: []byte("hello")}))

	var got note
	require.NoError(t, b.One(db, []byte("k1"), &got))
	assert.Equal(t, []byte("hello"), got.Body)
}

func TestModelBucketOneMissing(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("notes", &note{})

	var got note
	err := b.One(db, []byte("nope"), &got)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestModelBucketPutInvalid(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("notes", &note{})

	err := b.Put(db, []byte("k1"), &note{})
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestModelBucketDelete(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("notes", &note{})

	err := b.Delete(db, []byte("k1"))
	assert.True(t, errors.ErrNotFound.Is(err))

	require.NoError(t, b.Put(db, []byte("k1"), &note{Body: []byte("x")}))
	require.NoError(t, b.Delete(db, []byte("k1")))

	has, err := b.Has(db, []byte("k1"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestModelBucketSeparateNamespaces(t *testing.T) {
	db := store.MemStore()
	one := NewModelBucket("aaa", &note{})
	two := NewModelBucket("bbb", &note{})

	require.NoError(t, one.Put(db, []byte("k"), &note{Body: []byte("first")}))

	var got note
	err := two.One(db, []byte("k"), &got)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestModelBucketIterate(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("notes", &note{})

	require.NoError(t, b.Put(db, []byte{1, 1}, &note{Body: []byte("a")}))
	require.NoError(t, b.Put(db, []byte{1, 2}, &note{Body: []byte("b")}))
	require.NoError(t, b.Put(db, []byte{2, 1}, &note{Body: []byte("c")}))

	iter, err := b.Iterate(db, []byte{1})
	require.NoError(t, err)
	defer iter.Release()

	var bodies []string
	for {
		var n note
		key, err := iter.LoadNext(&n)
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, byte(1), key[0])
		bodies = append(bodies, string(n.Body))
	}
	assert.Equal(t, []string{"a", "b"}, bodies)
}
