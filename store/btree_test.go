package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreSetGetDelete(t *testing.T) {
	db := MemStore()

	k, v := []byte("foo"), []byte("bar")

	has, err := db.Has(k)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, db.Set(k, v))
	got, err := db.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	require.NoError(t, db.Delete(k))
	got, err = db.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheWrapWriteAndDiscard(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("a"), []byte("1")))

	// discarded writes leave no trace
	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Delete([]byte("a")))
	cache.Discard()

	got, err := db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
	got, err = db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Nil(t, got)

	// written changes all land
	cache = db.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Delete([]byte("a")))
	require.NoError(t, cache.Write())

	got, err = db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestCacheWrapReadsThrough(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("shared"), []byte("base")))

	cache := db.CacheWrap()
	got, err := cache.Get([]byte("shared"))
	require.NoError(t, err)
	assert.Equal(t, []byte("base"), got)

	// deleting in the cache hides it there, but not below
	require.NoError(t, cache.Delete([]byte("shared")))
	got, err = cache.Get([]byte("shared"))
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = db.Get([]byte("shared"))
	require.NoError(t, err)
	assert.Equal(t, []byte("base"), got)
	cache.Discard()
}

func TestIteratorRange(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("a:1"), []byte("one")))
	require.NoError(t, db.Set([]byte("a:2"), []byte("two")))
	require.NoError(t, db.Set([]byte("a:3"), []byte("three")))
	require.NoError(t, db.Set([]byte("b:1"), []byte("other")))

	iter, err := db.Iterator([]byte("a:"), []byte("a;"))
	require.NoError(t, err)
	defer iter.Close()

	var keys []string
	for ; iter.Valid(); require.NoError(t, iter.Next()) {
		keys = append(keys, string(iter.Key()))
	}
	assert.Equal(t, []string{"a:1", "a:2", "a:3"}, keys)
}

func TestIteratorSeesCacheOverlay(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("k:1"), []byte("one")))
	require.NoError(t, db.Set([]byte("k:3"), []byte("three")))

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("k:2"), []byte("two")))
	require.NoError(t, cache.Delete([]byte("k:3")))

	iter, err := cache.Iterator([]byte("k:"), []byte("k;"))
	require.NoError(t, err)
	defer iter.Close()

	var keys []string
	for ; iter.Valid(); require.NoError(t, iter.Next()) {
		keys = append(keys, string(iter.Key()))
	}
	assert.Equal(t, []string{"k:1", "k:2"}, keys)
	cache.Discard()
}
