package store

import "github.com/iov-one/brokerpay"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = brokerpay.ReadOnlyKVStore
type KVStore = brokerpay.KVStore
type SetDeleter = brokerpay.SetDeleter
type Batch = brokerpay.Batch
type Iterator = brokerpay.Iterator
type CacheableKVStore = brokerpay.CacheableKVStore
type KVCacheWrap = brokerpay.KVCacheWrap

// Model groups a raw key and value as returned by iteration
type Model struct {
	Key   []byte
	Value []byte
}
