package orm

import (
	"github.com/iov-one/brokerpay"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	brokerpay.Persistent
	// Validate returns an error if the model is not in a valid state to
	// save to the db (eg. field missing, out of range, ...)
	Validate() error
	// Copy returns a deep copy that can be mutated independently.
	Copy() Model
}

// ModelBucket is a prefixed subspace of the database holding entities of a
// single type.
type ModelBucket interface {
	// One queries the database for a single model instance. Lookup is done
	// by the primary key. Result is loaded into given destination model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db brokerpay.ReadOnlyKVStore, key []byte, dest Model) error

	// Put saves given model in the database under the given key.
	Put(db brokerpay.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db brokerpay.KVStore, key []byte) error

	// Has returns whether an entity with given primary key exists.
	Has(db brokerpay.ReadOnlyKVStore, key []byte) (bool, error)

	// Iterate returns an iterator over all entities whose primary key
	// starts with the given prefix, in ascending key order. A nil prefix
	// iterates the whole bucket.
	Iterate(db brokerpay.ReadOnlyKVStore, prefix []byte) (ModelIterator, error)
}

// ModelIterator allows iteration over stored entities.
type ModelIterator interface {
	// LoadNext loads the next value into the given model and returns its
	// primary key (without the bucket prefix). ErrIteratorDone is returned
	// when the end of the range was reached.
	LoadNext(dest Model) ([]byte, error)

	// Release the iterator and any resources held.
	Release()
}
