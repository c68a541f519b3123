package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/brokerpay"
	"github.com/iov-one/brokerpay/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// NewModelBucket returns a ModelBucket instance storing entities of the same
// type as the given prototype under keys prefixed with the bucket name.
func NewModelBucket(name string, proto Model) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket name: %s", name))
	}
	return &modelBucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

type modelBucket struct {
	name   string
	prefix []byte
	proto  Model
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (mb *modelBucket) dbKey(key []byte) []byte {
	l := len(mb.prefix)
	out := make([]byte, l+len(key))
	copy(out, mb.prefix)
	copy(out[l:], key)
	return out
}

func (mb *modelBucket) One(db brokerpay.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if reflect.TypeOf(dest) != reflect.TypeOf(mb.proto) {
		return errors.Wrapf(errors.ErrType, "%T cannot hold %T", dest, mb.proto)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %T", dest)
	}
	return nil
}

func (mb *modelBucket) Put(db brokerpay.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing key")
	}
	if reflect.TypeOf(m) != reflect.TypeOf(mb.proto) {
		return errors.Wrapf(errors.ErrType, "%T does not belong in this bucket", m)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %T", m)
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db brokerpay.KVStore, key []byte) error {
	dbkey := mb.dbKey(key)
	has, err := db.Has(dbkey)
	if err != nil {
		return err
	}
	if !has {
		return errors.Wrap(errors.ErrNotFound, "cannot delete")
	}
	return db.Delete(dbkey)
}

func (mb *modelBucket) Has(db brokerpay.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(mb.dbKey(key))
}

func (mb *modelBucket) Iterate(db brokerpay.ReadOnlyKVStore, prefix []byte) (ModelIterator, error) {
	start := mb.dbKey(prefix)
	end := prefixEnd(start)
	iter, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return &modelIterator{
		iter:      iter,
		proto:     mb.proto,
		keyOffset: len(mb.prefix),
	}, nil
}

// prefixEnd returns the exclusive upper bound of all keys sharing the given
// prefix, or nil when the prefix is the last representable one.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

type modelIterator struct {
	iter      brokerpay.Iterator
	proto     Model
	keyOffset int
}

var _ ModelIterator = (*modelIterator)(nil)

func (mi *modelIterator) LoadNext(dest Model) ([]byte, error) {
	if !mi.iter.Valid() {
		return nil, errors.ErrIteratorDone
	}
	if reflect.TypeOf(dest) != reflect.TypeOf(mi.proto) {
		return nil, errors.Wrapf(errors.ErrType, "%T cannot hold %T", dest, mi.proto)
	}

	key := mi.iter.Key()[mi.keyOffset:]
	if err := dest.Unmarshal(mi.iter.Value()); err != nil {
		return nil, errors.Wrapf(err, "cannot unmarshal %T", dest)
	}
	if err := mi.iter.Next(); err != nil {
		return nil, err
	}
	return key, nil
}

func (mi *modelIterator) Release() {
	mi.iter.Close()
}
