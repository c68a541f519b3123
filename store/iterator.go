package store

import (
	"bytes"

	"github.com/google/btree"
)

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemBuf holds a snapshot of the btree items within a range, in
// iteration order. Snapshotting up front keeps the cache free for
// writes while the iterator is alive.
type itemBuf struct {
	items []btree.Item
	idx   int
}

func (b *itemBuf) valid() bool {
	return b.idx < len(b.items)
}

func (b *itemBuf) next() {
	b.idx++
}

// get requires this is valid, gets what we are pointing at
func (b *itemBuf) get() keyer {
	return b.items[b.idx].(keyer)
}

// ascendBtree snapshots all items within [start, end) in ascending order
func ascendBtree(bt *btree.BTree, start, end []byte) *itemBuf {
	buf := &itemBuf{}
	insert := func(item btree.Item) bool {
		buf.items = append(buf.items, item)
		return true
	}

	if start == nil && end == nil {
		bt.Ascend(insert)
	} else if start == nil { // end != nil
		bt.AscendLessThan(bkey{end}, insert)
	} else if end == nil { // start != nil
		bt.AscendGreaterOrEqual(bkey{start}, insert)
	} else { // both != nil
		bt.AscendRange(bkey{start}, bkey{end}, insert)
	}
	return buf
}

// descendBtree snapshots all items within [start, end) in descending order
func descendBtree(bt *btree.BTree, start, end []byte) *itemBuf {
	buf := &itemBuf{}
	insert := func(item btree.Item) bool {
		buf.items = append(buf.items, item)
		return true
	}

	if start == nil && end == nil {
		bt.Descend(insert)
	} else if start == nil { // end != nil
		bt.DescendLessOrEqual(bkeyLess{end}, insert)
	} else if end == nil { // start != nil
		bt.DescendGreaterThan(bkeyLess{start}, insert)
	} else { // both != nil
		bt.DescendRange(bkeyLess{end}, bkeyLess{start}, insert)
	}
	return buf
}

// cacheIter combines the btree cache overlay with the parent iterator,
// taking into consideration overwrites and deletes
type cacheIter struct {
	buf *itemBuf
	// if we are iterating in a cache-wrap (and who isn't),
	// we need to combine this iterator with the parent
	parent Iterator
}

var _ Iterator = (*cacheIter)(nil)

func newCacheIter(buf *itemBuf, parent Iterator) *cacheIter {
	iter := &cacheIter{
		buf:    buf,
		parent: parent,
	}
	// the first item may be a tombstone, position on real data
	_ = iter.skipAllDeleted()
	return iter
}

// Valid implements Iterator and returns true iff it can be read
func (i *cacheIter) Valid() bool {
	return i.buf.valid() || i.parentValid()
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (i *cacheIter) Next() error {
	// advance either us, parent, or both
	switch i.firstKey() {
	case us:
		i.buf.next()
	case both:
		i.buf.next()
		fallthrough
	case parent:
		if err := i.parent.Next(); err != nil {
			return err
		}
	default:
		panic("Advanced past the end!")
	}

	// keep advancing over all deleted entries
	return i.skipAllDeleted()
}

// Key returns the key of the cursor.
func (i *cacheIter) Key() (key []byte) {
	switch i.firstKey() {
	case us, both:
		return i.buf.get().Key()
	case parent:
		return i.parent.Key()
	default: // none
		panic("Advanced past the end!")
	}
}

// Value returns the value of the cursor.
func (i *cacheIter) Value() (value []byte) {
	switch i.firstKey() {
	case us, both:
		return i.buf.get().(setItem).value
	case parent:
		return i.parent.Value()
	default: // none
		panic("Advanced past the end!")
	}
}

// Close releases the Iterator.
func (i *cacheIter) Close() {
	i.parent.Close()
	i.buf.items = nil
}

// skipAllDeleted loops and skips any number of deleted items
func (i *cacheIter) skipAllDeleted() error {
	var err error
	more := true
	for more {
		more, err = i.skipDeleted()
		if err != nil {
			return err
		}
	}
	return nil
}

// skipDeleted jumps over all elements we can safely fast forward
// return true if skipped, so we can skip again
func (i *cacheIter) skipDeleted() (bool, error) {
	src := i.firstKey()
	if src == us || src == both {
		// if our next is deleted, advance...
		if _, ok := i.buf.get().(deletedItem); ok {
			i.buf.next()
			// if parent had the same key, advance parent as well
			if src == both {
				if err := i.parent.Next(); err != nil {
					return false, err
				}
			}
			return true, nil
		}
	}
	return false, nil
}

// firstKey selects the iterator with the lowest key if any
func (i *cacheIter) firstKey() source {
	// if only one or none is valid, it is clear which to use
	if !i.parentValid() {
		if !i.buf.valid() {
			return none
		}
		return us
	} else if !i.buf.valid() {
		return parent
	}

	// both are valid... compare keys....
	parKey := i.parent.Key()
	usKey := i.buf.get().Key()

	cmp := bytes.Compare(parKey, usKey)
	if cmp < 0 {
		return parent
	} else if cmp > 0 {
		return us
	}
	return both
}

// makes sure the parent is non-nil before checking if it is valid
func (i *cacheIter) parentValid() bool {
	return (i.parent != nil) && i.parent.Valid()
}
