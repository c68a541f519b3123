package audit

import (
	"github.com/iov-one/brokerpay"
	"github.com/iov-one/brokerpay/errors"
	"github.com/iov-one/brokerpay/orm"
)

var _ orm.Model = (*Event)(nil)

// Validate ensures the event references an escrow and an actor.
func (e *Event) Validate() error {
	if len(e.EscrowId) == 0 {
		return errors.Wrap(errors.ErrEmpty, "escrow id")
	}
	if err := brokerpay.Address(e.Actor).Validate(); err != nil {
		return errors.Wrap(err, "actor")
	}
	if e.Status < 0 {
		return errors.Wrapf(errors.ErrState, "negative status: %d", e.Status)
	}
	return nil
}

// Copy makes an independent copy of the event.
func (e *Event) Copy() orm.Model {
	return &Event{
		EscrowId: append([]byte(nil), e.EscrowId...),
		Type:     e.Type,
		Role:     e.Role,
		Actor:    append([]byte(nil), e.Actor...),
		Status:   e.Status,
	}
}

// Log is an append-only record of escrow events. Entries are keyed by the
// escrow id followed by a global sequence number, so iterating a single
// escrow prefix returns its events in commit order.
type Log struct {
	bucket orm.ModelBucket
	seq    orm.Sequence
}

// NewLog returns a log using the default audit bucket.
func NewLog() *Log {
	return &Log{
		bucket: orm.NewModelBucket("audit", &Event{}),
		seq:    orm.NewSequence("audit", "id"),
	}
}

// Created appends a creation event for the given escrow.
func (l *Log) Created(db brokerpay.KVStore, escrowID []byte, creator brokerpay.Address, status int32) error {
	ev := &Event{
		EscrowId: escrowID,
		Type:     Type_CREATED,
		Role:     Role_CREATOR,
		Actor:    creator,
		Status:   status,
	}
	return l.append(db, ev)
}

// StatusChanged appends a transition event for the given escrow.
func (l *Log) StatusChanged(db brokerpay.KVStore, escrowID []byte, role Role, actor brokerpay.Address, status int32) error {
	ev := &Event{
		EscrowId: escrowID,
		Type:     Type_STATUS_CHANGED,
		Role:     role,
		Actor:    actor,
		Status:   status,
	}
	return l.append(db, ev)
}

func (l *Log) append(db brokerpay.KVStore, ev *Event) error {
	seq, err := l.seq.NextVal(db)
	if err != nil {
		return errors.Wrap(err, "sequence")
	}
	key := append(append([]byte(nil), ev.EscrowId...), seq...)
	return l.bucket.Put(db, key, ev)
}

// ByEscrow returns all events recorded for the given escrow id, oldest first.
func (l *Log) ByEscrow(db brokerpay.ReadOnlyKVStore, escrowID []byte) ([]Event, error) {
	iter, err := l.bucket.Iterate(db, escrowID)
	if err != nil {
		return nil, err
	}
	defer iter.Release()

	var events []Event
	for {
		var ev Event
		if _, err := iter.LoadNext(&ev); err != nil {
			if errors.ErrIteratorDone.Is(err) {
				return events, nil
			}
			return nil, err
		}
		events = append(events, ev)
	}
}
