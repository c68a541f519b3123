package orm

import (
	"encoding/binary"

	"github.com/iov-one/brokerpay"
)

// Sequence hands out monotonically increasing ids scoped to one bucket.
// The last value handed out is stored big endian under "_s.<bucket>:<name>",
// so the byte form of consecutive ids sorts in issue order.
type Sequence struct {
	id []byte
}

// NewSequence returns the sequence counter for the given bucket and name.
func NewSequence(bucket, name string) Sequence {
	return Sequence{
		id: []byte("_s." + bucket + ":" + name),
	}
}

// NextVal increments the counter and returns the new value as an 8 byte
// key. The first call returns the encoding of 1.
func (s *Sequence) NextVal(db brokerpay.KVStore) ([]byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return nil, err
	}
	raw = EncodeSequence(DecodeSequence(raw) + 1)
	if err := db.Set(s.id, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// NextInt increments the counter and returns the new value as an int.
func (s *Sequence) NextInt(db brokerpay.KVStore) (int64, error) {
	raw, err := s.NextVal(db)
	if err != nil {
		return 0, err
	}
	return DecodeSequence(raw), nil
}

// DecodeSequence converts a raw sequence value to an int64. A nil value
// decodes to zero, the state of a counter that was never used.
func DecodeSequence(raw []byte) int64 {
	if raw == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(raw))
}

// EncodeSequence converts an int64 to its big endian raw value.
func EncodeSequence(val int64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(val))
	return raw
}
