package sieve

import (
	"iter"
	"slices"
)

// Snapshot is an immutable, ordered view of the collection at one point in
// time. Every operation that would change it returns a new Snapshot; a
// Snapshot already handed to a subscriber is never modified.
type Snapshot struct {
	records []Record
	version uint64
}

// NewSnapshot returns a Snapshot holding a copy of records.
func NewSnapshot(records ...Record) Snapshot {
	return Snapshot{records: slices.Clone(records)}
}

// Len returns the number of records.
func (s Snapshot) Len() int {
	return len(s.records)
}

// At returns the record at index i. It panics if i is out of range.
func (s Snapshot) At(i int) Record {
	return s.records[i]
}

// Version is the publish sequence number assigned by the Store.
// Snapshots built outside a Store have version 0.
func (s Snapshot) Version() uint64 {
	return s.version
}

// Records returns a copy of the records in order.
func (s Snapshot) Records() []Record {
	return slices.Clone(s.records)
}

// All iterates the records in order without copying.
func (s Snapshot) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, r := range s.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Append returns a new Snapshot with records added at the end.
func (s Snapshot) Append(records ...Record) Snapshot {
	next := make([]Record, 0, len(s.records)+len(records))
	next = append(next, s.records...)
	next = append(next, records...)
	return Snapshot{records: next}
}

// Without returns a new Snapshot with the record carrying id removed.
func (s Snapshot) Without(id string) Snapshot {
	next := slices.DeleteFunc(slices.Clone(s.records), func(r Record) bool {
		return r.ID == id
	})
	return Snapshot{records: next}
}

func (s Snapshot) withVersion(v uint64) Snapshot {
	s.version = v
	return s
}
