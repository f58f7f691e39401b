// Package store describes the document database the API runs against: documents addressed by
// slash-separated paths, grouped into collections that may nest under other documents.
//
// Drivers live in sub-packages (firestoredb, postgres, memory). All multi-document writes go
// through Apply or RunTransaction so that they commit atomically.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("document not found")
	ErrAlreadyExists  = errors.New("document already exists")
	ErrConflict       = errors.New("transaction conflict")
	ErrInvalidPath    = errors.New("invalid document path")
	ErrReadAfterWrite = errors.New("transaction reads must happen before writes")
)

type (
	Store interface {
		// Get returns ErrNotFound if the document does not exist.
		Get(ctx context.Context, doc DocRef) (*Snapshot, error)
		// List returns the documents of a collection ordered by id.
		List(ctx context.Context, col CollectionRef) ([]*Snapshot, error)
		// Apply commits all writes in one atomic batch. No write is visible unless all are.
		Apply(ctx context.Context, writes ...Write) error
		// RunTransaction runs fn once. Writes queued on the Tx are committed together when fn
		// returns nil and discarded otherwise.
		RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
		Close() error
	}

	Tx interface {
		Get(doc DocRef) (*Snapshot, error)
		List(col CollectionRef) ([]*Snapshot, error)
		Apply(writes ...Write) error
	}
)

// Snapshot is a read document. DataTo decodes it into a tagged struct or map.
type Snapshot struct {
	Ref    DocRef
	decode func(v any) error
}

func NewSnapshot(ref DocRef, decode func(v any) error) *Snapshot {
	return &Snapshot{Ref: ref, decode: decode}
}

func (s *Snapshot) DataTo(v any) error {
	return s.decode(v)
}

// DecodeAll decodes every snapshot into a new T.
func DecodeAll[T any](snaps []*Snapshot) ([]T, error) {
	out := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		var v T
		if err := snap.DataTo(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
