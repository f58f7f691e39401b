// Package mirror keeps the two documents of a relationship in step. Every relationship between
// two top-level entities is stored twice, once under each entity, and both copies are always
// written in the same atomic commit.
package mirror

import (
	"context"
	"errors"
	"fmt"

	"github.com/minischetti/meal-planner-api/pkg/store"
)

type Mode int

const (
	Create Mode = iota
	Update
	Delete
)

func (m Mode) String() string {
	switch m {
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Side is one copy of a relationship. Create uses Data, Update uses Fields, Delete only Doc.
type Side struct {
	Doc    store.DocRef
	Data   any
	Fields []store.Update
}

// Write compiles the side into the store write for mode. Create is a Set so that re-creating a
// relationship overwrites the previous pair instead of failing on one side only.
func (s Side) Write(mode Mode) (store.Write, error) {
	switch mode {
	case Create:
		if s.Data == nil {
			return store.Write{}, fmt.Errorf("mirror: create %s: missing data", s.Doc)
		}
		return store.Set(s.Doc, s.Data), nil
	case Update:
		if len(s.Fields) == 0 {
			return store.Write{}, fmt.Errorf("mirror: update %s: missing fields", s.Doc)
		}
		return store.UpdateFields(s.Doc, s.Fields...), nil
	case Delete:
		return store.Delete(s.Doc), nil
	default:
		return store.Write{}, fmt.Errorf("mirror: unknown mode %s", mode)
	}
}

// Sync writes both sides of a relationship, plus any extra writes that belong to the same change,
// in a single atomic batch.
func Sync(ctx context.Context, st store.Store, mode Mode, primary, secondary Side, extra ...store.Write) error {
	writes, err := compile(mode, primary, secondary)
	if err != nil {
		return err
	}
	writes = append(writes, extra...)
	if err := st.Apply(ctx, writes...); err != nil {
		return fmt.Errorf("mirror: %s %s and %s: %w", mode, primary.Doc, secondary.Doc, err)
	}
	return nil
}

// SyncIfAbsent commits writes only if guard does not exist yet. The check and the writes share one
// transaction, so a concurrent writer cannot slip in between. It returns store.ErrAlreadyExists
// when the guard is present.
func SyncIfAbsent(ctx context.Context, st store.Store, guard store.DocRef, writes ...store.Write) error {
	return SyncWithin(ctx, st, func(ctx context.Context, tx store.Tx) ([]store.Write, error) {
		_, err := tx.Get(guard)
		switch {
		case err == nil:
			return nil, fmt.Errorf("mirror: %s: %w", guard, store.ErrAlreadyExists)
		case errors.Is(err, store.ErrNotFound):
			return writes, nil
		default:
			return nil, err
		}
	})
}

// SyncWithin runs plan inside a transaction and commits the writes it returns. plan does all of its
// reads on tx; returning an error aborts with nothing applied.
func SyncWithin(ctx context.Context, st store.Store, plan func(ctx context.Context, tx store.Tx) ([]store.Write, error)) error {
	return st.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		writes, err := plan(ctx, tx)
		if err != nil {
			return err
		}
		if len(writes) == 0 {
			return nil
		}
		return tx.Apply(writes...)
	})
}

// Pair compiles a relationship into its two writes without committing them, for callers that
// batch several relationships together.
func Pair(mode Mode, primary, secondary Side) ([]store.Write, error) {
	return compile(mode, primary, secondary)
}

func compile(mode Mode, primary, secondary Side) ([]store.Write, error) {
	a, err := primary.Write(mode)
	if err != nil {
		return nil, err
	}
	b, err := secondary.Write(mode)
	if err != nil {
		return nil, err
	}
	return []store.Write{a, b}, nil
}
