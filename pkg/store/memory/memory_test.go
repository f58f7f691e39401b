package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minischetti/meal-planner-api/pkg/store"
)

type person struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Active *string `json:"activeMealPlan,omitempty"`
}

var people = store.Collection("people")

func TestStore_GetMissing(t *testing.T) {
	s := New()
	_, err := s.Get(context.Background(), people.Doc("nobody"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_ListOnlyDirectChildren(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Apply(ctx,
		store.Set(people.Doc("b"), person{ID: "b", Name: "Bo"}),
		store.Set(people.Doc("a"), person{ID: "a", Name: "Ann"}),
		store.Set(people.Doc("a").Collection("recipes").Doc("r1"), map[string]any{"id": "r1"}),
	))

	snaps, err := s.List(ctx, people)
	require.NoError(t, err)
	got, err := store.DecodeAll[person](snaps)
	require.NoError(t, err)
	assert.Equal(t, []person{{ID: "a", Name: "Ann"}, {ID: "b", Name: "Bo"}}, got)

	nested, err := s.List(ctx, people.Doc("a").Collection("recipes"))
	require.NoError(t, err)
	require.Len(t, nested, 1)
	assert.Equal(t, "r1", nested[0].Ref.ID)
}

func TestStore_ApplyIsAtomic(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")
	calls := 0
	s.SetFault(func(w store.Write) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})

	err := s.Apply(ctx,
		store.Create(people.Doc("a"), person{ID: "a"}),
		store.Create(people.Doc("b"), person{ID: "b"}),
		store.Create(people.Doc("c"), person{ID: "c"}),
	)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, s.Len())

	s.SetFault(nil)
	require.NoError(t, s.Apply(ctx, store.Create(people.Doc("a"), person{ID: "a"})))
	assert.Equal(t, 1, s.Len())
}

func TestStore_CreateConflictRollsBack(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Apply(ctx, store.Create(people.Doc("a"), person{ID: "a"})))

	err := s.Apply(ctx,
		store.Create(people.Doc("b"), person{ID: "b"}),
		store.Create(people.Doc("a"), person{ID: "a"}),
	)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
	_, err = s.Get(ctx, people.Doc("b"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_MergeAndUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()
	ref := people.Doc("a")
	require.NoError(t, s.Apply(ctx, store.Set(ref, person{ID: "a", Name: "Ann"})))
	require.NoError(t, s.Apply(ctx, store.Merge(ref, map[string]any{"activeMealPlan": "p1"})))

	snap, err := s.Get(ctx, ref)
	require.NoError(t, err)
	var got person
	require.NoError(t, snap.DataTo(&got))
	assert.Equal(t, "Ann", got.Name)
	require.NotNil(t, got.Active)
	assert.Equal(t, "p1", *got.Active)

	require.NoError(t, s.Apply(ctx, store.UpdateFields(ref, store.Update{Path: "name", Value: "Anna"})))
	snap, err = s.Get(ctx, ref)
	require.NoError(t, err)
	require.NoError(t, snap.DataTo(&got))
	assert.Equal(t, "Anna", got.Name)

	err = s.Apply(ctx, store.UpdateFields(people.Doc("zz"), store.Update{Path: "name", Value: "x"}))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_UpdateDottedPath(t *testing.T) {
	s := New()
	ctx := context.Background()
	ref := store.Collection("plans").Doc("p")
	require.NoError(t, s.Apply(ctx, store.Set(ref, map[string]any{"id": "p"})))
	require.NoError(t, s.Apply(ctx, store.UpdateFields(ref, store.Update{Path: "days.0", Value: "r1"})))

	snap, err := s.Get(ctx, ref)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, snap.DataTo(&got))
	assert.Equal(t, map[string]any{"0": "r1"}, got["days"])
}

func TestStore_Transaction(t *testing.T) {
	s := New()
	ctx := context.Background()
	ref := people.Doc("a")
	require.NoError(t, s.Apply(ctx, store.Set(ref, person{ID: "a", Name: "Ann"})))

	t.Run("commits queued writes", func(t *testing.T) {
		err := s.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
			snap, err := tx.Get(ref)
			if err != nil {
				return err
			}
			var p person
			if err := snap.DataTo(&p); err != nil {
				return err
			}
			return tx.Apply(store.Set(people.Doc("b"), person{ID: "b", Name: p.Name + "'s friend"}))
		})
		require.NoError(t, err)
		_, err = s.Get(ctx, people.Doc("b"))
		assert.NoError(t, err)
	})

	t.Run("discards writes on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
			if err := tx.Apply(store.Delete(ref)); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		_, err = s.Get(ctx, ref)
		assert.NoError(t, err)
	})

	t.Run("rejects reads after writes", func(t *testing.T) {
		err := s.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
			if err := tx.Apply(store.Delete(people.Doc("b"))); err != nil {
				return err
			}
			_, err := tx.Get(ref)
			return err
		})
		assert.ErrorIs(t, err, store.ErrReadAfterWrite)
	})
}

func TestStore_InvalidPath(t *testing.T) {
	s := New()
	err := s.Apply(context.Background(), store.Set(store.DocRef{Path: "people"}, person{}))
	assert.ErrorIs(t, err, store.ErrInvalidPath)
}
