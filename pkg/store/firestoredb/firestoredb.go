// Package firestoredb backs store.Store with Cloud Firestore.
package firestoredb

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/minischetti/meal-planner-api/pkg/store"
)

func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

type Store struct {
	client *firestore.Client
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, doc store.DocRef) (*store.Snapshot, error) {
	ref, err := s.doc(doc)
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestoredb: get %s: %w", doc, translate(err))
	}
	return wrap(doc, snap), nil
}

func (s *Store) List(ctx context.Context, col store.CollectionRef) ([]*store.Snapshot, error) {
	ref, err := s.collection(col)
	if err != nil {
		return nil, err
	}
	docs, err := ref.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestoredb: list %s: %w", col.Path, translate(err))
	}
	return wrapAll(col, docs), nil
}

// Apply commits the writes as a write-only transaction, which Firestore applies atomically.
func (s *Store) Apply(ctx context.Context, writes ...store.Write) error {
	return s.RunTransaction(ctx, func(_ context.Context, tx store.Tx) error {
		return tx.Apply(writes...)
	})
}

func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		return fn(ctx, &txn{store: s, tx: t})
	}, firestore.MaxAttempts(1))
	if err != nil {
		return translate(err)
	}
	return nil
}

func (s *Store) doc(doc store.DocRef) (*firestore.DocumentRef, error) {
	if !doc.Valid() {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidPath, doc.Path)
	}
	ref := s.client.Doc(doc.Path)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidPath, doc.Path)
	}
	return ref, nil
}

func (s *Store) collection(col store.CollectionRef) (*firestore.CollectionRef, error) {
	if !col.Valid() {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidPath, col.Path)
	}
	ref := s.client.Collection(col.Path)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidPath, col.Path)
	}
	return ref, nil
}

type txn struct {
	store *Store
	tx    *firestore.Transaction
}

func (t *txn) Get(doc store.DocRef) (*store.Snapshot, error) {
	ref, err := t.store.doc(doc)
	if err != nil {
		return nil, err
	}
	snap, err := t.tx.Get(ref)
	if err != nil {
		return nil, fmt.Errorf("firestoredb: tx get %s: %w", doc, translate(err))
	}
	return wrap(doc, snap), nil
}

func (t *txn) List(col store.CollectionRef) ([]*store.Snapshot, error) {
	ref, err := t.store.collection(col)
	if err != nil {
		return nil, err
	}
	docs, err := t.tx.Documents(ref).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestoredb: tx list %s: %w", col.Path, translate(err))
	}
	return wrapAll(col, docs), nil
}

func (t *txn) Apply(writes ...store.Write) error {
	for _, w := range writes {
		if err := w.Check(); err != nil {
			return err
		}
		ref, err := t.store.doc(w.Doc)
		if err != nil {
			return err
		}
		switch w.Op {
		case store.OpCreate:
			err = t.tx.Create(ref, w.Data)
		case store.OpSet:
			if w.Merge {
				err = t.tx.Set(ref, w.Data, firestore.MergeAll)
			} else {
				err = t.tx.Set(ref, w.Data)
			}
		case store.OpUpdate:
			updates := make([]firestore.Update, len(w.Fields))
			for i, f := range w.Fields {
				updates[i] = firestore.Update{Path: f.Path, Value: f.Value}
			}
			err = t.tx.Update(ref, updates)
		case store.OpDelete:
			err = t.tx.Delete(ref)
		default:
			err = fmt.Errorf("unknown op %s", w.Op)
		}
		if err != nil {
			return fmt.Errorf("firestoredb: %s %s: %w", w.Op, w.Doc, err)
		}
	}
	return nil
}

func wrap(ref store.DocRef, snap *firestore.DocumentSnapshot) *store.Snapshot {
	return store.NewSnapshot(ref, snap.DataTo)
}

func wrapAll(col store.CollectionRef, docs []*firestore.DocumentSnapshot) []*store.Snapshot {
	out := make([]*store.Snapshot, len(docs))
	for i, d := range docs {
		out[i] = wrap(col.Doc(d.Ref.ID), d)
	}
	return out
}

// translate maps gRPC status codes onto the store sentinels, keeping the original message.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var sentinel error
	switch status.Code(err) {
	case codes.NotFound:
		sentinel = store.ErrNotFound
	case codes.AlreadyExists:
		sentinel = store.ErrAlreadyExists
	case codes.Aborted:
		sentinel = store.ErrConflict
	default:
		return err
	}
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %s", sentinel, status.Convert(err).Message())
}
