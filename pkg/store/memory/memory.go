// Package memory is an in-process store.Store. Documents are kept as JSON, so entities decode the
// same way they would from a remote store. Commits are staged on a copy of the state and swapped
// in only when every write succeeds.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/minischetti/meal-planner-api/pkg/store"
)

type Store struct {
	mu    sync.Mutex
	docs  map[string][]byte
	fault func(w store.Write) error
}

func New() *Store {
	return &Store{docs: map[string][]byte{}}
}

// SetFault installs a hook called for every write while a commit is being staged. A non-nil
// error aborts the whole commit. Pass nil to clear it.
func (s *Store) SetFault(fn func(w store.Write) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = fn
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) Get(ctx context.Context, doc store.DocRef) (*store.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.docs, doc)
}

func (s *Store) List(ctx context.Context, col store.CollectionRef) ([]*store.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return list(s.docs, col)
}

func (s *Store) Apply(ctx context.Context, writes ...store.Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(writes)
}

func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txn{docs: s.docs}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(tx.writes)
}

// commit must be called with s.mu held.
func (s *Store) commit(writes []store.Write) error {
	staged := make(map[string][]byte, len(s.docs)+len(writes))
	for k, v := range s.docs {
		staged[k] = v
	}
	for _, w := range writes {
		if err := w.Check(); err != nil {
			return err
		}
		if s.fault != nil {
			if err := s.fault(w); err != nil {
				return err
			}
		}
		if err := applyWrite(staged, w); err != nil {
			return err
		}
	}
	s.docs = staged
	return nil
}

func applyWrite(docs map[string][]byte, w store.Write) error {
	existing, exists := docs[w.Doc.Path]
	switch w.Op {
	case store.OpCreate:
		if exists {
			return fmt.Errorf("memory: create %s: %w", w.Doc, store.ErrAlreadyExists)
		}
		return put(docs, w.Doc, w.Data)
	case store.OpSet:
		if !w.Merge || !exists {
			return put(docs, w.Doc, w.Data)
		}
		cur, err := decodeMap(existing)
		if err != nil {
			return err
		}
		patch, err := store.ToMap(w.Data)
		if err != nil {
			return err
		}
		store.MergeTop(cur, patch)
		return put(docs, w.Doc, cur)
	case store.OpUpdate:
		if !exists {
			return fmt.Errorf("memory: update %s: %w", w.Doc, store.ErrNotFound)
		}
		cur, err := decodeMap(existing)
		if err != nil {
			return err
		}
		if err := store.ApplyFields(cur, w.Fields); err != nil {
			return err
		}
		return put(docs, w.Doc, cur)
	case store.OpDelete:
		delete(docs, w.Doc.Path)
		return nil
	default:
		return fmt.Errorf("memory: unknown op %s", w.Op)
	}
}

func put(docs map[string][]byte, doc store.DocRef, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("memory: encode %s: %w", doc, err)
	}
	docs[doc.Path] = raw
	return nil
}

func decodeMap(raw []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func get(docs map[string][]byte, doc store.DocRef) (*store.Snapshot, error) {
	if !doc.Valid() {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidPath, doc.Path)
	}
	raw, ok := docs[doc.Path]
	if !ok {
		return nil, fmt.Errorf("memory: get %s: %w", doc, store.ErrNotFound)
	}
	return snapshot(doc, raw), nil
}

func list(docs map[string][]byte, col store.CollectionRef) ([]*store.Snapshot, error) {
	if !col.Valid() {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidPath, col.Path)
	}
	prefix := col.Path + "/"
	var ids []string
	for path := range docs {
		rest, ok := strings.CutPrefix(path, prefix)
		if ok && !strings.Contains(rest, "/") {
			ids = append(ids, rest)
		}
	}
	sort.Strings(ids)

	snaps := make([]*store.Snapshot, 0, len(ids))
	for _, id := range ids {
		ref := col.Doc(id)
		snaps = append(snaps, snapshot(ref, docs[ref.Path]))
	}
	return snaps, nil
}

func snapshot(ref store.DocRef, raw []byte) *store.Snapshot {
	data := append([]byte(nil), raw...)
	return store.NewSnapshot(ref, func(v any) error {
		return json.Unmarshal(data, v)
	})
}

type txn struct {
	docs   map[string][]byte
	writes []store.Write
}

func (t *txn) Get(doc store.DocRef) (*store.Snapshot, error) {
	if len(t.writes) > 0 {
		return nil, store.ErrReadAfterWrite
	}
	return get(t.docs, doc)
}

func (t *txn) List(col store.CollectionRef) ([]*store.Snapshot, error) {
	if len(t.writes) > 0 {
		return nil, store.ErrReadAfterWrite
	}
	return list(t.docs, col)
}

func (t *txn) Apply(writes ...store.Write) error {
	for _, w := range writes {
		if err := w.Check(); err != nil {
			return err
		}
	}
	t.writes = append(t.writes, writes...)
	return nil
}
