// Package postgres keeps documents in a single jsonb table so the API can run without Firestore.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/minischetti/meal-planner-api/pkg/store"
)

// Document is one stored document. Collection is the parent path, so listing a collection is an
// indexed equality lookup.
type Document struct {
	Path       string `gorm:"primaryKey;type:text"`
	Collection string `gorm:"index;type:text;not null"`
	ID         string `gorm:"type:text;not null"`
	Data       string `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

type Store struct {
	db *gorm.DB
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Get(ctx context.Context, doc store.DocRef) (*store.Snapshot, error) {
	return get(s.db.WithContext(ctx), doc, false)
}

func (s *Store) List(ctx context.Context, col store.CollectionRef) ([]*store.Snapshot, error) {
	return list(s.db.WithContext(ctx), col, false)
}

func (s *Store) Apply(ctx context.Context, writes ...store.Write) error {
	for _, w := range writes {
		if err := w.Check(); err != nil {
			return err
		}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyAll(tx, writes)
	})
}

func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		t := &txn{db: db}
		if err := fn(ctx, t); err != nil {
			return err
		}
		return applyAll(db, t.writes)
	})
}

type txn struct {
	db     *gorm.DB
	writes []store.Write
}

func (t *txn) Get(doc store.DocRef) (*store.Snapshot, error) {
	if len(t.writes) > 0 {
		return nil, store.ErrReadAfterWrite
	}
	return get(t.db, doc, true)
}

func (t *txn) List(col store.CollectionRef) ([]*store.Snapshot, error) {
	if len(t.writes) > 0 {
		return nil, store.ErrReadAfterWrite
	}
	return list(t.db, col, true)
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

func get(db *gorm.DB, doc store.DocRef, lock bool) (*store.Snapshot, error) {
	if !doc.Valid() {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidPath, doc.Path)
	}
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row Document
	if err := db.Where("path = ?", doc.Path).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("postgres: get %s: %w", doc, store.ErrNotFound)
		}
		return nil, fmt.Errorf("postgres: get %s: %w", doc, err)
	}
	return snapshot(doc, row.Data), nil
}

func list(db *gorm.DB, col store.CollectionRef, lock bool) ([]*store.Snapshot, error) {
	if !col.Valid() {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidPath, col.Path)
	}
	if lock {
		db = db.Clauses(clause.Locking{Strength: "SHARE"})
	}
	var rows []Document
	if err := db.Where("collection = ?", col.Path).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("postgres: list %s: %w", col.Path, err)
	}
	snaps := make([]*store.Snapshot, len(rows))
	for i, row := range rows {
		snaps[i] = snapshot(col.Doc(row.ID), row.Data)
	}
	return snaps, nil
}

func snapshot(ref store.DocRef, data string) *store.Snapshot {
	return store.NewSnapshot(ref, func(v any) error {
		return json.Unmarshal([]byte(data), v)
	})
}

func applyAll(db *gorm.DB, writes []store.Write) error {
	for _, w := range writes {
		if err := applyWrite(db, w); err != nil {
			return fmt.Errorf("postgres: %s %s: %w", w.Op, w.Doc, err)
		}
	}
	return nil
}

func applyWrite(db *gorm.DB, w store.Write) error {
	switch w.Op {
	case store.OpCreate:
		row, err := newRow(w.Doc, w.Data)
		if err != nil {
			return err
		}
		if err := db.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return store.ErrAlreadyExists
			}
			return err
		}
		return nil
	case store.OpSet:
		data := w.Data
		if w.Merge {
			cur, err := current(db, w.Doc)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
			if cur == nil {
				cur = map[string]any{}
			}
			patch, err := store.ToMap(w.Data)
			if err != nil {
				return err
			}
			store.MergeTop(cur, patch)
			data = cur
		}
		row, err := newRow(w.Doc, data)
		if err != nil {
			return err
		}
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).Create(&row).Error
	case store.OpUpdate:
		cur, err := current(db, w.Doc)
		if err != nil {
			return err
		}
		if err := store.ApplyFields(cur, w.Fields); err != nil {
			return err
		}
		raw, err := json.Marshal(cur)
		if err != nil {
			return err
		}
		return db.Model(&Document{}).Where("path = ?", w.Doc.Path).Update("data", string(raw)).Error
	case store.OpDelete:
		return db.Where("path = ?", w.Doc.Path).Delete(&Document{}).Error
	default:
		return fmt.Errorf("unknown op %s", w.Op)
	}
}

func current(db *gorm.DB, doc store.DocRef) (map[string]any, error) {
	var row Document
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("path = ?", doc.Path).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(row.Data), &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func newRow(doc store.DocRef, data any) (Document, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Path:       doc.Path,
		Collection: doc.Parent().Path,
		ID:         doc.ID,
		Data:       string(raw),
	}, nil
}
