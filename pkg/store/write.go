package store

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Op int

const (
	OpCreate Op = iota
	OpSet
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpSet:
		return "set"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Update sets a single field. Path may be dotted to reach into nested maps.
type Update struct {
	Path  string
	Value any
}

type Write struct {
	Op     Op
	Doc    DocRef
	Data   any
	Fields []Update
	// Merge only applies to OpSet and requires map[string]any data.
	Merge bool
}

func Create(doc DocRef, data any) Write {
	return Write{Op: OpCreate, Doc: doc, Data: data}
}

func Set(doc DocRef, data any) Write {
	return Write{Op: OpSet, Doc: doc, Data: data}
}

func Merge(doc DocRef, fields map[string]any) Write {
	return Write{Op: OpSet, Doc: doc, Data: fields, Merge: true}
}

func UpdateFields(doc DocRef, fields ...Update) Write {
	return Write{Op: OpUpdate, Doc: doc, Fields: fields}
}

func Delete(doc DocRef) Write {
	return Write{Op: OpDelete, Doc: doc}
}

// Check rejects malformed writes before any driver sees them.
func (w Write) Check() error {
	if !w.Doc.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPath, w.Doc.Path)
	}
	switch w.Op {
	case OpCreate, OpSet:
		if w.Data == nil {
			return fmt.Errorf("store: %s %s: nil data", w.Op, w.Doc)
		}
		if w.Merge {
			if _, ok := w.Data.(map[string]any); !ok {
				return fmt.Errorf("store: merge %s: data must be map[string]any", w.Doc)
			}
		}
	case OpUpdate:
		if len(w.Fields) == 0 {
			return fmt.Errorf("store: update %s: no fields", w.Doc)
		}
	}
	return nil
}

// The helpers below are shared by drivers that keep documents as JSON.

// ToMap converts a tagged struct into its JSON object form.
func ToMap(data any) (map[string]any, error) {
	if m, ok := data.(map[string]any); ok {
		return cloneMap(m)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func cloneMap(m map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyFields sets each update on doc in order, creating intermediate maps for dotted paths.
func ApplyFields(doc map[string]any, fields []Update) error {
	for _, f := range fields {
		parts := strings.Split(f.Path, ".")
		cur := doc
		for _, p := range parts[:len(parts)-1] {
			next, ok := cur[p].(map[string]any)
			if !ok {
				next = map[string]any{}
				cur[p] = next
			}
			cur = next
		}
		v, err := jsonValue(f.Value)
		if err != nil {
			return fmt.Errorf("store: field %s: %w", f.Path, err)
		}
		cur[parts[len(parts)-1]] = v
	}
	return nil
}

func jsonValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MergeTop overlays the top-level keys of patch onto doc.
func MergeTop(doc, patch map[string]any) {
	for k, v := range patch {
		doc[k] = v
	}
}
