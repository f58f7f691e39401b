package store

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const fanOutLimit = 16

// GetAll reads refs concurrently and decodes the documents that exist, in the order of refs.
// Missing documents are skipped.
func GetAll[T any](ctx context.Context, st Store, refs []DocRef) ([]T, error) {
	found := make([]*T, len(refs))

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(fanOutLimit)
	for i, ref := range refs {
		i, ref := i, ref
		grp.Go(func() error {
			snap, err := st.Get(ctx, ref)
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			var v T
			if err := snap.DataTo(&v); err != nil {
				return fmt.Errorf("store: parsing %s: %w", ref, err)
			}
			found[i] = &v
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(refs))
	for _, v := range found {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out, nil
}
