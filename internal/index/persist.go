package index

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kamusis/pixdex/internal/logger"
	"github.com/kamusis/pixdex/internal/store"
)

// Persist saves one entry per category. If any save fails, the categories
// saved by this call are deleted again and the error wraps ErrStoreWrite.
func Persist(ctx context.Context, s store.Store, x *Index) error {
	var saved []string
	for _, c := range x.Categories() {
		b, err := json.Marshal(x.Entry(c))
		if err == nil {
			err = s.Save(ctx, c, b)
		}
		if err != nil {
			rollback(ctx, s, saved)
			return fmt.Errorf("%w: category %q: %w", ErrStoreWrite, c, err)
		}
		saved = append(saved, c)
	}
	return nil
}

func rollback(ctx context.Context, s store.Store, keys []string) {
	log := logger.Named("index")
	// Cleanup must run even when ctx is what failed the save.
	ctx = context.WithoutCancel(ctx)
	for _, k := range keys {
		if err := s.Delete(ctx, k); err != nil {
			log.Error().Err(err).Str("category", k).Msg("rollback failed; store may hold a partial index")
		}
	}
}

// Read loads the persisted entry for category.
func Read(ctx context.Context, s store.Store, category string) (Entry, error) {
	b, err := s.Read(ctx, category)
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return Entry{}, fmt.Errorf("invalid index entry %q: %w", category, err)
	}
	return e, nil
}

// Reset deletes every persisted category under the store's writer lock and
// returns how many were removed.
func Reset(ctx context.Context, s store.Store) (int, error) {
	unlock, err := store.Lock(ctx, s)
	if err != nil {
		return 0, err
	}
	defer unlock()

	keys, err := s.Keys(ctx)
	if err != nil {
		return 0, err
	}
	for i, k := range keys {
		if err := s.Delete(ctx, k); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}
