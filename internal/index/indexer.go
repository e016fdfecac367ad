package index

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kamusis/pixdex/internal/catalog"
	"github.com/kamusis/pixdex/internal/logger"
	"github.com/kamusis/pixdex/internal/pool"
	"github.com/kamusis/pixdex/internal/signature"
	"github.com/kamusis/pixdex/internal/store"
)

// Indexer runs the full indexing flow against a store.
type Indexer struct {
	Store    store.Store
	Pipeline *signature.Pipeline
	// Categories and Limit are passed to Build.
	Categories []string
	Limit      int
	// PoolCapacity bounds the pool; <= 0 means the catalog size.
	PoolCapacity int
}

// Report describes one Run.
type Report struct {
	RunID      string
	Skipped    bool
	Images     int
	Processed  int
	Failures   []signature.Failure
	Categories int
	Duration   time.Duration
}

// Run indexes images unless the store already holds an index, in which case
// the store is left untouched and Report.Skipped is set.
func (ix *Indexer) Run(ctx context.Context, images []catalog.Image) (Report, error) {
	start := time.Now()
	rep := Report{RunID: uuid.NewString(), Images: len(images)}
	log := logger.Named("index").With().Str("run_id", rep.RunID).Logger()

	skip, err := ix.populated(ctx)
	if err != nil || skip {
		rep.Skipped = skip
		if skip {
			log.Info().Msg("index already present; skipping")
		}
		return rep, err
	}

	unlock, err := store.Lock(ctx, ix.Store)
	if err != nil {
		return rep, err
	}
	defer unlock()

	// Another writer may have finished while we waited for the lock.
	if skip, err = ix.populated(ctx); err != nil || skip {
		rep.Skipped = skip
		return rep, err
	}

	capacity := ix.PoolCapacity
	if capacity <= 0 {
		capacity = len(images)
	}
	p := pool.New[signature.Record](capacity, len(images))

	log.Info().Int("images", len(images)).Int("capacity", capacity).Msg("indexing started")
	res, err := ix.Pipeline.Run(ctx, images, p)
	rep.Processed = res.Processed
	rep.Failures = res.Failed
	if err != nil {
		return rep, err
	}

	select {
	case <-p.Done():
	case <-ctx.Done():
		return rep, ctx.Err()
	}

	x, err := Build(p, Options{
		Palette:    ix.Pipeline.Builder.Palette(),
		Categories: ix.Categories,
		Limit:      ix.Limit,
	})
	if err != nil {
		return rep, err
	}
	if err := Persist(ctx, ix.Store, x); err != nil {
		log.Error().Err(err).Msg("index not persisted")
		return rep, err
	}

	rep.Categories = len(x.Categories())
	rep.Duration = time.Since(start)
	log.Info().
		Int("processed", rep.Processed).
		Int("failed", len(rep.Failures)).
		Int("categories", rep.Categories).
		Dur("duration", rep.Duration).
		Msg("index built")
	return rep, nil
}

func (ix *Indexer) populated(ctx context.Context) (bool, error) {
	empty, err := ix.Store.IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}
