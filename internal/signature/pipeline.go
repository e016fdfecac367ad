package signature

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/kamusis/pixdex/internal/catalog"
	"github.com/kamusis/pixdex/internal/logger"
	"github.com/kamusis/pixdex/internal/pixels"
	"github.com/kamusis/pixdex/internal/pool"
	"golang.org/x/sync/errgroup"
)

// Failure is an image that could not be processed.
type Failure struct {
	Path string
	Err  error
}

// Result summarizes a pipeline run.
type Result struct {
	Processed int
	Failed    []Failure
}

// Pipeline processes a corpus in parallel and feeds a pool from a single
// collector goroutine, so records land in completion order.
type Pipeline struct {
	Builder  *Builder
	Provider pixels.Provider
	// Workers bounds concurrent decodes; <= 0 means GOMAXPROCS.
	Workers int
	// Progress, if set, is called from the collector after every image.
	Progress func(done, total int)
}

type outcome struct {
	rec  Record
	path string
	err  error
}

// Run processes every image into dst. Decode failures are recorded, marked on
// dst and do not stop the run. A full pool stops the run with pool.ErrPoolFull;
// a canceled ctx stops it with the context error.
func (p *Pipeline) Run(ctx context.Context, images []catalog.Image, dst *pool.Pool[Record]) (Result, error) {
	log := logger.Named("signature")

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make(chan outcome, workers)
	var (
		res       Result
		insertErr error
		wg        sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		done := 0
		for o := range out {
			done++
			switch {
			case o.err != nil:
				res.Failed = append(res.Failed, Failure{Path: o.path, Err: o.err})
				dst.MarkFailed()
				log.Warn().Str("path", o.path).Err(o.err).Msg("image skipped")
			case insertErr != nil:
				// Draining after a fatal insert error.
			default:
				if err := dst.Insert(o.rec); err != nil {
					insertErr = err
					cancel()
					continue
				}
				res.Processed++
				log.Debug().Str("path", o.path).Int("processed", res.Processed).Msg("image processed")
			}
			if p.Progress != nil {
				p.Progress(done, len(images))
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, im := range images {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, err := p.Builder.Process(gctx, im, p.Provider)
			if err != nil && gctx.Err() != nil && !errors.Is(err, pixels.ErrDecode) {
				return err
			}
			out <- outcome{rec: rec, path: im.Path, err: err}
			return nil
		})
	}
	waitErr := g.Wait()
	close(out)
	wg.Wait()

	if insertErr != nil {
		return res, insertErr
	}
	if waitErr != nil {
		return res, waitErr
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}
