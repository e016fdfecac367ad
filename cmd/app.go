package cmd

import (
	"context"
	"fmt"

	"github.com/kamusis/pixdex/internal/catalog"
	"github.com/kamusis/pixdex/internal/config"
	"github.com/kamusis/pixdex/internal/index"
	"github.com/kamusis/pixdex/internal/logger"
	"github.com/kamusis/pixdex/internal/palette"
	"github.com/kamusis/pixdex/internal/pixels"
	"github.com/kamusis/pixdex/internal/query"
	"github.com/kamusis/pixdex/internal/signature"
	"github.com/kamusis/pixdex/internal/store"
	"github.com/kamusis/pixdex/internal/store/backend"
)

// app is everything a command needs, built once per invocation and passed
// explicitly. Nothing in it is package-global.
type app struct {
	cfg     *config.Config
	palette palette.Palette
	store   store.Store
	catalog *catalog.Catalog
}

// loadConfig reads the config selected by --config and configures logging
// from it, with --log-level and --log-format taking precedence.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w\nRun 'pixdex init' first.", err)
	}
	opt := logger.FromConfig(cfg.Log.Level, cfg.Log.Format)
	if flagLogLevel != "" {
		opt.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		opt.Format = flagLogFormat
	}
	logger.Init(opt)
	return cfg, nil
}

type appOptions struct {
	catalog bool
	store   bool
}

func openApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	pal, err := cfg.ResolvePalette()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, palette: pal}

	if opts.catalog {
		if a.catalog, err = catalog.Load(cfg.Catalog); err != nil {
			return nil, err
		}
	}
	if opts.store {
		if a.store, err = backend.Open(ctx, cfg.Store); err != nil {
			return nil, fmt.Errorf("cannot open store (%s): %w", backend.Describe(cfg.Store), err)
		}
	}
	return a, nil
}

func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *app) engine() *query.Engine {
	return query.NewEngine(a.catalog, a.store, query.Options{
		ScanAllPerCategory: a.cfg.ScanAllPerCategory,
		Palette:            &a.palette,
	})
}

func (a *app) indexer(workers int, progress func(done, total int)) *index.Indexer {
	if workers <= 0 {
		workers = a.cfg.Workers
	}
	return &index.Indexer{
		Store: a.store,
		Pipeline: &signature.Pipeline{
			Builder:  signature.NewBuilder(a.palette),
			Provider: pixels.NewFileProvider(a.cfg.ImagesRoot),
			Workers:  workers,
			Progress: progress,
		},
		Categories:   a.cfg.Categories,
		Limit:        a.cfg.NumShownPic,
		PoolCapacity: a.cfg.PoolCapacity,
	}
}
