// Package backend opens the Store selected by config.
package backend

import (
	"context"
	"fmt"

	"github.com/kamusis/pixdex/internal/config"
	"github.com/kamusis/pixdex/internal/store"
	"github.com/kamusis/pixdex/internal/store/file"
	"github.com/kamusis/pixdex/internal/store/minio"
	"github.com/kamusis/pixdex/internal/store/sqlite"
)

// Open returns the configured store wrapped with its value codec.
func Open(ctx context.Context, cfg config.Store) (store.Store, error) {
	codec, err := store.CodecFor(cfg.Compression)
	if err != nil {
		return nil, err
	}

	var s store.Store
	switch cfg.Backend {
	case config.BackendFile, "":
		s, err = file.Open(cfg.Path)
	case config.BackendSQLite:
		s, err = sqlite.Open(cfg.Path)
	case config.BackendMinio:
		s, err = dialMinio(ctx, cfg.Minio)
	case config.BackendMemory:
		s = store.NewMemory()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return store.WithCodec(s, codec), nil
}

func dialMinio(ctx context.Context, m config.Minio) (store.Store, error) {
	access, err := config.GetConfigValue(config.EnvMinioAccessKey)
	if err != nil {
		return nil, err
	}
	secret, err := config.GetConfigValue(config.EnvMinioSecretKey)
	if err != nil {
		return nil, err
	}
	return minio.Dial(ctx, minio.Options{
		Endpoint:  m.Endpoint,
		AccessKey: access,
		SecretKey: secret,
		Bucket:    m.Bucket,
		Prefix:    m.Prefix,
		Secure:    m.Secure,
	})
}

// Describe returns a short human description of where cfg stores the index.
func Describe(cfg config.Store) string {
	loc := cfg.Path
	switch cfg.Backend {
	case config.BackendMinio:
		loc = cfg.Minio.Endpoint + "/" + cfg.Minio.Bucket
		if cfg.Minio.Prefix != "" {
			loc += "/" + cfg.Minio.Prefix
		}
	case config.BackendMemory:
		loc = "(in-memory)"
	}
	c := cfg.Compression
	if c == "" {
		c = "none"
	}
	return fmt.Sprintf("%s %s [compression: %s]", cfg.Backend, loc, c)
}
