package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kamusis/pixdex/internal/config"
	"github.com/kamusis/pixdex/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Backends(t *testing.T) {
	dir := t.TempDir()
	cases := []config.Store{
		{Backend: config.BackendMemory},
		{Backend: config.BackendFile, Path: filepath.Join(dir, "files")},
		{Backend: config.BackendFile, Path: filepath.Join(dir, "files-zstd"), Compression: "zstd"},
		{Backend: config.BackendSQLite, Path: filepath.Join(dir, "index.db"), Compression: "lz4"},
	}
	for _, cfg := range cases {
		t.Run(cfg.Backend+"/"+cfg.Compression, func(t *testing.T) {
			ctx := context.Background()
			s, err := Open(ctx, cfg)
			require.NoError(t, err)
			defer s.Close()

			unlock, err := store.Lock(ctx, s)
			require.NoError(t, err)
			defer unlock()

			require.NoError(t, s.Save(ctx, "stonehenge", []byte(`{"images":[]}`)))
			v, err := s.Read(ctx, "stonehenge")
			require.NoError(t, err)
			assert.JSONEq(t, `{"images":[]}`, string(v))

			_, err = s.Read(ctx, "taj mahal")
			require.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ctx := context.Background()
	_, err := Open(ctx, config.Store{Backend: "redis"})
	require.Error(t, err)

	_, err = Open(ctx, config.Store{Backend: config.BackendMemory, Compression: "brotli"})
	require.Error(t, err)

	_, err = Open(ctx, config.Store{Backend: config.BackendMinio})
	require.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "memory (in-memory) [compression: none]", Describe(config.Store{Backend: config.BackendMemory}))
	assert.Equal(t, "minio play.min.io/pix/colors [compression: zstd]", Describe(config.Store{
		Backend:     config.BackendMinio,
		Compression: "zstd",
		Minio:       config.Minio{Endpoint: "play.min.io", Bucket: "pix", Prefix: "colors"},
	}))
}
