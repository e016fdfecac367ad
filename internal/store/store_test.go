package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	empty, err := m.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	_, err = m.Read(ctx, "taj mahal")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Save(ctx, "taj mahal", []byte(`{"images":[]}`)))
	require.NoError(t, m.Save(ctx, "eiffel tower", []byte(`{}`)))
	require.NoError(t, m.Save(ctx, "taj mahal", []byte(`{"images":null}`)))

	keys, err := m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"taj mahal", "eiffel tower"}, keys)

	v, err := m.Read(ctx, "taj mahal")
	require.NoError(t, err)
	assert.Equal(t, `{"images":null}`, string(v))

	// Returned slices are copies.
	v[0] = 'X'
	v2, _ := m.Read(ctx, "taj mahal")
	assert.Equal(t, byte('{'), v2[0])

	require.NoError(t, m.Delete(ctx, "taj mahal"))
	require.NoError(t, m.Delete(ctx, "taj mahal"))
	keys, _ = m.Keys(ctx)
	assert.Equal(t, []string{"eiffel tower"}, keys)

	empty, err = IsEmptyByKeys(ctx, m)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestCodecs_RoundTrip(t *testing.T) {
	ctx := context.Background()
	payload := bytes.Repeat([]byte(`{"class":"red","image":{"path":"a.jpg"}},`), 200)

	for _, name := range []string{"", "none", "zstd", "lz4"} {
		t.Run("codec="+name, func(t *testing.T) {
			c, err := CodecFor(name)
			require.NoError(t, err)

			inner := NewMemory()
			s := WithCodec(inner, c)
			require.NoError(t, s.Save(ctx, "k", payload))

			got, err := s.Read(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, payload, got)

			raw, err := inner.Read(ctx, "k")
			require.NoError(t, err)
			if name == "zstd" || name == "lz4" {
				assert.Less(t, len(raw), len(payload))
			} else {
				assert.Equal(t, payload, raw)
			}

			_, err = s.Read(ctx, "missing")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

type closeCounter struct {
	*Memory
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestWithCodec_CloseReleasesCodecAndStore(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"zstd", "lz4"} {
		t.Run(name, func(t *testing.T) {
			c, err := CodecFor(name)
			require.NoError(t, err)
			inner := &closeCounter{Memory: NewMemory()}
			s := WithCodec(inner, c)
			require.NoError(t, s.Save(ctx, "k", []byte("value")))

			require.NoError(t, s.Close())
			assert.Equal(t, 1, inner.closed)
		})
	}

	c, err := CodecFor("zstd")
	require.NoError(t, err)
	enc, err := c.Encode([]byte("value"))
	require.NoError(t, err)
	require.NoError(t, WithCodec(NewMemory(), c).Close())
	_, err = c.Decode(enc)
	assert.Error(t, err, "decoder should be released by Close")
}

func TestCodecFor_Unknown(t *testing.T) {
	_, err := CodecFor("brotli")
	require.Error(t, err)
}

func TestLockFile_Exclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store", ".lock")

	unlock, err := LockFile(context.Background(), path)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_, err = LockFile(ctx, path)
	require.Error(t, err)

	unlock()
	unlock2, err := LockFile(context.Background(), path)
	require.NoError(t, err)
	unlock2()
}

func TestLock_NoopForPlainStore(t *testing.T) {
	unlock, err := Lock(context.Background(), NewMemory())
	require.NoError(t, err)
	unlock()
}
