//go:build integration_minio
// +build integration_minio

package minio

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kamusis/pixdex/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startMinio(t *testing.T) (endpoint string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Cmd:          []string{"server", "/data"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     "pixdex",
			"MINIO_ROOT_PASSWORD": "pixdexsecret",
		},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").
			WithStartupTimeout(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start minio container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "9000/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	endpoint = fmt.Sprintf("%s:%s", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return endpoint, stop
}

func TestStore_Lifecycle_Integration(t *testing.T) {
	endpoint, stop := startMinio(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s, err := Dial(ctx, Options{
		Endpoint:  endpoint,
		AccessKey: "pixdex",
		SecretKey: "pixdexsecret",
		Bucket:    "pixdex-test",
		Prefix:    "colors",
	})
	require.NoError(t, err)

	empty, err := s.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, s.Save(ctx, "taj mahal", []byte(`{"images":[]}`)))
	require.NoError(t, s.Save(ctx, "eiffel tower", []byte(`{"images":[]}`)))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"eiffel tower", "taj mahal"}, keys)

	v, err := s.Read(ctx, "taj mahal")
	require.NoError(t, err)
	assert.JSONEq(t, `{"images":[]}`, string(v))

	_, err = s.Read(ctx, "stonehenge")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "taj mahal"))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"eiffel tower"}, keys)
}
