// Package minio is a Store backed by an S3-compatible bucket. Each key is one
// object; object PUTs are atomic, so a key is either fully written or absent.
package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/kamusis/pixdex/internal/store"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const valueExt = ".json"

// Options configures Dial.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	Secure    bool
}

// Store implements store.Store on a MinIO client.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// New wraps an existing client.
func New(client *minio.Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Dial connects to opts.Endpoint and creates the bucket if it does not exist.
func Dial(ctx context.Context, opts Options) (*Store, error) {
	if opts.Endpoint == "" || opts.Bucket == "" {
		return nil, errors.New("minio store: endpoint and bucket are required")
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create minio client: %w", err)
	}
	ok, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("cannot check bucket %s: %w", opts.Bucket, err)
	}
	if !ok {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("cannot create bucket %s: %w", opts.Bucket, err)
		}
	}
	return New(client, opts.Bucket, opts.Prefix), nil
}

func (s *Store) objectName(key string) string {
	return path.Join(s.prefix, url.PathEscape(key)+valueExt)
}

func (s *Store) listPrefix() string {
	if s.prefix == "" {
		return ""
	}
	return s.prefix + "/"
}

// Save puts the object for key.
func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.objectName(key), bytes.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("cannot put %s: %w", key, err)
	}
	return nil
}

// Read fetches the object for key.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapErr(key, err)
	}
	defer obj.Close()
	b, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.mapErr(key, err)
	}
	return b, nil
}

func (s *Store) mapErr(key string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
		return fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	return fmt.Errorf("cannot get %s: %w", key, err)
}

// Delete removes the object for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, s.objectName(key), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("cannot delete %s: %w", key, err)
	}
	return nil
}

// Keys lists keys directly under the prefix in lexical order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	prefix := s.listPrefix()
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("cannot list bucket %s: %w", s.bucket, obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, prefix)
		if strings.Contains(name, "/") || !strings.HasSuffix(name, valueExt) {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, valueExt))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// IsEmpty reports whether no keys exist under the prefix.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	return store.IsEmptyByKeys(ctx, s)
}

// Close is a no-op; the client holds no resources that need releasing.
func (s *Store) Close() error { return nil }
