package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec transforms values on their way into and out of a backend. Codecs
// holding resources also implement io.Closer.
type Codec interface {
	Name() string
	Encode(src []byte) ([]byte, error)
	Decode(src []byte) ([]byte, error)
}

// CodecFor returns the codec registered under name. "" and "none" select the
// identity codec.
func CodecFor(name string) (Codec, error) {
	switch name {
	case "", "none":
		return identity{}, nil
	case "zstd":
		return newZstd()
	case "lz4":
		return lz4Codec{}, nil
	default:
		return nil, fmt.Errorf("unknown compression %q (want none, zstd or lz4)", name)
	}
}

// WithCodec wraps s so that values are encoded by c before Save and decoded
// after Read. The identity codec returns s unchanged.
func WithCodec(s Store, c Codec) Store {
	if _, ok := c.(identity); ok {
		return s
	}
	return &codecStore{Store: s, codec: c}
}

type codecStore struct {
	Store
	codec Codec
}

func (s *codecStore) Save(ctx context.Context, key string, value []byte) error {
	enc, err := s.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("cannot %s-encode %s: %w", s.codec.Name(), key, err)
	}
	return s.Store.Save(ctx, key, enc)
}

func (s *codecStore) Read(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.Store.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	dec, err := s.codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("cannot %s-decode %s: %w", s.codec.Name(), key, err)
	}
	return dec, nil
}

func (s *codecStore) Lock(ctx context.Context) (func(), error) {
	return Lock(ctx, s.Store)
}

// Close releases the codec, then closes the wrapped store.
func (s *codecStore) Close() error {
	var cerr error
	if c, ok := s.codec.(io.Closer); ok {
		cerr = c.Close()
	}
	return errors.Join(cerr, s.Store.Close())
}

type identity struct{}

func (identity) Name() string                      { return "none" }
func (identity) Encode(src []byte) ([]byte, error) { return src, nil }
func (identity) Decode(src []byte) ([]byte, error) { return src, nil }

type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newZstd() (*zstdCodec, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &zstdCodec{enc: enc, dec: dec}, nil
}

func (*zstdCodec) Name() string { return "zstd" }

func (c *zstdCodec) Encode(src []byte) ([]byte, error) {
	return c.enc.EncodeAll(src, nil), nil
}

func (c *zstdCodec) Decode(src []byte) ([]byte, error) {
	return c.dec.DecodeAll(src, nil)
}

// Close stops the encoder and decoder goroutines.
func (c *zstdCodec) Close() error {
	c.dec.Close()
	return c.enc.Close()
}

type lz4Codec struct{}

func (lz4Codec) Name() string { return "lz4" }

func (lz4Codec) Encode(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (lz4Codec) Decode(src []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
}
