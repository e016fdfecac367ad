// Package pixels supplies decoded pixel buffers for catalog image paths.
package pixels

import (
	"context"
	"errors"
)

// ErrDecode is returned when a provider cannot supply pixels for a path.
var ErrDecode = errors.New("cannot decode image")

// Buffer is a decoded image in row-major, non-premultiplied RGBA order,
// 4 bytes per pixel.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// Len returns the number of pixels in the buffer.
func (b *Buffer) Len() int { return len(b.Pix) / 4 }

// Provider yields decoded pixels for an image path. Implementations block until
// decoding finishes and must be safe for concurrent use.
type Provider interface {
	Pixels(ctx context.Context, path string) (*Buffer, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, path string) (*Buffer, error)

// Pixels calls f.
func (f ProviderFunc) Pixels(ctx context.Context, path string) (*Buffer, error) {
	return f(ctx, path)
}
