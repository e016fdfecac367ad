// Package signature turns catalog images into color signatures.
package signature

import (
	"context"
	"errors"
	"fmt"

	"github.com/kamusis/pixdex/internal/catalog"
	"github.com/kamusis/pixdex/internal/palette"
	"github.com/kamusis/pixdex/internal/pixels"
)

// Record is the processed form of one image. It is immutable once built.
type Record struct {
	Path      string            `json:"path"`
	Category  string            `json:"category"`
	Histogram palette.Histogram `json:"histogram"`
}

// Builder computes records against a fixed palette.
type Builder struct {
	palette palette.Palette
}

// NewBuilder returns a Builder for p.
func NewBuilder(p palette.Palette) *Builder {
	return &Builder{palette: p}
}

// Palette returns the palette the builder classifies against.
func (b *Builder) Palette() palette.Palette { return b.palette }

// Process fetches pixels for im from src and builds its record. Provider
// failures are returned wrapped in pixels.ErrDecode.
func (b *Builder) Process(ctx context.Context, im catalog.Image, src pixels.Provider) (Record, error) {
	buf, err := src.Pixels(ctx, im.Path)
	if err != nil {
		if ctx.Err() != nil {
			return Record{}, ctx.Err()
		}
		if errors.Is(err, pixels.ErrDecode) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("%w %s: %w", pixels.ErrDecode, im.Path, err)
	}
	if buf == nil {
		return Record{}, fmt.Errorf("%w %s: provider returned no pixels", pixels.ErrDecode, im.Path)
	}
	return Record{
		Path:      im.Path,
		Category:  im.Category,
		Histogram: b.palette.BuildHistogram(buf.Pix),
	}, nil
}
