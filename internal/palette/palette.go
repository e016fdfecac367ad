// Package palette maps pixels onto a fixed set of named reference colors.
//
// A Palette has exactly NumBins entries. The position of an entry is the bin
// identity used by histograms and by the persisted index.
package palette

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// NumBins is the number of reference colors in every palette.
const NumBins = 12

// ErrInvalidPalette is returned when a palette cannot be constructed.
var ErrInvalidPalette = errors.New("invalid palette")

// RGB is an 8-bit per channel color.
type RGB [3]uint8

// Color is one named reference color.
type Color struct {
	Name string `yaml:"name" json:"name" validate:"required"`
	RGB  RGB    `yaml:"rgb" json:"rgb"`
}

// Palette is an ordered set of NumBins reference colors.
type Palette [NumBins]Color

// Histogram counts pixels per palette bin.
type Histogram [NumBins]int

// Total returns the number of pixels counted.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Dominant returns the bin with the highest count. Lower bins win ties.
func (h Histogram) Dominant() int {
	best := 0
	for i := 1; i < NumBins; i++ {
		if h[i] > h[best] {
			best = i
		}
	}
	return best
}

// Default returns the twelve-color palette used unless the config overrides it.
func Default() Palette {
	return Palette{
		{Name: "red", RGB: RGB{204, 0, 0}},
		{Name: "orange", RGB: RGB{251, 148, 11}},
		{Name: "yellow", RGB: RGB{255, 255, 0}},
		{Name: "green", RGB: RGB{0, 204, 0}},
		{Name: "Blue-green", RGB: RGB{3, 192, 198}},
		{Name: "blue", RGB: RGB{0, 0, 255}},
		{Name: "purple", RGB: RGB{118, 44, 167}},
		{Name: "pink", RGB: RGB{255, 152, 191}},
		{Name: "white", RGB: RGB{255, 255, 255}},
		{Name: "grey", RGB: RGB{153, 153, 153}},
		{Name: "black", RGB: RGB{0, 0, 0}},
		{Name: "brown", RGB: RGB{136, 84, 24}},
	}
}

// New builds a palette from colors. It fails unless there are exactly NumBins
// colors with distinct, non-empty names.
func New(colors []Color) (Palette, error) {
	var p Palette
	if len(colors) != NumBins {
		return p, fmt.Errorf("%w: got %d colors, want %d", ErrInvalidPalette, len(colors), NumBins)
	}
	fold := cases.Fold()
	seen := make(map[string]int, NumBins)
	for i, c := range colors {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return p, fmt.Errorf("%w: color %d has no name", ErrInvalidPalette, i)
		}
		key := fold.String(name)
		if j, dup := seen[key]; dup {
			return p, fmt.Errorf("%w: colors %d and %d are both named %q", ErrInvalidPalette, j, i, name)
		}
		seen[key] = i
		p[i] = Color{Name: name, RGB: c.RGB}
	}
	return p, nil
}

// Names returns the color names in bin order.
func (p *Palette) Names() []string {
	out := make([]string, NumBins)
	for i, c := range p {
		out[i] = c.Name
	}
	return out
}

// Lookup resolves a color name to its bin. Matching is case-insensitive, so
// "blue-green" finds "Blue-green".
func (p *Palette) Lookup(name string) (int, bool) {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(name))
	for i, c := range p {
		if fold.String(c.Name) == want {
			return i, true
		}
	}
	return -1, false
}
