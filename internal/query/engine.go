// Package query answers keyword and color queries. Keyword queries read the
// catalog; color queries read the persisted index. Neither mutates anything.
package query

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/kamusis/pixdex/internal/catalog"
	"github.com/kamusis/pixdex/internal/index"
	"github.com/kamusis/pixdex/internal/palette"
	"github.com/kamusis/pixdex/internal/store"
)

// ColorPrefix marks a keyword term as a dominant-color tag, e.g. "#red".
const ColorPrefix = "#"

// DefaultScanAllPerCategory caps matches taken from each category when a
// color query spans all categories.
const DefaultScanAllPerCategory = 3

// Options configures an Engine.
type Options struct {
	// ScanAllPerCategory; <= 0 means DefaultScanAllPerCategory.
	ScanAllPerCategory int
	// Palette, if set, canonicalizes color names case-insensitively.
	Palette *palette.Palette
}

// Engine is safe for concurrent use.
type Engine struct {
	catalog     *catalog.Catalog
	store       store.Store
	perCategory int
	palette     *palette.Palette
}

// NewEngine returns an engine over cat and the index persisted in s.
func NewEngine(cat *catalog.Catalog, s store.Store, opts Options) *Engine {
	n := opts.ScanAllPerCategory
	if n <= 0 {
		n = DefaultScanAllPerCategory
	}
	if cat == nil {
		cat = &catalog.Catalog{}
	}
	return &Engine{catalog: cat, store: s, perCategory: n, palette: opts.Palette}
}

// PerCategory returns the per-category cap of unscoped color queries.
func (e *Engine) PerCategory() int { return e.perCategory }

// Search returns up to limit catalog paths, in catalog order. A term starting
// with ColorPrefix matches the dominant color tag; any other term matches the
// category. A limit of 0 yields no paths; a negative limit means no limit.
func (e *Engine) Search(term string, limit int) []string {
	term = norm.NFC.String(strings.TrimSpace(term))
	if term == "" {
		return []string{}
	}
	match := func(im catalog.Image) bool { return im.Category == term }
	if strings.HasPrefix(term, ColorPrefix) {
		match = func(im catalog.Image) bool { return im.DominantColor == term }
	}
	hits := e.catalog.Filter(match, limit)
	out := make([]string, len(hits))
	for i, im := range hits {
		out[i] = im.Path
	}
	return out
}

// SearchColor returns the indexed paths under color. With a category it
// returns that category's full ranked list and fails with store.ErrNotFound if
// the category was never indexed. With an empty category it takes at most
// PerCategory paths from every indexed category, in store iteration order.
func (e *Engine) SearchColor(ctx context.Context, category, color string) ([]string, error) {
	color = e.canonical(color)
	if category != "" {
		entry, err := index.Read(ctx, e.store, norm.NFC.String(category))
		if err != nil {
			return nil, err
		}
		return entry.Paths(color), nil
	}

	keys, err := e.store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, k := range keys {
		entry, err := index.Read(ctx, e.store, k)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		paths := entry.Paths(color)
		out = append(out, paths[:min(len(paths), e.perCategory)]...)
	}
	return out, nil
}

func (e *Engine) canonical(color string) string {
	color = strings.TrimSpace(color)
	if e.palette == nil {
		return color
	}
	if bin, ok := e.palette.Lookup(color); ok {
		return e.palette[bin].Name
	}
	return color
}
