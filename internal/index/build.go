// Package index builds the per-category color index from a complete pool and
// persists it, one store key per category.
package index

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/kamusis/pixdex/internal/palette"
	"github.com/kamusis/pixdex/internal/pool"
	"github.com/kamusis/pixdex/internal/signature"
)

// DefaultLimit is the number of images kept per category and color.
const DefaultLimit = 30

// Options controls Build.
type Options struct {
	Palette palette.Palette
	// Categories are always present in the index, in this order, even when
	// no record belongs to them.
	Categories []string
	// Limit caps each category/color list; <= 0 means DefaultLimit.
	Limit int
}

// Index is a built, not yet persisted, color index.
type Index struct {
	palette    palette.Palette
	categories []string
	ranked     map[string]*[palette.NumBins][]signature.Record
}

// Build ranks the records of a complete pool. It fails with ErrIncompletePool
// if p is still waiting for records.
func Build(p *pool.Pool[signature.Record], opts Options) (*Index, error) {
	if !p.IsComplete() {
		return nil, fmt.Errorf("%w: %d of %d records", ErrIncompletePool, p.Len(), p.Achievable())
	}
	return build(p.Records(), opts), nil
}

func build(records []signature.Record, opts Options) *Index {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	groups := make(map[string][]signature.Record)
	var order []string
	for _, c := range opts.Categories {
		if _, ok := groups[c]; ok {
			continue
		}
		groups[c] = nil
		order = append(order, c)
	}
	for _, r := range records {
		if _, ok := groups[r.Category]; !ok {
			order = append(order, r.Category)
		}
		groups[r.Category] = append(groups[r.Category], r)
	}

	idx := &Index{
		palette:    opts.Palette,
		categories: order,
		ranked:     make(map[string]*[palette.NumBins][]signature.Record, len(order)),
	}
	for _, c := range order {
		var bins [palette.NumBins][]signature.Record
		for bin := range palette.NumBins {
			bins[bin] = topN(groups[c], bin, limit)
		}
		idx.ranked[c] = &bins
	}
	return idx
}

// topN returns the limit records with the highest count in bin. Equal counts
// keep pool order.
func topN(group []signature.Record, bin, limit int) []signature.Record {
	ranked := slices.Clone(group)
	slices.SortStableFunc(ranked, func(a, b signature.Record) int {
		return cmp.Compare(b.Histogram[bin], a.Histogram[bin])
	})
	if len(ranked) > limit {
		ranked = ranked[:limit:limit]
	}
	return ranked
}

// Categories returns the indexed categories: configured ones first, then any
// others in the order they first appeared in the pool.
func (x *Index) Categories() []string {
	return slices.Clone(x.categories)
}

// Records returns the ranked records of category under bin.
func (x *Index) Records(category string, bin int) []signature.Record {
	bins, ok := x.ranked[category]
	if !ok || bin < 0 || bin >= palette.NumBins {
		return nil
	}
	return slices.Clone(bins[bin])
}

// Paths returns the ranked paths of category under bin.
func (x *Index) Paths(category string, bin int) []string {
	recs := x.Records(category, bin)
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Path
	}
	return out
}

// Entry renders category as its persisted value: colors in palette order, and
// within each color the ranked records.
func (x *Index) Entry(category string) Entry {
	e := Entry{Images: []Image{}}
	bins, ok := x.ranked[category]
	if !ok {
		return e
	}
	for bin, recs := range bins {
		for _, r := range recs {
			e.Images = append(e.Images, Image{Class: x.palette[bin].Name, Image: r})
		}
	}
	return e
}
