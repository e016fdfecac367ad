// Package catalog loads the read-only corpus description: one entry per image
// with its path, category and precomputed dominant color tag.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Image is one catalog entry. Path is its identity.
type Image struct {
	Path          string `json:"path"`
	Category      string `json:"class"`
	DominantColor string `json:"dominantcolor"`
}

// Catalog is the full corpus, in file order.
type Catalog struct {
	Images []Image `json:"images"`
}

// Load reads and parses a catalog JSON file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open catalog %s: %w", path, err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog and normalizes its text fields to NFC so that
// lookups compare equal regardless of how the source file was composed.
func Parse(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, err
	}
	seen := make(map[string]int, len(c.Images))
	for i := range c.Images {
		im := &c.Images[i]
		im.Path = norm.NFC.String(strings.TrimSpace(im.Path))
		im.Category = norm.NFC.String(im.Category)
		im.DominantColor = norm.NFC.String(im.DominantColor)
		if im.Path == "" {
			return nil, fmt.Errorf("image %d has no path", i)
		}
		if j, dup := seen[im.Path]; dup {
			return nil, fmt.Errorf("images %d and %d share path %q", j, i, im.Path)
		}
		seen[im.Path] = i
	}
	return &c, nil
}

// Len returns the number of images.
func (c *Catalog) Len() int { return len(c.Images) }

// Filter returns up to limit images for which keep reports true, in catalog
// order. A limit of 0 returns nothing; a negative limit means no limit.
func (c *Catalog) Filter(keep func(Image) bool, limit int) []Image {
	var out []Image
	if limit == 0 {
		return out
	}
	for _, im := range c.Images {
		if !keep(im) {
			continue
		}
		out = append(out, im)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, im := range c.Images {
		if _, ok := seen[im.Category]; ok {
			continue
		}
		seen[im.Category] = struct{}{}
		out = append(out, im.Category)
	}
	return out
}
