package index

import "github.com/kamusis/pixdex/internal/signature"

// Image is one ranked appearance of a record under a color. A record appears
// once per color whose top list it made.
type Image struct {
	Class string           `json:"class"`
	Image signature.Record `json:"image"`
}

// Entry is the persisted value for one category.
type Entry struct {
	Images []Image `json:"images"`
}

// Paths returns the paths of images stored under color, in ranked order.
func (e Entry) Paths(color string) []string {
	out := []string{}
	for _, im := range e.Images {
		if im.Class == color {
			out = append(out, im.Image.Path)
		}
	}
	return out
}
