package palette

// Classify returns the bin nearest to (r, g, b) by Manhattan distance.
// On an exact tie the lower bin wins.
func (p *Palette) Classify(r, g, b uint8) int {
	best := 0
	bestDist := int(^uint(0) >> 1)
	for i := range p {
		c := &p[i].RGB
		d := absDiff(r, c[0]) + absDiff(g, c[1]) + absDiff(b, c[2])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// BuildHistogram classifies every pixel of an RGBA buffer (4 bytes per pixel,
// alpha ignored) and counts the result per bin. A trailing partial pixel is
// ignored.
func (p *Palette) BuildHistogram(pix []uint8) Histogram {
	var h Histogram
	n := len(pix) - len(pix)%4
	for i := 0; i < n; i += 4 {
		h[p.Classify(pix[i], pix[i+1], pix[i+2])]++
	}
	return h
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
