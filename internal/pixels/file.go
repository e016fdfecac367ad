package pixels

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path/filepath"
)

// FileProvider decodes PNG, JPEG and GIF files from the local file system.
// Relative paths are resolved against Root.
type FileProvider struct {
	Root string
}

// NewFileProvider returns a FileProvider rooted at root.
func NewFileProvider(root string) *FileProvider {
	return &FileProvider{Root: root}
}

// Pixels opens and decodes path.
func (p *FileProvider) Pixels(ctx context.Context, path string) (*Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full := path
	if !filepath.IsAbs(full) && p.Root != "" {
		full = filepath.Join(p.Root, filepath.FromSlash(path))
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}
	return FromImage(img), nil
}

// FromImage converts any image.Image into a Buffer.
func FromImage(img image.Image) *Buffer {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && n.Stride == b.Dx()*4 {
		return &Buffer{Width: b.Dx(), Height: b.Dy(), Pix: n.Pix[:b.Dx()*b.Dy()*4]}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Buffer{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}
