package index

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kamusis/pixdex/internal/catalog"
	"github.com/kamusis/pixdex/internal/palette"
	"github.com/kamusis/pixdex/internal/pixels"
	"github.com/kamusis/pixdex/internal/pool"
	"github.com/kamusis/pixdex/internal/signature"
	"github.com/kamusis/pixdex/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(path, category string, counts map[int]int) signature.Record {
	r := signature.Record{Path: path, Category: category}
	for bin, n := range counts {
		r.Histogram[bin] = n
	}
	return r
}

func fullPool(t *testing.T, recs ...signature.Record) *pool.Pool[signature.Record] {
	t.Helper()
	p := pool.New[signature.Record](len(recs), len(recs))
	for _, r := range recs {
		require.NoError(t, p.Insert(r))
	}
	require.True(t, p.IsComplete())
	return p
}

func TestBuild_IncompletePool(t *testing.T) {
	p := pool.New[signature.Record](10, 3)
	require.NoError(t, p.Insert(rec("a", "taj mahal", nil)))
	require.NoError(t, p.Insert(rec("b", "taj mahal", nil)))

	_, err := Build(p, Options{Palette: palette.Default()})
	require.ErrorIs(t, err, ErrIncompletePool)

	p.MarkFailed()
	_, err = Build(p, Options{Palette: palette.Default()})
	require.NoError(t, err)
}

func TestBuild_RankDescendingWithPoolOrderTieBreak(t *testing.T) {
	p := fullPool(t,
		rec("a", "taj mahal", map[int]int{0: 5}),
		rec("b", "taj mahal", map[int]int{0: 9}),
		rec("c", "taj mahal", map[int]int{0: 5, 5: 2}),
		rec("d", "taj mahal", map[int]int{0: 1, 5: 7}),
	)
	x, err := Build(p, Options{Palette: palette.Default(), Limit: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, x.Paths("taj mahal", 0))
	assert.Equal(t, []string{"d", "c", "a"}, x.Paths("taj mahal", 5))
	// All zero: pool order, truncated.
	assert.Equal(t, []string{"a", "b", "c"}, x.Paths("taj mahal", 11))
	assert.Empty(t, x.Paths("taj mahal", 12))
	assert.Empty(t, x.Paths("atlantis", 0))
}

func TestBuild_CategoryOrder(t *testing.T) {
	p := fullPool(t,
		rec("1", "taj mahal", nil),
		rec("2", "atlantis", nil),
		rec("3", "el dorado", nil),
		rec("4", "atlantis", nil),
	)
	x, err := Build(p, Options{
		Palette:    palette.Default(),
		Categories: []string{"stonehenge", "taj mahal", "stonehenge"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"stonehenge", "taj mahal", "atlantis", "el dorado"}, x.Categories())
	assert.NotNil(t, x.Entry("stonehenge").Images)
	assert.Empty(t, x.Entry("stonehenge").Images)
	assert.Equal(t, []string{"2", "4"}, x.Paths("atlantis", 3))
}

func TestEntry_Layout(t *testing.T) {
	pal := palette.Default()
	p := fullPool(t,
		rec("red.jpg", "eiffel tower", map[int]int{0: 100}),
		rec("blue.jpg", "eiffel tower", map[int]int{5: 100}),
	)
	x, err := Build(p, Options{Palette: pal})
	require.NoError(t, err)

	e := x.Entry("eiffel tower")
	require.Len(t, e.Images, 2*palette.NumBins)
	assert.Equal(t, "red", e.Images[0].Class)
	assert.Equal(t, "red.jpg", e.Images[0].Image.Path)
	assert.Equal(t, "red", e.Images[1].Class)
	assert.Equal(t, "blue.jpg", e.Images[1].Image.Path)
	assert.Equal(t, "brown", e.Images[len(e.Images)-1].Class)

	assert.Equal(t, []string{"blue.jpg", "red.jpg"}, e.Paths("blue"))
	assert.Equal(t, []string{}, e.Paths("teal"))
}

type flakyStore struct {
	*store.Memory
	failOn int
	saves  int
}

func (f *flakyStore) Save(ctx context.Context, key string, value []byte) error {
	f.saves++
	if f.saves == f.failOn {
		return errors.New("disk full")
	}
	return f.Memory.Save(ctx, key, value)
}

func TestPersist_RollbackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	p := fullPool(t, rec("a", "taj mahal", nil), rec("b", "stonehenge", nil), rec("c", "burj khalifa", nil))
	x, err := Build(p, Options{Palette: palette.Default()})
	require.NoError(t, err)

	s := &flakyStore{Memory: store.NewMemory(), failOn: 3}
	err = Persist(ctx, s, x)
	require.ErrorIs(t, err, ErrStoreWrite)
	assert.Contains(t, err.Error(), "disk full")

	empty, err := s.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestPersist_ReadBack(t *testing.T) {
	ctx := context.Background()
	p := fullPool(t, rec("a", "taj mahal", map[int]int{8: 3}))
	x, err := Build(p, Options{Palette: palette.Default()})
	require.NoError(t, err)

	s := store.NewMemory()
	require.NoError(t, Persist(ctx, s, x))

	e, err := Read(ctx, s, "taj mahal")
	require.NoError(t, err)
	assert.Equal(t, x.Entry("taj mahal"), e)
	assert.Equal(t, 3, e.Images[0].Image.Histogram[8])

	_, err = Read(ctx, s, "stonehenge")
	require.ErrorIs(t, err, store.ErrNotFound)
}

var colorOf = map[string]palette.RGB{
	"red":   {204, 0, 0},
	"blue":  {0, 0, 255},
	"white": {255, 255, 255},
}

// byName serves a 4x4 image whose color is named by the path's first segment,
// e.g. "red/1.png". Unknown colors fail to decode.
func byName(calls *atomic.Int32) pixels.Provider {
	return pixels.ProviderFunc(func(_ context.Context, path string) (*pixels.Buffer, error) {
		if calls != nil {
			calls.Add(1)
		}
		name, _, _ := strings.Cut(path, "/")
		rgb, ok := colorOf[name]
		if !ok {
			return nil, fmt.Errorf("%w %s: unsupported", pixels.ErrDecode, path)
		}
		pix := make([]uint8, 0, 64)
		for range 16 {
			pix = append(pix, rgb[0], rgb[1], rgb[2], 255)
		}
		return &pixels.Buffer{Width: 4, Height: 4, Pix: pix}, nil
	})
}

func newIndexer(s store.Store, calls *atomic.Int32) *Indexer {
	return &Indexer{
		Store: s,
		Pipeline: &signature.Pipeline{
			Builder:  signature.NewBuilder(palette.Default()),
			Provider: byName(calls),
			Workers:  4,
		},
		Categories: []string{"taj mahal", "stonehenge"},
	}
}

func TestIndexer_Run(t *testing.T) {
	ctx := context.Background()
	images := []catalog.Image{
		{Path: "red/1.png", Category: "taj mahal"},
		{Path: "blue/2.png", Category: "taj mahal"},
		{Path: "broken/3.png", Category: "taj mahal"},
		{Path: "white/4.png", Category: "atlantis"},
	}
	s := store.NewMemory()
	rep, err := newIndexer(s, nil).Run(ctx, images)
	require.NoError(t, err)

	assert.False(t, rep.Skipped)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 4, rep.Images)
	assert.Equal(t, 3, rep.Processed)
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "broken/3.png", rep.Failures[0].Path)
	assert.Equal(t, 3, rep.Categories)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"taj mahal", "stonehenge", "atlantis"}, keys)

	e, err := Read(ctx, s, "taj mahal")
	require.NoError(t, err)
	assert.Equal(t, "red/1.png", e.Paths("red")[0])
	assert.Equal(t, "blue/2.png", e.Paths("blue")[0])
	assert.Equal(t, palette.Histogram{16}, e.Images[0].Image.Histogram)
}

func TestIndexer_SkipsPopulatedStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.Save(ctx, "taj mahal", []byte(`{"images":[]}`)))

	var calls atomic.Int32
	rep, err := newIndexer(s, &calls).Run(ctx, []catalog.Image{{Path: "red/1.png", Category: "stonehenge"}})
	require.NoError(t, err)
	assert.True(t, rep.Skipped)
	assert.Zero(t, calls.Load())

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"taj mahal"}, keys)
	v, err := s.Read(ctx, "taj mahal")
	require.NoError(t, err)
	assert.JSONEq(t, `{"images":[]}`, string(v))
}

func TestIndexer_PoolFullLeavesStoreEmpty(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	ix := newIndexer(s, nil)
	ix.PoolCapacity = 2

	images := make([]catalog.Image, 5)
	for i := range images {
		images[i] = catalog.Image{Path: fmt.Sprintf("red/%d.png", i), Category: "taj mahal"}
	}
	_, err := ix.Run(ctx, images)
	require.ErrorIs(t, err, pool.ErrPoolFull)

	empty, err := s.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestIndexer_RunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	images := []catalog.Image{{Path: "red/1.png", Category: "taj mahal"}}

	_, err := newIndexer(s, nil).Run(ctx, images)
	require.NoError(t, err)
	before, err := s.Read(ctx, "taj mahal")
	require.NoError(t, err)

	images = append(images, catalog.Image{Path: "blue/2.png", Category: "taj mahal"})
	rep, err := newIndexer(s, nil).Run(ctx, images)
	require.NoError(t, err)
	assert.True(t, rep.Skipped)

	after, err := s.Read(ctx, "taj mahal")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.Save(ctx, "a", []byte("1")))
	require.NoError(t, s.Save(ctx, "b", []byte("2")))

	n, err := Reset(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	empty, err := s.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)
}
