package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{"images":[
 {"path":"Images/eiffel/1.jpg","class":"eiffel tower","dominantcolor":"#blue"},
 {"path":"Images/eiffel/2.jpg","class":"eiffel tower","dominantcolor":"#red"},
 {"path":"Images/taj/1.jpg","class":"taj mahal","dominantcolor":"#white"},
 {"path":"Images/taj/2.jpg","class":"taj mahal","dominantcolor":"#red"}
]}`

func TestLoad_HappyPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "database.json")
	require.NoError(t, os.WriteFile(p, []byte(sample), 0o644))

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, "eiffel tower", c.Images[0].Category)
	assert.Equal(t, "#blue", c.Images[0].DominantColor)
	assert.Equal(t, []string{"eiffel tower", "taj mahal"}, c.Categories())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Rejects(t *testing.T) {
	for name, body := range map[string]string{
		"syntax":    `{"images":[`,
		"no path":   `{"images":[{"path":" ","class":"x"}]}`,
		"duplicate": `{"images":[{"path":"a","class":"x"},{"path":"a","class":"y"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(body))
			require.Error(t, err)
		})
	}
}

func TestParse_NormalizesNFC(t *testing.T) {
	// "é" written as e + combining acute.
	c, err := Parse(strings.NewReader("{\"images\":[{\"path\":\"a\",\"class\":\"cafe\u0301\"}]}"))
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", c.Images[0].Category)
}

func TestFilter_KeepsOrderAndLimit(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	red := func(im Image) bool { return im.DominantColor == "#red" }
	got := c.Filter(red, -1)
	require.Len(t, got, 2)
	assert.Equal(t, "Images/eiffel/2.jpg", got[0].Path)
	assert.Equal(t, "Images/taj/2.jpg", got[1].Path)

	assert.Len(t, c.Filter(red, 1), 1)
	assert.Empty(t, c.Filter(red, 0))
	assert.Empty(t, c.Filter(func(Image) bool { return false }, 5))
}
