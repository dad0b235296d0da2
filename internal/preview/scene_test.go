package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reasv/wfctiled/internal/export"
	"github.com/reasv/wfctiled/internal/grid"
	"github.com/reasv/wfctiled/internal/tilemap"
	"github.com/reasv/wfctiled/internal/wfc"
)

func checkerPattern(t *testing.T) *tilemap.TilePattern {
	t.Helper()
	p, err := tilemap.FromSlice([]uint32{0x0000ff, 0x00ff00, 0x00ff00, 0x0000ff}, grid.Size{W: 2, H: 2}, 1, nil)
	require.NoError(t, err)
	return p
}

func TestSceneGenerate(t *testing.T) {
	scene := NewScene(checkerPattern(t), grid.Size{W: 3, H: 4}, wfc.WrapXY, true, 5, 1)
	assert.Nil(t, scene.Image())

	require.NoError(t, scene.Generate())
	img := scene.Image()
	require.NotNil(t, img)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())

	// Border row and column take the sample's bottom-right value.
	for x := 0; x < 3; x++ {
		assert.Equal(t, export.EncodePixel(0x0000ff), img.RGBAAt(x, 3), "x=%d", x)
	}
	for y := 0; y < 3; y++ {
		assert.Equal(t, export.EncodePixel(0x0000ff), img.RGBAAt(2, y), "y=%d", y)
	}
}

func TestSceneRegenerateIsReproducible(t *testing.T) {
	a := NewScene(checkerPattern(t), grid.Size{W: 6, H: 6}, wfc.WrapNone, false, 5, 77)
	b := NewScene(checkerPattern(t), grid.Size{W: 6, H: 6}, wfc.WrapNone, false, 5, 77)

	require.NoError(t, a.Regenerate())
	require.NoError(t, b.Regenerate())
	assert.Equal(t, a.Seed(), b.Seed())
	assert.NotEqual(t, uint64(77), a.Seed())
	assert.Equal(t, a.Image().Pix, b.Image().Pix)
}

func TestSceneGenerateFailureKeepsImage(t *testing.T) {
	scene := NewScene(checkerPattern(t), grid.Size{W: 4, H: 4}, wfc.WrapXY, true, 5, 3)
	require.NoError(t, scene.Generate())
	before := scene.Image()

	// A wide output makes the border read past the wave.
	scene.Size = grid.Size{W: 8, H: 4}
	err := scene.Generate()
	assert.ErrorIs(t, err, wfc.ErrOutOfBounds)
	assert.Same(t, before, scene.Image())
}
