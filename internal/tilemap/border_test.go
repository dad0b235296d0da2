package tilemap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reasv/wfctiled/internal/grid"
	"github.com/reasv/wfctiled/internal/wfc"
)

var ringSample = []uint32{
	1, 1, 1, 1,
	1, 2, 2, 1,
	1, 2, 2, 1,
	1, 1, 1, 1,
}

func TestNewForceBorderForbidCorner(t *testing.T) {
	sample, err := grid.FromSlice(grid.Size{W: 3, H: 3}, []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)
	catalog, err := wfc.NewCatalog(sample, 2, nil)
	require.NoError(t, err)

	border, err := NewForceBorderForbid(catalog, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, border.Offset())
	want, err := catalog.IDsAt(grid.Coord{X: 2, Y: 2})
	require.NoError(t, err)
	if diff := cmp.Diff(want, border.AllowedPatterns()); diff != "" {
		t.Errorf("AllowedPatterns() mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, border.AllowedPatterns(), 1)
	assert.False(t, border.Ambiguous())
}

func TestNewForceBorderForbidNonEmpty(t *testing.T) {
	tests := []struct {
		name string
		size grid.Size
		k    int
	}{
		{"exact fit", grid.Size{W: 2, H: 2}, 2},
		{"wide", grid.Size{W: 7, H: 3}, 3},
		{"single cell patterns", grid.Size{W: 1, H: 1}, 1},
		{"large pattern", grid.Size{W: 5, H: 6}, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sample := grid.NewFunc(tc.size, func(c grid.Coord) uint32 { return uint32(c.X*31 + c.Y) })
			catalog, err := wfc.NewCatalog(sample, tc.k, wfc.AllOrientations())
			require.NoError(t, err)

			border, err := NewForceBorderForbid(catalog, tc.k)
			require.NoError(t, err)
			assert.NotEmpty(t, border.AllowedPatterns())
			assert.Equal(t, tc.k-tc.k/2, border.Offset())
		})
	}
}

func TestNewForceBorderForbidOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		size grid.Size
		k    int
	}{
		{"narrow", grid.Size{W: 2, H: 5}, 3},
		{"short", grid.Size{W: 5, H: 1}, 2},
		{"both", grid.Size{W: 1, H: 1}, 4},
		{"zero pattern size", grid.Size{W: 3, H: 3}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			catalog := fakeCatalog{size: tc.size, ids: []wfc.PatternID{0}}
			_, err := NewForceBorderForbid(catalog, tc.k)
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}
}

func TestNewForceBorderForbidDeduplicates(t *testing.T) {
	catalog := fakeCatalog{size: grid.Size{W: 4, H: 4}, ids: []wfc.PatternID{3, 1, 3, 1, 2}}
	border, err := NewForceBorderForbid(catalog, 2)
	require.NoError(t, err)

	if diff := cmp.Diff([]wfc.PatternID{1, 2, 3}, border.AllowedPatterns()); diff != "" {
		t.Errorf("AllowedPatterns() mismatch (-want +got):\n%s", diff)
	}
}

func TestForceBorderForbidCoordinates(t *testing.T) {
	catalog := fakeCatalog{size: grid.Size{W: 3, H: 3}, ids: []wfc.PatternID{0}}
	border, err := NewForceBorderForbid(catalog, 2)
	require.NoError(t, err)

	// W=4, H=3: the bottom row is y=2 and the right column is x=3, scanned
	// for y in [0, 4) because the column uses the width bound.
	fi := newRecordingInterface(grid.Size{W: 4, H: 3}, 0, 1)
	fi.domains[grid.Coord{X: 3, Y: 3}] = map[wfc.PatternID]bool{0: true, 1: true}
	require.NoError(t, border.Forbid(fi, nil))

	var got []grid.Coord
	for _, call := range fi.calls {
		assert.Equal(t, wfc.PatternID(0), call.id)
		got = append(got, call.at)
	}
	want := []grid.Coord{
		{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2},
		{X: 3, Y: 0}, {X: 3, Y: 1}, {X: 3, Y: 2}, {X: 3, Y: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("forbid coordinates mismatch (-want +got):\n%s", diff)
	}
}

func TestForceBorderForbidTallOutputLeavesColumnTail(t *testing.T) {
	catalog := fakeCatalog{size: grid.Size{W: 2, H: 2}, ids: []wfc.PatternID{0}}
	border, err := NewForceBorderForbid(catalog, 1)
	require.NoError(t, err)

	fi := newRecordingInterface(grid.Size{W: 2, H: 5}, 0, 1)
	require.NoError(t, border.Forbid(fi, nil))

	// Column x=1 is only restricted for y < W.
	assert.Len(t, fi.domains[grid.Coord{X: 1, Y: 1}], 1)
	assert.Len(t, fi.domains[grid.Coord{X: 1, Y: 3}], 2)
}

func TestForceBorderForbidIdempotent(t *testing.T) {
	catalog := fakeCatalog{size: grid.Size{W: 3, H: 3}, ids: []wfc.PatternID{1}}
	border, err := NewForceBorderForbid(catalog, 2)
	require.NoError(t, err)

	fi := newRecordingInterface(grid.Size{W: 3, H: 3}, 0, 1, 2)
	require.NoError(t, border.Forbid(fi, nil))
	before := len(fi.domains[grid.Coord{X: 2, Y: 2}])
	require.NoError(t, border.Forbid(fi, nil))

	assert.Equal(t, 1, before)
	assert.Len(t, fi.domains[grid.Coord{X: 2, Y: 2}], 1)
	assert.True(t, fi.domains[grid.Coord{X: 0, Y: 2}][1])
}

func TestForceBorderForbidIdempotentOnRealWave(t *testing.T) {
	sample, err := grid.FromSlice(grid.Size{W: 4, H: 4}, ringSample)
	require.NoError(t, err)
	catalog, err := wfc.NewCatalog(sample, 2, nil)
	require.NoError(t, err)
	border, err := NewForceBorderForbid(catalog, 2)
	require.NoError(t, err)

	rng := NewRand(5)
	run, err := wfc.NewRun(catalog, grid.Size{W: 5, H: 5}, wfc.WrapNone, border, rng)
	require.NoError(t, err)

	remaining := func() []int {
		var out []int
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				out = append(out, run.Wave().Remaining(grid.Coord{X: x, Y: y}))
			}
		}
		return out
	}
	before := remaining()
	require.NoError(t, border.Forbid(run, rng))
	if diff := cmp.Diff(before, remaining()); diff != "" {
		t.Errorf("re-applying the border changed the wave (-before +after):\n%s", diff)
	}
}

func TestForceBorderForbidSurfacesErrors(t *testing.T) {
	catalog := fakeCatalog{size: grid.Size{W: 3, H: 3}, ids: []wfc.PatternID{0}}
	border, err := NewForceBorderForbid(catalog, 2)
	require.NoError(t, err)

	fi := newRecordingInterface(grid.Size{W: 3, H: 3}, 0)
	fi.fail = wfc.ErrContradiction
	err = border.Forbid(fi, nil)
	assert.ErrorIs(t, err, wfc.ErrContradiction)
	assert.Len(t, fi.calls, 1)
}

func TestForceBorderForbidMultipleIDsContradict(t *testing.T) {
	catalog := fakeCatalog{size: grid.Size{W: 3, H: 3}, ids: []wfc.PatternID{0, 1}}
	border, err := NewForceBorderForbid(catalog, 2)
	require.NoError(t, err)

	assert.True(t, border.Ambiguous())

	// Restricting a cell to each allowed id in turn leaves it empty.
	fi := newRecordingInterface(grid.Size{W: 3, H: 3}, 0, 1)
	err = border.Forbid(fi, nil)
	assert.True(t, errors.Is(err, wfc.ErrContradiction))
}

func TestBorderEdgesAfterCollapse(t *testing.T) {
	pattern, err := FromSlice(ringSample, grid.Size{W: 4, H: 4}, 2, nil)
	require.NoError(t, err)
	border, err := NewForceBorderForbid(pattern.Catalog(), 2)
	require.NoError(t, err)

	allowed := make(map[uint32]bool)
	for _, id := range border.AllowedPatterns() {
		allowed[pattern.Catalog().TopLeftValue(id)] = true
	}

	size := grid.Size{W: 6, H: 6}
	out, err := pattern.RunCollapse(size, 200, wfc.WrapNone, border, NewRand(11))
	require.NoError(t, err)

	off := border.Offset()
	for x := 0; x < size.W; x++ {
		v := out.Get(grid.Coord{X: x, Y: size.H - off})
		assert.True(t, allowed[v], "bottom edge %d holds %d", x, v)
	}
	for y := 0; y < size.W; y++ {
		v := out.Get(grid.Coord{X: size.W - off, Y: y})
		assert.True(t, allowed[v], "right edge %d holds %d", y, v)
	}
}
