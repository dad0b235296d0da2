package wfc

import (
	"testing"

	"github.com/reasv/wfctiled/internal/grid"
)

func TestOverlaps(t *testing.T) {
	// a = [1 2]   b = [2 5]
	//     [3 4]       [4 6]
	a := []uint32{1, 2, 3, 4}
	b := []uint32{2, 5, 4, 6}

	if !overlaps(a, b, 2, 1, 0) {
		t.Error("b should fit east of a")
	}
	if overlaps(a, b, 2, -1, 0) {
		t.Error("b should not fit west of a")
	}
	if overlaps(a, b, 2, 0, 1) {
		t.Error("b should not fit south of a")
	}
}

func TestRulesSymmetric(t *testing.T) {
	sample := mustGrid(t, 4, 4, []uint32{
		1, 1, 2, 3,
		1, 2, 2, 3,
		3, 3, 1, 1,
		2, 1, 1, 3,
	})
	catalog, err := NewCatalog(sample, 2, []Orientation{Original})
	if err != nil {
		t.Fatalf("NewCatalog() failed: %v", err)
	}

	rules := catalog.Rules()
	n := catalog.NumPatterns()
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			for _, d := range AllDirections() {
				ab := rules.CanConnect(PatternID(a), PatternID(b), d)
				ba := rules.CanConnect(PatternID(b), PatternID(a), d.Opposite())
				if ab != ba {
					t.Errorf("CanConnect(%d,%d,%s)=%v but CanConnect(%d,%d,%s)=%v", a, b, d, ab, b, a, d.Opposite(), ba)
				}
			}
		}
	}
}

func TestRulesSingleCellPatternsConnectFreely(t *testing.T) {
	sample := mustGrid(t, 2, 2, []uint32{7, 8, 8, 7})
	catalog, err := NewCatalog(sample, 1, nil)
	if err != nil {
		t.Fatalf("NewCatalog() failed: %v", err)
	}

	for a := 0; a < catalog.NumPatterns(); a++ {
		for _, d := range AllDirections() {
			if got := len(catalog.Rules().Compatible(PatternID(a), d)); got != catalog.NumPatterns() {
				t.Errorf("pattern %d %s has %d neighbours, want %d", a, d, got, catalog.NumPatterns())
			}
		}
	}
}

func mustGrid(t *testing.T, w, h int, values []uint32) *grid.Grid[uint32] {
	t.Helper()
	g, err := grid.FromSlice(grid.Size{W: w, H: h}, values)
	if err != nil {
		t.Fatalf("grid.FromSlice() failed: %v", err)
	}
	return g
}
