package wfc

// Rules defines adjacency constraints between catalog patterns. Two patterns
// may be neighbours when the cells they would share agree.
type Rules struct {
	numPatterns int
	// compatible[d][a] lists the patterns allowed one step in direction d
	// from a cell holding a.
	compatible [4][][]PatternID
}

func newRules(patterns [][]uint32, k int) *Rules {
	r := &Rules{numPatterns: len(patterns)}
	for _, d := range AllDirections() {
		r.compatible[d] = make([][]PatternID, len(patterns))
		off := d.Offset()
		for a := range patterns {
			for b := range patterns {
				if overlaps(patterns[a], patterns[b], k, off.X, off.Y) {
					r.compatible[d][a] = append(r.compatible[d][a], PatternID(b))
				}
			}
		}
	}
	return r
}

// overlaps reports whether b, placed at offset (dx, dy) from a, agrees with
// a on every shared cell.
func overlaps(a, b []uint32, k, dx, dy int) bool {
	for y := 0; y < k; y++ {
		by := y - dy
		if by < 0 || by >= k {
			continue
		}
		for x := 0; x < k; x++ {
			bx := x - dx
			if bx < 0 || bx >= k {
				continue
			}
			if a[y*k+x] != b[by*k+bx] {
				return false
			}
		}
	}
	return true
}

// CanConnect reports whether b may sit one step in direction d from a.
func (r *Rules) CanConnect(a, b PatternID, d Direction) bool {
	for _, id := range r.compatible[d][a] {
		if id == b {
			return true
		}
	}
	return false
}

// Compatible returns the patterns allowed in direction d from a. The slice
// must not be modified.
func (r *Rules) Compatible(a PatternID, d Direction) []PatternID {
	return r.compatible[d][a]
}
