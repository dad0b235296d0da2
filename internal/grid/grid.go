// Package grid provides the rectangular, row-major grids used for sample
// maps, generated maps, and engine state.
package grid

import "fmt"

// Coord is a cell position. The origin is the top-left cell.
type Coord struct {
	X, Y int
}

// String returns the "x,y" form of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Add returns the component-wise sum of two coordinates.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

// Size describes grid dimensions.
type Size struct {
	W int
	H int
}

// Area returns the number of cells covered by the size.
func (s Size) Area() int { return s.W * s.H }

// Contains reports whether c lies inside a grid of this size.
func (s Size) Contains(c Coord) bool {
	return c.X >= 0 && c.X < s.W && c.Y >= 0 && c.Y < s.H
}

// Index returns the row-major index for c. It does not check bounds.
func (s Size) Index(c Coord) int { return c.Y*s.W + c.X }

// Wrap applies toroidal wrapping to c.
func (s Size) Wrap(c Coord) Coord {
	return Coord{
		X: (c.X%s.W + s.W) % s.W,
		Y: (c.Y%s.H + s.H) % s.H,
	}
}

// String returns the "WxH" form of the size.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Grid stores cell values in row-major order. Its dimensions never change
// after construction.
type Grid[T any] struct {
	size  Size
	cells []T
}

// New allocates a zero-valued grid. Non-positive dimensions panic.
func New[T any](size Size) *Grid[T] {
	if size.W <= 0 || size.H <= 0 {
		panic(fmt.Sprintf("grid: invalid size %s", size))
	}
	return &Grid[T]{size: size, cells: make([]T, size.Area())}
}

// NewFunc allocates a grid and fills every cell with fn(coord).
func NewFunc[T any](size Size, fn func(Coord) T) *Grid[T] {
	g := New[T](size)
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			g.cells[y*size.W+x] = fn(Coord{X: x, Y: y})
		}
	}
	return g
}

// FromSlice builds a grid over a copy of values, which must hold exactly
// size.W*size.H entries in row-major order.
func FromSlice[T any](size Size, values []T) (*Grid[T], error) {
	if size.W <= 0 || size.H <= 0 {
		return nil, fmt.Errorf("grid: invalid size %s", size)
	}
	if len(values) != size.Area() {
		return nil, fmt.Errorf("grid: %d values for size %s", len(values), size)
	}
	cells := make([]T, len(values))
	copy(cells, values)
	return &Grid[T]{size: size, cells: cells}, nil
}

// Size returns the grid dimensions.
func (g *Grid[T]) Size() Size { return g.size }

// Width returns the number of columns.
func (g *Grid[T]) Width() int { return g.size.W }

// Height returns the number of rows.
func (g *Grid[T]) Height() int { return g.size.H }

// Get returns the value at c and panics when c is out of bounds.
func (g *Grid[T]) Get(c Coord) T {
	if !g.size.Contains(c) {
		panic(fmt.Sprintf("grid: coordinate %s outside %s", c, g.size))
	}
	return g.cells[g.size.Index(c)]
}

// GetChecked returns the value at c and whether c was in bounds.
func (g *Grid[T]) GetChecked(c Coord) (T, bool) {
	if !g.size.Contains(c) {
		var zero T
		return zero, false
	}
	return g.cells[g.size.Index(c)], true
}

// Set stores v at c and panics when c is out of bounds.
func (g *Grid[T]) Set(c Coord, v T) {
	if !g.size.Contains(c) {
		panic(fmt.Sprintf("grid: coordinate %s outside %s", c, g.size))
	}
	g.cells[g.size.Index(c)] = v
}

// Cells exposes the backing slice in row-major order.
func (g *Grid[T]) Cells() []T { return g.cells }

// Row returns the cells of row y. The slice aliases the grid.
func (g *Grid[T]) Row(y int) []T {
	if y < 0 || y >= g.size.H {
		panic(fmt.Sprintf("grid: row %d outside %s", y, g.size))
	}
	return g.cells[y*g.size.W : (y+1)*g.size.W]
}

// Each calls fn for every cell in row-major order.
func (g *Grid[T]) Each(fn func(Coord, T)) {
	for i, v := range g.cells {
		fn(Coord{X: i % g.size.W, Y: i / g.size.W}, v)
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid[T]) Clone() *Grid[T] {
	cells := make([]T, len(g.cells))
	copy(cells, g.cells)
	return &Grid[T]{size: g.size, cells: cells}
}
