package wfc

import (
	"fmt"
	"strings"

	"github.com/reasv/wfctiled/internal/grid"
)

// Wrap selects which output axes are treated as toroidal during propagation.
type Wrap int

const (
	WrapNone Wrap = iota
	WrapX
	WrapY
	WrapXY
)

// String returns the configuration name of the wrap policy.
func (w Wrap) String() string {
	switch w {
	case WrapNone:
		return "none"
	case WrapX:
		return "x"
	case WrapY:
		return "y"
	case WrapXY:
		return "xy"
	default:
		return "unknown"
	}
}

// ParseWrap converts "none", "x", "y" or "xy" to a Wrap.
func ParseWrap(s string) (Wrap, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return WrapNone, nil
	case "x":
		return WrapX, nil
	case "y":
		return WrapY, nil
	case "xy", "yx", "both":
		return WrapXY, nil
	}
	return WrapNone, fmt.Errorf("wfc: unknown wrap policy %q", s)
}

// normalize resolves c against size under the wrap policy. It reports false
// when c falls off a non-wrapping edge.
func (w Wrap) normalize(size grid.Size, c grid.Coord) (grid.Coord, bool) {
	if c.X < 0 || c.X >= size.W {
		if w != WrapX && w != WrapXY {
			return c, false
		}
		c.X = (c.X%size.W + size.W) % size.W
	}
	if c.Y < 0 || c.Y >= size.H {
		if w != WrapY && w != WrapXY {
			return c, false
		}
		c.Y = (c.Y%size.H + size.H) % size.H
	}
	return c, true
}
