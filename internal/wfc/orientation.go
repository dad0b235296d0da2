package wfc

import (
	"fmt"
	"strings"
)

// Orientation is one of the eight symmetries of a square pattern. The
// catalog extracts one pattern per configured orientation at every sample
// coordinate.
type Orientation int

const (
	Original Orientation = iota
	Clockwise90
	Clockwise180
	Clockwise270
	Reflected
	ReflectedClockwise90
	ReflectedClockwise180
	ReflectedClockwise270
)

var orientationNames = map[Orientation]string{
	Original:              "original",
	Clockwise90:           "cw90",
	Clockwise180:          "cw180",
	Clockwise270:          "cw270",
	Reflected:             "reflected",
	ReflectedClockwise90:  "reflected-cw90",
	ReflectedClockwise180: "reflected-cw180",
	ReflectedClockwise270: "reflected-cw270",
}

// String returns the configuration name of the orientation.
func (o Orientation) String() string {
	if name, ok := orientationNames[o]; ok {
		return name
	}
	return "unknown"
}

// AllOrientations returns every orientation in declaration order.
func AllOrientations() []Orientation {
	return []Orientation{
		Original, Clockwise90, Clockwise180, Clockwise270,
		Reflected, ReflectedClockwise90, ReflectedClockwise180, ReflectedClockwise270,
	}
}

// ParseOrientation converts a configuration name to an Orientation.
func ParseOrientation(name string) (Orientation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for o, n := range orientationNames {
		if n == name {
			return o, nil
		}
	}
	return Original, fmt.Errorf("wfc: unknown orientation %q", name)
}

// ParseOrientations parses a list of names. "all" expands to every
// orientation; duplicates are dropped while keeping first-seen order.
func ParseOrientations(names []string) ([]Orientation, error) {
	var out []Orientation
	seen := make(map[Orientation]bool)
	add := func(o Orientation) {
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), "all") {
			for _, o := range AllOrientations() {
				add(o)
			}
			continue
		}
		o, err := ParseOrientation(name)
		if err != nil {
			return nil, err
		}
		add(o)
	}
	return out, nil
}

// source maps position (x, y) of the oriented k×k pattern back to the
// position in the unrotated sample window that supplies its value.
func (o Orientation) source(k, x, y int) (int, int) {
	last := k - 1
	switch o {
	case Clockwise90:
		return y, last - x
	case Clockwise180:
		return last - x, last - y
	case Clockwise270:
		return last - y, x
	case Reflected:
		return last - x, y
	case ReflectedClockwise90:
		return last - y, last - x
	case ReflectedClockwise180:
		return x, last - y
	case ReflectedClockwise270:
		return y, x
	default:
		return x, y
	}
}
