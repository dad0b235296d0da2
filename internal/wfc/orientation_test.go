package wfc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOrientTwoByTwo(t *testing.T) {
	window := []uint32{1, 2, 3, 4}

	tests := []struct {
		o    Orientation
		want []uint32
	}{
		{Original, []uint32{1, 2, 3, 4}},
		{Clockwise90, []uint32{3, 1, 4, 2}},
		{Clockwise180, []uint32{4, 3, 2, 1}},
		{Clockwise270, []uint32{2, 4, 1, 3}},
		{Reflected, []uint32{2, 1, 4, 3}},
		{ReflectedClockwise90, []uint32{4, 2, 3, 1}},
		{ReflectedClockwise180, []uint32{3, 4, 1, 2}},
		{ReflectedClockwise270, []uint32{1, 3, 2, 4}},
	}

	for _, tc := range tests {
		t.Run(tc.o.String(), func(t *testing.T) {
			if diff := cmp.Diff(tc.want, orient(window, 2, tc.o)); diff != "" {
				t.Errorf("orient() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseOrientation(t *testing.T) {
	for _, o := range AllOrientations() {
		got, err := ParseOrientation(o.String())
		if err != nil {
			t.Fatalf("ParseOrientation(%q) failed: %v", o.String(), err)
		}
		if got != o {
			t.Errorf("ParseOrientation(%q) = %s, want %s", o.String(), got, o)
		}
	}

	if _, err := ParseOrientation("sideways"); err == nil {
		t.Error("ParseOrientation(sideways) should fail")
	}
}

func TestParseOrientations(t *testing.T) {
	got, err := ParseOrientations([]string{"cw90", "original", "CW90"})
	if err != nil {
		t.Fatalf("ParseOrientations() failed: %v", err)
	}
	if diff := cmp.Diff([]Orientation{Clockwise90, Original}, got); diff != "" {
		t.Errorf("ParseOrientations() mismatch (-want +got):\n%s", diff)
	}

	all, err := ParseOrientations([]string{"reflected", "all"})
	if err != nil {
		t.Fatalf("ParseOrientations(all) failed: %v", err)
	}
	if len(all) != 8 || all[0] != Reflected {
		t.Errorf("ParseOrientations(all) = %v, want 8 orientations starting with reflected", all)
	}
}
