package tile_test

import (
	"testing"

	"github.com/eak1mov/go-vikcache/tile"
	"github.com/google/go-cmp/cmp"
)

func TestFlipYInvolution(t *testing.T) {
	for z := range uint32(12) {
		for y := range uint32(1) << z {
			if got := tile.FlipY(z, tile.FlipY(z, y)); got != y {
				t.Fatalf("FlipY(%v, FlipY(%v, %v)) = %v, want = %v", z, z, y, got, y)
			}
		}
	}
	for z := range uint32(tile.MaxZoom + 1) {
		last := uint32(1<<z) - 1
		if got := tile.FlipY(z, tile.FlipY(z, last)); got != last {
			t.Errorf("FlipY involution failed at z=%v y=%v: got %v", z, last, got)
		}
	}
}

func TestFlipY(t *testing.T) {
	for _, tc := range []struct {
		z, y, want uint32
	}{
		{0, 0, 0},
		{1, 0, 1},
		{1, 1, 0},
		{3, 2, 5},
		{19, 100, 524187},
	} {
		if got := tile.FlipY(tc.z, tc.y); got != tc.want {
			t.Errorf("FlipY(%v, %v) = %v, want = %v", tc.z, tc.y, got, tc.want)
		}
	}
}

func TestFlipped(t *testing.T) {
	id := tile.ID{X: 5, Y: 1, Z: 2}
	want := tile.ID{X: 5, Y: 2, Z: 2}
	if diff := cmp.Diff(want, id.Flipped()); diff != "" {
		t.Errorf("Flipped mismatch (-want+got):\n%v", diff)
	}
	if diff := cmp.Diff(id, id.Flipped().Flipped()); diff != "" {
		t.Errorf("Flipped twice mismatch (-want+got):\n%v", diff)
	}
}

func TestValid(t *testing.T) {
	for _, tc := range []struct {
		id   tile.ID
		want bool
	}{
		{tile.ID{X: 0, Y: 0, Z: 0}, true},
		{tile.ID{X: 1, Y: 0, Z: 0}, false},
		{tile.ID{X: 3, Y: 3, Z: 2}, true},
		{tile.ID{X: 3, Y: 4, Z: 2}, false},
		{tile.ID{X: 0, Y: 0, Z: 32}, false},
	} {
		if got := tc.id.Valid(); got != tc.want {
			t.Errorf("%v.Valid() = %v, want = %v", tc.id, got, tc.want)
		}
	}
}
