package renderstore

import (
	"testing"

	rmath "github.com/mertwole/pathtracer/math"
)

func TestPackUnpackRowReversedRoundTrips(t *testing.T) {
	image := Image{
		Width:  2,
		Height: 2,
		Pixels: []rmath.Color{
			rmath.NewVec3(1, 2, 3),
			rmath.NewVec3(4, 5, 6),
			rmath.NewVec3(7, 8, 9),
			rmath.NewVec3(10, 11, 12),
		},
	}

	packed := packRowReversed(image)
	if len(packed) != 2*2*3*4 {
		t.Fatalf("expected %d packed bytes, got %d", 2*2*3*4, len(packed))
	}

	unpacked, err := unpackRowReversed(packed, image.Width, image.Height)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, pixel := range image.Pixels {
		if unpacked[i] != pixel {
			t.Errorf("pixel %d: expected %v, got %v", i, pixel, unpacked[i])
		}
	}
}

func TestUnpackRowReversedRejectsWrongLength(t *testing.T) {
	if _, err := unpackRowReversed([]byte{1, 2, 3}, 4, 4); err == nil {
		t.Fatalf("expected an error for a short buffer")
	}
}
