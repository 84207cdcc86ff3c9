package resource

import (
	"bytes"
	stdimage "image"
	_ "image/jpeg"
	_ "image/png"

	rmath "github.com/mertwole/pathtracer/math"
)

// Image is a decoded texture held as flat normalized RGB rows,
// ready for nearest-neighbor sampling by material input nodes
// (spec.md §4.3's texture-based color source).
type Image struct {
	width, height int
	pixels        []rmath.Color
}

// LoadImageFromMemory decodes a PNG or JPEG byte stream into an
// Image, the Go stand-in for decoding straight to RGBA8 the way the
// teacher's texture loader does, minus the GPU upload step.
func LoadImageFromMemory(data []byte) (Image, error) {
	img, _, err := stdimage.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, &ErrMalformed{Reason: "unrecognized image format: " + err.Error()}
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]rmath.Color, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pixels[y*width+x] = rmath.NewVec3(
				float32(r>>8)/256.0,
				float32(g>>8)/256.0,
				float32(b>>8)/256.0,
			)
		}
	}
	return Image{width: width, height: height, pixels: pixels}, nil
}

func (img Image) Width() int  { return img.width }
func (img Image) Height() int { return img.height }

// GetPixel returns the color at integer pixel coordinates, clamping
// to the image bounds so a sampler's rounding never indexes out of
// range.
func (img Image) GetPixel(x, y int) rmath.Color {
	if x < 0 {
		x = 0
	}
	if x >= img.width {
		x = img.width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= img.height {
		y = img.height - 1
	}
	return img.pixels[y*img.width+x]
}

// Sample performs a nearest-neighbor lookup at the given UV
// coordinates (already wrapped into [0, 1) by the caller per the
// resource's wrap mode).
func (img Image) Sample(uv rmath.Vec2) rmath.Color {
	x := int(uv.X * float32(img.width))
	y := int(uv.Y * float32(img.height))
	return img.GetPixel(x, y)
}
