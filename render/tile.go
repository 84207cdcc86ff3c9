package render

import rmath "github.com/mertwole/pathtracer/math"

// tile is one rectangular region of the final image, accumulating
// color across iterations independently of every other tile so tiles
// can be dispatched to worker goroutines without sharing mutable
// state. Grounded on the source's ImageBuffer + WorkGroup pairing.
type tile struct {
	xOffset, yOffset int
	width, height    int
	iterations       int

	pixels []rmath.Color
}

func newTile(xOffset, yOffset, width, height int) *tile {
	return &tile{
		xOffset: xOffset,
		yOffset: yOffset,
		width:   width,
		height:  height,
		pixels:  make([]rmath.Color, width*height),
	}
}

func (t *tile) pixel(x, y int) rmath.Color {
	return t.pixels[x+y*t.width]
}

func (t *tile) addPixel(x, y int, c rmath.Color) {
	t.pixels[x+y*t.width] = t.pixel(x, y).Add(c)
}

// averaged returns this tile's accumulated pixels scaled by
// 1/iterations, matching ImageBuffer::get_pixel_vec.
func (t *tile) averaged() []rmath.Color {
	if t.iterations == 0 {
		return t.pixels
	}
	multiplier := 1.0 / float32(t.iterations)
	out := make([]rmath.Color, len(t.pixels))
	for i, p := range t.pixels {
		out[i] = p.Mul(multiplier)
	}
	return out
}

// divideIntoTiles splits a resolution into a grid of tiles no larger
// than tileSize on a side, the trailing row/column shrinking to fit
// the remainder. Grounded on CPURenderer::divide_to_workgroups.
func divideIntoTiles(resolution Resolution, tileSize int) (cols, rows int, tiles []*tile) {
	cols = resolution.Width / tileSize
	rows = resolution.Height / tileSize
	remainderX := resolution.Width - cols*tileSize
	remainderY := resolution.Height - rows*tileSize
	if remainderX != 0 {
		cols++
	}
	if remainderY != 0 {
		rows++
	}

	tiles = make([]*tile, 0, cols*rows)
	for rowID := 0; rowID < rows; rowID++ {
		height := tileSize
		if rowID == rows-1 && remainderY != 0 {
			height = remainderY
		}
		for colID := 0; colID < cols; colID++ {
			width := tileSize
			if colID == cols-1 && remainderX != 0 {
				width = remainderX
			}
			tiles = append(tiles, newTile(colID*tileSize, rowID*tileSize, width, height))
		}
	}
	return cols, rows, tiles
}

// assembleImage packs every tile's averaged pixels into one
// row-major, top-to-bottom RGB buffer sized for resolution.
func assembleImage(resolution Resolution, tileSize, cols int, tiles []*tile) []rmath.Color {
	image := make([]rmath.Color, resolution.Width*resolution.Height)
	for idx, t := range tiles {
		tileX := (idx % cols) * tileSize
		tileY := (idx / cols) * tileSize
		averaged := t.averaged()
		for localX := 0; localX < t.width; localX++ {
			for localY := 0; localY < t.height; localY++ {
				globalX := tileX + localX
				globalY := tileY + localY
				image[globalX+globalY*resolution.Width] = averaged[localX+localY*t.width]
			}
		}
	}
	return image
}
