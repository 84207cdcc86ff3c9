package render

import (
	"math/rand"
	"testing"

	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/material"
	"github.com/mertwole/pathtracer/scenegraph"
)

func TestCameraGetRayPointsIntoScene(t *testing.T) {
	cam := &Camera{
		Resolution: Resolution{Width: 100, Height: 100},
		Rotation:   rmath.Mat3Identity(),
		Position:   rmath.Vec3Zero,
		FOV:        1.0,
		NearPlane:  0.1,
		FocalLen:   1.0,
		BokehShape: BokehPoint,
	}
	rng := rand.New(rand.NewSource(1))

	ray := cam.GetRay(50, 50, rng)
	if ray.Direction.Z >= 0 {
		t.Errorf("expected a center ray to point into the scene (negative Z), got direction %v", ray.Direction)
	}
	length := ray.Direction.Length()
	if length < 0.999 || length > 1.001 {
		t.Errorf("expected a normalized direction, got length %v", length)
	}
}

func TestDivideIntoTilesCoversWholeImage(t *testing.T) {
	cols, rows, tiles := divideIntoTiles(Resolution{Width: 70, Height: 40}, 32)
	if cols != 3 || rows != 2 {
		t.Fatalf("expected a 3x2 tile grid, got %dx%d", cols, rows)
	}

	var pixels int
	for _, tl := range tiles {
		pixels += tl.width * tl.height
	}
	if pixels != 70*40 {
		t.Errorf("expected tiles to cover %d pixels, got %d", 70*40, pixels)
	}
}

func TestTileAveragedDividesByIterationCount(t *testing.T) {
	tl := newTile(0, 0, 2, 1)
	tl.addPixel(0, 0, rmath.NewVec3(2, 2, 2))
	tl.addPixel(1, 0, rmath.NewVec3(4, 4, 4))
	tl.iterations = 2

	averaged := tl.averaged()
	if averaged[0] != rmath.NewVec3(1, 1, 1) {
		t.Errorf("expected averaged pixel (1,1,1), got %v", averaged[0])
	}
	if averaged[1] != rmath.NewVec3(2, 2, 2) {
		t.Errorf("expected averaged pixel (2,2,2), got %v", averaged[1])
	}
}

func emissiveSphereScene() *scenegraph.Scene {
	emissive := &material.Base{Emissive: 1, Emission: rmath.NewVec3(1, 1, 1)}
	return &scenegraph.Scene{
		Hierarchy: scenegraph.NewSphere(rmath.NewVec3(0, 0, -5), 1, 0),
		Materials: []scenegraph.Material{emissive},
	}
}

func TestRenderProducesFiniteAccumulatedImage(t *testing.T) {
	scene := emissiveSphereScene()
	camera := &Camera{
		Resolution: Resolution{Width: 8, Height: 8},
		Rotation:   rmath.Mat3Identity(),
		Position:   rmath.Vec3Zero,
		FOV:        1.0,
		NearPlane:  0.01,
		FocalLen:   1.0,
		BokehShape: BokehPoint,
	}

	image := Render(scene, camera, Config{TraceDepth: 2, Iterations: 2})
	if len(image) != 8*8 {
		t.Fatalf("expected %d pixels, got %d", 8*8, len(image))
	}

	var sawLight bool
	for _, pixel := range image {
		if !pixel.IsFinite() {
			t.Fatalf("expected every pixel to be finite, got %v", pixel)
		}
		if pixel.X > 0 {
			sawLight = true
		}
	}
	if !sawLight {
		t.Errorf("expected the centered emissive sphere to light at least one pixel")
	}
}
