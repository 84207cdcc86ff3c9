package material

import (
	"math/rand"
	"testing"

	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/scenegraph"
)

func TestBaseEmissiveBranchAlwaysEmits(t *testing.T) {
	base := &Base{Emissive: 1, Emission: rmath.NewVec3(2, 3, 4)}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		result := base.Scatter(rmath.NewVec3(0, 0, -1), scenegraph.Hit{Normal: rmath.NewVec3(0, 0, 1)}, nil, rng)
		if !result.Terminal {
			t.Fatalf("expected an emissive material with Emissive=1 to always terminate")
		}
		if result.Emitted != base.Emission {
			t.Errorf("expected emitted color %v, got %v", base.Emission, result.Emitted)
		}
	}
}

func TestBaseReflectiveBranchAlwaysReflects(t *testing.T) {
	base := &Base{Reflective: 1}
	rng := rand.New(rand.NewSource(2))

	normal := rmath.NewVec3(0, 1, 0)
	incoming := rmath.NewVec3(1, -1, 0).Normalize()
	result := base.Scatter(incoming, scenegraph.Hit{Normal: normal}, nil, rng)

	if result.Terminal {
		t.Fatalf("expected a reflective material to continue the path")
	}
	if result.Direction.Dot(normal) <= 0 {
		t.Errorf("expected reflected direction to point away from the surface, got %v", result.Direction)
	}
}

func TestBaseDiffuseBranchStaysAboveSurface(t *testing.T) {
	base := &Base{}
	rng := rand.New(rand.NewSource(3))
	normal := rmath.NewVec3(0, 1, 0)

	for i := 0; i < 50; i++ {
		result := base.Scatter(rmath.NewVec3(0, -1, 0), scenegraph.Hit{Normal: normal, UV: rmath.NewVec2(0, 0)}, nil, rng)
		if result.Direction.Dot(normal) < 0 {
			t.Errorf("diffuse scatter direction %v fell below the surface", result.Direction)
		}
	}
}

func TestPBRScatterProducesFiniteColor(t *testing.T) {
	pbr := newPBR(rmath.NewVec3(0.8, 0.2, 0.2), 0.5, 0.0)
	rng := rand.New(rand.NewSource(4))
	normal := rmath.NewVec3(0, 1, 0)

	for i := 0; i < 50; i++ {
		result := pbr.Scatter(rmath.NewVec3(0, -1, 0), scenegraph.Hit{Normal: normal}, nil, rng)
		if !result.Mult.IsFinite() {
			t.Errorf("expected a finite scatter multiplier, got %v", result.Mult)
		}
	}
}

func TestDecodeBaseMaterialDefaults(t *testing.T) {
	decoded, err := Decode([]byte(`{"type": "base", "reflective": 0.5}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	base, ok := decoded.(BaseUnloaded)
	if !ok {
		t.Fatalf("expected BaseUnloaded, got %T", decoded)
	}
	if base.Reflective != 0.5 {
		t.Errorf("expected reflective=0.5, got %v", base.Reflective)
	}
	if base.Refraction != 1.0 {
		t.Errorf("expected default refraction=1.0, got %v", base.Refraction)
	}
}

func TestDecodeUnknownMaterialType(t *testing.T) {
	if _, err := Decode([]byte(`{"type": "glass"}`)); err == nil {
		t.Fatalf("expected an error for an unknown material type")
	}
}
