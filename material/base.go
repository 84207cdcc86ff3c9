package material

import (
	stdmath "math"
	"math/rand"

	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/resource"
	"github.com/mertwole/pathtracer/scenegraph"
)

// BaseUnloaded is the reflective/emissive/refractive/diffuse material,
// its branch probabilities and color source as decoded from JSON
// (spec.md §4.3).
type BaseUnloaded struct {
	Color      InputUnloaded
	Emission   rmath.Color
	Refraction float32

	Reflective float32
	Emissive   float32
	Refractive float32
}

// DefaultBaseUnloaded mirrors the source's #[serde(default)] values:
// pure white emission and every branch probability at zero, i.e. a
// material that always falls through to the diffuse branch.
func DefaultBaseUnloaded() BaseUnloaded {
	return BaseUnloaded{
		Color:    DefaultInputUnloaded(),
		Emission: rmath.ColorWhite,
	}
}

func (b BaseUnloaded) CollectReferences() []resource.UninitRef {
	return b.Color.collectReferences()
}

func (b BaseUnloaded) Init(replacer resource.ReferenceReplacer) scenegraph.Material {
	return &Base{
		Color:      b.Color.init(replacer),
		Emission:   b.Emission,
		Refraction: b.Refraction,
		Reflective: b.Reflective,
		Emissive:   b.Emissive,
		Refractive: b.Refractive,
	}
}

// Base is the resolved form of BaseUnloaded.
type Base struct {
	Color      Input
	Emission   rmath.Color
	Refraction float32

	Reflective float32
	Emissive   float32
	Refractive float32
}

// fresnelReflection computes the Fresnel dielectric reflectance for an
// unpolarized ray, grounded on the source's exact formula.
func fresnelReflection(thetaCos, refraction float32) float32 {
	refrSqr := refraction * refraction

	c := thetaCos * refraction
	g := float32(stdmath.Sqrt(float64(1.0 + c*c - refrSqr)))

	a := (g - c) / (g + c)
	bNom := c*(g+c) - refrSqr
	bDen := c*(g-c) + refrSqr
	b := bNom / bDen

	return 0.5 * a * a * (1.0 + b*b)
}

func (b *Base) Scatter(dir rmath.Vec3, hit scenegraph.Hit, scene *scenegraph.Scene, rng *rand.Rand) scenegraph.ScatterResult {
	randomNum := rng.Float32()

	switch {
	case randomNum < b.Reflective:
		return scenegraph.ScatterResult{
			Mult:      rmath.ColorWhite,
			Direction: dir.Reflect(hit.Normal),
		}

	case randomNum < b.Reflective+b.Emissive:
		return scenegraph.ScatterResult{Terminal: true, Emitted: b.Emission}

	case randomNum < b.Reflective+b.Emissive+b.Refractive:
		cos := rmath.Vec3Zero.Sub(dir).Dot(hit.Normal)
		refraction := b.Refraction
		if !hit.HitInside {
			refraction = 1.0 / b.Refraction
		}
		fresnel := fresnelReflection(cos, refraction)

		var newDir rmath.Vec3
		if rng.Float32() < fresnel {
			newDir = dir.Reflect(hit.Normal)
		} else if refracted, ok := dir.Refract(hit.Normal, refraction); ok {
			newDir = refracted
		} else {
			reflected := dir.Reflect(hit.Normal)
			if hit.HitInside {
				newDir = reflected.Mul(-1)
			} else {
				newDir = reflected
			}
		}

		return scenegraph.ScatterResult{Mult: rmath.ColorWhite, Direction: newDir}

	default:
		newDirection := rmath.RandomOnUnitSphere(rng.Float32(), rng.Float32())
		if newDirection.Dot(hit.Normal) < 0 {
			newDirection = rmath.Vec3Zero.Sub(newDirection)
		}
		return scenegraph.ScatterResult{
			Mult:      b.Color.Sample(scene, hit.UV),
			Direction: newDirection,
		}
	}
}
