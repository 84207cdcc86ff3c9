package material

import (
	"math/rand"

	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/resource"
	"github.com/mertwole/pathtracer/scenegraph"
)

// PBRUnloaded is the microfacet (GGX/Schlick-Smith/Schlick) material,
// as decoded from JSON (spec.md §4.3). It carries no resource
// references of its own.
type PBRUnloaded struct {
	Albedo    rmath.Color
	Roughness float32
	Metallic  float32
}

// DefaultPBRUnloaded mirrors the source's default: flat white albedo,
// zero roughness, zero metallic.
func DefaultPBRUnloaded() PBRUnloaded {
	return PBRUnloaded{Albedo: rmath.ColorWhite}
}

func (p PBRUnloaded) CollectReferences() []resource.UninitRef { return nil }

func (p PBRUnloaded) Init(resource.ReferenceReplacer) scenegraph.Material {
	return newPBR(p.Albedo, p.Roughness, p.Metallic)
}

// PBR is the resolved form of PBRUnloaded, with its Fresnel F0 term
// and squared roughness precomputed once at load time.
type PBR struct {
	Albedo    rmath.Color
	Roughness float32
	Metallic  float32

	f0           rmath.Color
	roughnessSqr float32
}

func newPBR(albedo rmath.Color, roughness, metallic float32) *PBR {
	return &PBR{
		Albedo:       albedo,
		Roughness:    roughness,
		Metallic:     metallic,
		f0:           rmath.Mix(rmath.NewVec3Xyz(0.04), albedo, metallic),
		roughnessSqr: roughness * roughness,
	}
}

// ndf is the GGX normal distribution function.
func (p *PBR) ndf(nh float32) float32 {
	nh = clamp01ish(nh)
	roughnessSqrSqr := p.roughnessSqr * p.roughnessSqr
	denomSqrt := nh*nh*(roughnessSqrSqr-1.0) + 1.0
	return roughnessSqrSqr / (denomSqrt * denomSqrt * rmath.Pi)
}

// geometry is the Schlick-Smith geometry term for one direction; the
// caller combines it for both the light and view directions.
func (p *PBR) geometry(angleCos float32) float32 {
	onePlusR := 1.0 + p.Roughness
	k := (onePlusR * onePlusR) / 8.0
	return angleCos / (angleCos*(1.0-k) + k)
}

// fresnel is the Schlick approximation of the Fresnel term.
func (p *PBR) fresnel(hi float32) rmath.Color {
	oneMinusHi := 1.0 - hi
	pow5 := oneMinusHi * oneMinusHi * oneMinusHi * oneMinusHi * oneMinusHi
	return p.f0.Add(rmath.ColorWhite.Sub(p.f0).Mul(pow5))
}

func (p *PBR) brdfDiffuse(inputDir, outputDir rmath.Vec3) rmath.Color {
	h := outputDir.Add(inputDir).Normalize()

	specularK := p.fresnel(h.Dot(inputDir))
	diffuseK := rmath.ColorWhite.Sub(specularK).Mul(1.0 - p.Metallic)

	diffuse := p.Albedo.Mul(rmath.InvPi)
	return diffuseK.MulVec(diffuse)
}

func (p *PBR) brdfSpecular(normal, inputDir, outputDir rmath.Vec3) rmath.Color {
	ni := normal.Dot(inputDir)
	no := normal.Dot(outputDir)
	h := outputDir.Add(inputDir).Normalize()

	geometry := p.geometry(ni) * p.geometry(no)
	ndf := p.ndf(normal.Dot(h))

	specularK := p.fresnel(h.Dot(inputDir))
	specular := geometry * ndf / (4.0 * ni * no)
	return specularK.Mul(specular)
}

func (p *PBR) Scatter(dir rmath.Vec3, hit scenegraph.Hit, _ *scenegraph.Scene, rng *rand.Rand) scenegraph.ScatterResult {
	inputDir := dir.Mul(-1)
	rand0, rand1 := rng.Float32(), rng.Float32()

	var mul rmath.Color
	var outputDir rmath.Vec3
	var selectionProbability float32

	if rng.Float32() < 0.5 {
		outputDir = rmath.CosineWeightedOnHemisphere(rand0, rand1, hit.Normal)
		selectionProbability = outputDir.Dot(hit.Normal)
		mul = p.brdfDiffuse(inputDir, outputDir)
	} else {
		outputDir = rmath.RandomOnHemisphere(rand0, rand1, hit.Normal)
		selectionProbability = 1.0
		mul = p.brdfSpecular(hit.Normal, inputDir, outputDir)
	}

	weight := outputDir.Dot(hit.Normal) / selectionProbability * rmath.Pi
	mul = mul.Mul(weight)

	return scenegraph.ScatterResult{Mult: mul, Direction: outputDir}
}

func clamp01ish(x float32) float32 {
	const lo, hi = 0.0001, 0.9999
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
