// Package material implements the two material variants the renderer
// supports (spec.md §4.3): a reflective/emissive/refractive/diffuse
// "base" material and a microfacet PBR material. It depends on
// scenegraph for Scene, Hit and the Material/MaterialUnloaded
// interfaces it implements.
package material

import (
	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/resource"
	"github.com/mertwole/pathtracer/scenegraph"
)

// UVMode selects how a Texture wraps coordinates outside [0, 1).
type UVMode int

const (
	UVClamp UVMode = iota
	UVRepeat
)

// TextureUnloaded names the image resource a texture input samples
// from, its path still unresolved.
type TextureUnloaded struct {
	ImagePath string
	UVMode    UVMode
}

func (t TextureUnloaded) collectReferences() []resource.UninitRef {
	return []resource.UninitRef{{Type: resource.Image, Path: t.ImagePath}}
}

func (t TextureUnloaded) init(replacer resource.ReferenceReplacer) Texture {
	ref := replacer.GetReplacement(resource.UninitRef{Type: resource.Image, Path: t.ImagePath})
	return Texture{Image: ref.ID, UVMode: t.UVMode}
}

// Texture is the resolved form of TextureUnloaded.
type Texture struct {
	Image  resource.ID
	UVMode UVMode
}

// wrap maps uv into [0, 1) per the texture's wrap mode, then flips Y
// since image rows run top-to-bottom while UV space runs bottom-to-top
// (spec.md §4.3's numerical guards, grounded on the source's Texture::sample).
func (t Texture) wrap(uv rmath.Vec2) rmath.Vec2 {
	switch t.UVMode {
	case UVClamp:
		uv = uv.Clamp01()
	case UVRepeat:
		uv = uv.Sub(uv.Floor())
	}
	uv.Y = 1.0 - uv.Y
	return uv
}

func (t Texture) sample(scene *scenegraph.Scene, uv rmath.Vec2) rmath.Color {
	img := scene.Images[t.Image]
	wrapped := t.wrap(uv)
	x := int(wrapped.X * float32(img.Width()-1))
	y := int(wrapped.Y * float32(img.Height()-1))
	return img.GetPixel(x, y)
}
