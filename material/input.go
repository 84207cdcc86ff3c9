package material

import (
	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/resource"
	"github.com/mertwole/pathtracer/scenegraph"
)

// InputUnloaded is a material color source as decoded from JSON: a
// flat constant color, or a reference into a Texture resource.
type InputUnloaded struct {
	IsTexture bool
	Color     rmath.Color
	Texture   TextureUnloaded
}

func (in InputUnloaded) collectReferences() []resource.UninitRef {
	if !in.IsTexture {
		return nil
	}
	return in.Texture.collectReferences()
}

func (in InputUnloaded) init(replacer resource.ReferenceReplacer) Input {
	if !in.IsTexture {
		return Input{Color: in.Color}
	}
	return Input{IsTexture: true, Texture: in.Texture.init(replacer)}
}

// DefaultInputUnloaded mirrors the source's Default impl for the
// color source: flat white, used when a material omits "color".
func DefaultInputUnloaded() InputUnloaded {
	return InputUnloaded{Color: rmath.ColorWhite}
}

// Input is the resolved form of InputUnloaded.
type Input struct {
	IsTexture bool
	Color     rmath.Color
	Texture   Texture
}

func (in Input) Sample(scene *scenegraph.Scene, uv rmath.Vec2) rmath.Color {
	if !in.IsTexture {
		return in.Color
	}
	return in.Texture.sample(scene, uv)
}
