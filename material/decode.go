package material

import (
	"encoding/json"
	"fmt"

	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/resource"
	"github.com/mertwole/pathtracer/scenegraph"
)

type envelope struct {
	Type string `json:"type"`
}

// Decode parses one material resource's raw JSON bytes into its
// uninitialized form, the tagged-union registry the source expresses
// with #[typetag::serde(tag = "type")]. It satisfies
// scenegraph.MaterialDecoder.
func Decode(data []byte) (scenegraph.MaterialUnloaded, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("material: decoding envelope: %w", err)
	}

	switch env.Type {
	case "base":
		return decodeBase(data)
	case "pbr":
		return decodePBR(data)
	default:
		return nil, &resource.ErrMalformed{Reason: fmt.Sprintf("unknown material type %q", env.Type)}
	}
}

func decodeBase(data []byte) (scenegraph.MaterialUnloaded, error) {
	var wire struct {
		Color      json.RawMessage `json:"color"`
		Emission   *rmath.Color    `json:"emission"`
		Refraction *float32        `json:"refraction"`
		Reflective *float32        `json:"reflective"`
		Emissive   *float32        `json:"emissive"`
		Refractive *float32        `json:"refractive"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("material: decoding base material: %w", err)
	}

	base := DefaultBaseUnloaded()
	if wire.Color != nil {
		input, err := decodeInput(wire.Color)
		if err != nil {
			return nil, err
		}
		base.Color = input
	}
	if wire.Emission != nil {
		base.Emission = *wire.Emission
	}
	if wire.Refraction != nil {
		base.Refraction = *wire.Refraction
	} else {
		base.Refraction = 1.0
	}
	if wire.Reflective != nil {
		base.Reflective = *wire.Reflective
	}
	if wire.Emissive != nil {
		base.Emissive = *wire.Emissive
	}
	if wire.Refractive != nil {
		base.Refractive = *wire.Refractive
	}

	return base, nil
}

func decodeInput(data json.RawMessage) (InputUnloaded, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return InputUnloaded{}, fmt.Errorf("material: decoding color source envelope: %w", err)
	}

	switch env.Type {
	case "color":
		var wire struct {
			Color rmath.Color `json:"color"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return InputUnloaded{}, fmt.Errorf("material: decoding flat color: %w", err)
		}
		return InputUnloaded{Color: wire.Color}, nil
	case "texture":
		var wire struct {
			Path   string `json:"path"`
			UVMode string `json:"uv_mode"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return InputUnloaded{}, fmt.Errorf("material: decoding texture color source: %w", err)
		}
		mode := UVClamp
		if wire.UVMode == "repeat" {
			mode = UVRepeat
		}
		return InputUnloaded{
			IsTexture: true,
			Texture:   TextureUnloaded{ImagePath: wire.Path, UVMode: mode},
		}, nil
	default:
		return InputUnloaded{}, &resource.ErrMalformed{Reason: fmt.Sprintf("unknown color source type %q", env.Type)}
	}
}

func decodePBR(data []byte) (scenegraph.MaterialUnloaded, error) {
	var wire struct {
		Albedo    *rmath.Color `json:"albedo"`
		Roughness *float32     `json:"roughness"`
		Metallic  *float32     `json:"metallic"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("material: decoding pbr material: %w", err)
	}

	pbr := DefaultPBRUnloaded()
	if wire.Albedo != nil {
		pbr.Albedo = *wire.Albedo
	}
	if wire.Roughness != nil {
		pbr.Roughness = *wire.Roughness
	}
	if wire.Metallic != nil {
		pbr.Metallic = *wire.Metallic
	}
	return pbr, nil
}
