package scenegraph

import (
	"encoding/json"
	"fmt"

	"github.com/mertwole/pathtracer/resource"
)

// nodeEnvelope peeks at the "type" discriminator before committing to
// a concrete struct, the Go stand-in for the source's
// #[typetag::serde(tag = "type")] trait-object registry.
type nodeEnvelope struct {
	Type string `json:"type"`
}

// DecodeNode parses one hierarchy node (and, recursively, its
// children) from its JSON representation.
func DecodeNode(data []byte) (UnloadedNode, error) {
	var envelope nodeEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("scenegraph: decoding node envelope: %w", err)
	}

	switch envelope.Type {
	case "sphere":
		var n SphereUnloaded
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("scenegraph: decoding sphere node: %w", err)
		}
		return &n, nil
	case "plane":
		var n PlaneUnloaded
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("scenegraph: decoding plane node: %w", err)
		}
		return &n, nil
	case "mesh":
		var n MeshUnloaded
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("scenegraph: decoding mesh node: %w", err)
		}
		return &n, nil
	case "transform":
		var wire struct {
			Matrix json.RawMessage `json:"matrix"`
			Child  json.RawMessage `json:"child"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("scenegraph: decoding transform node: %w", err)
		}
		var n TransformUnloaded
		if err := json.Unmarshal(wire.Matrix, &n.Matrix); err != nil {
			return nil, fmt.Errorf("scenegraph: decoding transform matrix: %w", err)
		}
		child, err := DecodeNode(wire.Child)
		if err != nil {
			return nil, err
		}
		n.Child = child
		return &n, nil
	case "node_collection":
		var wire struct {
			Children []json.RawMessage `json:"children"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("scenegraph: decoding node_collection: %w", err)
		}
		n := &NodeCollectionUnloaded{Children: make([]UnloadedNode, len(wire.Children))}
		for i, raw := range wire.Children {
			child, err := DecodeNode(raw)
			if err != nil {
				return nil, err
			}
			n.Children[i] = child
		}
		return n, nil
	case "kd_tree":
		var wire struct {
			Path  string          `json:"path"`
			Child json.RawMessage `json:"child"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("scenegraph: decoding kd_tree node: %w", err)
		}
		child, err := DecodeNode(wire.Child)
		if err != nil {
			return nil, err
		}
		return &KdTreeUnloaded{Path: wire.Path, Child: child}, nil
	default:
		return nil, &resource.ErrMalformed{Reason: fmt.Sprintf("unknown hierarchy node type %q", envelope.Type)}
	}
}
