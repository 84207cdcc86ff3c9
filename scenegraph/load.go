package scenegraph

import (
	"context"
	"fmt"

	"github.com/mertwole/pathtracer/resource"
)

// FileFetcher fetches the raw bytes of a resource by its logical path,
// implemented by blobstore.SceneFetcher in the running system.
type FileFetcher interface {
	FetchFile(ctx context.Context, path string) ([]byte, error)
}

// Load decodes a scene file and drives the two-phase resolver to
// completion: decode the hierarchy, assign ids to everything it
// references, then repeatedly fetch and initialize whatever was
// discovered until a round finds nothing new (spec.md §4.1).
func Load(ctx context.Context, fetcher FileFetcher, scenePath string, decodeMaterial MaterialDecoder) (*Scene, error) {
	sceneData, err := fetcher.FetchFile(ctx, scenePath)
	if err != nil {
		return nil, fmt.Errorf("scenegraph: fetching scene file %q: %w", scenePath, err)
	}

	unloadedHierarchy, err := DecodeNode(sceneData)
	if err != nil {
		return nil, err
	}

	mapping := resource.NewMapping()
	hierarchy, err := unloadedHierarchy.Init(mapping)
	if err != nil {
		return nil, err
	}

	materials := make(map[resource.ID]Material)
	meshes := make(map[resource.ID]resource.Mesh)
	images := make(map[resource.ID]resource.Image)

	for {
		pending := mapping.PendingProcessing()
		if len(pending) == 0 {
			break
		}

		for _, entry := range pending {
			data, err := fetcher.FetchFile(ctx, entry.Path)
			if err != nil {
				return nil, fmt.Errorf("scenegraph: fetching %s resource %q: %w", entry.Type, entry.Path, err)
			}

			switch entry.Type {
			case resource.Mesh:
				mesh, err := resource.LoadMeshFromOBJ(data)
				if err != nil {
					return nil, err
				}
				meshes[entry.ID] = mesh
			case resource.Material:
				unloadedMaterial, err := decodeMaterial(data)
				if err != nil {
					return nil, err
				}
				materials[entry.ID] = unloadedMaterial.Init(mapping)
			case resource.Image:
				img, err := resource.LoadImageFromMemory(data)
				if err != nil {
					return nil, err
				}
				images[entry.ID] = img
			case resource.KdTree:
				return nil, &resource.ErrUnsupported{Type: entry.Type, Path: entry.Path}
			}
		}
	}

	scene := &Scene{
		Hierarchy: hierarchy,
		Materials: make([]Material, mapping.Count(resource.Material)),
		Meshes:    make([]resource.Mesh, mapping.Count(resource.Mesh)),
		Images:    make([]resource.Image, mapping.Count(resource.Image)),
	}
	for id, m := range materials {
		scene.Materials[id] = m
	}
	for id, m := range meshes {
		scene.Meshes[id] = m
	}
	for id, img := range images {
		scene.Images[id] = img
	}

	return scene, nil
}
