package scenegraph

import "github.com/mertwole/pathtracer/resource"

// KdTreeUnloaded wraps a child behind a named spatial-acceleration
// resource. Building and traversing the k-d tree itself is out of
// scope (spec.md Non-goals); this node still registers its kd-tree
// reference during resolution, so Load reports a scene file that names
// one as *resource.ErrUnsupported. Intersect traces the child directly.
type KdTreeUnloaded struct {
	Path  string       `json:"path"`
	Child UnloadedNode `json:"-"`
}

func (k *KdTreeUnloaded) CollectReferences() []resource.UninitRef {
	refs := k.Child.CollectReferences()
	return append(refs, resource.UninitRef{Type: resource.KdTree, Path: k.Path})
}

func (k *KdTreeUnloaded) Init(replacer resource.ReferenceReplacer) (Node, error) {
	replacer.GetReplacement(resource.UninitRef{Type: resource.KdTree, Path: k.Path})
	child, err := k.Child.Init(replacer)
	if err != nil {
		return nil, err
	}
	return &KdTree{Child: child}, nil
}

// KdTree is the resolved form of KdTreeUnloaded.
type KdTree struct {
	Child Node
}

func (k *KdTree) Intersect(s *Scene, r Ray) Hit {
	return k.Child.Intersect(s, r)
}
