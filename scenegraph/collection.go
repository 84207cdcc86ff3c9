package scenegraph

import "github.com/mertwole/pathtracer/resource"

// NodeCollectionUnloaded groups sibling nodes, as decoded from scene
// JSON.
type NodeCollectionUnloaded struct {
	Children []UnloadedNode `json:"-"`
}

func (c *NodeCollectionUnloaded) CollectReferences() []resource.UninitRef {
	var refs []resource.UninitRef
	for _, child := range c.Children {
		refs = append(refs, child.CollectReferences()...)
	}
	return refs
}

func (c *NodeCollectionUnloaded) Init(replacer resource.ReferenceReplacer) (Node, error) {
	children := make([]Node, len(c.Children))
	for i, child := range c.Children {
		initialized, err := child.Init(replacer)
		if err != nil {
			return nil, err
		}
		children[i] = initialized
	}
	return &NodeCollection{Children: children}, nil
}

// NodeCollection is the resolved form of NodeCollectionUnloaded.
type NodeCollection struct {
	Children []Node
}

func (c *NodeCollection) Intersect(s *Scene, r Ray) Hit {
	closest := Miss()
	for _, child := range c.Children {
		hit := child.Intersect(s, r)
		if hit.Hit && hit.T < closest.T {
			closest = hit
		}
	}
	return closest
}
