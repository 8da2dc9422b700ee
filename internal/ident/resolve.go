package ident

import (
	"github.com/uiactl/uiactl/internal/platform"
)

// searchCap bounds the breadth-first runtime-id search so a pathological
// tree cannot stall resolution.
const searchCap = 4096

// FromNode builds the encodable identity for a node discovered at the
// given child-index path from its window root.
func FromNode(node platform.Node, path []int) Handle {
	return Handle{
		Window:    node.WindowHandle(),
		RuntimeID: node.RuntimeID(),
		Path:      append([]int(nil), path...),
	}
}

// Resolve dereferences h against the live tree. It returns (nil, nil) when
// the identity is well-formed but no longer matches a node; legitimately
// stale handles never produce an error, and never a wrong node.
//
// Resolution order: locate the window root, try a direct runtime-id match,
// then walk the recorded child-index path. A path-walk hit whose runtime id
// contradicts the recorded one is a different node and counts as stale.
func Resolve(auto platform.Automation, h Handle) (platform.Node, error) {
	root, err := auto.WindowRoot(h.Window)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	if len(h.Path) == 0 && len(h.RuntimeID) == 0 {
		return root, nil
	}

	if len(h.RuntimeID) > 0 {
		node, err := findByRuntimeID(root, h.RuntimeID)
		if err != nil {
			return nil, err
		}
		if node != nil {
			return node, nil
		}
	}

	node, err := walkPath(root, h.Path)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}
	if len(h.RuntimeID) > 0 && !runtimeIDEqual(node.RuntimeID(), h.RuntimeID) {
		return nil, nil
	}
	return node, nil
}

// findByRuntimeID searches breadth-first under root, visiting at most
// searchCap nodes.
func findByRuntimeID(root platform.Node, id []int32) (platform.Node, error) {
	queue := []platform.Node{root}
	visited := 0
	for len(queue) > 0 && visited < searchCap {
		node := queue[0]
		queue = queue[1:]
		visited++
		if runtimeIDEqual(node.RuntimeID(), id) {
			return node, nil
		}
		children, err := node.Children()
		if err != nil {
			// A subtree that fails to enumerate is treated as absent; the
			// path fallback still gets its chance.
			continue
		}
		queue = append(queue, children...)
	}
	return nil, nil
}

// walkPath follows child indices from root. Any index out of range means
// the recorded path no longer exists.
func walkPath(root platform.Node, path []int) (platform.Node, error) {
	node := root
	for _, idx := range path {
		children, err := node.Children()
		if err != nil {
			return nil, err
		}
		if idx >= len(children) {
			return nil, nil
		}
		node = children[idx]
	}
	return node, nil
}
