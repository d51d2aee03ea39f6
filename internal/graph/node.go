// Package graph implements the Node Factory, Model, NodeFilter, and
// GraphView components (spec.md §4.3–§4.6): the mutation-safe in-memory
// dependency graph that Decoded classes are merged into, and its read-only
// projection.
package graph

import "sort"

// Node is one vertex of the dependency graph: a package or class identifier,
// its aggregate size, the set of ids it depends on, and whether it was
// synthesized as a placeholder for a dangling connection (spec.md §3).
type Node struct {
	ID          string
	Size        int64
	Connections map[string]struct{}
	External    bool
}

// NewNode constructs a Node with a fresh, empty connection set populated
// from ids.
func NewNode(id string, size int64, ids []string) *Node {
	n := &Node{ID: id, Size: size, Connections: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		n.Connections[id] = struct{}{}
	}
	return n
}

// Clone returns a deep copy, so filters may mutate their return value
// without aliasing the Model's stored Node.
func (n *Node) Clone() *Node {
	cp := &Node{ID: n.ID, Size: n.Size, External: n.External, Connections: make(map[string]struct{}, len(n.Connections))}
	for id := range n.Connections {
		cp.Connections[id] = struct{}{}
	}
	return cp
}

// ConnectionIDs returns the connection set as a sorted slice, for
// deterministic iteration and testing.
func (n *Node) ConnectionIDs() []string {
	out := make([]string, 0, len(n.Connections))
	for id := range n.Connections {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
