package graph

// NodeFilter is the capability spec.md §9 describes as "any object
// providing apply(Node) → Node | Reject" — re-expressed here as a small Go
// interface rather than a class hierarchy. Apply returns the node to keep
// (possibly transformed) or nil to reject it.
type NodeFilter interface {
	Apply(n *Node) *Node
}

// IdPredicateFilter rejects a node whose id fails Keep, and additionally
// restricts the node's connections to only those ids that also pass Keep
// (spec.md §4.4's NodeIdFilter semantics, confirmed against the original
// Python Model.NodeIdFilter).
type IdPredicateFilter struct {
	Keep func(id string) bool
}

func (f IdPredicateFilter) Apply(n *Node) *Node {
	if !f.Keep(n.ID) {
		return nil
	}
	out := n.Clone()
	for id := range out.Connections {
		if !f.Keep(id) {
			delete(out.Connections, id)
		}
	}
	return out
}

// IdMapper rewrites a node's id and every one of its connection ids through
// Map. It never rejects.
type IdMapper struct {
	Map func(id string) string
}

func (f IdMapper) Apply(n *Node) *Node {
	out := &Node{ID: f.Map(n.ID), Size: n.Size, External: n.External, Connections: make(map[string]struct{}, len(n.Connections))}
	for id := range n.Connections {
		out.Connections[f.Map(id)] = struct{}{}
	}
	return out
}
