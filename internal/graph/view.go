package graph

// GraphNode is one entry of a GraphView's node projection.
type GraphNode struct {
	ID       string
	Size     int64
	External bool
}

// Edge is one entry of a GraphView's edge projection.
type Edge struct {
	Src string
	Dst string
}

// GraphView is a read-only snapshot of a Model, taken once at construction
// time; subsequent Model mutations are not reflected (spec.md §4.6).
type GraphView struct {
	nodes []GraphNode
	edges []Edge
}

// NewGraphView reads m once and returns an immutable projection.
func NewGraphView(m *Model) *GraphView {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := &GraphView{
		nodes: make([]GraphNode, 0, len(m.nodes)),
	}
	for _, id := range m.order {
		n := m.nodes[id]
		v.nodes = append(v.nodes, GraphNode{ID: n.ID, Size: n.Size, External: n.External})
		for _, dst := range n.ConnectionIDs() {
			v.edges = append(v.edges, Edge{Src: n.ID, Dst: dst})
		}
	}
	return v
}

// Nodes returns the node projection.
func (v *GraphView) Nodes() []GraphNode {
	return v.nodes
}

// Edges returns the edge projection.
func (v *GraphView) Edges() []Edge {
	return v.edges
}
