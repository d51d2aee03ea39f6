package graph

import (
	"sync"

	"github.com/standardbeagle/classgraph/internal/cgerrors"
)

// Model is the mutation-safe dependency graph: a set of Nodes keyed by id,
// guarded by a single mutex (spec.md §9: "one mutex per Model is
// sufficient; contention is low because the pipeline is I/O-bound").
// Grounded on the teacher's UniversalSymbolGraph (internal/core/universal_graph.go),
// simplified to a single Mutex since classgraph's merge path is
// write-dominated rather than read-heavy.
type Model struct {
	mu          sync.Mutex
	nodes       map[string]*Node
	order       []string
	open        bool
	NodeFilters []NodeFilter
}

// NewModel returns an open, empty Model.
func NewModel() *Model {
	return &Model{
		nodes: make(map[string]*Node),
		open:  true,
	}
}

// Merge runs node through the configured filter chain in order; if any
// filter rejects it, the node is dropped and Merge returns nil. Otherwise
// the (possibly filter-transformed) node is merged by id: an existing node
// with the same id has its size incremented and its connections unioned
// with the incoming set; a new id is appended. Fails with ModelClosed if
// the Model has been closed by RemoveExternalConnections or
// CreateExternalNodes.
func (m *Model) Merge(n *Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return cgerrors.NewModelError("merge", cgerrors.ErrModelClosed)
	}

	cur := n
	for _, f := range m.NodeFilters {
		cur = f.Apply(cur)
		if cur == nil {
			return nil
		}
	}

	if existing, ok := m.nodes[cur.ID]; ok {
		existing.Size += cur.Size
		for id := range cur.Connections {
			existing.Connections[id] = struct{}{}
		}
		return nil
	}

	m.nodes[cur.ID] = cur
	m.order = append(m.order, cur.ID)
	return nil
}

// RemoveExternalConnections closes the Model and, for every node, drops any
// connection id that is not the id of some node currently in the Model.
// Returns the total number of dropped edges.
func (m *Model) RemoveExternalConnections() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return 0, cgerrors.NewModelError("remove_external_connections", cgerrors.ErrModelClosed)
	}
	m.open = false

	dropped := 0
	for _, n := range m.nodes {
		for id := range n.Connections {
			if _, ok := m.nodes[id]; !ok {
				delete(n.Connections, id)
				dropped++
			}
		}
	}
	return dropped, nil
}

// CreateExternalNodes closes the Model and, for every connection id that is
// not the id of any current node, appends a new external placeholder Node
// (empty connections, size 0, External=true). Returns the number of nodes
// created.
func (m *Model) CreateExternalNodes() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return 0, cgerrors.NewModelError("create_external_nodes", cgerrors.ErrModelClosed)
	}
	m.open = false

	// Stable creation order: iterate nodes in merge order, discovering
	// missing ids in the same order merge encountered their referencing
	// node, so output is deterministic across runs of the same input.
	created := 0
	seen := make(map[string]struct{})
	for _, nodeID := range m.order {
		n := m.nodes[nodeID]
		for _, connID := range n.ConnectionIDs() {
			if _, ok := m.nodes[connID]; ok {
				continue
			}
			if _, ok := seen[connID]; ok {
				continue
			}
			seen[connID] = struct{}{}
			m.nodes[connID] = &Node{ID: connID, Connections: make(map[string]struct{}), External: true}
			m.order = append(m.order, connID)
			created++
		}
	}
	return created, nil
}

// Open reports whether the Model still accepts Merge calls.
func (m *Model) Open() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Len returns the current node count.
func (m *Model) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.nodes)
}

// Node returns a clone of the node with the given id, or nil if absent.
func (m *Model) Node(id string) *Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok {
		return nil
	}
	return n.Clone()
}
