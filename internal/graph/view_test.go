package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphView_Projection(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Merge(NewNode("pkg.a", 10, []string{"pkg.b"})))
	require.NoError(t, m.Merge(NewNode("pkg.b", 5, nil)))
	_, err := m.RemoveExternalConnections()
	require.NoError(t, err)

	v := NewGraphView(m)
	assert.Len(t, v.Nodes(), 2)
	assert.Equal(t, []Edge{{Src: "pkg.a", Dst: "pkg.b"}}, v.Edges())
}
