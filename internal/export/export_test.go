package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/classgraph/internal/graph"
)

func sampleView(t *testing.T) *graph.GraphView {
	t.Helper()
	m := graph.NewModel()
	require.NoError(t, m.Merge(graph.NewNode("pkg.a", 100, []string{"pkg.b"})))
	require.NoError(t, m.Merge(graph.NewNode("pkg.b", 50, nil)))
	_, err := m.CreateExternalNodes()
	require.NoError(t, err)
	return graph.NewGraphView(m)
}

func TestWriteDOT(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteDOT(&buf, sampleView(t)))
	out := buf.String()
	assert.Contains(t, out, `"pkg.a" -> "pkg.b"`)
	assert.Contains(t, out, `"pkg.a" [size=100]`)
}

func TestWriteGML(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteGML(&buf, sampleView(t)))
	out := buf.String()
	assert.Contains(t, out, `label "pkg.a"`)
	assert.Contains(t, out, "edge [")
}

func TestWriteGraphML(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteGraphML(&buf, sampleView(t)))
	out := buf.String()
	assert.Contains(t, out, `<graphml xmlns=`)
	assert.Contains(t, out, `<node id="pkg.a">`)
	assert.Contains(t, out, `<edge source="pkg.a" target="pkg.b">`)
}
