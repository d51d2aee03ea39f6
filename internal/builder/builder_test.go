package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/classgraph/internal/graph"
	"github.com/standardbeagle/classgraph/internal/testutil"
)

// TestMain ensures Append's worker pool (errgroup-backed when WorkerCount >
// 1) never leaks goroutines.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func writeClass(t *testing.T, dir, name string) {
	t.Helper()
	data := testutil.NewClassBuilder(name, "java/lang/Object").Bytes()
	path := filepath.Join(dir, name+".class")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func buildFixtureTree(t *testing.T) string {
	root := t.TempDir()
	writeClass(t, root, "com/example/Alpha")
	writeClass(t, root, "com/example/Beta")
	writeClass(t, root, "com/other/Gamma")
	return root
}

// Law 4 applied to the Builder: sequential and worker-pooled Append over
// the same input produce an equal Model.
func TestBuilder_WorkerCountEquivalence(t *testing.T) {
	root := buildFixtureTree(t)

	seqModel := graph.NewModel()
	seqBuilder := New(seqModel, graph.NewClassNodeFactory(""))
	require.NoError(t, seqBuilder.Append(root))

	parModel := graph.NewModel()
	parBuilder := New(parModel, graph.NewClassNodeFactory(""))
	parBuilder.WorkerCount = 4
	require.NoError(t, parBuilder.Append(root))

	assert.Equal(t, seqModel.Len(), parModel.Len())
	for _, id := range []string{"com.example.Alpha", "com.example.Beta", "com.other.Gamma"} {
		a, b := seqModel.Node(id), parModel.Node(id)
		require.NotNil(t, a, id)
		require.NotNil(t, b, id)
		assert.Equal(t, a.Size, b.Size)
		assert.Equal(t, a.ConnectionIDs(), b.ConnectionIDs())
	}
}

func TestBuilder_DecodeCacheStillMergesDuplicateContent(t *testing.T) {
	root := t.TempDir()
	data := testutil.NewClassBuilder("com/example/Shared", "java/lang/Object").Bytes()
	for _, rel := range []string{"one/Shared.class", "two/Shared.class"} {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}

	model := graph.NewModel()
	b := New(model, graph.NewClassNodeFactory(""))
	require.NoError(t, b.Append(root))

	// Both copies project to the same class id and merge into one node
	// whose size has been summed twice, regardless of cache.
	n := model.Node("com.example.Shared")
	require.NotNil(t, n)
	assert.Equal(t, int64(len(data)*2), n.Size)
}

func TestBuilder_CorruptClassFileIsSkipped(t *testing.T) {
	root := t.TempDir()
	writeClass(t, root, "com/example/Good")
	require.NoError(t, os.WriteFile(filepath.Join(root, "Bad.class"), []byte{0, 0, 0, 0}, 0o644))

	model := graph.NewModel()
	b := New(model, graph.NewClassNodeFactory(""))
	require.NoError(t, b.Append(root))

	assert.Equal(t, 1, model.Len())
	assert.NotNil(t, model.Node("com.example.Good"))
}
