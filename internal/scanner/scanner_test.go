package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/classgraph/internal/testutil"
)

func writeFile(t *testing.T, dir, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func classBytes(name string) []byte {
	return testutil.NewClassBuilder(name, "java/lang/Object").Bytes()
}

// S3: a .ear containing two .jars and a .war (which itself contains two
// .jars), totaling 7 .class entries across all nesting levels.
func TestScanner_NestedArchive(t *testing.T) {
	jarA := testutil.BuildZip(map[string][]byte{
		"a/One.class": classBytes("a/One"),
		"a/Two.class": classBytes("a/Two"),
	})
	jarB := testutil.BuildZip(map[string][]byte{
		"b/Three.class": classBytes("b/Three"),
	})
	warJar1 := testutil.BuildZip(map[string][]byte{
		"c/Four.class": classBytes("c/Four"),
	})
	warJar2 := testutil.BuildZip(map[string][]byte{
		"d/Five.class": classBytes("d/Five"),
	})
	war := testutil.BuildZip(map[string][]byte{
		"WEB-INF/lib/war1.jar": warJar1,
		"WEB-INF/lib/war2.jar": warJar2,
		"Six.class":            classBytes("Six"),
	})
	ear := testutil.BuildZip(map[string][]byte{
		"lib/a.jar": jarA,
		"lib/b.jar": jarB,
		"app.war":   war,
		"Seven.class": classBytes("Seven"),
	})

	root := t.TempDir()
	writeFile(t, root, "bundle.ear", ear)

	var delivered int
	s, err := Acquire(func(path string, origin []string) error {
		delivered++
		return nil
	})
	require.NoError(t, err)
	defer s.Release()

	count, err := s.Scan(root)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.Equal(t, 7, delivered)
}

// S4: two archives sharing a basename in the same scan; only the first
// extraction counts, the second is skipped with a warning.
func TestScanner_DuplicateBasenameSuppressed(t *testing.T) {
	jar1 := testutil.BuildZip(map[string][]byte{
		"First.class": classBytes("First"),
	})
	jar2 := testutil.BuildZip(map[string][]byte{
		"Second.class": classBytes("Second"),
		"Third.class":  classBytes("Third"),
	})

	root := t.TempDir()
	// filepath.Walk visits in lexical order, so libs/ is scanned before
	// modules/; the lexically-first path must hold the archive whose
	// extraction we expect to win.
	writeFile(t, root, "libs/service.jar", jar1)
	writeFile(t, root, "modules/service.jar", jar2)

	s, err := Acquire(func(path string, origin []string) error { return nil })
	require.NoError(t, err)
	defer s.Release()

	count, err := s.Scan(root)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// S8: after scoped release, the scratch workspace no longer exists on disk.
func TestScanner_ScratchCleanup(t *testing.T) {
	s, err := Acquire(func(path string, origin []string) error { return nil })
	require.NoError(t, err)

	workspace := s.workspace
	require.DirExists(t, workspace)

	require.NoError(t, s.Release())
	_, err = os.Stat(workspace)
	assert.True(t, os.IsNotExist(err))
}

func TestScanner_CorruptArchive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "broken.jar", []byte("not a zip file"))

	s, err := Acquire(func(path string, origin []string) error { return nil })
	require.NoError(t, err)
	defer s.Release()

	_, err = s.Scan(root)
	require.Error(t, err)
}

func TestScanner_MissingRootIsUsageError(t *testing.T) {
	s, err := Acquire(func(path string, origin []string) error { return nil })
	require.NoError(t, err)
	defer s.Release()

	_, err = s.Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestScanner_ExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep/Keep.class", classBytes("keep/Keep"))
	writeFile(t, root, "skip/Skip.class", classBytes("skip/Skip"))

	s, err := Acquire(func(path string, origin []string) error { return nil })
	require.NoError(t, err)
	defer s.Release()
	s.ExcludeGlobs = []string{"skip/**"}

	count, err := s.Scan(root)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
