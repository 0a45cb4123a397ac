package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		fullPath := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
	return root
}

func TestScanFindsPythonFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.py":       "x = 1",
		"pkg/utils.py":  "y = 2",
		"README.md":     "docs",
		"pkg/notes.txt": "text",
		"pkg/deep/a.py": "z = 3",
	})

	files, err := New(root).Scan()
	require.NoError(t, err)
	require.Len(t, files, 3)

	// Sorted by path.
	assert.Equal(t, filepath.Join(root, "main.py"), files[0].Path)
	assert.Equal(t, filepath.Join(root, "pkg", "deep", "a.py"), files[1].Path)
	assert.Equal(t, filepath.Join(root, "pkg", "utils.py"), files[2].Path)
	for _, f := range files {
		assert.Greater(t, f.Size, int64(0))
	}
}

func TestScanIgnorePatterns(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.py":             "x = 1",
		"vendor/dep.py":       "y = 2",
		"pkg/test_helpers.py": "z = 3",
	})

	s := New(root)
	require.NoError(t, s.Ignore("vendor/**", "**/test_*.py"))

	files, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "main.py"), files[0].Path)
}

func TestScanBadIgnorePattern(t *testing.T) {
	s := New(t.TempDir())
	assert.Error(t, s.Ignore("[unterminated"))
}

func TestScanCustomExtensions(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py":  "x = 1",
		"b.pyi": "y: int",
	})

	files, err := New(root, ".py", ".pyi").Scan()
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent")).Scan()
	assert.Error(t, err)
}
