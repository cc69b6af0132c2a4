package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleResolver_ResolveGoPackage(t *testing.T) {
	resolver := NewModuleResolver()

	t.Run("configured package wins", func(t *testing.T) {
		result, err := resolver.ResolveGoPackage(t.TempDir(), "exchanges")
		require.NoError(t, err)
		assert.Equal(t, "exchanges", result)
	})

	t.Run("module root uses last module path element", func(t *testing.T) {
		tempDir := t.TempDir()
		goModContent := `module github.com/example/ccxt-wrappers/v2

go 1.21
`
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "go.mod"), []byte(goModContent), 0644))

		result, err := resolver.ResolveGoPackage(tempDir, "")
		require.NoError(t, err)
		assert.Equal(t, "ccxtwrappers", result)
	})

	t.Run("subdirectory uses directory name", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "go.mod"), []byte("module github.com/example/app\n"), 0644))

		result, err := resolver.ResolveGoPackage(filepath.Join(tempDir, "pkg", "typed"), "")
		require.NoError(t, err)
		assert.Equal(t, "typed", result)
	})

	t.Run("keyword directory falls back", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "go.mod"), []byte("module github.com/example/app\n"), 0644))

		result, err := resolver.ResolveGoPackage(filepath.Join(tempDir, "build", "go"), "")
		require.NoError(t, err)
		assert.Equal(t, DefaultGoPackage, result)
	})

	t.Run("invalid go.mod is a configuration error", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "go.mod"), []byte("module (\n"), 0644))

		_, err := resolver.ResolveGoPackage(tempDir, "")
		assert.Error(t, err)
	})
}
