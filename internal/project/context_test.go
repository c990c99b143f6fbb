package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrafterKolyan/airbyte/internal/settings"
)

func TestManifestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "requirements.txt", ManifestRequirements.String())
	assert.Equal(t, "setup.py", ManifestPackage.String())
	assert.Equal(t, "none", ManifestNone.String())
}

func TestResolve(t *testing.T) {
	t.Parallel()

	defaults := settings.Defaults()

	t.Run("requirements manifest wins over package manifest", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		dir := mkProjectDir(t, root, "connectors/source-sendgrid")
		touch(t, dir, "requirements.txt")
		touch(t, dir, "setup.py")

		p, err := Resolve(context.Background(), root, dir, defaults)
		require.NoError(t, err)
		assert.Equal(t, ManifestRequirements, p.ManifestKind)
		assert.Equal(t, "connectors/source-sendgrid", p.Path)
		assert.Equal(t, ".venv", p.EnvName)
	})

	t.Run("package manifest", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		dir := mkProjectDir(t, root, "bases/base-python")
		touch(t, dir, "setup.py")

		p, err := Resolve(context.Background(), root, dir, defaults)
		require.NoError(t, err)
		assert.Equal(t, ManifestPackage, p.ManifestKind)
	})

	t.Run("no manifest resolves to ManifestNone without error", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		dir := mkProjectDir(t, root, "connectors/source-broken")

		p, err := Resolve(context.Background(), root, dir, defaults)
		require.NoError(t, err)
		assert.Equal(t, ManifestNone, p.ManifestKind)
	})

	t.Run("a requirements.txt directory does not count as a manifest", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		dir := mkProjectDir(t, root, "connectors/source-odd")
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "requirements.txt"), 0o755))

		p, err := Resolve(context.Background(), root, dir, defaults)
		require.NoError(t, err)
		assert.Equal(t, ManifestNone, p.ManifestKind)
	})

	t.Run("test directory presence", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		dir := mkProjectDir(t, root, "connectors/source-sendgrid")
		touch(t, dir, "setup.py")
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "unit_tests"), 0o755))

		p, err := Resolve(context.Background(), root, dir, defaults)
		require.NoError(t, err)
		assert.True(t, p.HasUnitTests)
		assert.False(t, p.HasIntegrationTests)
	})

	t.Run("project settings override module directory and env name", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		dir := mkProjectDir(t, root, "connectors/source-sendgrid")
		touch(t, dir, "setup.py")
		writeBuildFile(t, dir, `
python {
  module_directory = "source_sendgrid"
  env_name         = ".venv-custom"
}
`)

		p, err := Resolve(context.Background(), root, dir, defaults)
		require.NoError(t, err)
		assert.Equal(t, "source_sendgrid", p.ModuleDirectory)
		assert.Equal(t, ".venv-custom", p.EnvName)
	})
}

func mkProjectDir(t *testing.T, root, rel string) string {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644))
}

func writeBuildFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, settings.ProjectFileName), []byte(content), 0o644))
}
