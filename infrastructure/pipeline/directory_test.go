package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miniDevOn/hubsync/infrastructure/pipeline"
)

func TestDirectorySnapshot_Save(t *testing.T) {
	t.Parallel()

	t.Run("should copy the checkpoint tree into the destination", func(t *testing.T) {
		t.Parallel()

		// given
		src := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(src, "unet"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(src, "model_index.json"), []byte("{}"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(src, "unet", "weights.bin"), []byte("w"), 0o644))
		dst := filepath.Join(t.TempDir(), "out")

		// when
		err := pipeline.NewDirectorySnapshot(src).Save(dst)

		// then
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dst, "model_index.json"))
		assert.FileExists(t, filepath.Join(dst, "unet", "weights.bin"))
	})

	t.Run("should skip git state in the source", func(t *testing.T) {
		t.Parallel()

		// given
		src := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(src, ".git"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(src, ".git", "HEAD"), []byte("ref"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(src, "model.bin"), []byte("w"), 0o644))
		dst := filepath.Join(t.TempDir(), "out")

		// when
		err := pipeline.NewDirectorySnapshot(src).Save(dst)

		// then
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dst, "model.bin"))
		assert.NoDirExists(t, filepath.Join(dst, ".git"))
	})

	t.Run("should be a no-op when source and destination are the same", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "model.bin"), []byte("w"), 0o644))

		// when
		err := pipeline.NewDirectorySnapshot(dir).Save(dir)

		// then
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "model.bin"))
	})

	t.Run("should fail on a missing source", func(t *testing.T) {
		t.Parallel()

		// given
		missing := filepath.Join(t.TempDir(), "missing")

		// when
		err := pipeline.NewDirectorySnapshot(missing).Save(filepath.Join(t.TempDir(), "out"))

		// then
		require.Error(t, err)
	})
}
