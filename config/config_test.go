package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miniDevOn/hubsync/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hubsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("should apply defaults for optional fields", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "output_dir: /data/runs/out\n")

		// when
		cfg, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "/data/runs/out", cfg.OutputDir)
		assert.Equal(t, -1, cfg.LocalRank)
		assert.Equal(t, "every_save", cfg.HubStrategy)
		assert.Equal(t, "huggingface", cfg.Provider)
		assert.False(t, cfg.HubPrivateRepo)
		assert.False(t, cfg.OverwriteOutputDir)
	})

	t.Run("should parse all fields", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
output_dir: /data/runs/out
hub_model_id: alice/ddpm-butterflies
hub_token: hf_abc123
hub_private_repo: true
hub_strategy: all_checkpoints
overwrite_output_dir: true
local_rank: 0
provider: github
endpoint: https://git.corp.example.com
`)

		// when
		cfg, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "alice/ddpm-butterflies", cfg.HubModelID)
		assert.Equal(t, "hf_abc123", cfg.HubToken)
		assert.True(t, cfg.HubPrivateRepo)
		assert.Equal(t, "all_checkpoints", cfg.HubStrategy)
		assert.True(t, cfg.OverwriteOutputDir)
		assert.Equal(t, 0, cfg.LocalRank)
		assert.Equal(t, "github", cfg.Provider)
		assert.Equal(t, "https://git.corp.example.com", cfg.Endpoint)
	})

	t.Run("should expand environment variables in the token", func(t *testing.T) {
		// given
		t.Setenv("HUBSYNC_TEST_TOKEN", "secret-token")
		path := writeConfig(t, "output_dir: /out\nhub_token: ${HUBSYNC_TEST_TOKEN}\n")

		// when
		cfg, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "secret-token", cfg.HubToken)
	})

	t.Run("should read the token from a file path", func(t *testing.T) {
		t.Parallel()

		// given
		tokenFile := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("file-token\n"), 0o600))
		path := writeConfig(t, "output_dir: /out\nhub_token: "+tokenFile+"\n")

		// when
		cfg, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "file-token", cfg.HubToken)
	})

	t.Run("should fail when output_dir is missing", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "hub_model_id: alice/model\n")

		// when
		_, err := config.Load(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "output_dir")
	})

	t.Run("should fail on an unknown hub strategy", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "output_dir: /out\nhub_strategy: sometimes\n")

		// when
		_, err := config.Load(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "hub_strategy")
	})

	t.Run("should fail on a missing file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "nope.yaml")

		// when
		_, err := config.Load(path)

		// then
		require.Error(t, err)
	})

	t.Run("should fail on malformed yaml", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "output_dir: [unclosed\n")

		// when
		_, err := config.Load(path)

		// then
		require.Error(t, err)
	})
}
