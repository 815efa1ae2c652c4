package hub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miniDevOn/hubsync/domain"
	"github.com/miniDevOn/hubsync/infrastructure/hub"
	"github.com/miniDevOn/hubsync/infrastructure/hub/github"
	"github.com/miniDevOn/hubsync/infrastructure/hub/huggingface"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should return a configured hub instance", func(t *testing.T) {
		t.Parallel()

		// given
		registry := hub.NewRegistry()
		registry.Register("huggingface", huggingface.New)

		// when
		instance, err := registry.Get("huggingface", "tok", "")

		// then
		require.NoError(t, err)
		assert.Equal(t, "huggingface", instance.Name())
	})

	t.Run("should fail on an unknown hub type", func(t *testing.T) {
		t.Parallel()

		// given
		registry := hub.NewRegistry()

		// when
		_, err := registry.Get("gitlab", "tok", "")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown hub type")
	})

	t.Run("should list registered hub names", func(t *testing.T) {
		t.Parallel()

		// given
		registry := hub.NewRegistry()
		registry.Register("huggingface", huggingface.New)
		registry.Register("github", github.New)

		// when
		names := registry.Names()

		// then
		assert.ElementsMatch(t, []string{"huggingface", "github"}, names)
	})

	t.Run("should build instances satisfying the domain contract", func(t *testing.T) {
		t.Parallel()

		// given
		registry := hub.NewRegistry()
		registry.Register("github", github.New)

		// when
		instance, err := registry.Get("github", "", "")

		// then
		require.NoError(t, err)
		var _ domain.Hub = instance
	})
}
