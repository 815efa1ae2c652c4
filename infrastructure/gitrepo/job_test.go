package gitrepo //nolint:testpackage // tests unexported job internals

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushJob(t *testing.T) {
	t.Parallel()

	t.Run("should release its context once finished", func(t *testing.T) {
		t.Parallel()

		// given
		job := newPushJob()

		// when
		job.finish(nil)

		// then
		assert.True(t, job.IsDone())
		require.NoError(t, job.Err())
		assert.ErrorIs(t, job.ctx.Err(), context.Canceled)
	})

	t.Run("should report the recorded push error", func(t *testing.T) {
		t.Parallel()

		// given
		job := newPushJob()
		pushErr := errors.New("push failed")

		// when
		job.finish(pushErr)

		// then
		assert.ErrorIs(t, job.Err(), pushErr)
	})

	t.Run("should cancel the context without being done", func(t *testing.T) {
		t.Parallel()

		// given
		job := newPushJob()

		// when
		job.Cancel()

		// then
		assert.False(t, job.IsDone())
		assert.ErrorIs(t, job.ctx.Err(), context.Canceled)
	})
}
