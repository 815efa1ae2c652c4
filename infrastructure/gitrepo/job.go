package gitrepo

import (
	"context"
	"sync"

	"github.com/miniDevOn/hubsync/domain"
)

// pushJob tracks a single background push. Cancelling aborts the underlying
// transfer through context cancellation.
type pushJob struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

var _ domain.PushJob = (*pushJob)(nil)

func newPushJob() *pushJob {
	ctx, cancel := context.WithCancel(context.Background())
	return &pushJob{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// finish records the outcome, releases the job context and marks the job
// done.
func (j *pushJob) finish(err error) {
	j.mu.Lock()
	j.err = err
	j.mu.Unlock()
	j.cancel()
	close(j.done)
}

// Done is closed when the push finishes.
func (j *pushJob) Done() <-chan struct{} { return j.done }

// IsDone reports whether the push has finished.
func (j *pushJob) IsDone() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// Err returns the push error, if any.
func (j *pushJob) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Cancel aborts the push.
func (j *pushJob) Cancel() { j.cancel() }
