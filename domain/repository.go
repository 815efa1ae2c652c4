package domain

import (
	"context"
	"errors"
)

// ErrDirConflict reports that a directory could not be bound to a remote
// repository because it already exists with unrelated content.
var ErrDirConflict = errors.New("directory exists and is not a git repository")

// CheckpointRepo is a local git working copy bound to a remote hub
// repository. It is created once per run and reused for every push.
type CheckpointRepo interface {
	// Dir returns the path of the working copy.
	Dir() string

	// Pull synchronizes the working copy with the remote. Pulling an
	// up-to-date or still empty remote is not an error.
	Pull(ctx context.Context) error

	// Push stages everything, commits with the given message and pushes.
	// It returns the URL of the commit. In blocking mode the returned job
	// is nil and the call waits for the push to finish; otherwise the push
	// runs in the background and the job tracks its progress.
	Push(ctx context.Context, opts PushOptions) (string, PushJob, error)

	// CancelPendingPush cancels the most recently queued push that has not
	// finished yet. It reports whether a push was cancelled.
	CancelPendingPush() bool

	// Tags returns the repository tags, semantic versions first in
	// descending order.
	Tags(ctx context.Context) ([]string, error)
}

// PushJob tracks a background push.
type PushJob interface {
	// Done is closed when the push finishes, successfully or not.
	Done() <-chan struct{}

	// IsDone reports whether the push has finished.
	IsDone() bool

	// Err returns the push error, if any. Only meaningful once done.
	Err() error

	// Cancel aborts the push.
	Cancel()
}

// RepoBinder binds local directories to remote hub repositories.
type RepoBinder interface {
	// Bind attaches dir to the repository at remoteURL, cloning when the
	// directory is missing or empty and reusing existing git state
	// otherwise. Binding a non-empty directory without git state fails
	// with ErrDirConflict.
	Bind(ctx context.Context, dir, remoteURL string) (CheckpointRepo, error)
}
