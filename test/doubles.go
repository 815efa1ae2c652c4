// Package testdoubles provides hand-crafted test doubles (spies, stubs,
// dummies) for the domain interfaces.
package testdoubles

import (
	"context"
	"fmt"
	"os"

	"github.com/miniDevOn/hubsync/domain"
)

// ---------------------------------------------------------------------------
// SpyHub
// ---------------------------------------------------------------------------

// SpyHub implements domain.Hub as a configurable spy.
// Configure the response fields for the methods your test exercises,
// then inspect the call-tracking fields to verify behavior.
type SpyHub struct {
	// --- identity ---
	HubName string

	// --- Whoami ---
	Identity  domain.Identity
	WhoamiErr error
	// spy: tokens that were presented
	WhoamiTokens []string

	// --- CachedToken ---
	CachedTok string

	// --- EnsureRepo ---
	EnsureErr error
	// spy: repositories that were ensured
	EnsuredRepos   []string
	EnsuredPrivate []bool

	// --- CloneURL ---
	CloneURLPrefix string
}

var _ domain.Hub = (*SpyHub)(nil)

func (h *SpyHub) Name() string {
	if h.HubName == "" {
		return "spy"
	}
	return h.HubName
}

func (h *SpyHub) Whoami(_ context.Context, token string) (domain.Identity, error) {
	h.WhoamiTokens = append(h.WhoamiTokens, token)
	return h.Identity, h.WhoamiErr
}

func (h *SpyHub) CachedToken() string { return h.CachedTok }

func (h *SpyHub) EnsureRepo(_ context.Context, fullName string, private bool) error {
	h.EnsuredRepos = append(h.EnsuredRepos, fullName)
	h.EnsuredPrivate = append(h.EnsuredPrivate, private)
	return h.EnsureErr
}

func (h *SpyHub) CloneURL(fullName, token string) string {
	prefix := h.CloneURLPrefix
	if prefix == "" {
		prefix = "https://hub.example.com"
	}
	if token != "" {
		return fmt.Sprintf("%s/%s?token=%s", prefix, fullName, token)
	}
	return prefix + "/" + fullName
}

// ---------------------------------------------------------------------------
// SpyRepo
// ---------------------------------------------------------------------------

// SpyRepo implements domain.CheckpointRepo as a configurable spy.
type SpyRepo struct {
	// --- Dir ---
	DirPath string

	// --- Pull ---
	PullErr error
	// spy: number of pulls
	PullCalls int

	// --- Push ---
	CommitURL string
	// PushErrs is consumed in call order; a nil entry (or exhausted slice)
	// means success.
	PushErrs []error
	Job      domain.PushJob
	// spy: options received
	PushCalls []domain.PushOptions

	// --- CancelPendingPush ---
	CancelResult bool
	// spy: number of cancellations requested
	CancelCalls int

	// --- Tags ---
	TagList []string
	TagsErr error
}

var _ domain.CheckpointRepo = (*SpyRepo)(nil)

func (r *SpyRepo) Dir() string {
	if r.DirPath == "" {
		return "/tmp/spy-repo"
	}
	return r.DirPath
}

func (r *SpyRepo) Pull(_ context.Context) error {
	r.PullCalls++
	return r.PullErr
}

func (r *SpyRepo) Push(_ context.Context, opts domain.PushOptions) (string, domain.PushJob, error) {
	call := len(r.PushCalls)
	r.PushCalls = append(r.PushCalls, opts)

	if call < len(r.PushErrs) && r.PushErrs[call] != nil {
		return "", nil, r.PushErrs[call]
	}

	url := r.CommitURL
	if url == "" {
		url = "https://hub.example.com/owner/name/commit/abc123"
	}
	if opts.Blocking {
		return url, nil, nil
	}
	return url, r.Job, nil
}

func (r *SpyRepo) CancelPendingPush() bool {
	r.CancelCalls++
	return r.CancelResult
}

func (r *SpyRepo) Tags(_ context.Context) ([]string, error) {
	return r.TagList, r.TagsErr
}

// ---------------------------------------------------------------------------
// SpyBinder
// ---------------------------------------------------------------------------

// SpyBinder implements domain.RepoBinder as a configurable spy.
type SpyBinder struct {
	// Repo is returned on successful binds.
	Repo *SpyRepo
	// BindErrs is consumed in call order; a nil entry (or exhausted slice)
	// means success.
	BindErrs []error
	// spy: directories and remotes received
	BoundDirs    []string
	BoundRemotes []string
}

var _ domain.RepoBinder = (*SpyBinder)(nil)

func (b *SpyBinder) Bind(_ context.Context, dir, remoteURL string) (domain.CheckpointRepo, error) {
	call := len(b.BoundDirs)
	b.BoundDirs = append(b.BoundDirs, dir)
	b.BoundRemotes = append(b.BoundRemotes, remoteURL)

	if call < len(b.BindErrs) && b.BindErrs[call] != nil {
		return nil, b.BindErrs[call]
	}
	// Like the real binder, a successful bind guarantees the directory exists.
	if mkdirErr := os.MkdirAll(dir, 0o755); mkdirErr != nil {
		return nil, mkdirErr
	}
	if b.Repo != nil {
		return b.Repo, nil
	}
	return &SpyRepo{DirPath: dir}, nil
}

// ---------------------------------------------------------------------------
// SpyPipeline
// ---------------------------------------------------------------------------

// SpyPipeline implements domain.Pipeline as a configurable spy.
type SpyPipeline struct {
	SaveErr error
	// spy: directories the pipeline was saved to
	SavedDirs []string
}

var _ domain.Pipeline = (*SpyPipeline)(nil)

func (p *SpyPipeline) Save(dir string) error {
	p.SavedDirs = append(p.SavedDirs, dir)
	return p.SaveErr
}

// ---------------------------------------------------------------------------
// StubPushJob
// ---------------------------------------------------------------------------

// StubPushJob implements domain.PushJob with a fixed outcome.
type StubPushJob struct {
	Finished  bool
	JobErr    error
	Cancelled bool
}

var _ domain.PushJob = (*StubPushJob)(nil)

func (j *StubPushJob) Done() <-chan struct{} {
	ch := make(chan struct{})
	if j.Finished {
		close(ch)
	}
	return ch
}

func (j *StubPushJob) IsDone() bool { return j.Finished }
func (j *StubPushJob) Err() error   { return j.JobErr }
func (j *StubPushJob) Cancel()      { j.Cancelled = true }
