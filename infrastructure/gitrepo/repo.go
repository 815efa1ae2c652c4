// Package gitrepo implements the checkpoint working copy on top of go-git:
// clone-or-attach binding, pull, commit-and-push (synchronous or queued in
// the background) and tag listing.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/miniDevOn/hubsync/domain"
)

const (
	remoteName = "origin"

	// Fallback committer identity for environments without a git config.
	authorName  = "hubsync"
	authorEmail = "hubsync@localhost"
)

// Repo is a go-git backed working copy bound to a remote hub repository.
// Background pushes are tracked in a FIFO queue owned by the handle.
type Repo struct {
	dir       string
	remoteURL string
	repo      *git.Repository

	mu    sync.Mutex
	queue []*pushJob
}

var _ domain.CheckpointRepo = (*Repo)(nil)

// Binder creates Repo handles; it implements domain.RepoBinder.
type Binder struct{}

// NewBinder returns a binder for go-git working copies.
func NewBinder() *Binder { return &Binder{} }

// Bind implements domain.RepoBinder.
func (b *Binder) Bind(ctx context.Context, dir, remoteURL string) (domain.CheckpointRepo, error) {
	return CloneOrAttach(ctx, dir, remoteURL)
}

// CloneOrAttach binds dir to the repository at remoteURL. A missing or empty
// directory is cloned into; a directory with existing git state is attached.
// A non-empty directory without git state fails with domain.ErrDirConflict.
func CloneOrAttach(ctx context.Context, dir, remoteURL string) (*Repo, error) {
	if _, statErr := os.Stat(filepath.Join(dir, git.GitDirName)); statErr == nil {
		return attach(dir, remoteURL)
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil && !os.IsNotExist(readErr) {
		return nil, fmt.Errorf("failed to inspect %q: %w", dir, readErr)
	}
	if len(entries) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrDirConflict, dir)
	}

	return clone(ctx, dir, remoteURL)
}

// attach opens existing git state and makes sure the origin remote points at
// the hub repository.
func attach(dir, remoteURL string) (*Repo, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %q: %w", dir, err)
	}

	if _, remoteErr := repo.Remote(remoteName); errors.Is(remoteErr, git.ErrRemoteNotFound) {
		_, createErr := repo.CreateRemote(&gitconfig.RemoteConfig{
			Name: remoteName,
			URLs: []string{remoteURL},
		})
		if createErr != nil {
			return nil, fmt.Errorf("failed to configure remote: %w", createErr)
		}
	}

	return &Repo{dir: dir, remoteURL: remoteURL, repo: repo}, nil
}

func clone(ctx context.Context, dir, remoteURL string) (*Repo, error) {
	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:        remoteURL,
		RemoteName: remoteName,
	})
	if err == nil {
		return &Repo{dir: dir, remoteURL: remoteURL, repo: repo}, nil
	}
	if !errors.Is(err, transport.ErrEmptyRemoteRepository) {
		return nil, fmt.Errorf("failed to clone %q: %w", remoteURL, err)
	}

	// Fresh hub repositories have no commits yet; initialize locally and
	// point origin at them instead.
	if mkdirErr := os.MkdirAll(dir, 0o755); mkdirErr != nil {
		return nil, fmt.Errorf("failed to create %q: %w", dir, mkdirErr)
	}
	repo, initErr := git.PlainInit(dir, false)
	if errors.Is(initErr, git.ErrRepositoryAlreadyExists) {
		// The failed clone already initialized git state.
		return attach(dir, remoteURL)
	}
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize repository at %q: %w", dir, initErr)
	}
	if _, remoteErr := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: remoteName,
		URLs: []string{remoteURL},
	}); remoteErr != nil {
		return nil, fmt.Errorf("failed to configure remote: %w", remoteErr)
	}

	return &Repo{dir: dir, remoteURL: remoteURL, repo: repo}, nil
}

// Dir returns the path of the working copy.
func (r *Repo) Dir() string { return r.dir }

// Pull fast-forwards the working copy from the remote. An up-to-date or
// still empty remote is not an error.
func (r *Repo) Pull(ctx context.Context) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	pullErr := worktree.PullContext(ctx, &git.PullOptions{RemoteName: remoteName})
	switch {
	case pullErr == nil,
		errors.Is(pullErr, git.NoErrAlreadyUpToDate),
		errors.Is(pullErr, transport.ErrEmptyRemoteRepository),
		errors.Is(pullErr, plumbing.ErrReferenceNotFound):
		return nil
	default:
		return fmt.Errorf("failed to pull from %q: %w", remoteName, pullErr)
	}
}

// Push stages all changes, commits them and pushes to the remote. In
// blocking mode the call waits for the push; otherwise the push runs in a
// background job appended to the handle's queue.
func (r *Repo) Push(ctx context.Context, opts domain.PushOptions) (string, domain.PushJob, error) {
	sha, err := r.commitAll(opts.CommitMessage)
	if err != nil {
		return "", nil, err
	}
	commitURL := commitURLFromRemote(r.remoteURL, sha)

	if opts.Blocking {
		if pushErr := r.push(ctx, opts.AutoLFSPrune); pushErr != nil {
			return "", nil, pushErr
		}
		return commitURL, nil, nil
	}

	job := newPushJob()
	r.mu.Lock()
	r.queue = append(r.queue, job)
	r.mu.Unlock()

	go func() {
		job.finish(r.push(job.ctx, opts.AutoLFSPrune))
	}()

	return commitURL, job, nil
}

// CancelPendingPush cancels the most recently queued push that has not
// finished yet.
func (r *Repo) CancelPendingPush() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.queue) == 0 {
		return false
	}
	last := r.queue[len(r.queue)-1]
	if last.IsDone() {
		return false
	}
	last.Cancel()
	return true
}

// Tags returns the repository tags, semantic versions first in descending
// order, everything else after in original order.
func (r *Repo) Tags(_ context.Context) ([]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	var tags []string
	forEachErr := iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if forEachErr != nil {
		return nil, fmt.Errorf("failed to list tags: %w", forEachErr)
	}

	return sortTagsDesc(tags), nil
}

// commitAll stages everything and commits. A clean tree reuses the current
// head commit instead of creating an empty one.
func (r *Repo) commitAll(message string) (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to open worktree: %w", err)
	}

	if addErr := worktree.AddWithOptions(&git.AddOptions{All: true}); addErr != nil {
		return "", fmt.Errorf("failed to stage changes: %w", addErr)
	}

	status, statusErr := worktree.Status()
	if statusErr != nil {
		return "", fmt.Errorf("failed to read worktree status: %w", statusErr)
	}
	if status.IsClean() {
		head, headErr := r.repo.Head()
		if headErr != nil {
			return "", fmt.Errorf("nothing to commit and no previous commit: %w", headErr)
		}
		return head.Hash().String(), nil
	}

	sha, commitErr := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if commitErr != nil {
		return "", fmt.Errorf("failed to commit: %w", commitErr)
	}

	return sha.String(), nil
}

func (r *Repo) push(ctx context.Context, lfsPrune bool) error {
	err := r.repo.PushContext(ctx, &git.PushOptions{RemoteName: remoteName})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push to %q: %w", remoteName, err)
	}

	if lfsPrune {
		r.lfsPrune(ctx)
	}
	return nil
}

// lfsPrune drops local copies of LFS files that are already uploaded.
// Best effort: a missing git-lfs binary or a prune failure only logs.
func (r *Repo) lfsPrune(ctx context.Context) {
	if _, lookErr := exec.LookPath("git-lfs"); lookErr != nil {
		return
	}

	cmd := exec.CommandContext(ctx, "git", "lfs", "prune")
	cmd.Dir = r.dir
	if output, runErr := cmd.CombinedOutput(); runErr != nil {
		logger.Debugf("git lfs prune failed: %v\n%s", runErr, output)
	}
}

// commitURLFromRemote derives a browsable commit URL from the clone URL:
// credentials stripped, ".git" suffix dropped, "/commit/<sha>" appended.
func commitURLFromRemote(remoteURL, sha string) string {
	base := remoteURL
	if at := strings.LastIndex(base, "@"); at != -1 {
		if scheme := strings.Index(base, "://"); scheme != -1 && at > scheme {
			base = base[:scheme+3] + base[at+1:]
		}
	}
	base = strings.TrimSuffix(base, ".git")
	return base + "/commit/" + sha
}

// sortTagsDesc orders valid semantic versions descending and keeps the
// remaining tags behind them in their original order.
func sortTagsDesc(tags []string) []string {
	var versions, rest []string
	for _, tag := range tags {
		if semver.IsValid(normalizeVersion(tag)) {
			versions = append(versions, tag)
		} else {
			rest = append(rest, tag)
		}
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return semver.Compare(normalizeVersion(versions[i]), normalizeVersion(versions[j])) > 0
	})

	return append(versions, rest...)
}

func normalizeVersion(tag string) string {
	if strings.HasPrefix(tag, "v") {
		return tag
	}
	return "v" + tag
}
