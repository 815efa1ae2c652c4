package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/miniDevOn/hubsync/config"
	"github.com/miniDevOn/hubsync/domain"
)

const (
	// DefaultCommitMessage is used when the caller does not supply one.
	DefaultCommitMessage = "End of training"

	// modelCardCommitMessage is the fixed message of the model card commit
	// that follows every checkpoint push.
	modelCardCommitMessage = "update model card README.md"

	gitignoreFilename = ".gitignore"
	// checkpointIgnorePattern keeps intermediate checkpoint directories out
	// of the hub repository.
	checkpointIgnorePattern = "checkpoint-*/"

	cardFileMode      = 0o644
	gitignoreFileMode = 0o644
	outputDirMode     = 0o755
)

// HubService orchestrates the full checkpoint publishing flow:
// resolve the repository name -> bind the working copy -> push checkpoints
// and model cards. Only the main process (rank -1 or 0) ever touches the
// hub or the working copy's git state.
type HubService struct {
	cfg    *config.Config
	hub    domain.Hub
	binder domain.RepoBinder
}

// NewHubService creates a new service for the given hub backend and binder.
func NewHubService(
	cfg *config.Config,
	hub domain.Hub,
	binder domain.RepoBinder,
) *HubService {
	return &HubService{
		cfg:    cfg,
		hub:    hub,
		binder: binder,
	}
}

// FullRepoName qualifies a short repository name into "owner/name". When no
// organization is given the owner is the identity behind the token (falling
// back to the hub's cached credential).
func (s *HubService) FullRepoName(
	ctx context.Context,
	shortName, organization, token string,
) (string, error) {
	if organization != "" {
		return domain.RepoRef{Owner: organization, Name: shortName}.FullName(), nil
	}

	if token == "" {
		token = s.hub.CachedToken()
	}
	identity, err := s.hub.Whoami(ctx, token)
	if err != nil {
		return "", fmt.Errorf("failed to resolve hub identity: %w", err)
	}

	return domain.RepoRef{Owner: identity.Name, Name: shortName}.FullName(), nil
}

// InitRepo binds the configured output directory to the hub repository:
// it ensures the repository exists, clones or attaches the working copy,
// pulls the latest state and seeds a .gitignore for checkpoint directories.
//
// On any rank other than -1 or 0 it returns (nil, nil) without side effects.
//
// When binding fails because the output directory already holds unrelated
// content, and atInit and overwrite_output_dir both permit it, the directory
// is wiped and the bind is retried once with the same credential.
func (s *HubService) InitRepo(
	ctx context.Context,
	atInit bool,
) (domain.CheckpointRepo, error) {
	if !domain.IsMainProcess(s.cfg.LocalRank) {
		return nil, nil //nolint:nilnil // non-main ranks are deliberate no-ops
	}

	token := s.cfg.HubToken
	if token == "" {
		token = s.hub.CachedToken()
	}

	repoName, err := s.repoName(ctx)
	if err != nil {
		return nil, err
	}

	if ensureErr := s.hub.EnsureRepo(ctx, repoName, s.cfg.HubPrivateRepo); ensureErr != nil {
		return nil, fmt.Errorf("failed to ensure hub repository %q: %w", repoName, ensureErr)
	}

	remoteURL := s.hub.CloneURL(repoName, token)

	repo, bindErr := s.binder.Bind(ctx, s.cfg.OutputDir, remoteURL)
	if bindErr != nil {
		if !errors.Is(bindErr, domain.ErrDirConflict) || !atInit || !s.cfg.OverwriteOutputDir {
			return nil, bindErr
		}

		// Try again after wiping the output directory.
		logger.Warnf(
			"Binding %q to %q failed (%v); wiping the output directory and retrying",
			s.cfg.OutputDir, repoName, bindErr,
		)
		if rmErr := os.RemoveAll(s.cfg.OutputDir); rmErr != nil {
			return nil, fmt.Errorf("failed to wipe output directory: %w", rmErr)
		}
		repo, bindErr = s.binder.Bind(ctx, s.cfg.OutputDir, remoteURL)
		if bindErr != nil {
			return nil, bindErr
		}
	}

	if pullErr := repo.Pull(ctx); pullErr != nil {
		return nil, fmt.Errorf("failed to pull %q: %w", repoName, pullErr)
	}

	if gitignoreErr := s.seedGitignore(); gitignoreErr != nil {
		return nil, gitignoreErr
	}

	return repo, nil
}

// Push serializes the pipeline into the output directory and pushes the
// result to the hub, followed by a regenerated model card as a second,
// independent commit.
//
// The pipeline is saved on every participant so checkpoint files stay
// consistent across local disks; everything after that happens only on the
// main process, which returns the commit URL of the checkpoint push (plus a
// job handle when non-blocking). A failed model card push is logged and
// reported through PushOutcome.CardPushErr but never fails the operation.
func (s *HubService) Push(
	ctx context.Context,
	pipeline domain.Pipeline,
	repo domain.CheckpointRepo,
	commitMessage string,
	blocking bool,
) (*domain.PushOutcome, error) {
	if commitMessage == "" {
		commitMessage = DefaultCommitMessage
	}
	modelName := s.ModelName()

	if mkdirErr := os.MkdirAll(s.cfg.OutputDir, outputDirMode); mkdirErr != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", mkdirErr)
	}
	logger.Infof("Saving pipeline checkpoint to %s", s.cfg.OutputDir)
	if saveErr := pipeline.Save(s.cfg.OutputDir); saveErr != nil {
		return nil, fmt.Errorf("failed to save pipeline: %w", saveErr)
	}

	// Only push from one node.
	if !domain.IsMainProcess(s.cfg.LocalRank) {
		return nil, nil //nolint:nilnil // non-main ranks are deliberate no-ops
	}

	// A blocking push must not interleave with a stale async one; the
	// commits will all be pushed together.
	if blocking && repo.CancelPendingPush() {
		logger.Debug("Cancelled an in-flight async push")
	}

	commitURL, job, pushErr := repo.Push(ctx, domain.PushOptions{
		CommitMessage: commitMessage,
		Blocking:      blocking,
		AutoLFSPrune:  true,
	})
	if pushErr != nil {
		return nil, pushErr
	}

	outcome := &domain.PushOutcome{CommitURL: commitURL, Job: job}

	// Push the model card separately to be independent from the rest of
	// the model.
	if cardErr := s.pushModelCard(ctx, repo, modelName, blocking); cardErr != nil {
		logger.Errorf("Error pushing update to the model card. Please read logs and retry.\n%v", cardErr)
		outcome.CardPushErr = cardErr
	}

	return outcome, nil
}

// CreateModelCard writes the model card into the output directory. When
// modelName is empty the configured model name is used. No-op on non-main
// ranks.
func (s *HubService) CreateModelCard(modelName string) error {
	if !domain.IsMainProcess(s.cfg.LocalRank) {
		return nil
	}
	if modelName == "" {
		modelName = s.ModelName()
	}
	return WriteModelCard(s.cfg.OutputDir, modelName)
}

// ModelName derives the model name from the configured hub model id, or
// from the output directory when no id is configured.
func (s *HubService) ModelName() string {
	if s.cfg.HubModelID == "" {
		return filepath.Base(s.cfg.OutputDir)
	}
	parts := strings.Split(s.cfg.HubModelID, "/")
	return parts[len(parts)-1]
}

// repoName determines the fully-qualified hub repository name for this run.
func (s *HubService) repoName(ctx context.Context) (string, error) {
	repoName := s.cfg.HubModelID
	if repoName == "" {
		abs, err := filepath.Abs(s.cfg.OutputDir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve output directory: %w", err)
		}
		repoName = filepath.Base(abs)
	}

	if !strings.Contains(repoName, "/") {
		return s.FullRepoName(ctx, repoName, "", s.cfg.HubToken)
	}
	return repoName, nil
}

// seedGitignore writes the checkpoint ignore pattern unless a .gitignore
// already exists or the run keeps all checkpoints.
func (s *HubService) seedGitignore() error {
	if domain.CheckpointStrategy(s.cfg.HubStrategy) == domain.StrategyAllCheckpoints {
		return nil
	}

	path := filepath.Join(s.cfg.OutputDir, gitignoreFilename)
	if _, statErr := os.Stat(path); statErr == nil {
		return nil
	}

	if writeErr := os.WriteFile(path, []byte(checkpointIgnorePattern), gitignoreFileMode); writeErr != nil {
		return fmt.Errorf("failed to write %s: %w", gitignoreFilename, writeErr)
	}
	return nil
}

// pushModelCard regenerates the model card and pushes it as its own commit.
func (s *HubService) pushModelCard(
	ctx context.Context,
	repo domain.CheckpointRepo,
	modelName string,
	blocking bool,
) error {
	if writeErr := WriteModelCard(s.cfg.OutputDir, modelName); writeErr != nil {
		return writeErr
	}

	_, _, pushErr := repo.Push(ctx, domain.PushOptions{
		CommitMessage: modelCardCommitMessage,
		Blocking:      blocking,
		AutoLFSPrune:  true,
	})
	return pushErr
}
