package cmd

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/miniDevOn/hubsync/application"
	"github.com/miniDevOn/hubsync/infrastructure/pipeline"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	commitMessage string
	fromDir       string
	asyncPush     bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push the current checkpoint and model card to the hub",
	Long: `Copy a checkpoint tree into the output directory (when --from points
somewhere else), commit and push it to the hub repository, then regenerate
the model card and push it as a second, independent commit.

A failed model card push is logged but does not fail the command; a failed
checkpoint push does.`,
	RunE: runPush,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	pushCmd.Flags().StringVarP(&commitMessage, "message", "m",
		application.DefaultCommitMessage, "Commit message for the checkpoint push")
	pushCmd.Flags().StringVar(&fromDir, "from", "",
		"Checkpoint directory to copy into the output directory (default: output directory itself)")
	pushCmd.Flags().BoolVar(&asyncPush, "async", false,
		"Return as soon as the commit is created and push in the background")
	rootCmd.AddCommand(pushCmd)
}

func runPush(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	service, err := injectService()
	if err != nil {
		return err
	}

	repo, err := service.InitRepo(ctx, false)
	if err != nil {
		return err
	}
	if repo == nil {
		logger.Info("Not the main process, nothing to do")
		return nil
	}

	src := fromDir
	if src == "" {
		src = repo.Dir()
	}

	outcome, err := service.Push(
		ctx,
		pipeline.NewDirectorySnapshot(src),
		repo,
		commitMessage,
		!asyncPush,
	)
	if err != nil {
		return err
	}

	logger.Infof("Pushed checkpoint: %s", outcome.CommitURL)
	if outcome.CardPushErr != nil {
		logger.Warnf("Model card push did not complete: %v", outcome.CardPushErr)
	}

	// The process owns the background push; wait for it before exiting.
	if outcome.Job != nil {
		logger.Info("Waiting for the background push to finish...")
		<-outcome.Job.Done()
		if jobErr := outcome.Job.Err(); jobErr != nil {
			return jobErr
		}
	}

	return nil
}
