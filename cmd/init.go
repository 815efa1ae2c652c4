package cmd

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bind the output directory to the hub repository",
	Long: `Ensure the hub repository exists, clone it into the configured output
directory (or attach existing git state), pull the latest remote state and
seed a .gitignore that keeps intermediate checkpoint directories out of the
repository.

With overwrite_output_dir enabled, a conflicting output directory is wiped
and the clone is retried once.`,
	RunE: runInit,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	service, err := injectService()
	if err != nil {
		return err
	}

	repo, err := service.InitRepo(context.Background(), true)
	if err != nil {
		return err
	}
	if repo == nil {
		logger.Info("Not the main process, nothing to do")
		return nil
	}

	logger.Infof("Initialized hub repository in %s", repo.Dir())
	return nil
}
