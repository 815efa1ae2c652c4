package cmd

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	// Global flags
	configPath    string
	tokenOverride string
	verbose       bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "hubsync",
	Short: "Push model checkpoints and model cards to a git-backed model hub",
	Long: `A CLI tool that binds a local checkpoint directory to a repository on a
model hub (Hugging Face or GitHub), pushes checkpoints during or after a
training run, and keeps an auto-generated model card alongside them.

The tool helps training scripts publish their results by:
- Resolving the fully-qualified hub repository from the run configuration
- Cloning or attaching the output directory to that repository
- Committing and pushing checkpoints, optionally in the background
- Regenerating and pushing a minimal model card with every checkpoint`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetLevel(logger.DebugLevel)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&tokenOverride, "token", "",
		"Hub auth token (overrides hub_token from the config file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")
}
