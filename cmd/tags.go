package cmd

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the hub repository tags, newest versions first",
	RunE:  runTags,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(tagsCmd)
}

func runTags(_ *cobra.Command, _ []string) error {
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

	tags, err := repo.Tags(ctx)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		logger.Info("No tags found")
		return nil
	}

	for _, tag := range tags {
		fmt.Println(tag)
	}
	return nil
}
