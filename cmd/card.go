package cmd

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var cardModelName string

//nolint:gochecknoglobals // required by cobra CLI pattern
var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Regenerate the model card in the output directory",
	Long: `Write the auto-generated model card (YAML front-matter, disclaimer and
title) to README.md in the output directory, overwriting any existing one.`,
	RunE: runCard,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	cardCmd.Flags().StringVar(&cardModelName, "name", "",
		"Model name for the card title (default: derived from hub_model_id or output_dir)")
	rootCmd.AddCommand(cardCmd)
}

func runCard(_ *cobra.Command, _ []string) error {
	service, err := injectService()
	if err != nil {
		return err
	}

	if cardErr := service.CreateModelCard(cardModelName); cardErr != nil {
		return cardErr
	}

	logger.Info("Model card written")
	return nil
}
