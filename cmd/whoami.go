package cmd

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the hub identity behind the configured token",
	RunE:  runWhoami,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(_ *cobra.Command, _ []string) error {
	hub, cfg, err := injectHub()
	if err != nil {
		return err
	}

	identity, err := hub.Whoami(context.Background(), cfg.HubToken)
	if err != nil {
		return err
	}

	if identity.Fullname != "" {
		logger.Infof("Logged in to %s as %s (%s)", hub.Name(), identity.Name, identity.Fullname)
	} else {
		logger.Infof("Logged in to %s as %s", hub.Name(), identity.Name)
	}
	return nil
}
