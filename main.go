package main

import (
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/miniDevOn/hubsync/cmd"
)

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	if err := cmd.Execute(); err != nil {
		logger.Fatalf("Error executing 'hubsync': %s", err)
	}
}
