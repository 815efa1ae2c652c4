package cmd

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"github.com/miniDevOn/hubsync/application"
	"github.com/miniDevOn/hubsync/config"
	"github.com/miniDevOn/hubsync/domain"
	"github.com/miniDevOn/hubsync/infrastructure/gitrepo"
	hubPkg "github.com/miniDevOn/hubsync/infrastructure/hub"
	ghHub "github.com/miniDevOn/hubsync/infrastructure/hub/github"
	hfHub "github.com/miniDevOn/hubsync/infrastructure/hub/huggingface"
)

// buildContainer wires configuration, hub registry, binder and service into
// a DIG container (bottom-up: config -> registry -> hub -> service).
func buildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []interface{}{
		loadConfig,
		buildHubRegistry,
		selectHub,
		func() domain.RepoBinder { return gitrepo.NewBinder() },
		application.NewHubService,
	}
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, fmt.Errorf("failed to build container: %w", err)
		}
	}

	return container, nil
}

// injectService resolves the fully wired HubService.
func injectService() (*application.HubService, error) {
	container, err := buildContainer()
	if err != nil {
		return nil, err
	}

	var service *application.HubService
	if invokeErr := container.Invoke(func(s *application.HubService) {
		service = s
	}); invokeErr != nil {
		return nil, invokeErr
	}
	return service, nil
}

// injectHub resolves the configured hub backend together with the config.
func injectHub() (domain.Hub, *config.Config, error) {
	container, err := buildContainer()
	if err != nil {
		return nil, nil, err
	}

	var (
		hub domain.Hub
		cfg *config.Config
	)
	if invokeErr := container.Invoke(func(h domain.Hub, c *config.Config) {
		hub = h
		cfg = c
	}); invokeErr != nil {
		return nil, nil, invokeErr
	}
	return hub, cfg, nil
}

func loadConfig() (*config.Config, error) {
	cfgPath := configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.FindConfigFile()
		if err != nil {
			return nil, fmt.Errorf(
				"no config file found: %w\nSpecify one with --config or create hubsync.yaml",
				err,
			)
		}
	}

	logger.Infof("Using config file: %s", cfgPath)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if tokenOverride != "" {
		cfg.HubToken = tokenOverride
	}
	return cfg, nil
}

func buildHubRegistry() *hubPkg.Registry {
	reg := hubPkg.NewRegistry()
	reg.Register("huggingface", hfHub.New)
	reg.Register("github", ghHub.New)
	return reg
}

func selectHub(cfg *config.Config, reg *hubPkg.Registry) (domain.Hub, error) {
	return reg.Get(cfg.Provider, cfg.HubToken, cfg.Endpoint)
}
