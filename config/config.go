package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/miniDevOn/hubsync/domain"
)

// Config is the run configuration for hubsync. It mirrors the hub-related
// settings of a training run: where checkpoints land on disk, which hub
// repository they are pushed to and how.
type Config struct {
	// OutputDir is the local checkpoint directory; it doubles as the git
	// working copy bound to the hub repository.
	OutputDir string `yaml:"output_dir"`

	// HubModelID is the target repository, either "name" or "owner/name".
	// When empty, the base name of OutputDir is used.
	HubModelID string `yaml:"hub_model_id"`

	// HubToken is the hub credential. Inline, ${ENV_VAR}, or a file path.
	// When empty, the hub's locally cached credential is used.
	HubToken string `yaml:"hub_token"`

	// HubPrivateRepo requests a private repository when it gets created.
	HubPrivateRepo bool `yaml:"hub_private_repo"`

	// HubStrategy selects which checkpoints are committed
	// ("every_save", "all_checkpoints", "end").
	HubStrategy string `yaml:"hub_strategy"`

	// OverwriteOutputDir permits wiping OutputDir when binding it to the
	// hub repository fails at initialization time.
	OverwriteOutputDir bool `yaml:"overwrite_output_dir"`

	// LocalRank is the distributed rank of this process; -1 means the run
	// is not distributed. Only ranks -1 and 0 touch the hub.
	LocalRank int `yaml:"local_rank"`

	// Provider selects the hub backend ("huggingface", "github").
	Provider string `yaml:"provider"`

	// Endpoint overrides the hub API endpoint (e.g. a private hub mirror).
	Endpoint string `yaml:"endpoint"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding environment variables
// in the token and resolving token file paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := Config{
		LocalRank:   domain.NonDistributedRank,
		HubStrategy: string(domain.StrategyEverySave),
		Provider:    "huggingface",
	}
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	cfg.HubToken = resolveToken(cfg.HubToken)

	if validateErr := validate(&cfg); validateErr != nil {
		return nil, validateErr
	}

	return &cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".hubsync.yaml",
		".hubsync.yml",
		"hubsync.yaml",
		"hubsync.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks for required configuration values.
func validate(cfg *Config) error {
	if cfg.OutputDir == "" {
		return errors.New("output_dir is required")
	}

	switch domain.CheckpointStrategy(cfg.HubStrategy) {
	case domain.StrategyEverySave, domain.StrategyAllCheckpoints, domain.StrategyEndOfTraining:
	default:
		return fmt.Errorf(
			"hub_strategy %q is invalid (expected one of: every_save, all_checkpoints, end)",
			cfg.HubStrategy,
		)
	}

	return nil
}
