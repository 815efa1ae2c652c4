package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/miniDevOn/hubsync/config"
	"github.com/miniDevOn/hubsync/domain"
)

// ConfigBuilder helps create test run configurations with a fluent interface.
type ConfigBuilder struct {
	*testkit.BaseBuilder
	outputDir          string
	hubModelID         string
	hubToken           string
	hubPrivateRepo     bool
	hubStrategy        string
	overwriteOutputDir bool
	localRank          int
	provider           string
}

// NewConfigBuilder creates a new config builder with sensible defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		outputDir:   "/tmp/test-output",
		hubModelID:  "",
		hubToken:    "",
		hubStrategy: string(domain.StrategyEverySave),
		localRank:   domain.NonDistributedRank,
		provider:    "huggingface",
	}
}

// WithOutputDir sets the output directory.
func (b *ConfigBuilder) WithOutputDir(dir string) *ConfigBuilder {
	b.outputDir = dir
	return b
}

// WithHubModelID sets the hub model id.
func (b *ConfigBuilder) WithHubModelID(id string) *ConfigBuilder {
	b.hubModelID = id
	return b
}

// WithHubToken sets the hub token.
func (b *ConfigBuilder) WithHubToken(token string) *ConfigBuilder {
	b.hubToken = token
	return b
}

// WithPrivateRepo requests a private hub repository.
func (b *ConfigBuilder) WithPrivateRepo(private bool) *ConfigBuilder {
	b.hubPrivateRepo = private
	return b
}

// WithHubStrategy sets the checkpoint retention strategy.
func (b *ConfigBuilder) WithHubStrategy(strategy string) *ConfigBuilder {
	b.hubStrategy = strategy
	return b
}

// WithOverwriteOutputDir permits wiping the output directory on conflicts.
func (b *ConfigBuilder) WithOverwriteOutputDir(overwrite bool) *ConfigBuilder {
	b.overwriteOutputDir = overwrite
	return b
}

// WithLocalRank sets the distributed rank.
func (b *ConfigBuilder) WithLocalRank(rank int) *ConfigBuilder {
	b.localRank = rank
	return b
}

// WithProvider sets the hub backend.
func (b *ConfigBuilder) WithProvider(provider string) *ConfigBuilder {
	b.provider = provider
	return b
}

// Build creates the config (satisfies testkit.Builder interface).
func (b *ConfigBuilder) Build() interface{} {
	return b.BuildConfig()
}

// BuildConfig creates the config with a concrete return type.
func (b *ConfigBuilder) BuildConfig() *config.Config {
	return &config.Config{
		OutputDir:          b.outputDir,
		HubModelID:         b.hubModelID,
		HubToken:           b.hubToken,
		HubPrivateRepo:     b.hubPrivateRepo,
		HubStrategy:        b.hubStrategy,
		OverwriteOutputDir: b.overwriteOutputDir,
		LocalRank:          b.localRank,
		Provider:           b.provider,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ConfigBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.outputDir = "/tmp/test-output"
	b.hubModelID = ""
	b.hubToken = ""
	b.hubPrivateRepo = false
	b.hubStrategy = string(domain.StrategyEverySave)
	b.overwriteOutputDir = false
	b.localRank = domain.NonDistributedRank
	b.provider = "huggingface"
	return b
}

// Clone creates a deep copy of the ConfigBuilder.
func (b *ConfigBuilder) Clone() testkit.Builder {
	return &ConfigBuilder{
		BaseBuilder:        b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		outputDir:          b.outputDir,
		hubModelID:         b.hubModelID,
		hubToken:           b.hubToken,
		hubPrivateRepo:     b.hubPrivateRepo,
		hubStrategy:        b.hubStrategy,
		overwriteOutputDir: b.overwriteOutputDir,
		localRank:          b.localRank,
		provider:           b.provider,
	}
}
