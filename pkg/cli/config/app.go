package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/nem0/pkg/domain/model/config"
	"github.com/urfave/cli/v3"
)

// AppConfig is the optional TOML file tuning the assistant
type AppConfig struct {
	Assistant AssistantSection `toml:"assistant"`
}

// AssistantSection is the [assistant] table. Omitted keys keep their defaults.
type AssistantSection struct {
	Name                      string `toml:"name"`
	ChatMemoryLimit           int    `toml:"chat_memory_limit"`
	RecommendationQuery       string `toml:"recommendation_query"`
	RecommendationMemoryLimit int    `toml:"recommendation_memory_limit"`
	OnboardingQuery           string `toml:"onboarding_query"`
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if a.Assistant.ChatMemoryLimit < 0 {
		return goerr.New("chat_memory_limit must not be negative",
			goerr.V("value", a.Assistant.ChatMemoryLimit))
	}
	if a.Assistant.RecommendationMemoryLimit < 0 {
		return goerr.New("recommendation_memory_limit must not be negative",
			goerr.V("value", a.Assistant.RecommendationMemoryLimit))
	}
	return nil
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", path))
	}

	return &config, nil
}

// ToAssistantConfig overlays the file onto the default assistant configuration
func (a *AppConfig) ToAssistantConfig() *domainConfig.AssistantConfig {
	cfg := domainConfig.DefaultAssistantConfig()
	s := a.Assistant

	if s.Name != "" {
		cfg.Name = s.Name
	}
	if s.ChatMemoryLimit > 0 {
		cfg.ChatMemoryLimit = s.ChatMemoryLimit
	}
	if s.RecommendationQuery != "" {
		cfg.RecommendationQuery = s.RecommendationQuery
	}
	if s.RecommendationMemoryLimit > 0 {
		cfg.RecommendationMemoryLimit = s.RecommendationMemoryLimit
	}
	if s.OnboardingQuery != "" {
		cfg.OnboardingQuery = s.OnboardingQuery
	}
	return cfg
}

// App holds the CLI flag pointing at the TOML file
type App struct {
	path string
}

// Flags returns CLI flags for the application configuration file
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML file tuning the assistant",
			Sources:     cli.EnvVars("NEM0_CONFIG"),
			Destination: &a.path,
		},
	}
}

func (a App) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", a.path))
}

// Configure returns the assistant configuration, falling back to the defaults when no file is given
func (a *App) Configure() (*domainConfig.AssistantConfig, error) {
	if a.path == "" {
		return domainConfig.DefaultAssistantConfig(), nil
	}

	cfg, err := LoadAppConfiguration(a.path)
	if err != nil {
		return nil, err
	}
	return cfg.ToAssistantConfig(), nil
}
