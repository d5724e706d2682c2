package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultBotPatterns catches the usual automated accounts when the
// configuration file does not provide its own list.
var defaultBotPatterns = []string{"[bot]"}

// Loader handles loading and validation of the service configuration
type Loader struct {
	path string
}

// NewLoader creates a new configuration loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the YAML configuration file, applies defaults, and
// validates it. A missing file yields a default configuration with all
// sources disabled.
func (l *Loader) Load() (*Config, error) {
	var config Config

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			l.setDefaults(&config)
			return &config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&config)

	if err := l.validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", l.path, err)
	}

	return &config, nil
}

// setDefaults applies default values to configuration
func (l *Loader) setDefaults(config *Config) {
	if len(config.Bots.Patterns) == 0 {
		config.Bots.Patterns = append([]string{}, defaultBotPatterns...)
	}
	if config.Extractor.AggregateThreshold == 0 {
		config.Extractor.AggregateThreshold = 3
	}
	if config.Sources.GitHub.APIURL == "" {
		config.Sources.GitHub.APIURL = "https://api.github.com"
	}
	if config.Sources.Slack.APIURL == "" {
		config.Sources.Slack.APIURL = "https://slack.com/api"
	}
}

// validate validates the configuration
func (l *Loader) validate(config *Config) error {
	if config.Extractor.AggregateThreshold < 0 {
		return fmt.Errorf("aggregate threshold must be non-negative")
	}

	if config.Sources.GitHub.Enabled {
		if config.Sources.GitHub.Token == "" {
			return fmt.Errorf("github source requires a token")
		}
		if config.Sources.GitHub.User == "" {
			return fmt.Errorf("github source requires a user")
		}
	}

	if config.Sources.Jira.Enabled {
		if config.Sources.Jira.BaseURL == "" {
			return fmt.Errorf("jira source requires a base URL")
		}
		if config.Sources.Jira.Token == "" {
			return fmt.Errorf("jira source requires a token")
		}
	}

	if config.Sources.Slack.Enabled {
		if config.Sources.Slack.Token == "" {
			return fmt.Errorf("slack source requires a token")
		}
		if config.Sources.Slack.UserID == "" {
			return fmt.Errorf("slack source requires a user ID")
		}
	}

	return nil
}
