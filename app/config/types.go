package config

// Config is the data-driven part of the service configuration, loaded
// from a YAML file: bot identity patterns, extractor tuning, and the
// connection settings of each work item source.
type Config struct {
	Bots      BotConfig       `yaml:"bots"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Sources   SourcesConfig   `yaml:"sources"`
}

// BotConfig lists identity patterns classified as automated accounts.
// Matching is a case-sensitive substring check, so a generic marker
// such as "[bot]" covers whole account families.
type BotConfig struct {
	Patterns []string `yaml:"patterns"`
}

// ExtractorConfig tunes action item extraction.
type ExtractorConfig struct {
	AggregateThreshold int `yaml:"aggregate_threshold"`
}

// SourcesConfig holds one section per supported source.
type SourcesConfig struct {
	GitHub GitHubSource `yaml:"github"`
	Jira   JiraSource   `yaml:"jira"`
	Slack  SlackSource  `yaml:"slack"`
}

type GitHubSource struct {
	Enabled bool   `yaml:"enabled"`
	APIURL  string `yaml:"api_url"`
	Token   string `yaml:"token"`
	User    string `yaml:"user"`
}

type JiraSource struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Email   string `yaml:"email"`
	Token   string `yaml:"token"`
	JQL     string `yaml:"jql"`
}

type SlackSource struct {
	Enabled bool   `yaml:"enabled"`
	APIURL  string `yaml:"api_url"`
	Token   string `yaml:"token"`
	UserID  string `yaml:"user_id"`
}
