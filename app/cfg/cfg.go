package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./tlean.db" description:"Path to the sqlite database file"`

	// Application configuration
	ConfigFile        string  `long:"config-file" env:"CONFIG_FILE" default:"./tlean.yml" description:"Path to the sources configuration file"`
	Port              string  `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int     `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for source refreshes"`
	SchedulerInterval int     `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Refresh scheduler interval in seconds"`
	APIAccessKey      string  `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	ResultLimit       int     `long:"result-limit" env:"RESULT_LIMIT" default:"25" description:"Default number of candidates returned by the API"`
	MinScore          float64 `long:"min-score" env:"MIN_SCORE" default:"0" description:"Default minimum score for returned candidates"`

	// LLM enrichment (optional)
	LLMEndpoint string `long:"llm-endpoint" env:"LLM_ENDPOINT" description:"OpenAI-compatible chat completions URL (optional)"`
	LLMModel    string `long:"llm-model" env:"LLM_MODEL" default:"gpt-4o-mini" description:"Model name for summary enrichment"`
	LLMAPIKey   string `long:"llm-api-key" env:"LLM_API_KEY" description:"API key for the LLM endpoint"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"tlean/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		ConfigFile:        raw.ConfigFile,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		ResultLimit:       raw.ResultLimit,
		MinScore:          raw.MinScore,
		LLMEndpoint:       raw.LLMEndpoint,
		LLMModel:          raw.LLMModel,
		LLMAPIKey:         raw.LLMAPIKey,
		UserAgent:         raw.UserAgent,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
