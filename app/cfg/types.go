package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	ConfigFile        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string
	ResultLimit       int
	MinScore          float64

	// LLM enrichment
	LLMEndpoint string
	LLMModel    string
	LLMAPIKey   string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
