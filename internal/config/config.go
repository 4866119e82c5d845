package config

// Config represents the full application configuration.
type Config struct {
	GitHub  GitHubConfig  `yaml:"github"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Review  ReviewConfig  `yaml:"review"`
	HTTP    HTTPConfig    `yaml:"http"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// GitHubConfig configures the source-host client.
type GitHubConfig struct {
	// Token authenticates against the GitHub API. Defaults to
	// ${GITHUB_TOKEN} so Actions runs work without a config file.
	Token string `yaml:"token"`

	// BaseURL overrides the API endpoint (GitHub Enterprise, tests).
	BaseURL string `yaml:"baseURL"`
}

// GeminiConfig configures the reviewer model.
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`

	// HTTP overrides (optional, global HTTP config applies if unset)
	Timeout        *string `yaml:"timeout,omitempty"`
	MaxRetries     *int    `yaml:"maxRetries,omitempty"`
	InitialBackoff *string `yaml:"initialBackoff,omitempty"`
	MaxBackoff     *string `yaml:"maxBackoff,omitempty"`
}

// ReviewConfig configures the review pipeline.
type ReviewConfig struct {
	// Exclude holds glob patterns matched against each changed file's
	// post-change path; matching files are skipped entirely.
	Exclude []string `yaml:"exclude"`

	// BatchSize bounds how many comments go into one review
	// submission. Submissions are batched to respect API rate limits.
	BatchSize int `yaml:"batchSize"`

	// Workers bounds concurrent reviewer calls across hunks.
	Workers int `yaml:"workers"`

	// Instructions are appended to every reviewer prompt.
	Instructions string `yaml:"instructions"`
}

// HTTPConfig holds global HTTP client settings.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// StoreConfig configures the optional run-history store.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level         string `yaml:"level"`  // debug, info, error
	Format        string `yaml:"format"` // json, human, auto
	RedactAPIKeys bool   `yaml:"redactAPIKeys"`
}
