package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// LoaderOptions describes how configuration should be discovered.
type LoaderOptions struct {
	ConfigPaths []string
	FileName    string
	EnvPrefix   string
}

// Load returns the merged configuration from files and environment
// variables. Missing config files are fine; the defaults plus
// environment are enough for a CI run.
func Load(opts LoaderOptions) (Config, error) {
	v := viper.New()

	name := opts.FileName
	if name == "" {
		name = "reviewbot"
	}

	configFile := locateConfigFile(name, opts.ConfigPaths)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(name)
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = "REVIEWBOT"
	}
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)

	setDefaults(v)

	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return expandEnvVars(cfg), nil
}

// expandEnvVars expands ${VAR} and $VAR syntax in configuration values.
func expandEnvVars(cfg Config) Config {
	cfg.GitHub.Token = expandEnvString(cfg.GitHub.Token)
	cfg.GitHub.BaseURL = expandEnvString(cfg.GitHub.BaseURL)

	cfg.Gemini.APIKey = expandEnvString(cfg.Gemini.APIKey)
	cfg.Gemini.Model = expandEnvString(cfg.Gemini.Model)
	if cfg.Gemini.Timeout != nil {
		timeout := expandEnvString(*cfg.Gemini.Timeout)
		cfg.Gemini.Timeout = &timeout
	}
	if cfg.Gemini.InitialBackoff != nil {
		backoff := expandEnvString(*cfg.Gemini.InitialBackoff)
		cfg.Gemini.InitialBackoff = &backoff
	}
	if cfg.Gemini.MaxBackoff != nil {
		backoff := expandEnvString(*cfg.Gemini.MaxBackoff)
		cfg.Gemini.MaxBackoff = &backoff
	}

	cfg.Review.Exclude = expandEnvStringSlice(cfg.Review.Exclude)
	cfg.Review.Instructions = expandEnvString(cfg.Review.Instructions)

	cfg.HTTP.Timeout = expandEnvString(cfg.HTTP.Timeout)
	cfg.HTTP.InitialBackoff = expandEnvString(cfg.HTTP.InitialBackoff)
	cfg.HTTP.MaxBackoff = expandEnvString(cfg.HTTP.MaxBackoff)

	cfg.Store.Path = expandEnvString(cfg.Store.Path)

	cfg.Logging.Level = expandEnvString(cfg.Logging.Level)
	cfg.Logging.Format = expandEnvString(cfg.Logging.Format)

	return cfg
}

// expandEnvString replaces ${VAR} or $VAR with environment variable values.
func expandEnvString(s string) string {
	if s == "" {
		return s
	}

	re := regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})

	re = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[1:]); val != "" {
			return val
		}
		return match
	})

	return s
}

// expandEnvStringSlice expands environment variables in a slice of strings.
func expandEnvStringSlice(slice []string) []string {
	if len(slice) == 0 {
		return slice
	}
	result := make([]string, len(slice))
	for i, s := range slice {
		result[i] = expandEnvString(s)
	}
	return result
}

func locateConfigFile(name string, paths []string) string {
	searchPaths := append([]string{}, paths...)
	searchPaths = append(searchPaths, ".")
	for _, dir := range searchPaths {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name+".yaml")
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	// GitHub defaults: token comes from the Actions environment unless
	// the config overrides it.
	v.SetDefault("github.token", "${GITHUB_TOKEN}")
	v.SetDefault("github.baseURL", "https://api.github.com")

	// Gemini defaults
	v.SetDefault("gemini.apiKey", "${GEMINI_API_KEY}")
	v.SetDefault("gemini.model", "gemini-2.0-flash-001")

	// Review defaults
	v.SetDefault("review.batchSize", 10)
	v.SetDefault("review.workers", 4)

	// HTTP defaults
	v.SetDefault("http.timeout", "60s")
	v.SetDefault("http.maxRetries", 3)
	v.SetDefault("http.initialBackoff", "2s")
	v.SetDefault("http.maxBackoff", "32s")
	v.SetDefault("http.backoffMultiplier", 2.0)

	// Store defaults
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", ".reviewbot/history.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "auto")
	v.SetDefault("logging.redactAPIKeys", true)
}
