package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/skaffolder/pkg/constants"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	// Config file
	ConfigFile string

	// Discovery configuration
	DiscoveryURL string
	APIKey       string
	HTTPTimeout  time.Duration
	CacheTTL     time.Duration

	// Merge configuration
	Concurrency int
	Pins        []string
	Provenance  bool

	// Logging configuration
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (SKAFFOLDER_ prefix, plus GOOGLE_API_KEY)
// 3. .env files
// 4. Config file (~/.skaffolder.yaml or ./.skaffolder.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v.SetEnvPrefix("skaffolder")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	_ = v.BindEnv("api_key", "SKAFFOLDER_API_KEY", "GOOGLE_API_KEY")

	v.SetDefault("discovery_url", constants.DiscoveryURL)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("cache_ttl", constants.CacheTTL)
	v.SetDefault("concurrency", constants.MaxConcurrentResources)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		// Search for config in standard locations
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".skaffolder")

		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		DiscoveryURL: v.GetString("discovery_url"),
		APIKey:       v.GetString("api_key"),
		HTTPTimeout:  v.GetDuration("http_timeout"),
		CacheTTL:     v.GetDuration("cache_ttl"),

		Concurrency: v.GetInt("concurrency"),
		Pins:        v.GetStringSlice("pins"),
		Provenance:  v.GetBool("provenance"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
