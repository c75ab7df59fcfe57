package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/skaffolder/pkg/logging"
)

// NewLogger creates a configured logger based on the application configuration.
func NewLogger(config *Config) zerolog.Logger {
	return logging.NewLoggerFromConfig(loggerConfig(config))
}

// loggerConfig layers the application configuration over the LOG_*
// environment. Log level precedence (highest to lowest):
//  1. --log-level flag (explicit always wins)
//  2. -v/--verbose flag (shortcut for debug)
//  3. -q/--quiet flag (shortcut for warn)
//  4. LOG_LEVEL environment variable
//  5. Default (info)
func loggerConfig(config *Config) *logging.Config {
	cfg := logging.ConfigFromEnv()
	cfg.Level = determineLogLevel(config, cfg.Level)
	if config.LogFormat != "" {
		cfg.Format = config.LogFormat
	}
	if config.LogOutput != "" {
		cfg.Output = config.LogOutput
	}
	cfg.NoColor = cfg.NoColor || config.NoColor
	cfg.AddCaller = cfg.AddCaller || cfg.Level == "debug" || cfg.Level == "trace"
	return cfg
}

// determineLogLevel determines the log level using clear precedence rules.
func determineLogLevel(config *Config, envLevel string) string {
	// 1. Explicit --log-level always wins
	if config.LogLevel != "" {
		validated := validateLogLevel(config.LogLevel)
		if validated != config.LogLevel {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", config.LogLevel, validated)
		}
		return validated
	}

	// 2. Check for conflicting boolean flags
	if config.Verbose && config.Quiet {
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}

	// 3. Boolean shortcuts
	if config.Verbose {
		return "debug"
	}
	if config.Quiet {
		return "warn"
	}

	// 4. Environment variable, or the default
	return validateLogLevel(envLevel)
}

// validateLogLevel validates a log level string and returns a valid level.
// If the input is invalid, returns "info" as a safe default.
func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	}
	return "info"
}
