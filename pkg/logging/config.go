package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/skaffolder/pkg/constants"
)

// Config holds logger configuration options
type Config struct {
	// Level is the minimum log level to output
	Level string

	// Format is json, console or auto (console on a terminal)
	Format string

	// Output is stderr, stdout, discard or a file path
	Output string

	// TimeFormat for console timestamps (kitchen, rfc3339 or a layout)
	TimeFormat string

	// NoColor disables color output in console mode
	NoColor bool

	// AddCaller includes file:line in log output
	AddCaller bool

	// Fields are added to every entry
	Fields map[string]string
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

// ConfigFromEnv returns DefaultConfig overridden by LOG_LEVEL, LOG_FORMAT,
// LOG_OUTPUT, LOG_TIME_FORMAT, LOG_CALLER and LOG_FIELDS
// (comma-separated key=value pairs).
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.Level = getEnvOrDefault("LOG_LEVEL", cfg.Level)
	cfg.Format = getEnvOrDefault("LOG_FORMAT", cfg.Format)
	cfg.Output = getEnvOrDefault("LOG_OUTPUT", cfg.Output)
	cfg.TimeFormat = getEnvOrDefault("LOG_TIME_FORMAT", cfg.TimeFormat)
	cfg.AddCaller = os.Getenv("LOG_CALLER") == "true"
	cfg.Fields = parseFields(os.Getenv("LOG_FIELDS"))
	return cfg
}

// NewLoggerFromConfig creates a new logger from configuration. It also
// sets the zerolog global level.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	logCtx := zerolog.New(getWriter(cfg)).
		Level(level).
		With().
		Timestamp()

	// Add caller if requested or in debug mode
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logCtx = logCtx.Caller()
	}
	for k, v := range cfg.Fields {
		logCtx = logCtx.Str(k, v)
	}

	return logCtx.Logger()
}

// Configure builds a logger from cfg, installs it as the default and
// returns it.
func Configure(cfg *Config) zerolog.Logger {
	logger := NewLoggerFromConfig(cfg)
	SetDefault(logger)
	return logger
}

// getWriter creates the appropriate writer based on configuration
func getWriter(cfg *Config) io.Writer {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	case "discard", "none":
		output = io.Discard
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			// Fall back to stderr
			output = os.Stderr
		} else {
			output = file
		}
	}

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if f, ok := output.(*os.File); ok && isTerminal(f) {
			format = "console"
		}
	}

	if format == "console" || format == "pretty" {
		return zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: parseTimeFormat(cfg.TimeFormat),
			NoColor:    cfg.NoColor,
		}
	}
	return output
}

// parseLevel parses a log level string, defaulting to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}

// parseTimeFormat parses time format configuration
func parseTimeFormat(format string) string {
	switch strings.ToLower(format) {
	case "", "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "unix", "epoch":
		return "" // Empty string means Unix timestamp
	}
	if strings.Contains(format, "2006") || strings.Contains(format, "15:04") {
		return format
	}
	return time.Kitchen
}

// parseFields parses comma-separated key=value pairs
func parseFields(fields string) map[string]string {
	if fields == "" {
		return nil
	}
	result := make(map[string]string)
	for _, field := range strings.Split(fields, ",") {
		if key, value, ok := strings.Cut(field, "="); ok {
			result[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	return result
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
