// Package app provides the application context and dependency management
// for the skaffolder CLI. It centralizes configuration, logging and the
// construction of clients so commands receive their dependencies instead
// of reading globals.
package app

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/skaffolder"
	"github.com/agentstation/skaffolder/internal/cmd/application"
	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/pins"
	"github.com/agentstation/skaffolder/pkg/report"
)

// Compile-time interface check.
var _ application.Application = (*App)(nil)

// App represents the skaffolder application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Standard streams
	streams application.IOStreams
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the environment and
// the default config file locations; options customize it further.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		streams: application.System(),
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.NewConfigError("app", "loading configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// IOStreams returns the streams commands read from and write to.
func (a *App) IOStreams() application.IOStreams {
	return a.streams
}

// Verbose reports whether unchanged fields are reported too.
func (a *App) Verbose() bool {
	return a.config.Verbose
}

// OutputFormat returns the configured report format, detecting one from
// the terminal when none is configured.
func (a *App) OutputFormat() string {
	if a.config.Format != "" {
		return a.config.Format
	}
	return string(report.DetectFormat("", os.Stdout))
}

// Client creates a skaffolder client from the configuration. opts are
// applied after the configured options and take precedence.
func (a *App) Client(opts ...skaffolder.Option) (skaffolder.Client, error) {
	client, err := skaffolder.New(append(a.clientOptions(), opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", err)
	}
	return client, nil
}

// clientOptions constructs client options from the app configuration.
func (a *App) clientOptions() []skaffolder.Option {
	opts := []skaffolder.Option{
		skaffolder.WithDiscoveryURL(a.config.DiscoveryURL),
		skaffolder.WithHTTPTimeout(a.config.HTTPTimeout),
		skaffolder.WithCacheTTL(a.config.CacheTTL),
		skaffolder.WithConcurrency(a.config.Concurrency),
		skaffolder.WithProvenance(a.config.Provenance),
	}
	if a.config.APIKey != "" {
		opts = append(opts, skaffolder.WithAPIKey(a.config.APIKey))
	}
	if len(a.config.Pins) > 0 {
		opts = append(opts, skaffolder.WithPins(pins.Parse(a.config.Pins...)))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithIOStreams replaces the standard streams (useful for testing).
func WithIOStreams(streams application.IOStreams) Option {
	return func(a *App) error {
		a.streams = streams
		return nil
	}
}
