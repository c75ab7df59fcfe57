// Package logging provides structured logging for skaffolder using zerolog.
//
// Commands attach a logger to their context; the client, the loader and the
// merge engine read it back with FromContext and enrich it with the
// resource, operation and api version being processed. Console output is
// used on terminals, JSON everywhere else.
//
//	ctx := logging.WithLogger(context.Background(), &logger)
//	ctx = logging.WithResource(ctx, "BackendService")
//	logging.FromContext(ctx).Warn().Str("path", "localityLbPolicies").Msg("field removed")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is used when a context carries no logger.
var defaultLogger zerolog.Logger

func init() {
	defaultLogger = NewLoggerFromConfig(ConfigFromEnv())
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger // Also update zerolog's global logger
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
