// Package application defines the dependencies commands receive from the
// CLI application.
package application

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/skaffolder"
)

// Application is implemented by the App of cmd/skaffolder. Commands accept
// this interface rather than the concrete App so they can be tested with
// a Mock.
type Application interface {
	// Client creates a skaffolder client from the configuration, extended
	// with opts.
	Client(opts ...skaffolder.Option) (skaffolder.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the report format (text, table, markdown, json, yaml).
	OutputFormat() string

	// Verbose reports whether unchanged fields are reported too.
	Verbose() bool

	// IOStreams returns the streams commands read from and write to.
	IOStreams() IOStreams

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// IOStreams are the standard streams of a command.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	// Interactive is set when In is a terminal a person can answer prompts on.
	Interactive bool
}

// System returns the process streams.
func System() IOStreams {
	return IOStreams{
		In:          os.Stdin,
		Out:         os.Stdout,
		ErrOut:      os.Stderr,
		Interactive: isTerminal(os.Stdin),
	}
}
