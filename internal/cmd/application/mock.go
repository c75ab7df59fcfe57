package application

import (
	"bytes"

	"github.com/rs/zerolog"

	"github.com/agentstation/skaffolder"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    ClientFunc: func(opts ...skaffolder.Option) (skaffolder.Client, error) {
//	        return skaffolder.New(append(opts, skaffolder.WithDiscoveryURL(srv.URL))...)
//	    },
//	}
//	cmd := update.NewCommand(mock)
//	// ... test command
type Mock struct {
	ClientFunc       func(opts ...skaffolder.Option) (skaffolder.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VerboseValue     bool
	Streams          *IOStreams
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Compile-time interface check.
var _ Application = (*Mock)(nil)

// Client returns a client using the mock function or a default client.
func (m *Mock) Client(opts ...skaffolder.Option) (skaffolder.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(opts...)
	}
	return skaffolder.New(opts...)
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the output format using the mock function or "text".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "text"
}

// Verbose returns VerboseValue.
func (m *Mock) Verbose() bool {
	return m.VerboseValue
}

// IOStreams returns Streams, creating buffered streams on first use.
func (m *Mock) IOStreams() IOStreams {
	if m.Streams == nil {
		m.Streams = &IOStreams{
			In:     &bytes.Buffer{},
			Out:    &bytes.Buffer{},
			ErrOut: &bytes.Buffer{},
		}
	}
	return *m.Streams
}

// Version returns a version using the mock function or "test".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "test"
}

// Commit returns a commit using the mock function or "test".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "test"
}

// Date returns a date using the mock function or "test".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "test"
}

// BuiltBy returns a builder using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}
