package app

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/agentstation/skaffolder/internal/cmd/application"
	"github.com/agentstation/skaffolder/internal/testhelper"
	"github.com/agentstation/skaffolder/pkg/constants"
	"github.com/agentstation/skaffolder/pkg/definition"
)

type testStreams struct {
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestApp(t *testing.T, config *Config) (*App, testStreams) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "")

	s := testStreams{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	logger := zerolog.Nop()
	app, err := New("1.2.3", "abc123", "2026-01-01", "test",
		WithConfig(config),
		WithLogger(&logger),
		WithIOStreams(application.IOStreams{In: strings.NewReader(""), Out: s.out, ErrOut: s.errOut}),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return app, s
}

func testConfig(discoveryURL string) *Config {
	return &Config{
		DiscoveryURL: discoveryURL,
		HTTPTimeout:  constants.DefaultHTTPTimeout,
		CacheTTL:     constants.CacheTTL,
		Concurrency:  2,
		LogLevel:     "error",
		LogFormat:    "json",
		LogOutput:    "stderr",
	}
}

func TestExecuteVersion(t *testing.T) {
	app, s := newTestApp(t, testConfig(constants.DiscoveryURL))

	if err := app.Execute(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	out := s.out.String()
	for _, want := range []string{"skaffolder version 1.2.3", "commit: abc123", "built by: test", runtime.Version()} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}

func TestExecuteRejectsUnknownFormat(t *testing.T) {
	app, _ := newTestApp(t, testConfig(constants.DiscoveryURL))

	err := app.Execute(context.Background(), []string{"version", "--format", "xml"})
	if err == nil {
		t.Fatal("Execute() with an unknown format should fail")
	}
}

func TestExecuteGenerate(t *testing.T) {
	srv := testhelper.NewDiscoveryServer(t)
	dir := testhelper.ProductDir(t)
	app, s := newTestApp(t, testConfig(srv.DirectoryURL()))

	args := []string{"generate", "-p", dir, "-o", "json", "-y", "backendServices"}
	if err := app.Execute(context.Background(), args); err != nil {
		t.Fatalf("Execute() failed: %v\n%s", err, s.errOut.String())
	}

	var entries []map[string]any
	if err := json.Unmarshal(s.out.Bytes(), &entries); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, s.out.String())
	}
	if len(entries) != 1 || entries[0]["resource"] != "BackendService" {
		t.Errorf("unexpected report: %s", s.out.String())
	}

	path := filepath.Join(dir, "BackendService.yaml")
	if !strings.Contains(s.errOut.String(), path) {
		t.Errorf("status line missing %s:\n%s", path, s.errOut.String())
	}
	if _, err := definition.Read(path); err != nil {
		t.Errorf("definition not written: %v", err)
	}
}

func TestClientUsesConfig(t *testing.T) {
	config := testConfig(constants.DiscoveryURL)
	config.Pins = []string{"*.labels"}
	app, _ := newTestApp(t, config)

	if got := len(app.clientOptions()); got != 6 {
		t.Errorf("clientOptions() = %d options, want 6", got)
	}
	if _, err := app.Client(); err != nil {
		t.Errorf("Client() failed: %v", err)
	}
	if app.OutputFormat() == "" {
		t.Error("OutputFormat() is empty")
	}
}
