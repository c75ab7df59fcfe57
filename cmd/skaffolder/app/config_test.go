package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentstation/skaffolder/pkg/constants"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config == nil {
		t.Fatal("LoadConfig() returned nil config")
	}

	if config.DiscoveryURL != constants.DiscoveryURL {
		t.Errorf("DiscoveryURL = %q, want %q", config.DiscoveryURL, constants.DiscoveryURL)
	}
	if config.Concurrency != constants.MaxConcurrentResources {
		t.Errorf("Concurrency = %d, want %d", config.Concurrency, constants.MaxConcurrentResources)
	}
}

// TestConfig_EnvironmentVariables verifies environment variable loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("SKAFFOLDER_VERBOSE", "true")
	t.Setenv("SKAFFOLDER_FORMAT", "json")
	t.Setenv("SKAFFOLDER_HTTP_TIMEOUT", "5s")
	t.Setenv("SKAFFOLDER_CACHE_TTL", "1h")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if !config.Verbose {
		t.Error("SKAFFOLDER_VERBOSE environment variable not loaded")
	}
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if config.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v, want 5s", config.HTTPTimeout)
	}
	if config.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", config.CacheTTL)
	}
}

// TestConfig_APIKey verifies both API key variables are honored.
func TestConfig_APIKey(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
	}{
		{name: "prefixed", envVar: "SKAFFOLDER_API_KEY"},
		{name: "google", envVar: "GOOGLE_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SKAFFOLDER_API_KEY", "")
			t.Setenv("GOOGLE_API_KEY", "")
			t.Setenv(tt.envVar, "secret")

			config, err := LoadConfig("")
			if err != nil {
				t.Fatalf("LoadConfig() failed: %v", err)
			}
			if config.APIKey != "secret" {
				t.Errorf("APIKey = %q, want secret", config.APIKey)
			}
		})
	}
}

// TestConfig_File verifies an explicit config file is read.
func TestConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skaffolder.yaml")
	data := "concurrency: 2\nprovenance: true\npins:\n  - Instance.labels\n  - \"*.fingerprint\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", config.ConfigFile, path)
	}
	if config.Concurrency != 2 {
		t.Errorf("Concurrency = %d, want 2", config.Concurrency)
	}
	if !config.Provenance {
		t.Error("Provenance not loaded")
	}
	if len(config.Pins) != 2 || config.Pins[1] != "*.fingerprint" {
		t.Errorf("Pins = %v", config.Pins)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() with a missing file should fail")
	}
}

// TestConfig_UpdateFromFlags verifies flags override loaded values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "warn"}

	config.UpdateFromFlags(true, false, true, "", "")
	if !config.Verbose || !config.NoColor {
		t.Error("boolean flags not applied")
	}
	if config.Format != "yaml" || config.LogLevel != "warn" {
		t.Error("empty flags must keep loaded values")
	}

	config.UpdateFromFlags(false, false, false, "table", "debug")
	if config.Format != "table" {
		t.Errorf("Format = %s, want table", config.Format)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", config.LogLevel)
	}
	if !config.Verbose {
		t.Error("unset flags must not clear values")
	}
}
