package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_ParsesFullConfig(t *testing.T) {
	t.Setenv("CORRADE_PASSWORD", "hunter2")

	path := writeConfigFile(t, `
bridge:
  url: http://127.0.0.1:8080
  group: Curators
  password: ${CORRADE_PASSWORD}
  requestsPerSecond: 2
  timeout: 90s
rate:
  opDelay: 2s
  batchSize: 5
  batchDelay: 10s
  maxRetries: 4
run:
  topLevelFolders: ["Unsorted", "Objects"]
  workers: 3
rules:
  file: /etc/curator/rules.yaml
index:
  ttl: 30m
advisor:
  apiKey: sk-test
  model: gpt-4o-mini
archive:
  endpoint: minio.local:9000
  accessKey: curator
  secretKey: secret
  bucket: reports
`)

	cfg, err := Load(path)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Bridge.URL != "http://127.0.0.1:8080" || cfg.Bridge.Group != "Curators" {
		t.Errorf("expected the bridge settings parsed, got %+v", cfg.Bridge)
	}
	if cfg.Bridge.Password != "hunter2" {
		t.Errorf("expected the environment reference expanded, got '%s'", cfg.Bridge.Password)
	}
	if cfg.Bridge.Timeout.Std() != 90*time.Second {
		t.Errorf("expected a 90s timeout, got %v", cfg.Bridge.Timeout.Std())
	}
	if cfg.Rate.OpDelay.Std() != 2*time.Second || cfg.Rate.BatchSize != 5 {
		t.Errorf("expected the rate settings parsed, got %+v", cfg.Rate)
	}
	if len(cfg.Run.TopLevelFolders) != 2 || cfg.Run.Workers != 3 {
		t.Errorf("expected the run settings parsed, got %+v", cfg.Run)
	}
	if cfg.Rules.File != "/etc/curator/rules.yaml" {
		t.Errorf("expected the rules file path, got '%s'", cfg.Rules.File)
	}
	if cfg.Index.TTL.Std() != 30*time.Minute {
		t.Errorf("expected a 30m snapshot TTL, got %v", cfg.Index.TTL.Std())
	}
	if cfg.Advisor == nil || cfg.Advisor.Model != "gpt-4o-mini" {
		t.Errorf("expected the advisor block parsed, got %+v", cfg.Advisor)
	}
	if cfg.Archive == nil || cfg.Archive.Bucket != "reports" {
		t.Errorf("expected the archive block parsed, got %+v", cfg.Archive)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
bridge:
  url: http://127.0.0.1:8080
  group: Curators
  password: x
`)

	cfg, err := Load(path)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Rate.OpDelay.Std() != 1*time.Second {
		t.Errorf("expected the stock 1s delay, got %v", cfg.Rate.OpDelay.Std())
	}
	if cfg.Rate.BatchSize != 10 || cfg.Rate.BatchDelay.Std() != 5*time.Second {
		t.Errorf("expected the stock batch pacing, got %+v", cfg.Rate)
	}
	if cfg.Rate.MaxRetries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.Rate.MaxRetries)
	}
	if cfg.Run.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.Run.Workers)
	}
	if cfg.Index.TTL.Std() != 15*time.Minute {
		t.Errorf("expected a 15m snapshot TTL, got %v", cfg.Index.TTL.Std())
	}
	if cfg.Advisor != nil || cfg.Archive != nil {
		t.Errorf("expected the optional blocks absent, got %+v, %+v", cfg.Advisor, cfg.Archive)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeConfigFile(t, `
bridge:
  url: http://127.0.0.1:8080
  grupp: Curators
`)

	_, err := Load(path)

	if err == nil {
		t.Fatal("expected an error for the misspelled key")
	}
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	path := writeConfigFile(t, `
rate:
  opDelay: soon
`)

	_, err := Load(path)

	if err == nil {
		t.Fatal("expected an error for a malformed duration")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("expected the duration named, got '%v'", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestValidate_RejectsMalformedConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad bridge url",
			mutate:  func(c *Config) { c.Bridge.URL = "not a url" },
			wantErr: "bridge url",
		},
		{
			name:    "non-http bridge url",
			mutate:  func(c *Config) { c.Bridge.URL = "ftp://example.com" },
			wantErr: "bridge url",
		},
		{
			name:    "negative opDelay",
			mutate:  func(c *Config) { c.Rate.OpDelay = Duration(-1) },
			wantErr: "opDelay",
		},
		{
			name:    "negative batchSize",
			mutate:  func(c *Config) { c.Rate.BatchSize = -1 },
			wantErr: "batchSize",
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Run.Workers = -2 },
			wantErr: "workers",
		},
		{
			name:    "advisor without key",
			mutate:  func(c *Config) { c.Advisor = &AdvisorConfig{Model: "gpt-4o-mini"} },
			wantErr: "advisor apiKey",
		},
		{
			name:    "advisor without model",
			mutate:  func(c *Config) { c.Advisor = &AdvisorConfig{APIKey: "sk-test"} },
			wantErr: "advisor model",
		},
		{
			name:    "archive without bucket",
			mutate: func(c *Config) {
				c.Archive = &ArchiveConfig{Endpoint: "minio.local:9000", AccessKey: "a", SecretKey: "s"}
			},
			wantErr: "archive bucket",
		},
		{
			name: "archive without credentials",
			mutate: func(c *Config) {
				c.Archive = &ArchiveConfig{Endpoint: "minio.local:9000", Bucket: "reports"}
			},
			wantErr: "accessKey",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()

			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected %q in the error, got '%v'", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected the defaults to validate, got %v", err)
	}
}

func TestBridgeConfigured(t *testing.T) {
	cfg := Default()
	if cfg.BridgeConfigured() {
		t.Error("expected an empty bridge to report unconfigured")
	}
	cfg.Bridge.URL = "http://127.0.0.1:8080"
	if !cfg.BridgeConfigured() {
		t.Error("expected a set bridge to report configured")
	}
}

func TestSave_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Bridge = BridgeConfig{URL: "http://127.0.0.1:8080", Group: "Curators", Password: "x"}
	cfg.Run.TopLevelFolders = []string{"Unsorted"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("expected the saved file to load, got %v", err)
	}
	if loaded.Bridge.URL != cfg.Bridge.URL {
		t.Errorf("expected the bridge to round-trip, got '%s'", loaded.Bridge.URL)
	}
	if loaded.Rate.OpDelay.Std() != 1*time.Second {
		t.Errorf("expected the pacing to round-trip, got %v", loaded.Rate.OpDelay.Std())
	}
	if len(loaded.Run.TopLevelFolders) != 1 || loaded.Run.TopLevelFolders[0] != "Unsorted" {
		t.Errorf("expected the scope to round-trip, got %v", loaded.Run.TopLevelFolders)
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".curator", "config.yaml")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
