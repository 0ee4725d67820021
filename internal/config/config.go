// Package config loads the curator configuration from
// ~/.curator/config.yaml. Environment references like ${CORRADE_PASSWORD}
// are expanded before parsing, so secrets can stay out of the file.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration decodes YAML strings like "1s" or "5m" into a time.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// BridgeConfig holds the Corrade bridge connection settings.
type BridgeConfig struct {
	URL      string `yaml:"url"`
	Group    string `yaml:"group"`
	Password string `yaml:"password"`

	// Root is the absolute inventory prefix canonical paths hang under.
	Root string `yaml:"root,omitempty"`

	// RequestsPerSecond caps outbound bridge commands; zero means
	// unlimited. The executor's own pacing sits on top of it.
	RequestsPerSecond float64  `yaml:"requestsPerSecond,omitempty"`
	Timeout           Duration `yaml:"timeout,omitempty"`
}

// RateConfig holds the executor's pacing knobs.
type RateConfig struct {
	OpDelay    Duration `yaml:"opDelay"`
	BatchSize  int      `yaml:"batchSize"`
	BatchDelay Duration `yaml:"batchDelay"`
	MaxRetries int      `yaml:"maxRetries"`
}

// RunConfig holds per-run scope and concurrency settings.
type RunConfig struct {
	// TopLevelFolders restricts classification passes to these folders.
	// Empty means every non-system top-level folder.
	TopLevelFolders []string `yaml:"topLevelFolders,omitempty"`

	// Workers bounds concurrent plan execution in the pending-queue runner.
	Workers int `yaml:"workers,omitempty"`
}

// RulesConfig points at an external rules file. Empty means the built-in
// default rule set.
type RulesConfig struct {
	File string `yaml:"file,omitempty"`
}

// IndexConfig holds folder index snapshot settings.
type IndexConfig struct {
	// TTL is how old the stored snapshot may be before a scan re-walks
	// the remote tree.
	TTL Duration `yaml:"ttl,omitempty"`
}

// AdvisorConfig holds the optional category advisor settings. The block
// being present enables `curator suggest`.
type AdvisorConfig struct {
	BaseURL   string `yaml:"baseURL,omitempty"`
	APIKey    string `yaml:"apiKey"`
	Model     string `yaml:"model"`
	CacheSize int    `yaml:"cacheSize,omitempty"`
}

// ArchiveConfig holds the optional report archive settings. The block
// being present enables `curator archive`.
type ArchiveConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region,omitempty"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSSL,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
}

// Config represents the curator configuration.
type Config struct {
	Bridge  BridgeConfig   `yaml:"bridge"`
	Rate    RateConfig     `yaml:"rate"`
	Run     RunConfig      `yaml:"run"`
	Rules   RulesConfig    `yaml:"rules,omitempty"`
	Index   IndexConfig    `yaml:"index,omitempty"`
	Advisor *AdvisorConfig `yaml:"advisor,omitempty"`
	Archive *ArchiveConfig `yaml:"archive,omitempty"`
}

// Default returns a config with the stock pacing: one move per second,
// a five second pause every ten moves, three retries per command.
func Default() *Config {
	return &Config{
		Rate: RateConfig{
			OpDelay:    Duration(1 * time.Second),
			BatchSize:  10,
			BatchDelay: Duration(5 * time.Second),
			MaxRetries: 3,
		},
		Run: RunConfig{
			Workers: 1,
		},
		Index: IndexConfig{
			TTL: Duration(15 * time.Minute),
		},
	}
}

// DefaultPath returns ~/.curator/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".curator", "config.yaml"), nil
}

// Load reads and validates a config file. Environment references in the
// file are expanded first. Unknown keys are rejected so typos surface
// instead of silently falling back to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads ~/.curator/config.yaml. A missing file is not an
// error; the defaults apply and remote-facing commands report the
// missing bridge settings themselves.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the config to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects malformed settings before any remote call is made.
func (c *Config) Validate() error {
	if c.Bridge.URL != "" {
		u, err := url.Parse(c.Bridge.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("bridge url %q is not a valid http(s) URL", c.Bridge.URL)
		}
	}
	if c.Bridge.RequestsPerSecond < 0 {
		return fmt.Errorf("bridge requestsPerSecond must not be negative")
	}

	if c.Rate.OpDelay < 0 {
		return fmt.Errorf("rate opDelay must not be negative")
	}
	if c.Rate.BatchSize < 0 {
		return fmt.Errorf("rate batchSize must not be negative")
	}
	if c.Rate.BatchDelay < 0 {
		return fmt.Errorf("rate batchDelay must not be negative")
	}
	if c.Rate.MaxRetries < 0 {
		return fmt.Errorf("rate maxRetries must not be negative")
	}

	if c.Run.Workers < 0 {
		return fmt.Errorf("run workers must not be negative")
	}

	if c.Advisor != nil {
		if c.Advisor.APIKey == "" {
			return fmt.Errorf("advisor apiKey is required when the advisor block is set")
		}
		if c.Advisor.Model == "" {
			return fmt.Errorf("advisor model is required when the advisor block is set")
		}
	}

	if c.Archive != nil {
		if c.Archive.Endpoint == "" {
			return fmt.Errorf("archive endpoint is required when the archive block is set")
		}
		if c.Archive.AccessKey == "" || c.Archive.SecretKey == "" {
			return fmt.Errorf("archive accessKey and secretKey are required when the archive block is set")
		}
		if c.Archive.Bucket == "" {
			return fmt.Errorf("archive bucket is required when the archive block is set")
		}
	}

	return nil
}

// BridgeConfigured reports whether the bridge connection is set up.
// Commands that touch the remote store check this before dialing.
func (c *Config) BridgeConfigured() bool {
	return c.Bridge.URL != ""
}
