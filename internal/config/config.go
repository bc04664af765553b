// Package config loads and saves the smartrev TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jalajpachoulydell/smart-code-review/internal/backend"
	"github.com/jalajpachoulydell/smart-code-review/internal/generated"
)

// Token modes accepted by the gateway client.
const (
	TokenModePreissued         = "preissued"
	TokenModeClientCredentials = "client_credentials"
)

// Config holds the global configuration.
type Config struct {
	// Model gateway
	GatewayBase    string `toml:"gateway_base"`
	TokenMode      string `toml:"token_mode"`
	AccessToken    string `toml:"access_token"`
	ClientID       string `toml:"client_id"`
	ClientSecret   string `toml:"client_secret"`
	TokenURL       string `toml:"token_url"`
	ExtraCABundle  string `toml:"extra_ca_bundle"`
	CorrelationID  string `toml:"correlation_id"`
	TimeoutSeconds int    `toml:"timeout_seconds"`

	// GitHub
	GitHubToken string `toml:"github_token"`

	// Generated-file filtering
	SkipGenerated          bool     `toml:"skip_generated"`
	GeneratedPathGlobs     []string `toml:"generated_path_globs"`
	GeneratedFileRegex     string   `toml:"generated_file_regex"`
	GeneratedHeaderMarkers []string `toml:"generated_header_markers"`

	// Review execution
	Models         []string `toml:"models"`
	BaseModel      string   `toml:"base_model"`
	Parallel       bool     `toml:"parallel"`
	ConcurrencyCap int      `toml:"concurrency_cap"`
	MaxChars       int      `toml:"max_chars"`
	OutputFormat   string   `toml:"output_format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		TokenMode:      TokenModePreissued,
		CorrelationID:  "smart-code-review",
		TimeoutSeconds: 120,
		SkipGenerated:  true,
		GeneratedPathGlobs: []string{
			"*.min.js", "*.min.css", "*.pb.go", "*_generated.go",
			"*.lock", "package-lock.json",
		},
		GeneratedHeaderMarkers: []string{
			"code generated", "do not edit", "autogenerated",
		},
		BaseModel:      backend.BaseSynthesizerID,
		Parallel:       true,
		ConcurrencyCap: 8,
		MaxChars:       12000,
		OutputFormat:   "html",
	}
}

// DataDir returns the smartrev data directory.
// Uses SMARTREV_DATA_DIR env var if set, otherwise ~/.smartrev
func DataDir() string {
	if dir := os.Getenv("SMARTREV_DATA_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".smartrev")
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// ReportsDir returns where HTML report artifacts are written.
func ReportsDir() string {
	return filepath.Join(DataDir(), "reports")
}

// LoadGlobal loads the global configuration from the default path
func LoadGlobal() (*Config, error) {
	return LoadGlobalFrom(GlobalConfigPath())
}

// LoadGlobalFrom loads the configuration from a specific path,
// layering the file over the defaults. A missing file is not an
// error; the defaults apply.
func LoadGlobalFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return cfg, nil
}

// SaveGlobal saves the global configuration
func SaveGlobal(cfg *Config) error {
	return SaveGlobalTo(cfg, GlobalConfigPath())
}

// SaveGlobalTo writes the configuration to a specific path.
func SaveGlobalTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Rules builds the immutable classification rule set for one run.
func (c *Config) Rules() generated.Rules {
	return generated.Rules{
		SkipGenerated: c.SkipGenerated,
		PathGlobs:     c.GeneratedPathGlobs,
		PathRegex:     c.GeneratedFileRegex,
		HeaderMarkers: c.GeneratedHeaderMarkers,
	}
}

// ResolveModels determines which models to run, by priority:
// 1. Explicit --models flag values
// 2. Configured models list
// 3. The catalog's default selection
func (c *Config) ResolveModels(explicit []string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	if len(c.Models) > 0 {
		return c.Models
	}
	return backend.DefaultSelection()
}

// ResolveBaseModel returns the synthesis model, falling back to the
// catalog's fixed base synthesizer.
func (c *Config) ResolveBaseModel() string {
	if c.BaseModel != "" {
		return c.BaseModel
	}
	return backend.BaseSynthesizerID
}
