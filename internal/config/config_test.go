package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jalajpachoulydell/smart-code-review/internal/backend"
)

func TestLoadGlobalFrom_MissingFile(t *testing.T) {
	cfg, err := LoadGlobalFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadGlobalFrom: %v", err)
	}
	if !cfg.SkipGenerated {
		t.Error("skip_generated should default to true")
	}
	if cfg.MaxChars != 12000 {
		t.Errorf("max_chars = %d, want 12000", cfg.MaxChars)
	}
	if cfg.ConcurrencyCap != 8 {
		t.Errorf("concurrency_cap = %d, want 8", cfg.ConcurrencyCap)
	}
}

func TestLoadGlobalFrom_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
gateway_base = "https://gw.example.com/v1"
skip_generated = false
max_chars = 4000
models = ["llama-3-8b-instruct"]
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGlobalFrom(path)
	if err != nil {
		t.Fatalf("LoadGlobalFrom: %v", err)
	}
	if cfg.GatewayBase != "https://gw.example.com/v1" {
		t.Errorf("gateway_base = %q", cfg.GatewayBase)
	}
	if cfg.SkipGenerated {
		t.Error("skip_generated override not applied")
	}
	if cfg.MaxChars != 4000 {
		t.Errorf("max_chars = %d", cfg.MaxChars)
	}
	// Untouched keys keep their defaults.
	if cfg.TokenMode != TokenModePreissued {
		t.Errorf("token_mode = %q", cfg.TokenMode)
	}
}

func TestLoadGlobalFrom_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGlobalFrom(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestSaveGlobalTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.GitHubToken = "ghp_test"
	cfg.Models = []string{"a", "b"}

	if err := SaveGlobalTo(cfg, path); err != nil {
		t.Fatalf("SaveGlobalTo: %v", err)
	}
	loaded, err := LoadGlobalFrom(path)
	if err != nil {
		t.Fatalf("LoadGlobalFrom: %v", err)
	}
	if loaded.GitHubToken != "ghp_test" {
		t.Errorf("github_token = %q", loaded.GitHubToken)
	}
	if !reflect.DeepEqual(loaded.Models, []string{"a", "b"}) {
		t.Errorf("models = %v", loaded.Models)
	}
}

func TestResolveModels(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.ResolveModels([]string{"x"}); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("explicit models not honored: %v", got)
	}

	cfg.Models = []string{"configured"}
	if got := cfg.ResolveModels(nil); !reflect.DeepEqual(got, []string{"configured"}) {
		t.Errorf("configured models not honored: %v", got)
	}

	cfg.Models = nil
	if got := cfg.ResolveModels(nil); !reflect.DeepEqual(got, backend.DefaultSelection()) {
		t.Errorf("default selection not used: %v", got)
	}
}

func TestResolveBaseModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseModel = ""
	if got := cfg.ResolveBaseModel(); got != backend.BaseSynthesizerID {
		t.Errorf("ResolveBaseModel = %q", got)
	}
	cfg.BaseModel = "custom"
	if got := cfg.ResolveBaseModel(); got != "custom" {
		t.Errorf("ResolveBaseModel = %q", got)
	}
}

func TestDataDir_EnvOverride(t *testing.T) {
	t.Setenv("SMARTREV_DATA_DIR", "/tmp/smartrev-test")
	if got := DataDir(); got != "/tmp/smartrev-test" {
		t.Errorf("DataDir = %q", got)
	}
}

func TestRules(t *testing.T) {
	cfg := DefaultConfig()
	rules := cfg.Rules()
	if !rules.SkipGenerated {
		t.Error("rules should be enabled by default")
	}
	if len(rules.PathGlobs) == 0 || len(rules.HeaderMarkers) == 0 {
		t.Error("default rules missing globs or markers")
	}
}
