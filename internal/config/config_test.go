// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.API.Model != "gemini-2.5-flash" {
		t.Errorf("unexpected default model: %s", cfg.API.Model)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("unexpected default backend: %s", cfg.Storage.Backend)
	}
	if cfg.UI.Mode != "nexus" {
		t.Errorf("unexpected default mode: %s", cfg.UI.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg.API.Model != Default().API.Model {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
key = "test-key"
model = "gemini-2.5-pro"

[storage]
backend = "sqlite"

[ui]
language = "fr"
mode = "coder"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.API.Key != "test-key" || cfg.API.Model != "gemini-2.5-pro" {
		t.Errorf("api config not loaded: %+v", cfg.API)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("storage backend not loaded: %s", cfg.Storage.Backend)
	}
	if cfg.UI.Language != "fr" || cfg.UI.Mode != "coder" {
		t.Errorf("ui config not loaded: %+v", cfg.UI)
	}
	// Unset fields keep defaults.
	if cfg.API.VideoGenModel != Default().API.VideoGenModel {
		t.Error("unset fields should keep defaults")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api]\nkey = \"file-key\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LUMIERE_API_KEY", "env-key")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.Key != "env-key" {
		t.Errorf("LUMIERE_API_KEY should win, got %q", cfg.API.Key)
	}
}

func TestGeminiKeyFallback(t *testing.T) {
	t.Setenv("LUMIERE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.Key != "gemini-key" {
		t.Errorf("GEMINI_API_KEY should apply when nothing else is set, got %q", cfg.API.Key)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "cassandra"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown backend should fail validation")
	}

	cfg = Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown log level should fail validation")
	}
}

func TestValidateNormalizes(t *testing.T) {
	cfg := Default()
	cfg.UI.Mode = "vortex"
	cfg.UI.Language = "en-US"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.UI.Mode != "nexus" {
		t.Errorf("invalid mode should reset to default, got %s", cfg.UI.Mode)
	}
	if cfg.UI.Language != "en" {
		t.Errorf("language should normalize, got %s", cfg.UI.Language)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.API.Key = "saved-key"
	cfg.UI.Language = "es"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	t.Setenv("LUMIERE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.API.Key != "saved-key" || loaded.UI.Language != "es" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestStoragePathPerBackend(t *testing.T) {
	cfg := Default()
	cfg.Storage.Path = "/custom/sessions.json"
	path, err := cfg.StoragePath()
	if err != nil {
		t.Fatal(err)
	}
	if path != "/custom/sessions.json" {
		t.Errorf("explicit path should win, got %s", path)
	}

	cfg = Default()
	cfg.Storage.Backend = "sqlite"
	path, err = cfg.StoragePath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "lumiere.db" {
		t.Errorf("sqlite backend should use the db file, got %s", path)
	}
}
