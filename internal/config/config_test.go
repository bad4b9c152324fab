package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_KEY", "")
	t.Setenv("GENAI_BASE_URL", "")
	t.Setenv("GENAI_REQUESTS_PER_MINUTE", "")
	t.Setenv("STORAGE_PATH", "")
	t.Setenv("STORAGE_NAMESPACE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Path != "./local_store" {
		t.Errorf("Storage.Path = %q", cfg.Storage.Path)
	}
	if cfg.GenAI.RequestsPerMinute != 0 {
		t.Errorf("RequestsPerMinute = %d, want 0", cfg.GenAI.RequestsPerMinute)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://xyz.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "sk")
	t.Setenv("GENAI_REQUESTS_PER_MINUTE", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Supabase.URL != "https://xyz.supabase.co" {
		t.Errorf("Supabase.URL = %q", cfg.Supabase.URL)
	}
	if cfg.GenAI.RequestsPerMinute != 30 {
		t.Errorf("RequestsPerMinute = %d", cfg.GenAI.RequestsPerMinute)
	}
}

func TestLoadWithEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("GENAI_BASE_URL=http://localhost:9999\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("GENAI_BASE_URL", "") // godotenv does not override set vars
	os.Unsetenv("GENAI_BASE_URL")

	cfg, err := LoadWithEnvFile(envFile)
	if err != nil {
		t.Fatalf("LoadWithEnvFile: %v", err)
	}
	if cfg.GenAI.BaseURL != "http://localhost:9999" {
		t.Errorf("BaseURL = %q", cfg.GenAI.BaseURL)
	}
}

func TestLoadWithEnvFileMissingIsNotError(t *testing.T) {
	if _, err := LoadWithEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing env file must not fail: %v", err)
	}
}

func TestApplyFileOverlay(t *testing.T) {
	t.Setenv("STORAGE_PATH", "/from/env")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "genai:\n  requests_per_minute: 12\nstorage:\n  namespace: _gs_v3\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if err := cfg.ApplyFile(path); err != nil {
		t.Fatalf("ApplyFile: %v", err)
	}
	if cfg.GenAI.RequestsPerMinute != 12 {
		t.Errorf("RequestsPerMinute = %d", cfg.GenAI.RequestsPerMinute)
	}
	if cfg.Storage.Namespace != "_gs_v3" {
		t.Errorf("Namespace = %q", cfg.Storage.Namespace)
	}
	// Values absent from the file stay untouched.
	if cfg.Storage.Path != "/from/env" {
		t.Errorf("Path = %q, want /from/env", cfg.Storage.Path)
	}
}

func TestApplyFileMissing(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ApplyFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
