package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := []byte("database:\n  uri: mongodb://localhost:27017/agorahall\njwt:\n  secret: test-secret\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Database.URI != "mongodb://localhost:27017/agorahall" {
		t.Errorf("unexpected uri: %s", cfg.Database.URI)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Limits.ThoughtsPerDay != 5 || cfg.Limits.PositionsPerDay != 2 {
		t.Errorf("unexpected default quotas: %d thoughts, %d positions", cfg.Limits.ThoughtsPerDay, cfg.Limits.PositionsPerDay)
	}
	if cfg.Limits.MaxRounds != 10 || cfg.Limits.OpeningMaxWords != 2500 {
		t.Errorf("unexpected default debate limits: %d rounds, %d words", cfg.Limits.MaxRounds, cfg.Limits.OpeningMaxWords)
	}
}

func TestLoadConfigExplicitValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := []byte(`server:
  port: 9090
limits:
  thoughtsPerDay: 3
  positionsPerDay: 1
  maxRounds: 4
  openingMaxWords: 500
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Limits.MaxRounds != 4 {
		t.Errorf("expected 4 rounds, got %d", cfg.Limits.MaxRounds)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
