package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Setenv("LEADLEDGER_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Email.RateLimit.DailyLimit != 30 {
		t.Fatalf("expected default daily limit 30, got %d", cfg.Email.RateLimit.DailyLimit)
	}
	if cfg.Email.RateLimit.SkipSentDays != 90 {
		t.Fatalf("expected default cooldown 90 days, got %d", cfg.Email.RateLimit.SkipSentDays)
	}
	if cfg.Email.SMTPPort != 587 {
		t.Fatalf("expected default smtp port 587, got %d", cfg.Email.SMTPPort)
	}
}

func TestLoadFromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("LEADLEDGER_HOME", home)

	dir := filepath.Join(home, ConfigDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := `{
		"paths": {"dbPath": "/tmp/custom.db"},
		"email": {"fromEmail": "me@example.com", "rateLimit": {"dailyLimit": 12}},
		"outreach": {"contactEvents": ["email_sent"]}
	}`
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Paths.DBPath != "/tmp/custom.db" {
		t.Fatalf("expected file db path, got %q", cfg.Paths.DBPath)
	}
	if cfg.Email.FromEmail != "me@example.com" {
		t.Fatalf("expected file from email, got %q", cfg.Email.FromEmail)
	}
	if cfg.Email.RateLimit.DailyLimit != 12 {
		t.Fatalf("expected file daily limit 12, got %d", cfg.Email.RateLimit.DailyLimit)
	}
	if len(cfg.Outreach.ContactEvents) != 1 || cfg.Outreach.ContactEvents[0] != "email_sent" {
		t.Fatalf("unexpected contact events: %v", cfg.Outreach.ContactEvents)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("LEADLEDGER_HOME", home)
	t.Setenv("LEADLEDGER_EMAIL_RATE_DAILY_LIMIT", "7")
	t.Setenv("LEADLEDGER_PATHS_DB_PATH", "/tmp/env.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Email.RateLimit.DailyLimit != 7 {
		t.Fatalf("expected env daily limit 7, got %d", cfg.Email.RateLimit.DailyLimit)
	}
	if cfg.Paths.DBPath != "/tmp/env.db" {
		t.Fatalf("expected env db path, got %q", cfg.Paths.DBPath)
	}
}

func TestConfigPathExplicitOverride(t *testing.T) {
	t.Setenv("LEADLEDGER_CONFIG", "/tmp/elsewhere/config.json")

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if path != "/tmp/elsewhere/config.json" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("LEADLEDGER_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Email.FromEmail = "me@example.com"
	if err := Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load saved: %v", err)
	}
	if loaded.Email.FromEmail != "me@example.com" {
		t.Fatalf("expected saved value, got %q", loaded.Email.FromEmail)
	}
}
