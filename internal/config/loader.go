package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// ConfigDir is the default config directory name.
	ConfigDir = ".leadledger"
	// ConfigFile is the default config file name.
	ConfigFile = "config.json"
)

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("LEADLEDGER_CONFIG")); explicit != "" {
		return expandHome(explicit)
	}
	home, err := resolveHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDir, ConfigFile), nil
}

func resolveHomeDir() (string, error) {
	if h := strings.TrimSpace(os.Getenv("LEADLEDGER_HOME")); h != "" {
		return expandHome(h)
	}
	return os.UserHomeDir()
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// ExpandHome resolves a leading ~ against the user's home directory, leaving
// other paths untouched. Errors fall back to the input path.
func ExpandHome(path string) string {
	expanded, err := expandHome(path)
	if err != nil {
		return path
	}
	return expanded
}

// loadEnvFiles loads process env vars from known .env files. Existing process
// env vars are never overridden.
func loadEnvFiles() {
	candidates := make([]string, 0, 3)
	if explicit := strings.TrimSpace(os.Getenv("LEADLEDGER_ENV_FILE")); explicit != "" {
		candidates = append(candidates, ExpandHome(explicit))
	}
	if home, err := resolveHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ConfigDir, ".env"),
			filepath.Join(home, ConfigDir, "env"),
		)
	}
	for _, p := range candidates {
		_ = godotenv.Load(p)
	}
}

// Load loads the configuration from file and environment variables.
// Priority: environment > file > defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	loadEnvFiles()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil // use defaults if we can't find the config path
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	// Missing file: continue with defaults.

	envconfig.Process("LEADLEDGER_PATHS", &cfg.Paths)
	envconfig.Process("LEADLEDGER_EMAIL", &cfg.Email)
	envconfig.Process("LEADLEDGER_EMAIL_RATE", &cfg.Email.RateLimit)
	envconfig.Process("LEADLEDGER_OUTREACH", &cfg.Outreach)
	envconfig.Process("LEADLEDGER_NOTIFY", &cfg.Notify)

	cfg.Paths.DataDir = ExpandHome(cfg.Paths.DataDir)
	cfg.Paths.DBPath = ExpandHome(cfg.Paths.DBPath)

	return cfg, nil
}

// Save writes the configuration to the config file, creating the directory if needed.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}
