package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigDir returns the vibe-journal config directory path.
// Uses $XDG_CONFIG_HOME/vibe-journal if set, otherwise ~/.config/vibe-journal.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vibe-journal")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "vibe-journal")
}

// WriteDefault writes a default config.toml pointing to vaultPath.
// Returns the config file path. Skips if config.toml already exists.
func WriteDefault(vaultPath string) (string, error) {
	path := filepath.Join(ConfigDir(), "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, nil // already exists
	}

	cfg := DefaultConfig()
	cfg.VaultPath = vaultPath

	if err := Save(path, cfg); err != nil {
		return "", err
	}
	return path, nil
}

// Save writes cfg to path as TOML, creating the directory if needed.
// Paths under $HOME are written in portable ~/ form.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	cfg.VaultPath = CompressHome(cfg.VaultPath)

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	// api_key may hold a secret.
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
