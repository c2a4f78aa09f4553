package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/suykerbuyk/vibe-journal/internal/styles"
)

// ProviderGemini is the only model provider vj can talk to.
const ProviderGemini = "gemini"

// Config holds all vibe-journal configuration.
type Config struct {
	VaultPath     string `toml:"vault_path"`
	JournalFolder string `toml:"journal_folder"`
	DefaultStyle  string `toml:"default_style"`
	CustomPrompt  string `toml:"custom_prompt"`
	OpenCommand   string `toml:"open_command"`

	Provider ProviderConfig `toml:"provider"`
	Inbox    InboxConfig    `toml:"inbox"`
}

type ProviderConfig struct {
	Name            string  `toml:"name"`
	APIKey          string  `toml:"api_key"`
	APIKeyEnv       string  `toml:"api_key_env"`
	Model           string  `toml:"model"`
	BaseURL         string  `toml:"base_url"`
	Temperature     float64 `toml:"temperature"`
	MaxOutputTokens int     `toml:"max_output_tokens"`
}

type InboxConfig struct {
	Folder string `toml:"folder"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		VaultPath:     "~/obsidian/journal",
		JournalFolder: "journal/daily",
		DefaultStyle:  string(styles.Structured),
		Provider: ProviderConfig{
			Name:            ProviderGemini,
			APIKeyEnv:       "GEMINI_API_KEY",
			Model:           "gemini-flash-latest",
			BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
			Temperature:     0.7,
			MaxOutputTokens: 2048,
		},
		Inbox: InboxConfig{
			Folder: "journal/inbox",
		},
	}
}

// Load reads config from path, or from the standard locations when path is
// empty, falling back to defaults when no file exists.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	paths := configPaths()
	if path != "" {
		paths = []string{expandHome(path)}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	cfg.VaultPath = expandHome(cfg.VaultPath)

	return cfg, nil
}

// Path returns the file Load reads and Save writes: explicit if set,
// otherwise the first existing standard location, otherwise the XDG default.
func Path(explicit string) string {
	if explicit != "" {
		return expandHome(explicit)
	}
	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "vibe-journal", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "vibe-journal", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// JournalDir returns the absolute daily-notes folder inside the vault.
func (c Config) JournalDir() string {
	return filepath.Join(c.VaultPath, filepath.FromSlash(c.JournalFolder))
}

// InboxDir returns the absolute inbox folder inside the vault.
func (c Config) InboxDir() string {
	return filepath.Join(c.VaultPath, filepath.FromSlash(c.Inbox.Folder))
}

// StateDir returns the .vibe-journal state directory inside the vault.
func (c Config) StateDir() string {
	return filepath.Join(c.VaultPath, ".vibe-journal")
}

// Style returns the configured default style, or structured when the stored
// value is not a known style.
func (c Config) Style() styles.ID {
	id, err := styles.Parse(c.DefaultStyle)
	if err != nil {
		return styles.Structured
	}
	return id
}

// APIKey resolves the provider key: the literal api_key wins, then the
// environment variable named by api_key_env.
func (c Config) APIKey() string {
	if c.Provider.APIKey != "" {
		return c.Provider.APIKey
	}
	if c.Provider.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Provider.APIKeyEnv)
}

// ErrUnknownKey is returned by Set and Get for keys outside Keys().
var ErrUnknownKey = errors.New("unknown config key")
