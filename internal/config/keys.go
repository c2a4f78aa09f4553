package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suykerbuyk/vibe-journal/internal/styles"
)

var keys = []string{
	"vault_path",
	"journal_folder",
	"default_style",
	"custom_prompt",
	"open_command",
	"provider.name",
	"provider.api_key",
	"provider.api_key_env",
	"provider.model",
	"provider.base_url",
	"provider.temperature",
	"provider.max_output_tokens",
	"inbox.folder",
}

// Keys returns the settable keys in file order.
func Keys() []string {
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Get returns the string form of a setting.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "vault_path":
		return c.VaultPath, nil
	case "journal_folder":
		return c.JournalFolder, nil
	case "default_style":
		return c.DefaultStyle, nil
	case "custom_prompt":
		return c.CustomPrompt, nil
	case "open_command":
		return c.OpenCommand, nil
	case "provider.name":
		return c.Provider.Name, nil
	case "provider.api_key":
		return c.Provider.APIKey, nil
	case "provider.api_key_env":
		return c.Provider.APIKeyEnv, nil
	case "provider.model":
		return c.Provider.Model, nil
	case "provider.base_url":
		return c.Provider.BaseURL, nil
	case "provider.temperature":
		return strconv.FormatFloat(c.Provider.Temperature, 'f', -1, 64), nil
	case "provider.max_output_tokens":
		return strconv.Itoa(c.Provider.MaxOutputTokens), nil
	case "inbox.folder":
		return c.Inbox.Folder, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set validates and applies one setting.
func (c *Config) Set(key, value string) error {
	switch key {
	case "vault_path":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("vault_path cannot be empty")
		}
		c.VaultPath = expandHome(value)
	case "journal_folder":
		c.JournalFolder = strings.Trim(strings.TrimSpace(value), "/")
	case "default_style":
		id, err := styles.Parse(value)
		if err != nil {
			return fmt.Errorf("default_style: %w", err)
		}
		c.DefaultStyle = string(id)
	case "custom_prompt":
		c.CustomPrompt = value
	case "open_command":
		c.OpenCommand = strings.TrimSpace(value)
	case "provider.name":
		name := strings.ToLower(strings.TrimSpace(value))
		if name != ProviderGemini {
			return fmt.Errorf("provider.name: %q is not supported (only %q)", value, ProviderGemini)
		}
		c.Provider.Name = name
	case "provider.api_key":
		c.Provider.APIKey = strings.TrimSpace(value)
	case "provider.api_key_env":
		c.Provider.APIKeyEnv = strings.TrimSpace(value)
	case "provider.model":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("provider.model cannot be empty")
		}
		c.Provider.Model = strings.TrimSpace(value)
	case "provider.base_url":
		c.Provider.BaseURL = strings.TrimRight(strings.TrimSpace(value), "/")
	case "provider.temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 2 {
			return fmt.Errorf("provider.temperature must be a number between 0 and 2")
		}
		c.Provider.Temperature = f
	case "provider.max_output_tokens":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("provider.max_output_tokens must be a positive integer")
		}
		c.Provider.MaxOutputTokens = n
	case "inbox.folder":
		c.Inbox.Folder = strings.Trim(strings.TrimSpace(value), "/")
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}
