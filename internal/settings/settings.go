// Package settings is the interactive settings form behind `vj config`.
package settings

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/suykerbuyk/vibe-journal/internal/config"
	"github.com/suykerbuyk/vibe-journal/internal/styles"
)

// Asker shows one prompt and stores the answer in response.
type Asker interface {
	Ask(p survey.Prompt, response any) error
}

// SurveyAsker asks on the terminal.
type SurveyAsker struct{}

func (SurveyAsker) Ask(p survey.Prompt, response any) error {
	return survey.AskOne(p, response)
}

type field struct {
	key    string
	prompt func(current string) survey.Prompt
	secret bool // blank answer keeps the current value
}

var fields = []field{
	{key: "vault_path", prompt: input("Vault path:", "Root folder of your notes vault")},
	{key: "provider.name", prompt: func(current string) survey.Prompt {
		return &survey.Select{
			Message: "API provider:",
			Options: []string{config.ProviderGemini},
			Default: current,
		}
	}},
	{key: "provider.api_key", secret: true, prompt: func(current string) survey.Prompt {
		help := "Leave blank to keep the current key"
		if current == "" {
			help = "Leave blank to read the key from the provider.api_key_env variable"
		}
		return &survey.Password{Message: "API key:", Help: help}
	}},
	{key: "provider.model", prompt: input("Model:", "Gemini model name, e.g. gemini-flash-latest")},
	{key: "default_style", prompt: func(current string) survey.Prompt {
		ids := styles.IDs()
		options := make([]string, len(ids))
		for i, id := range ids {
			options[i] = string(id)
		}
		return &survey.Select{
			Message: "Default style:",
			Options: options,
			Default: current,
			Description: func(value string, _ int) string {
				t, err := styles.Lookup(styles.ID(value))
				if err != nil {
					return ""
				}
				return t.Name
			},
		}
	}},
	{key: "journal_folder", prompt: input("Journal folder:", "Folder inside the vault for daily notes")},
	{key: "custom_prompt", prompt: func(current string) survey.Prompt {
		return &survey.Multiline{
			Message: "Custom prompt:",
			Default: current,
			Help:    "Replaces the style prompt when not empty",
		}
	}},
	{key: "open_command", prompt: input("Open command:", "Command run with the note path after saving; empty to disable")},
}

func input(message, help string) func(string) survey.Prompt {
	return func(current string) survey.Prompt {
		return &survey.Input{Message: message, Default: current, Help: help}
	}
}

// Edit walks the user through the settings. save is called after every
// field that changed. Returns the number of changed fields.
func Edit(cfg *config.Config, asker Asker, save func(config.Config) error) (int, error) {
	changed := 0
	for _, f := range fields {
		current, err := cfg.Get(f.key)
		if err != nil {
			return changed, err
		}

		var answer string
		if err := asker.Ask(f.prompt(current), &answer); err != nil {
			return changed, err
		}
		if f.secret && answer == "" {
			continue
		}
		if answer == current {
			continue
		}

		if err := cfg.Set(f.key, answer); err != nil {
			return changed, err
		}
		if err := save(*cfg); err != nil {
			return changed, fmt.Errorf("save %s: %w", f.key, err)
		}
		changed++
	}
	return changed, nil
}
