package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/vibe-journal/internal/config"
	"github.com/suykerbuyk/vibe-journal/internal/index"
	"github.com/suykerbuyk/vibe-journal/internal/noteparse"
	"github.com/suykerbuyk/vibe-journal/internal/styles"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "vj check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("vj check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports which config file is in effect. A missing file is a
// warning: defaults still apply.
func CheckConfig(explicit string) Result {
	path := config.Path(explicit)
	if _, err := os.Stat(path); err != nil {
		return Result{Name: "config", Status: Warn, Detail: config.CompressHome(path) + " not found (using defaults)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(path)}
}

// CheckVaultPath checks whether the vault directory exists.
func CheckVaultPath(path string) Result {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return Result{Name: "vault", Status: Pass, Detail: config.CompressHome(path)}
	}
	return Result{Name: "vault", Status: Fail, Detail: path + " not found"}
}

// CheckObsidian checks whether .obsidian/ exists inside the vault.
func CheckObsidian(path string) Result {
	obsDir := filepath.Join(path, ".obsidian")
	if info, err := os.Stat(obsDir); err == nil && info.IsDir() {
		return Result{Name: "obsidian", Status: Pass, Detail: ".obsidian/ found"}
	}
	return Result{Name: "obsidian", Status: Warn, Detail: ".obsidian/ not found (not yet opened in Obsidian)"}
}

// CheckJournal reports the daily note folder and how many dated notes it holds.
func CheckJournal(journalDir string) Result {
	entries, err := os.ReadDir(journalDir)
	if err != nil {
		return Result{Name: "journal", Status: Warn, Detail: filepath.Base(journalDir) + "/ not found (created on first save)"}
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := noteparse.DateFromPath(e.Name()); ok {
			count++
		}
	}
	return Result{Name: "journal", Status: Pass, Detail: fmt.Sprintf("%s/ (%d daily notes)", filepath.Base(journalDir), count)}
}

// CheckStateDir checks whether the .vibe-journal/ state directory exists.
func CheckStateDir(stateDir string) Result {
	if info, err := os.Stat(stateDir); err == nil && info.IsDir() {
		return Result{Name: "state", Status: Pass, Detail: ".vibe-journal/ found"}
	}
	return Result{Name: "state", Status: Warn, Detail: ".vibe-journal/ not found (created on first save)"}
}

// CheckIndex opens the entry index and reports its size. The database is
// only opened when it already exists so the check never creates one.
func CheckIndex(stateDir string) Result {
	if _, err := os.Stat(filepath.Join(stateDir, index.FileName)); err != nil {
		return Result{Name: "index", Status: Warn, Detail: index.FileName + " not found yet (run vj reindex)"}
	}
	idx, err := index.Open(stateDir)
	if err != nil {
		return Result{Name: "index", Status: Fail, Detail: err.Error()}
	}
	defer idx.Close()

	n, err := idx.Count(context.Background())
	if err != nil {
		return Result{Name: "index", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "index", Status: Pass, Detail: fmt.Sprintf("%s (%d entries)", index.FileName, n)}
}

// CheckProvider checks the provider name and model.
func CheckProvider(p config.ProviderConfig) Result {
	if p.Name != config.ProviderGemini {
		return Result{Name: "provider", Status: Fail, Detail: fmt.Sprintf("unsupported provider %q", p.Name)}
	}
	if strings.TrimSpace(p.Model) == "" {
		return Result{Name: "provider", Status: Fail, Detail: "no model configured"}
	}
	return Result{Name: "provider", Status: Pass, Detail: p.Name + " (" + p.Model + ")"}
}

// CheckCredential reports where the API key comes from without showing it.
func CheckCredential(cfg config.Config) Result {
	if cfg.Provider.APIKey != "" {
		return Result{Name: "api key", Status: Pass, Detail: "set in config"}
	}
	if cfg.APIKey() != "" {
		return Result{Name: "api key", Status: Pass, Detail: "from $" + cfg.Provider.APIKeyEnv}
	}
	if cfg.Provider.APIKeyEnv == "" {
		return Result{Name: "api key", Status: Fail, Detail: "not configured"}
	}
	return Result{Name: "api key", Status: Fail, Detail: "$" + cfg.Provider.APIKeyEnv + " not set"}
}

// CheckStyle checks that default_style names a known style.
func CheckStyle(name string) Result {
	id, err := styles.Parse(name)
	if err != nil {
		return Result{Name: "style", Status: Warn, Detail: fmt.Sprintf("%q unknown, using %s", name, styles.Structured)}
	}
	return Result{Name: "style", Status: Pass, Detail: string(id)}
}

// CheckInbox reports the watch folder and how many files wait in it.
func CheckInbox(inboxDir string) Result {
	entries, err := os.ReadDir(inboxDir)
	if err != nil {
		return Result{Name: "inbox", Status: Warn, Detail: filepath.Base(inboxDir) + "/ not found (created by vj watch)"}
	}
	waiting := 0
	for _, e := range entries {
		if !e.IsDir() {
			waiting++
		}
	}
	return Result{Name: "inbox", Status: Pass, Detail: fmt.Sprintf("%s/ (%d waiting)", filepath.Base(inboxDir), waiting)}
}

// Run executes all checks and returns the aggregated report.
func Run(cfg config.Config, configPath string) Report {
	results := []Result{
		CheckConfig(configPath),
		CheckVaultPath(cfg.VaultPath),
	}

	// Vault-dependent checks are meaningless without a vault.
	if results[1].Status != Fail {
		results = append(results,
			CheckObsidian(cfg.VaultPath),
			CheckJournal(cfg.JournalDir()),
			CheckStateDir(cfg.StateDir()),
			CheckIndex(cfg.StateDir()),
			CheckInbox(cfg.InboxDir()),
		)
	}

	results = append(results,
		CheckProvider(cfg.Provider),
		CheckCredential(cfg),
		CheckStyle(cfg.DefaultStyle),
	)

	return Report{Results: results}
}
