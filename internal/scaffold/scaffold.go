package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/vibe-journal/internal/config"
	"github.com/suykerbuyk/vibe-journal/internal/styles"
)

//go:embed all:templates
var templates embed.FS

// ErrExists is returned when the journal folder already has a README.
var ErrExists = errors.New("journal already initialized")

// Options controls scaffold behavior.
type Options struct {
	GitInit bool // run git init after scaffolding
}

// Init lays out the journal and inbox folders of cfg inside vaultPath.
// Existing files other than the journal README are left untouched.
// Returns the vault-relative paths written.
func Init(vaultPath string, cfg config.Config, opts Options) ([]string, error) {
	vaultPath, err := filepath.Abs(vaultPath)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	folders := map[string]string{
		"journal": cleanFolder(cfg.JournalFolder),
		"inbox":   cleanFolder(cfg.Inbox.Folder),
	}

	readme := filepath.Join(vaultPath, filepath.FromSlash(folders["journal"]), "_README.md")
	if _, err := os.Stat(readme); err == nil {
		return nil, fmt.Errorf("%w: %s exists", ErrExists, readme)
	}

	replacer := strings.NewReplacer(
		"{{VAULT_NAME}}", filepath.Base(vaultPath),
		"{{JOURNAL_FOLDER}}", folders["journal"],
		"{{INBOX_FOLDER}}", folders["inbox"],
		"{{DEFAULT_STYLE}}", string(cfg.Style()),
		"{{STYLES}}", styleList(),
	)

	var written []string
	err = fs.WalkDir(templates, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, "templates"), "/")
		if rel == "" {
			return nil
		}

		// Top-level template dirs stand for the configured folders.
		first, rest, _ := strings.Cut(rel, "/")
		if folder, ok := folders[first]; ok {
			rel = path.Join(folder, rest)
		}
		dest := filepath.Join(vaultPath, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}
		if _, err := os.Stat(dest); err == nil {
			return nil
		}

		data, err := templates.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", p, err)
		}
		if strings.HasSuffix(rel, ".md") {
			data = []byte(replacer.Replace(string(data)))
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return err
		}
		written = append(written, rel)
		return nil
	})
	if err != nil {
		return written, fmt.Errorf("scaffold journal: %w", err)
	}

	if opts.GitInit && !dirExists(filepath.Join(vaultPath, ".git")) {
		cmd := exec.Command("git", "init", vaultPath)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return written, fmt.Errorf("git init: %w", err)
		}
	}

	return written, nil
}

func cleanFolder(folder string) string {
	folder = path.Clean("/" + strings.ReplaceAll(folder, "\\", "/"))
	folder = strings.TrimPrefix(folder, "/")
	if folder == "" {
		return "."
	}
	return folder
}

func styleList() string {
	var b strings.Builder
	for _, t := range styles.All() {
		fmt.Fprintf(&b, "- `%s`: %s\n", t.ID, t.Label())
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
