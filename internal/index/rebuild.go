package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/suykerbuyk/vibe-journal/internal/noteparse"
)

// Rebuild clears the index and re-reads every daily note under
// <vaultPath>/<folder>, one row per entry. Files prefixed with an underscore
// are skipped; malformed notes are logged and skipped. IDs and styles of
// entries whose text is unchanged survive the rebuild.
func (idx *Index) Rebuild(ctx context.Context, vaultPath, folder string) (int, error) {
	// Styles are not stored in the notes, so carry them over.
	old, err := idx.Recent(ctx, 0)
	if err != nil {
		return 0, err
	}
	type key struct{ path, body string }
	kept := make(map[key]Entry, len(old))
	for _, e := range old {
		kept[key{e.Path, e.Body}] = e
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}

	journalDir := filepath.Join(vaultPath, folder)
	count := 0

	err = filepath.Walk(journalDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".md" || strings.HasPrefix(info.Name(), "_") {
			return nil
		}

		entries, parseErr := noteparse.ParseFile(path)
		if parseErr != nil {
			slog.Warn("rebuild: skip note", "path", path, "err", parseErr)
			return nil
		}

		relPath, _ := filepath.Rel(vaultPath, path)
		relPath = filepath.ToSlash(relPath)
		date, _ := noteparse.DateFromPath(path)
		day, _ := time.ParseInLocation(noteparse.DateLayout, date, time.Local)

		for i, ne := range entries {
			e := Entry{
				ID:        uuid.NewString(),
				Date:      ne.Date,
				Path:      relPath,
				Title:     ne.Title,
				Tags:      ne.Tags,
				Body:      ne.Body,
				CreatedAt: day.Add(time.Duration(i) * time.Second),
			}
			if prev, ok := kept[key{relPath, ne.Body}]; ok {
				delete(kept, key{relPath, ne.Body})
				e.ID = prev.ID
				e.Style = prev.Style
				e.CreatedAt = prev.CreatedAt
			}
			if err := insert(ctx, tx, e); err != nil {
				return fmt.Errorf("index %s: %w", relPath, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("journal folder %s does not exist", journalDir)
		}
		return 0, fmt.Errorf("walk journal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rebuild: %w", err)
	}
	return count, nil
}
