// Package inbox turns text files dropped into a vault folder into journal
// entries.
package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/suykerbuyk/vibe-journal/internal/styles"
	"github.com/suykerbuyk/vibe-journal/internal/transform"
)

// ProcessedDir is the subfolder handled files are moved into.
const ProcessedDir = "processed"

const defaultDebounce = 500 * time.Millisecond

type Transformer interface {
	Transform(ctx context.Context, req transform.Request) (transform.Result, error)
}

type Saver interface {
	SaveStyled(ctx context.Context, content string, style styles.ID) (string, error)
}

// Watcher processes files in Dir: each is transformed with Style, saved,
// and moved to Dir/processed. Failed files stay where they are.
type Watcher struct {
	Dir         string
	Style       styles.ID
	Override    string
	Transformer Transformer
	Saver       Saver
	Debounce    time.Duration
	Log         *slog.Logger
}

// Run processes files already in the inbox, then watches for new ones
// until ctx ends.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("create inbox: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}
	w.logger().Info("watching inbox", "dir", w.Dir, "style", w.Style)

	if _, err := w.Drain(ctx); err != nil {
		return err
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	pending := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if evt.Op&(fsnotify.Create|fsnotify.Write) == 0 || !w.eligible(evt.Name) {
				continue
			}
			pending[evt.Name] = true
			timer.Reset(debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger().Warn("warning: watcher error", "err", err)
		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			for _, p := range paths {
				if _, err := os.Stat(p); err != nil {
					continue
				}
				w.process(ctx, p)
			}
		}
	}
}

// Drain processes every eligible file currently in the inbox and returns
// how many were filed.
func (w *Watcher) Drain(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return 0, fmt.Errorf("read inbox: %w", err)
	}
	n := 0
	for _, de := range entries {
		path := filepath.Join(w.Dir, de.Name())
		if de.IsDir() || !w.eligible(path) {
			continue
		}
		if w.process(ctx, path) {
			n++
		}
	}
	return n, nil
}

func (w *Watcher) process(ctx context.Context, path string) bool {
	loc, err := w.ProcessFile(ctx, path)
	if err != nil {
		w.logger().Warn("warning: inbox file not processed", "path", path, "err", err)
		return false
	}
	w.logger().Info("filed inbox entry", "path", path, "note", loc)
	return true
}

// ProcessFile transforms, saves and moves one file. Returns the note the
// entry was saved to.
func (w *Watcher) ProcessFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}

	res, err := w.Transformer.Transform(ctx, transform.Request{
		Source:   string(data),
		Style:    w.Style,
		Override: w.Override,
	})
	if err != nil {
		return "", err
	}

	loc, err := w.Saver.SaveStyled(ctx, res.Text, w.Style)
	if err != nil {
		return "", err
	}

	if err := moveProcessed(path); err != nil {
		// The entry is saved; an unmoved file would be filed again.
		w.logger().Warn("warning: inbox file not moved", "path", path, "err", err)
		if merr := markFiled(path); merr != nil {
			return loc, fmt.Errorf("%w (mark filed: %v)", err, merr)
		}
	}
	return loc, nil
}

// markFiled renames path in place with an underscore prefix, which eligible
// skips.
func markFiled(path string) error {
	dest := filepath.Join(filepath.Dir(path), "_"+filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(dest)
		dest = strings.TrimSuffix(dest, ext) + "-" + time.Now().Format("20060102-150405") + ext
	}
	return os.Rename(path, dest)
}

func (w *Watcher) eligible(path string) bool {
	if filepath.Dir(path) != filepath.Clean(w.Dir) {
		return false
	}
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".txt" || ext == ".md"
}

func (w *Watcher) logger() *slog.Logger {
	if w.Log != nil {
		return w.Log
	}
	return slog.Default()
}

func moveProcessed(path string) error {
	dir := filepath.Join(filepath.Dir(path), ProcessedDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create processed dir: %w", err)
	}

	name := filepath.Base(path)
	dest := filepath.Join(dir, name)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(name)
		stamp := time.Now().Format("20060102-150405")
		dest = filepath.Join(dir, strings.TrimSuffix(name, ext)+"-"+stamp+ext)
	}

	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("move to processed: %w", err)
	}
	return nil
}
