// Package archive moves old daily notes out of the journal folder into
// zstd-compressed files under the vault's state directory.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/suykerbuyk/vibe-journal/internal/noteparse"
)

const ext = ".md.zst"

// Archive compresses the daily note at srcPath into
// archiveDir/<date>.md.zst and removes the original. Returns the archive
// path.
func Archive(srcPath, archiveDir string) (string, error) {
	date, ok := noteparse.DateFromPath(srcPath)
	if !ok {
		return "", fmt.Errorf("cannot extract date from %s", srcPath)
	}

	destPath := ArchivePath(date, archiveDir)
	if IsArchived(date, archiveDir) {
		return "", fmt.Errorf("%s is already archived at %s", date, destPath)
	}

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	if err := compress(src, destPath); err != nil {
		os.Remove(destPath)
		return "", err
	}

	src.Close()
	if err := os.Remove(srcPath); err != nil {
		return destPath, fmt.Errorf("remove archived note: %w", err)
	}
	return destPath, nil
}

func compress(src io.Reader, destPath string) error {
	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, src); err != nil {
		encoder.Close()
		return fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}
	return dest.Close()
}

// Before archives every daily note in journalDir dated strictly before
// cutoff's calendar day. Returns the archive paths in date order.
func Before(journalDir, archiveDir string, cutoff time.Time) ([]string, error) {
	dirEntries, err := os.ReadDir(journalDir)
	if err != nil {
		return nil, fmt.Errorf("read journal folder: %w", err)
	}

	limit := cutoff.Format(noteparse.DateLayout)
	var notes []string
	for _, de := range dirEntries {
		if de.IsDir() || strings.HasPrefix(de.Name(), "_") {
			continue
		}
		date, ok := noteparse.DateFromPath(de.Name())
		if !ok || date >= limit {
			continue
		}
		notes = append(notes, filepath.Join(journalDir, de.Name()))
	}
	sort.Strings(notes)

	var archived []string
	for _, path := range notes {
		dest, err := Archive(path, archiveDir)
		if err != nil {
			return archived, err
		}
		archived = append(archived, dest)
	}
	return archived, nil
}

// Read returns the decompressed contents of an archive.
func Read(archivePath string) ([]byte, error) {
	src, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer src.Close()

	decoder, err := zstd.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	data, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	return data, nil
}

// IsArchived reports whether an archive exists for date.
func IsArchived(date, archiveDir string) bool {
	_, err := os.Stat(ArchivePath(date, archiveDir))
	return err == nil
}

// ArchivePath returns the deterministic archive path for a date.
func ArchivePath(date, archiveDir string) string {
	return filepath.Join(archiveDir, date+ext)
}
