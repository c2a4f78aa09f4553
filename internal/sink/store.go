package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrStorage marks failures reading or writing vault documents.
var ErrStorage = errors.New("storage failure")

// Store is the document store the sink writes to. Paths are relative to the
// store root and use forward slashes.
type Store interface {
	Exists(path string) (bool, error)
	Read(path string) (string, error)
	// Create writes a new document and fails if one already exists.
	Create(path, content string) error
	Modify(path, content string) error
}

// VaultStore is a Store over a vault directory on disk.
type VaultStore struct {
	Root string
}

func (v VaultStore) Exists(path string) (bool, error) {
	abs, err := v.Abs(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%w: %s is a directory", ErrStorage, path)
	}
	return true, nil
}

func (v VaultStore) Read(path string) (string, error) {
	abs, err := v.Abs(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrStorage, path, err)
	}
	return string(data), nil
}

// Create makes parent folders as needed.
func (v VaultStore) Create(path, content string) error {
	abs, err := v.Abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("%w: create folder: %w", ErrStorage, err)
	}
	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrStorage, path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %w", ErrStorage, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorage, path, err)
	}
	return nil
}

// Modify replaces the content of an existing document.
func (v VaultStore) Modify(path, content string) error {
	abs, err := v.Abs(path)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrStorage, path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %w", ErrStorage, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorage, path, err)
	}
	return nil
}

// Abs resolves a vault-relative path. Paths leaving the vault are rejected.
func (v VaultStore) Abs(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside the vault", ErrStorage, path)
	}
	return filepath.Join(v.Root, clean), nil
}

// Resolve returns the on-disk location of a vault-relative path without
// checking it.
func (v VaultStore) Resolve(path string) string {
	return filepath.Join(v.Root, filepath.FromSlash(path))
}
