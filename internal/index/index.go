// Package index keeps a searchable SQLite catalogue of saved journal entries
// in the vault's state directory.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// FileName is the database file inside the state directory.
const FileName = "index.db"

// timeLayout sorts lexically in creation order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var (
	ErrEmptyTerm = errors.New("search term is empty")
	ErrNotFound  = errors.New("entry not found")
	ErrAmbiguous = errors.New("entry id is ambiguous")
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	path TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '',
	style TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at);
CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date);
`

// Entry is one saved journal entry.
type Entry struct {
	ID        string    `json:"id" yaml:"id"`
	Date      string    `json:"date" yaml:"date"` // YYYY-MM-DD
	Path      string    `json:"path" yaml:"path"` // relative to vault root
	Title     string    `json:"title" yaml:"title"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Style     string    `json:"style,omitempty" yaml:"style,omitempty"`
	Body      string    `json:"body" yaml:"body"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Index is an open entry database.
type Index struct {
	db   *sql.DB
	path string
}

// Open opens or creates <stateDir>/index.db.
func Open(stateDir string) (*Index, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	path := filepath.Join(stateDir, FileName)
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init index schema: %w", err)
	}
	_ = os.Chmod(path, 0o600)

	return &Index{db: db, path: path}, nil
}

// Path returns the database file location.
func (idx *Index) Path() string { return idx.path }

func (idx *Index) Close() error {
	return idx.db.Close()
}

// Record stores e, assigning an ID and creation time when missing.
func (idx *Index) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if err := insert(ctx, idx.db, e); err != nil {
		return Entry{}, fmt.Errorf("record entry: %w", err)
	}
	return e, nil
}

// Get returns the entry with id. IDs may be abbreviated to a unique prefix.
func (idx *Index) Get(ctx context.Context, id string) (Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Entry{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := idx.db.QueryContext(ctx, selectCols+` FROM entries WHERE id LIKE ? || '%' ESCAPE '\' ORDER BY created_at DESC LIMIT 2`, likeEscaper.Replace(id))
	if err != nil {
		return Entry{}, fmt.Errorf("query entry: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return Entry{}, err
	}
	switch len(entries) {
	case 0:
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return entries[0], nil
	default:
		return Entry{}, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Recent returns up to limit entries, newest first. limit <= 0 means all.
func (idx *Index) Recent(ctx context.Context, limit int) ([]Entry, error) {
	q := selectCols + ` FROM entries ORDER BY created_at DESC, rowid DESC`
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := idx.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query recent entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search returns entries whose body, title or tags contain term, ignoring
// case, newest first.
func (idx *Index) Search(ctx context.Context, term string, limit int) ([]Entry, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, ErrEmptyTerm
	}

	// SQLite's lower() only folds ASCII, so matching happens here.
	all, err := idx.Recent(ctx, 0)
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, e := range all {
		hay := strings.ToLower(e.Body + "\n" + e.Title + "\n" + strings.Join(e.Tags, " "))
		if !strings.Contains(hay, term) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Count returns the number of indexed entries.
func (idx *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := idx.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

const selectCols = `SELECT id, date, path, title, tags, style, body, created_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, e Entry) error {
	_, err := db.ExecContext(ctx, `INSERT INTO entries
		(id, date, path, title, tags, style, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date, filepath.ToSlash(e.Path), e.Title, strings.Join(e.Tags, " "),
		e.Style, e.Body, e.CreatedAt.UTC().Format(timeLayout),
	)
	return err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var result []Entry
	for rows.Next() {
		var (
			e         Entry
			tags      string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Date, &e.Path, &e.Title, &tags, &e.Style, &e.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Tags = strings.Fields(tags)
		if t, err := time.Parse(timeLayout, createdAt); err == nil {
			e.CreatedAt = t.Local()
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
