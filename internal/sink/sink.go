// Package sink files finished journal entries into the dated daily note of
// the journal folder.
package sink

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/suykerbuyk/vibe-journal/internal/index"
	"github.com/suykerbuyk/vibe-journal/internal/noteparse"
	"github.com/suykerbuyk/vibe-journal/internal/styles"
)

// Recorder stores saved entries for history and search.
type Recorder interface {
	Record(ctx context.Context, e index.Entry) (index.Entry, error)
}

// Opener shows a saved document to the user.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// Sink appends entries to <Folder>/<YYYY-MM-DD>.md. It is not safe for
// concurrent writers to the same day.
type Sink struct {
	Store  Store
	Folder string

	Recorder Recorder            // optional
	Opener   Opener              // optional
	Now      func() time.Time    // defaults to time.Now
	Resolve  func(string) string // maps a store path to what Opener receives; optional
}

// Save files content and returns the note's store path.
func (s *Sink) Save(ctx context.Context, content string) (string, error) {
	return s.SaveStyled(ctx, content, "")
}

// SaveStyled is Save, recording which style produced the entry.
func (s *Sink) SaveStyled(ctx context.Context, content string, style styles.ID) (string, error) {
	now := s.now()
	date := now.Format(noteparse.DateLayout)
	notePath := s.NotePath(now)

	exists, err := s.Store.Exists(notePath)
	if err != nil {
		return "", err
	}
	if exists {
		existing, err := s.Store.Read(notePath)
		if err != nil {
			return "", err
		}
		if err := s.Store.Modify(notePath, existing+noteparse.Separator+content); err != nil {
			return "", err
		}
	} else {
		if err := s.Store.Create(notePath, content); err != nil {
			return "", err
		}
	}

	if s.Recorder != nil {
		body := strings.TrimSpace(content)
		_, err := s.Recorder.Record(ctx, index.Entry{
			Date:      date,
			Path:      notePath,
			Title:     noteparse.Title(body),
			Tags:      noteparse.Tags(body),
			Style:     string(style),
			Body:      body,
			CreatedAt: now,
		})
		if err != nil {
			slog.Warn("warning: could not index entry", "path", notePath, "err", err)
		}
	}

	if s.Opener != nil {
		target := notePath
		if s.Resolve != nil {
			target = s.Resolve(notePath)
		}
		if err := s.Opener.Open(ctx, target); err != nil {
			slog.Warn("warning: could not open note", "path", target, "err", err)
		}
	}

	return notePath, nil
}

// NotePath returns the daily note path for t.
func (s *Sink) NotePath(t time.Time) string {
	folder := strings.Trim(s.Folder, "/")
	name := t.Format(noteparse.DateLayout) + ".md"
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

func (s *Sink) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
