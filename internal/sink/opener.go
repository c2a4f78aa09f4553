package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandOpener opens documents by running Command with the document path
// appended, e.g. "xdg-open" or "code -r". An empty command does nothing.
type CommandOpener struct {
	Command string
}

// Open starts the command without waiting for it to exit. The command
// outlives ctx.
func (o CommandOpener) Open(_ context.Context, path string) error {
	args := strings.Fields(o.Command)
	if len(args) == 0 {
		return nil
	}
	cmd := exec.Command(args[0], append(args[1:], path)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}
	go cmd.Wait()
	return nil
}

// ErrNoActiveNote is returned by NoteInserter when no note was chosen.
var ErrNoActiveNote = errors.New("no active note to insert into (use --note)")

// NoteInserter appends entries to the note the user is working on.
type NoteInserter struct {
	Path string // absolute path of the active note
}

// Insert appends text to the note, separated from existing content by a
// blank line. A missing note is created.
func (n NoteInserter) Insert(_ context.Context, text string) error {
	if n.Path == "" {
		return ErrNoActiveNote
	}

	existing, err := os.ReadFile(n.Path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: read %s: %w", ErrStorage, n.Path, err)
	}

	content := string(existing)
	if strings.TrimSpace(content) != "" {
		content = strings.TrimRight(content, "\n") + "\n\n"
	}
	content += text
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	if err := os.WriteFile(n.Path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorage, n.Path, err)
	}
	return nil
}
