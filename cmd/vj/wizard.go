package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/suykerbuyk/vibe-journal/internal/sink"
	"github.com/suykerbuyk/vibe-journal/internal/transform"
	"github.com/suykerbuyk/vibe-journal/internal/tui"
	"github.com/suykerbuyk/vibe-journal/internal/wizard"
)

// runWizard opens the dialog pre-filled with source.
func (a *app) runWizard(cmd *cobra.Command, source, styleFlag, note string) error {
	style, err := a.style(styleFlag)
	if err != nil {
		return err
	}
	if note != "" {
		if note, err = filepath.Abs(note); err != nil {
			return fmt.Errorf("resolve note: %w", err)
		}
	}

	closeLog, err := a.logToFile(nil)
	if err != nil {
		return err
	}
	defer closeLog()

	saver, closeIndex := a.sinkWithIndex()
	defer closeIndex()

	ctrl := wizard.NewController(wizard.NewSession(source, style), wizard.Deps{
		Transformer: a.transformer(),
		Clipboard:   wizard.SystemClipboard{},
		Inserter:    sink.NoteInserter{Path: note},
		Saver:       saver,
		Override:    a.cfg.CustomPrompt,
	})

	var opts []tea.ProgramOption
	if !stdinIsTerminal(a.stdin) {
		// Keys come from the terminal when the selection was piped in.
		opts = append(opts, tea.WithInputTTY())
	}

	slog.Info("wizard opened", "style", style, "source_len", len(source))
	res, err := tui.Run(cmd.Context(), ctrl, slog.Default(), opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch res.Action {
	case wizard.ActionSave:
		fmt.Fprintf(out, "Agregado a la nota del día: %s\n", res.Location)
	case wizard.ActionInsert:
		fmt.Fprintf(out, "Insertado en la nota: %s\n", note)
	}
	return nil
}

func newSelectionCmd(a *app) *cobra.Command {
	var style, note string
	var fromClipboard bool

	cmd := &cobra.Command{
		Use:   "selection [text...]",
		Short: "Open the wizard pre-filled with selected text",
		Long: `Open the wizard with the given text as input. The text comes from the
arguments, the clipboard (--clipboard), or standard input when it is piped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readSource(args, fromClipboard)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Selecciona texto primero")
				return nil
			}
			return a.runWizard(cmd, text, style, note)
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", "", "journal style (default from config)")
	cmd.Flags().StringVar(&note, "note", "", "note file the insert action writes into")
	cmd.Flags().BoolVarP(&fromClipboard, "clipboard", "b", false, "use the clipboard contents as the selection")
	return cmd
}

func newTransformCmd(a *app) *cobra.Command {
	var style string
	var save, fromClipboard bool

	cmd := &cobra.Command{
		Use:   "transform [text...]",
		Short: "Transform text into a journal entry without the wizard",
		Long: `Transform text with one model call and print the entry, or file it into
today's note with --save. The text comes from the arguments, the clipboard,
or standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.style(style)
			if err != nil {
				return err
			}
			text, err := a.readSource(args, fromClipboard)
			if err != nil {
				return err
			}

			res, err := a.transformer().Transform(cmd.Context(), transform.Request{
				Source:   text,
				Style:    id,
				Override: a.cfg.CustomPrompt,
			})
			if err != nil {
				return err
			}

			if !save {
				fmt.Fprintln(cmd.OutOrStdout(), res.Text)
				return nil
			}
			s, closeIndex := a.sinkWithIndex()
			defer closeIndex()
			loc, err := s.SaveStyled(cmd.Context(), res.Text, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved: %s\n", loc)
			return nil
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", "", "journal style (default from config)")
	cmd.Flags().BoolVar(&save, "save", false, "append the entry to today's note")
	cmd.Flags().BoolVarP(&fromClipboard, "clipboard", "b", false, "read the text from the clipboard")
	return cmd
}

// readSource collects input text from args, the clipboard, or piped stdin,
// in that order of precedence.
func (a *app) readSource(args []string, fromClipboard bool) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if fromClipboard {
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("read clipboard: %w", err)
		}
		return text, nil
	}
	if stdinIsTerminal(a.stdin) {
		return "", nil
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func stdinIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
