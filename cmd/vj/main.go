package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/vibe-journal/internal/config"
	"github.com/suykerbuyk/vibe-journal/internal/gemini"
	"github.com/suykerbuyk/vibe-journal/internal/index"
	"github.com/suykerbuyk/vibe-journal/internal/sink"
	"github.com/suykerbuyk/vibe-journal/internal/styles"
	"github.com/suykerbuyk/vibe-journal/internal/transform"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

const logFile = "vj.log"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(&app{stdin: os.Stdin}).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vj: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by all commands: the resolved config and the
// process streams.
type app struct {
	configPath string
	cfg        config.Config
	stdin      io.Reader
}

func newRootCmd(a *app) *cobra.Command {
	var style, note string

	root := &cobra.Command{
		Use:   "vj",
		Short: "Turn loose writing into journal entries",
		Long: `vj turns loose, unstructured writing into a journal entry with Gemini,
optionally deepens it with reflective questions, and files it into the daily
note of an Obsidian-style vault.

Run without a command to open the wizard with an empty input.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWizard(cmd, "", style, note)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file path (default ~/.config/vibe-journal/config.toml)")
	root.Flags().StringVarP(&style, "style", "s", "", "journal style (default from config)")
	root.Flags().StringVar(&note, "note", "", "note file the insert action writes into")

	root.AddCommand(
		newSelectionCmd(a),
		newTransformCmd(a),
		newStylesCmd(a),
		newConfigCmd(a),
		newHistoryCmd(a),
		newSearchCmd(a),
		newRelatedCmd(a),
		newReindexCmd(a),
		newStatsCmd(a),
		newArchiveCmd(a),
		newWatchCmd(a),
		newCheckCmd(a),
		newInitCmd(a),
		newVersionCmd(),
		newManCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vj v%s (vibe-journal) %s/%s\n", version, runtime.GOOS, runtime.GOARCH)
		},
	}
}

// load reads the config and installs the default stderr logger.
func (a *app) load(cmd *cobra.Command) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn})))

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	return nil
}

// logToFile sends the default logger to <state>/vj.log, plus extra when
// set. The returned func closes the file.
func (a *app) logToFile(extra io.Writer) (func(), error) {
	if err := os.MkdirAll(a.cfg.StateDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(a.cfg.StateDir(), logFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	var w io.Writer = f
	if extra != nil {
		w = io.MultiWriter(f, extra)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
	return func() { f.Close() }, nil
}

// style resolves a --style flag, falling back to the configured default.
func (a *app) style(flag string) (styles.ID, error) {
	if flag == "" {
		return a.cfg.Style(), nil
	}
	return styles.Parse(flag)
}

func (a *app) transformer() *transform.Client {
	model := gemini.New(a.cfg.Provider, a.cfg.APIKey())
	return transform.New(a.cfg.Provider.Name, model)
}

// openIndex opens the entry index, which is optional when saving.
func (a *app) openIndex() (*index.Index, error) {
	return index.Open(a.cfg.StateDir())
}

// newSink builds the journal sink. idx may be nil.
func (a *app) newSink(idx *index.Index) *sink.Sink {
	store := sink.VaultStore{Root: a.cfg.VaultPath}
	s := &sink.Sink{
		Store:   store,
		Folder:  a.cfg.JournalFolder,
		Resolve: store.Resolve,
	}
	if idx != nil {
		s.Recorder = idx
	}
	if a.cfg.OpenCommand != "" {
		s.Opener = sink.CommandOpener{Command: a.cfg.OpenCommand}
	}
	return s
}

// sinkWithIndex opens the index for recording; a broken index only costs
// history, never the save.
func (a *app) sinkWithIndex() (*sink.Sink, func()) {
	idx, err := a.openIndex()
	if err != nil {
		slog.Warn("warning: entry index unavailable", "err", err)
		return a.newSink(nil), func() {}
	}
	return a.newSink(idx), func() { idx.Close() }
}
