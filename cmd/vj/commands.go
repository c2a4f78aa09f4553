package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/vibe-journal/internal/archive"
	"github.com/suykerbuyk/vibe-journal/internal/check"
	"github.com/suykerbuyk/vibe-journal/internal/config"
	"github.com/suykerbuyk/vibe-journal/internal/inbox"
	"github.com/suykerbuyk/vibe-journal/internal/index"
	"github.com/suykerbuyk/vibe-journal/internal/manpage"
	"github.com/suykerbuyk/vibe-journal/internal/noteparse"
	"github.com/suykerbuyk/vibe-journal/internal/scaffold"
	"github.com/suykerbuyk/vibe-journal/internal/settings"
	"github.com/suykerbuyk/vibe-journal/internal/stats"
	"github.com/suykerbuyk/vibe-journal/internal/styles"
)

var errChecksFailed = errors.New("some checks failed")

func newStylesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the journal styles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			def := a.cfg.Style()
			for _, t := range styles.All() {
				mark := " "
				if t.ID == def {
					mark = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s  %s\n", mark, t.ID, t.Label())
			}
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Edit settings interactively, or show, set and locate them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.Path(a.configPath)
			n, err := settings.Edit(&a.cfg, settings.SurveyAsker{}, func(c config.Config) error {
				return config.Save(path, c)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d settings changed (%s)\n", n, config.CompressHome(path))
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print every setting",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				for _, key := range config.Keys() {
					v, err := a.cfg.Get(key)
					if err != nil {
						return err
					}
					if key == "provider.api_key" && v != "" {
						v = "********"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, v)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Change one setting",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.cfg.Set(args[0], args[1]); err != nil {
					return err
				}
				path := config.Path(a.configPath)
				if err := config.Save(path, a.cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s updated in %s\n", args[0], config.CompressHome(path))
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), config.Path(a.configPath))
			},
		},
	)
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	var format string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the most recent entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, err := a.openIndex()
			if err != nil {
				return err
			}
			defer idx.Close()

			entries, err := idx.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return index.Format(cmd.OutOrStdout(), entries, format)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum entries to show (0 for all)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var limit int
	var format string

	cmd := &cobra.Command{
		Use:   "search TERM...",
		Short: "Find entries containing a term",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.openIndex()
			if err != nil {
				return err
			}
			defer idx.Close()

			entries, err := idx.Search(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			return index.Format(cmd.OutOrStdout(), entries, format)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show (0 for all)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func newRelatedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "related ID",
		Short: "Show entries related to one entry",
		Long:  "Show up to three entries sharing tags or vocabulary with the entry whose id starts with ID.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.openIndex()
			if err != nil {
				return err
			}
			defer idx.Close()

			target, rel, err := idx.Related(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n\n", target.Date, target.Title)
			if len(rel) == 0 {
				fmt.Fprintln(out, "no related entries")
				return nil
			}
			for _, r := range rel {
				fmt.Fprintf(out, "%3d  %.8s  %s  %s\n", r.Score, r.Entry.ID, r.Entry.Date, r.Entry.Title)
			}
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize writing activity from the entry index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, err := a.openIndex()
			if err != nil {
				return err
			}
			defer idx.Close()

			entries, err := idx.Recent(cmd.Context(), 0)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), stats.Format(stats.Compute(entries, time.Now())))
			return nil
		},
	}
}

func newReindexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the entry index from the daily notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, err := a.openIndex()
			if err != nil {
				return err
			}
			defer idx.Close()

			n, err := idx.Rebuild(cmd.Context(), a.cfg.VaultPath, a.cfg.JournalFolder)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d entries\n", n)
			return nil
		},
	}
}

func newArchiveCmd(a *app) *cobra.Command {
	var before string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Compress old daily notes",
		Long: `Compress every daily note dated before --before (default: the first day of
the current month) into .vibe-journal/archive and remove the original.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cutoff, err := archiveCutoff(before, time.Now())
			if err != nil {
				return err
			}
			paths, err := archive.Before(a.cfg.JournalDir(), archiveDir(a.cfg), cutoff)
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "archived: %s\n", filepath.Base(p))
			}
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to archive")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "archive notes dated before this day (YYYY-MM-DD)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show DATE",
		Short: "Print an archived daily note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := time.Parse(noteparse.DateLayout, args[0]); err != nil {
				return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", args[0])
			}
			dir := archiveDir(a.cfg)
			if !archive.IsArchived(args[0], dir) {
				return fmt.Errorf("no archived note for %s", args[0])
			}
			data, err := archive.Read(archive.ArchivePath(args[0], dir))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})
	return cmd
}

func archiveDir(cfg config.Config) string {
	return filepath.Join(cfg.StateDir(), "archive")
}

func archiveCutoff(flag string, now time.Time) (time.Time, error) {
	if flag == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	t, err := time.ParseInLocation(noteparse.DateLayout, flag, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --before %q (want YYYY-MM-DD)", flag)
	}
	return t, nil
}

func newWatchCmd(a *app) *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "File text dropped into the inbox folder as journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.style(style)
			if err != nil {
				return err
			}
			closeLog, err := a.logToFile(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			s, closeIndex := a.sinkWithIndex()
			defer closeIndex()
			// Opening every filed note would pop windows unattended.
			s.Opener = nil

			w := &inbox.Watcher{
				Dir:         a.cfg.InboxDir(),
				Style:       id,
				Override:    a.cfg.CustomPrompt,
				Transformer: a.transformer(),
				Saver:       s,
			}
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", "", "journal style (default from config)")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report := check.Run(a.cfg, a.configPath)
			fmt.Fprint(cmd.OutOrStdout(), report.Format())
			if report.HasFailures() {
				return errChecksFailed
			}
			return nil
		},
	}
}

func newInitCmd(a *app) *cobra.Command {
	var gitInit bool

	cmd := &cobra.Command{
		Use:   "init [vault]",
		Short: "Prepare a vault for journaling and write a default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vault := a.cfg.VaultPath
			if len(args) > 0 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolve vault: %w", err)
				}
				vault = abs
			}
			a.cfg.VaultPath = vault

			written, err := scaffold.Init(vault, a.cfg, scaffold.Options{GitInit: gitInit})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, rel := range written {
				fmt.Fprintf(out, "created: %s\n", rel)
			}

			path := config.Path(a.configPath)
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(out, "config: %s (kept)\n", config.CompressHome(path))
				return nil
			}
			if a.configPath == "" {
				path, err = config.WriteDefault(vault)
			} else {
				err = config.Save(path, a.cfg)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "config: %s\n", config.CompressHome(path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&gitInit, "git", false, "run git init in the vault")
	return cmd
}

func newManCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:    "man [dir]",
		Short:  "Write roff man pages for every command",
		Hidden: true,
		Args:   cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "man"
			if len(args) > 0 {
				dir = args[0]
			}
			if date == "" {
				date = time.Now().Format(noteparse.DateLayout)
			}
			paths, err := manpage.Write(cmd.Root(), dir, manpage.Header{
				Date:   date,
				Source: "vj " + version,
				Manual: "Vibe-Journal Manual",
			})
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date stamped in the pages (default today)")
	return cmd
}
