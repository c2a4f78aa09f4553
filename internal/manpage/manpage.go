// Package manpage renders a cobra command tree as roff man pages.
package manpage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Header carries the .TH fields shared by every page.
type Header struct {
	Date    string // YYYY-MM-DD; pass a fixed value for reproducible builds
	Source  string // e.g. "vj v1.0.0"
	Manual  string
	Section string // defaults to "1"
}

func (h Header) section() string {
	if h.Section == "" {
		return "1"
	}
	return h.Section
}

// Name returns the page name for cmd: "vj config show" becomes "vj-config-show".
func Name(cmd *cobra.Command) string {
	return strings.ReplaceAll(cmd.CommandPath(), " ", "-")
}

// Render formats one command as a roff page.
func Render(cmd *cobra.Command, h Header) string {
	var b strings.Builder

	fmt.Fprintf(&b, ".TH %s %s %q %q %q\n",
		strings.ToUpper(Name(cmd)), h.section(), h.Date, h.Source, h.Manual)

	b.WriteString(".SH NAME\n")
	fmt.Fprintf(&b, "%s \\- %s\n", escape(Name(cmd)), escape(cmd.Short))

	b.WriteString(".SH SYNOPSIS\n")
	b.WriteString(".B " + escape(cmd.UseLine()) + "\n")

	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	if desc != "" {
		b.WriteString(".SH DESCRIPTION\n")
		writeParagraphs(&b, desc)
	}

	if subs := visible(cmd); len(subs) > 0 {
		b.WriteString(".SH COMMANDS\n")
		for _, s := range subs {
			fmt.Fprintf(&b, ".TP\n.B \"%s\"\n%s\n", escape(s.UseLine()), escape(s.Short))
		}
	}

	if flags := flagLines(cmd.NonInheritedFlags()); len(flags) > 0 {
		b.WriteString(".SH OPTIONS\n")
		b.WriteString(strings.Join(flags, ""))
	}
	if flags := flagLines(cmd.InheritedFlags()); len(flags) > 0 {
		b.WriteString(".SH GLOBAL OPTIONS\n")
		b.WriteString(strings.Join(flags, ""))
	}

	if cmd.Example != "" {
		b.WriteString(".SH EXAMPLES\n.nf\n")
		b.WriteString(escape(strings.TrimRight(cmd.Example, "\n")) + "\n")
		b.WriteString(".fi\n")
	}

	var refs []string
	if cmd.HasParent() {
		refs = append(refs, ref(cmd.Parent(), h))
	}
	for _, s := range visible(cmd) {
		refs = append(refs, ref(s, h))
	}
	if len(refs) > 0 {
		b.WriteString(".SH SEE ALSO\n")
		b.WriteString(strings.Join(refs, ",\n") + "\n")
	}

	return b.String()
}

// Write renders root and every visible descendant into dir and returns the
// written paths.
func Write(root *cobra.Command, dir string, h Header) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create man dir: %w", err)
	}
	var written []string
	var walk func(c *cobra.Command) error
	walk = func(c *cobra.Command) error {
		path := filepath.Join(dir, Name(c)+"."+h.section())
		if err := os.WriteFile(path, []byte(Render(c, h)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
		for _, s := range visible(c) {
			if err := walk(s); err != nil {
				return err
			}
		}
		return nil
	}
	return written, walk(root)
}

func visible(cmd *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand() {
			continue
		}
		out = append(out, c)
	}
	return out
}

func flagLines(fs *pflag.FlagSet) []string {
	var out []string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		name := "--" + f.Name
		if f.Shorthand != "" {
			name = "-" + f.Shorthand + ", " + name
		}
		if t := f.Value.Type(); t != "bool" {
			name += " " + t
		}
		usage := f.Usage
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			usage += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		out = append(out, fmt.Sprintf(".TP\n.B %s\n%s\n", escape(name), escape(usage)))
	})
	return out
}

func ref(cmd *cobra.Command, h Header) string {
	return fmt.Sprintf(".BR %s (%s)", escape(Name(cmd)), h.section())
}

// escape quotes roff specials: backslashes, leading dots and hyphens.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n.", "\n\\&.")
	if strings.HasPrefix(s, ".") {
		s = "\\&" + s
	}
	return strings.ReplaceAll(s, "-", "\\-")
}

// writeParagraphs turns blank lines into .PP breaks.
func writeParagraphs(b *strings.Builder, text string) {
	prevBlank := false
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if !prevBlank {
				b.WriteString(".PP\n")
			}
			prevBlank = true
			continue
		}
		prevBlank = false
		b.WriteString(escape(line) + "\n")
	}
}
