// Package noteparse reads daily journal notes back into entries.
package noteparse

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Separator divides entries appended to the same daily note.
const Separator = "\n\n---\n\n"

// DateLayout names daily notes: <YYYY-MM-DD>.md.
const DateLayout = "2006-01-02"

const maxTitleRunes = 80

// Entry is one journal entry inside a daily note.
type Entry struct {
	Date  string
	Title string
	Tags  []string
	Body  string
}

var tagPattern = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_/-]+)`)

// ParseFile reads a daily note and returns its entries. The file name must
// be a date.
func ParseFile(path string) ([]Entry, error) {
	date, ok := DateFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: not a daily note name", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(date, string(data)), nil
}

// Parse splits note into entries stamped with date.
func Parse(date, note string) []Entry {
	var entries []Entry
	for _, body := range Split(note) {
		entries = append(entries, Entry{
			Date:  date,
			Title: Title(body),
			Tags:  Tags(body),
			Body:  body,
		})
	}
	return entries
}

// DateFromPath returns the date of a daily note path like
// journal/daily/2026-03-01.md.
func DateFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".md") {
		return "", false
	}
	date := strings.TrimSuffix(base, ".md")
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", false
	}
	return date, true
}

// Split returns the non-blank entries of a daily note.
func Split(note string) []string {
	note = strings.ReplaceAll(note, "\r\n", "\n")
	var out []string
	for _, part := range strings.Split(note, Separator) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Title returns the text of the first markdown heading, or the first
// non-blank line when the entry has no heading.
func Title(entry string) string {
	src := []byte(entry)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var title string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			title = strings.TrimSpace(inlineText(h, src))
			if title != "" {
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})

	if title == "" {
		title = firstLine(entry)
	}
	return truncate(title, maxTitleRunes)
}

// Tags returns the #tags of an entry in order of first appearance.
// Headings and fenced code are ignored.
func Tags(entry string) []string {
	var tags []string
	seen := make(map[string]bool)
	inFence := false

	scanner := bufio.NewScanner(strings.NewReader(entry))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}
		if inFence || isHeading(line) {
			continue
		}
		for _, m := range tagPattern.FindAllStringSubmatch(line, -1) {
			tag := strings.ToLower(m[1])
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func inlineText(n ast.Node, src []byte) string {
	var b bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(inlineText(c, src))
		}
	}
	return b.String()
}

func isHeading(line string) bool {
	if !strings.HasPrefix(line, "#") {
		return false
	}
	rest := strings.TrimLeft(line, "#")
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

func firstLine(entry string) string {
	for _, line := range strings.Split(entry, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*>"))
		if line != "" {
			return line
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
