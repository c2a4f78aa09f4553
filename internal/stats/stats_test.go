package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/suykerbuyk/vibe-journal/internal/index"
)

var today = time.Date(2026, 3, 10, 20, 0, 0, 0, time.Local)

func entry(date, style, body string, tags ...string) index.Entry {
	return index.Entry{Date: date, Style: style, Body: body, Tags: tags}
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, today)
	if s.TotalEntries != 0 || s.AvgWordsPerEntry != 0 || s.CurrentStreak != 0 || s.LongestStreak != 0 {
		t.Errorf("summary = %+v", s)
	}
	if !strings.Contains(Format(s), "No entries found") {
		t.Errorf("empty format = %q", Format(s))
	}
}

func TestCompute_Totals(t *testing.T) {
	entries := []index.Entry{
		entry("2026-03-10", "structured", "uno dos tres", "salud"),
		entry("2026-03-10", "bullet", "cuatro", "salud", "trabajo"),
		entry("2026-02-01", "structured", "cinco seis"),
	}
	s := Compute(entries, today)

	if s.TotalEntries != 3 || s.TotalWords != 6 || s.ActiveDays != 2 {
		t.Errorf("totals = %d entries, %d words, %d days", s.TotalEntries, s.TotalWords, s.ActiveDays)
	}
	if s.AvgWordsPerEntry != 2 || s.AvgEntriesPerDay != 1.5 {
		t.Errorf("averages = %.2f, %.2f", s.AvgWordsPerEntry, s.AvgEntriesPerDay)
	}

	if len(s.Styles) != 2 || s.Styles[0].Name != "structured" || s.Styles[0].Entries != 2 {
		t.Errorf("styles = %+v", s.Styles)
	}
	if len(s.Tags) != 2 || s.Tags[0].Name != "salud" || s.Tags[0].Count != 2 {
		t.Errorf("tags = %+v", s.Tags)
	}
	if len(s.Monthly) != 2 || s.Monthly[0].Month != "2026-03" || s.Monthly[0].Words != 4 {
		t.Errorf("monthly = %+v", s.Monthly)
	}
}

func TestCompute_UnknownStyle(t *testing.T) {
	s := Compute([]index.Entry{entry("2026-03-10", "", "x")}, today)
	if len(s.Styles) != 1 || s.Styles[0].Name != "unknown" || s.Styles[0].Percent != 100 {
		t.Errorf("styles = %+v", s.Styles)
	}
}

func TestStreaks(t *testing.T) {
	tests := []struct {
		name    string
		dates   []string
		current int
		longest int
	}{
		{"today only", []string{"2026-03-10"}, 1, 1},
		{"ends yesterday", []string{"2026-03-08", "2026-03-09"}, 2, 2},
		{"broken", []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-08"}, 0, 3},
		{"month boundary", []string{"2026-02-28", "2026-03-01"}, 0, 2},
		{"current run", []string{"2026-03-05", "2026-03-08", "2026-03-09", "2026-03-10"}, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := make(map[string]bool)
			for _, d := range tt.dates {
				days[d] = true
			}
			cur, long := streaks(days, today)
			if cur != tt.current || long != tt.longest {
				t.Errorf("streaks = %d, %d, want %d, %d", cur, long, tt.current, tt.longest)
			}
		})
	}
}

func TestCompute_CapsTagsAndMonths(t *testing.T) {
	var entries []index.Entry
	for m := 1; m <= 8; m++ {
		date := time.Date(2025, time.Month(m), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		entries = append(entries, entry(date, "bullet", "x", "a"+date, "b"+date))
	}
	s := Compute(entries, today)
	if len(s.Tags) != maxTags {
		t.Errorf("tags = %d, want %d", len(s.Tags), maxTags)
	}
	if len(s.Monthly) != maxMonths || s.Monthly[0].Month != "2025-08" {
		t.Errorf("monthly = %+v", s.Monthly)
	}
}

func TestFormat(t *testing.T) {
	s := Compute([]index.Entry{
		entry("2026-03-10", "reflective", strings.Repeat("palabra ", 1500), "gratitud"),
	}, today)
	out := Format(s)
	for _, want := range []string{
		"vj stats\n",
		"  entries              1\n",
		"  words                1,500\n",
		"  current streak       1 day\n",
		"  reflective             1 (100%)\n",
		"  #gratitud              1 (100%)\n",
		"  2026-03        1 entries    1,500 words\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format missing %q:\n%s", want, out)
		}
	}
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-5, "0"},
	}
	for _, tt := range tests {
		if got := formatInt(tt.n); got != tt.want {
			t.Errorf("formatInt(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
