package stats

import (
	"fmt"
	"strings"
)

// Format renders a Summary as aligned terminal output.
func Format(s Summary) string {
	if s.TotalEntries == 0 {
		return "vj stats\n\n  No entries found. Save one with `vj` or run `vj reindex`.\n"
	}

	var b strings.Builder
	b.WriteString("vj stats\n")

	b.WriteString("\nOverview\n")
	fmt.Fprintf(&b, "  %-20s %s\n", "entries", formatInt(s.TotalEntries))
	fmt.Fprintf(&b, "  %-20s %s\n", "days written", formatInt(s.ActiveDays))
	fmt.Fprintf(&b, "  %-20s %s\n", "words", formatInt(s.TotalWords))
	fmt.Fprintf(&b, "  %-20s %s\n", "current streak", formatDays(s.CurrentStreak))
	fmt.Fprintf(&b, "  %-20s %s\n", "longest streak", formatDays(s.LongestStreak))

	b.WriteString("\nAverages\n")
	fmt.Fprintf(&b, "  %-20s %s\n", "words/entry", formatFloat(s.AvgWordsPerEntry))
	fmt.Fprintf(&b, "  %-20s %.1f\n", "entries/day", s.AvgEntriesPerDay)

	if len(s.Styles) > 0 {
		b.WriteString("\nStyles\n")
		for _, st := range s.Styles {
			fmt.Fprintf(&b, "  %-20s %3d (%d%%)\n", st.Name, st.Entries, int(st.Percent))
		}
	}

	if len(s.Tags) > 0 {
		b.WriteString("\nTop Tags\n")
		for _, t := range s.Tags {
			fmt.Fprintf(&b, "  %-20s %3d (%d%%)\n", "#"+t.Name, t.Count, int(t.Percent))
		}
	}

	if len(s.Monthly) > 0 {
		b.WriteString("\nMonthly Trend\n")
		for _, m := range s.Monthly {
			fmt.Fprintf(&b, "  %-12s %3d entries   %6s words\n", m.Month, m.Entries, formatInt(m.Words))
		}
	}

	return b.String()
}

func formatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// formatFloat rounds to an integer with comma separators.
func formatFloat(f float64) string {
	return formatInt(int(f + 0.5))
}

// formatInt formats an integer with comma separators.
func formatInt(n int) string {
	if n < 0 {
		return "0"
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}
