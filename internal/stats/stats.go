package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/suykerbuyk/vibe-journal/internal/index"
	"github.com/suykerbuyk/vibe-journal/internal/noteparse"
)

// Summary holds aggregate metrics computed from the entry index.
type Summary struct {
	TotalEntries int
	TotalWords   int
	ActiveDays   int

	AvgWordsPerEntry float64
	AvgEntriesPerDay float64

	CurrentStreak int // consecutive days ending today or yesterday
	LongestStreak int

	Styles  []StyleStats
	Tags    []TagStats
	Monthly []MonthStats
}

// StyleStats holds per-style counts.
type StyleStats struct {
	Name    string
	Entries int
	Percent float64
}

// TagStats holds per-tag counts.
type TagStats struct {
	Name    string
	Count   int
	Percent float64
}

// MonthStats holds per-month aggregate metrics.
type MonthStats struct {
	Month   string // YYYY-MM
	Entries int
	Words   int
}

const (
	maxTags   = 10
	maxMonths = 6
)

// Compute builds a Summary from index entries. today anchors the current
// streak.
func Compute(entries []index.Entry, today time.Time) Summary {
	var s Summary

	styleMap := make(map[string]int)
	tagMap := make(map[string]int)
	monthMap := make(map[string]*MonthStats)
	days := make(map[string]bool)

	for _, e := range entries {
		words := len(strings.Fields(e.Body))
		s.TotalEntries++
		s.TotalWords += words
		days[e.Date] = true

		style := e.Style
		if style == "" {
			style = "unknown"
		}
		styleMap[style]++

		for _, t := range e.Tags {
			tagMap[t]++
		}

		if len(e.Date) >= 7 {
			month := e.Date[:7]
			mm, ok := monthMap[month]
			if !ok {
				mm = &MonthStats{Month: month}
				monthMap[month] = mm
			}
			mm.Entries++
			mm.Words += words
		}
	}

	s.ActiveDays = len(days)
	if s.TotalEntries > 0 {
		s.AvgWordsPerEntry = float64(s.TotalWords) / float64(s.TotalEntries)
		s.AvgEntriesPerDay = float64(s.TotalEntries) / float64(s.ActiveDays)
	}
	s.CurrentStreak, s.LongestStreak = streaks(days, today)

	for name, count := range styleMap {
		s.Styles = append(s.Styles, StyleStats{
			Name:    name,
			Entries: count,
			Percent: float64(count) / float64(s.TotalEntries) * 100,
		})
	}
	sort.Slice(s.Styles, func(i, j int) bool {
		if s.Styles[i].Entries != s.Styles[j].Entries {
			return s.Styles[i].Entries > s.Styles[j].Entries
		}
		return s.Styles[i].Name < s.Styles[j].Name
	})

	// Percent of entries carrying the tag.
	for name, count := range tagMap {
		s.Tags = append(s.Tags, TagStats{
			Name:    name,
			Count:   count,
			Percent: float64(count) / float64(s.TotalEntries) * 100,
		})
	}
	sort.Slice(s.Tags, func(i, j int) bool {
		if s.Tags[i].Count != s.Tags[j].Count {
			return s.Tags[i].Count > s.Tags[j].Count
		}
		return s.Tags[i].Name < s.Tags[j].Name
	})
	if len(s.Tags) > maxTags {
		s.Tags = s.Tags[:maxTags]
	}

	// Months recent-first.
	for _, mm := range monthMap {
		s.Monthly = append(s.Monthly, *mm)
	}
	sort.Slice(s.Monthly, func(i, j int) bool {
		return s.Monthly[i].Month > s.Monthly[j].Month
	})
	if len(s.Monthly) > maxMonths {
		s.Monthly = s.Monthly[:maxMonths]
	}

	return s
}

// streaks returns the run of consecutive days ending today (or yesterday,
// when nothing was written yet today) and the longest run overall.
func streaks(days map[string]bool, today time.Time) (current, longest int) {
	var dates []time.Time
	for d := range days {
		t, err := time.Parse(noteparse.DateLayout, d)
		if err != nil {
			continue
		}
		dates = append(dates, t)
	}
	if len(dates) == 0 {
		return 0, 0
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	run := 1
	longest = 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if !days[day.Format(noteparse.DateLayout)] {
		day = day.AddDate(0, 0, -1)
	}
	for days[day.Format(noteparse.DateLayout)] {
		current++
		day = day.AddDate(0, 0, -1)
	}
	return current, longest
}
