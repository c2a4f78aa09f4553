package transform

import (
	"regexp"
	"strings"
)

// FallbackQuestions are offered when the model's reply contains no numbered
// lines, so the questions step never comes up empty.
var FallbackQuestions = []string{
	"¿Qué más te gustaría recordar de hoy?",
	"¿Cómo te sentiste realmente?",
	"¿Qué aprendiste?",
}

var (
	numberedLine = regexp.MustCompile(`^\d\.`)
	numberPrefix = regexp.MustCompile(`^\d\.\s*`)
)

// ParseQuestions extracts the "1. ..." lines of a model reply. Only lines
// that start with a single digit and a period count; the numeral is dropped
// and the rest trimmed.
func ParseQuestions(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if !numberedLine.MatchString(line) {
			continue
		}
		out = append(out, strings.TrimSpace(numberPrefix.ReplaceAllString(line, "")))
	}
	if len(out) == 0 {
		return fallback()
	}
	return out
}

func fallback() []string {
	out := make([]string, len(FallbackQuestions))
	copy(out, FallbackQuestions)
	return out
}
