package transform

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParseQuestions_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("numbered lines parse back to their text", prop.ForAll(
		func(qs []string) bool {
			if len(qs) > 9 {
				qs = qs[:9]
			}
			var b strings.Builder
			b.WriteString("Preguntas:\n")
			for i, q := range qs {
				fmt.Fprintf(&b, "%d.  %s \n", i+1, q)
			}
			got := ParseQuestions(b.String())
			if len(qs) == 0 {
				return strings.Join(got, "|") == strings.Join(FallbackQuestions, "|")
			}
			return strings.Join(got, "|") == strings.Join(qs, "|")
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("never empty", prop.ForAll(
		func(raw string) bool {
			return len(ParseQuestions(raw)) > 0
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestEnrichPrompt_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("each question keeps its own answer or the placeholder", prop.ForAll(
		func(answers []string) bool {
			questions := make([]string, len(answers))
			for i := range answers {
				questions[i] = fmt.Sprintf("pregunta-%d", i)
			}
			prompt, err := buildEnrichPrompt("original", questions, answers)
			if err != nil {
				return false
			}
			for i, q := range questions {
				want := answers[i]
				if want == "" {
					want = NoAnswer
				}
				if !strings.Contains(prompt, "P: "+q+"\nR: "+want+"\n") {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
