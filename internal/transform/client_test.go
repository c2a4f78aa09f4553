package transform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/suykerbuyk/vibe-journal/internal/config"
	"github.com/suykerbuyk/vibe-journal/internal/gemini"
	"github.com/suykerbuyk/vibe-journal/internal/styles"
)

// fakeModel records prompts and replies with a fixed answer.
type fakeModel struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestTransform_PromptShape(t *testing.T) {
	m := &fakeModel{reply: "# Entrada"}
	c := New(config.ProviderGemini, m)

	res, err := c.Transform(context.Background(), Request{Source: "hoy fui al parque", Style: styles.Bullet})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "# Entrada" {
		t.Errorf("text = %q", res.Text)
	}
	if len(m.prompts) != 1 {
		t.Fatalf("calls = %d, want 1", len(m.prompts))
	}
	tmpl, _ := styles.Lookup(styles.Bullet)
	if want := tmpl.Prompt + "\n\nhoy fui al parque"; m.prompts[0] != want {
		t.Errorf("prompt = %q, want %q", m.prompts[0], want)
	}
}

func TestTransform_Override(t *testing.T) {
	m := &fakeModel{reply: "ok"}
	c := New(config.ProviderGemini, m)

	_, err := c.Transform(context.Background(), Request{Source: "texto", Style: styles.Structured, Override: "Resume esto:"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.prompts[0] != "Resume esto:\n\ntexto" {
		t.Errorf("prompt = %q", m.prompts[0])
	}

	m.prompts = nil
	_, _ = c.Transform(context.Background(), Request{Source: "texto", Style: styles.Structured, Override: ""})
	tmpl, _ := styles.Lookup(styles.Structured)
	if !strings.HasPrefix(m.prompts[0], tmpl.Prompt) {
		t.Error("empty override should fall back to the style prompt")
	}

	m.prompts = nil
	_, _ = c.Transform(context.Background(), Request{Source: "texto", Style: styles.Structured, Override: "   "})
	if m.prompts[0] != "   \n\ntexto" {
		t.Errorf("whitespace override should be sent as is, prompt = %q", m.prompts[0])
	}
}

func TestTransform_EmptyInput(t *testing.T) {
	m := &fakeModel{}
	c := New(config.ProviderGemini, m)

	for _, src := range []string{"", "   ", "\n\t"} {
		_, err := c.Transform(context.Background(), Request{Source: src, Style: styles.Structured})
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("source %q: err = %v, want ErrEmptyInput", src, err)
		}
	}
	if len(m.prompts) != 0 {
		t.Errorf("model called %d times for empty input", len(m.prompts))
	}
}

func TestTransform_InvalidStyle(t *testing.T) {
	m := &fakeModel{}
	c := New(config.ProviderGemini, m)

	_, err := c.Transform(context.Background(), Request{Source: "x", Style: "haiku"})
	if !errors.Is(err, styles.ErrInvalidStyle) {
		t.Fatalf("err = %v, want ErrInvalidStyle", err)
	}
	if len(m.prompts) != 0 {
		t.Error("model called for an invalid style")
	}
}

func TestUnsupportedProvider(t *testing.T) {
	m := &fakeModel{reply: "1. a"}
	c := New("openai", m)
	ctx := context.Background()

	if _, err := c.Transform(ctx, Request{Source: "x", Style: styles.Structured}); !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("Transform: err = %v", err)
	}
	if _, err := c.GenerateQuestions(ctx, "x"); !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("GenerateQuestions: err = %v", err)
	}
	if _, err := c.Enrich(ctx, "x", []string{"q"}, []string{"a"}); !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("Enrich: err = %v", err)
	}
	if len(m.prompts) != 0 {
		t.Errorf("model called %d times", len(m.prompts))
	}
}

func TestTransform_ModelErrorWrapped(t *testing.T) {
	m := &fakeModel{err: &gemini.APIError{StatusCode: 500, Body: "boom"}}
	c := New(config.ProviderGemini, m)

	_, err := c.Transform(context.Background(), Request{Source: "x", Style: styles.Narrative})
	if !errors.Is(err, gemini.ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error lost the response body: %v", err)
	}
}

func TestGenerateQuestions(t *testing.T) {
	m := &fakeModel{reply: "Aquí tienes:\n1. ¿Qué sentiste?\n2.   ¿Por qué?  \n3. ¿Y mañana?\n"}
	c := New(config.ProviderGemini, m)

	qs, err := c.GenerateQuestions(context.Background(), "Entrada del día")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"¿Qué sentiste?", "¿Por qué?", "¿Y mañana?"}
	if strings.Join(qs, "|") != strings.Join(want, "|") {
		t.Errorf("questions = %q, want %q", qs, want)
	}
	if !strings.HasSuffix(m.prompts[0], "Entrada de diario:\nEntrada del día") {
		t.Errorf("entry not appended to prompt: %q", m.prompts[0])
	}
	if !strings.Contains(m.prompts[0], "exactamente 3 preguntas") {
		t.Error("prompt should ask for exactly three questions")
	}
}

func TestGenerateQuestions_Fallback(t *testing.T) {
	m := &fakeModel{reply: "No tengo preguntas."}
	c := New(config.ProviderGemini, m)

	qs, err := c.GenerateQuestions(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(qs, "|") != strings.Join(FallbackQuestions, "|") {
		t.Errorf("questions = %q, want fallback", qs)
	}
	qs[0] = "changed"
	if FallbackQuestions[0] == "changed" {
		t.Error("fallback slice shared with caller")
	}
}

func TestEnrich_PairsAnswersPositionally(t *testing.T) {
	m := &fakeModel{reply: "mejorada"}
	c := New(config.ProviderGemini, m)

	res, err := c.Enrich(context.Background(), "original", []string{"A", "B", "C"}, []string{"", "yes", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "mejorada" {
		t.Errorf("text = %q", res.Text)
	}

	prompt := m.prompts[0]
	want := "Preguntas y respuestas adicionales:\n" +
		"P: A\nR: (sin respuesta)\n\n" +
		"P: B\nR: yes\n\n" +
		"P: C\nR: (sin respuesta)\n\n" +
		"Genera una versión mejorada"
	if !strings.Contains(prompt, want) {
		t.Errorf("prompt pairing wrong:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Entrada original:\noriginal\n") {
		t.Errorf("original missing from prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Reflexiones adicionales") {
		t.Error("prompt should mention the additional reflections section")
	}
}

func TestEnrich_Mismatch(t *testing.T) {
	m := &fakeModel{}
	c := New(config.ProviderGemini, m)

	_, err := c.Enrich(context.Background(), "x", []string{"a", "b"}, []string{"1"})
	if !errors.Is(err, ErrAnswerMismatch) {
		t.Fatalf("err = %v, want ErrAnswerMismatch", err)
	}
	if len(m.prompts) != 0 {
		t.Error("model called on mismatched answers")
	}
}
