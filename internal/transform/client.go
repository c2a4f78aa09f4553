// Package transform turns free text into journal entries: the styled first
// pass, the reflective questions, and the answer-driven enrichment.
package transform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suykerbuyk/vibe-journal/internal/config"
	"github.com/suykerbuyk/vibe-journal/internal/styles"
)

var (
	ErrEmptyInput          = errors.New("enter some text to transform")
	ErrUnsupportedProvider = errors.New("unsupported API provider")
	ErrAnswerMismatch      = errors.New("answers must pair one-to-one with questions")
)

// Model sends one prompt and returns the generated text.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Request is one transformation of the user's writing.
type Request struct {
	Source   string
	Style    styles.ID
	Override string // replaces the style prompt when non-blank
}

// Result is the text produced by the model.
type Result struct {
	Text string
}

// Client builds prompts and sends them through a Model.
type Client struct {
	provider string
	model    Model
}

// New creates a client for the named provider. Calls fail with
// ErrUnsupportedProvider unless provider is gemini.
func New(provider string, model Model) *Client {
	return &Client{provider: provider, model: model}
}

// Transform rewrites req.Source in the requested style.
func (c *Client) Transform(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Source) == "" {
		return Result{}, ErrEmptyInput
	}
	if err := c.checkProvider(); err != nil {
		return Result{}, err
	}

	tmpl, err := styles.Lookup(req.Style)
	if err != nil {
		return Result{}, err
	}

	text, err := c.model.Generate(ctx, buildPrompt(tmpl.Prompt, req.Override, req.Source))
	if err != nil {
		return Result{}, fmt.Errorf("transform: %w", err)
	}
	return Result{Text: text}, nil
}

// GenerateQuestions asks for three reflective questions about entry.
// It never returns an empty list on success.
func (c *Client) GenerateQuestions(ctx context.Context, entry string) ([]string, error) {
	if err := c.checkProvider(); err != nil {
		return nil, err
	}

	prompt, err := buildQuestionsPrompt(entry)
	if err != nil {
		return nil, err
	}

	raw, err := c.model.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	return ParseQuestions(raw), nil
}

// Enrich merges the answers into original. answers[i] answers questions[i];
// empty answers are sent as NoAnswer.
func (c *Client) Enrich(ctx context.Context, original string, questions, answers []string) (Result, error) {
	if err := c.checkProvider(); err != nil {
		return Result{}, err
	}
	if len(questions) != len(answers) {
		return Result{}, fmt.Errorf("%w: %d questions, %d answers", ErrAnswerMismatch, len(questions), len(answers))
	}

	prompt, err := buildEnrichPrompt(original, questions, answers)
	if err != nil {
		return Result{}, err
	}

	text, err := c.model.Generate(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("enrich: %w", err)
	}
	return Result{Text: text}, nil
}

func (c *Client) checkProvider() error {
	if c.provider != config.ProviderGemini {
		return fmt.Errorf("%w: %q", ErrUnsupportedProvider, c.provider)
	}
	return nil
}
