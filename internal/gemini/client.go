// Package gemini is a minimal client for the Gemini generateContent API:
// one prompt in, one block of text out.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/suykerbuyk/vibe-journal/internal/config"
)

// NoContent is returned in place of model text when a response carries no
// candidate text. An empty generation is not treated as a failure.
const NoContent = "could not generate content"

var (
	ErrMissingCredential = errors.New("no Gemini API key configured (set provider.api_key or the provider.api_key_env variable)")
	ErrTransport         = errors.New("gemini request failed")
)

// APIError is a non-2xx response. Body is the raw response body.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// Is makes every APIError match ErrTransport.
func (e *APIError) Is(target error) bool {
	return target == ErrTransport
}

// Client calls generateContent for a single configured model.
type Client struct {
	cfg    config.ProviderConfig
	apiKey string
	http   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client. apiKey is the resolved credential; an empty key is
// only reported when Generate is called.
func New(cfg config.ProviderConfig, apiKey string, opts ...Option) *Client {
	c := &Client{
		cfg:    cfg,
		apiKey: apiKey,
		http:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate sends prompt as a single user turn and returns the text of the
// first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingCredential
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.cfg.Temperature,
			MaxOutputTokens: c.cfg.MaxOutputTokens,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return parseResponse(respBody)
}

func (c *Client) endpoint() string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	return base + "/models/" + url.PathEscape(c.cfg.Model) + ":generateContent"
}

func parseResponse(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return NoContent, nil
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return NoContent, nil
	}
	return text, nil
}
