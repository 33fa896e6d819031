// Package gemini implements the reasoning agent against the Gemini API
// directly, as an alternative to driving a CLI subprocess.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Default model tiers. Flash is cheap enough for per-file evaluation, where
// a bad judgment averages out across many files; the single synthesis call
// warrants the stronger tier.
const (
	DefaultFastModel      = "gemini-3-flash-preview"
	DefaultSynthesisModel = "gemini-3-pro-preview"
)

// Client wraps the genai SDK behind a narrow text-in/text-out surface.
type Client struct {
	client *genai.Client
}

// NewClient creates a new Client with the given API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, err
	}
	return &Client{client: client}, nil
}

// GenerateText sends a single prompt to the given model and returns the
// response text.
func (c *Client) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
	}}

	temp := float32(0.3) // lower temperature for more consistent judging
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}

	result, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", wrapAPIError(err)
	}
	if result == nil {
		return "", fmt.Errorf("gemini: returned nil response")
	}
	return result.Text(), nil
}

// APIError represents an error from the Gemini API with HTTP status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// wrapAPIError converts genai.APIError to our APIError type.
func wrapAPIError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.Code,
			Message:    fmt.Sprintf("gemini API error (HTTP %d): %s", apiErr.Code, apiErr.Message),
		}
	}
	return err
}

// Compile-time check that Client implements TextGenerator.
var _ TextGenerator = (*Client)(nil)
