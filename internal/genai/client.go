// Package genai is a minimal client for a Gemini-style text generation API.
// It is the only real external collaborator in the system; every caller maps
// a failed call to a fixed fallback string, so an outage here never fails a
// request.
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNoContent is returned when the API responds without any candidate text.
var ErrNoContent = errors.New("no generated content in response")

// Client calls the generative-text API over HTTP.
type Client struct {
	http   *resty.Client
	apiKey string
	model  string
}

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewClient creates a Client for the given endpoint and model.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout)

	return &Client{http: cli, apiKey: cfg.APIKey, model: cfg.Model}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateText sends an instruction to the model and returns the generated
// text, trimmed. Transport errors, non-2xx statuses and empty candidate sets
// all come back as errors.
func (c *Client) GenerateText(ctx context.Context, instruction string) (string, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: instruction}}}},
	}

	var result generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(body).
		SetResult(&result).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return "", fmt.Errorf("text generation request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("text generation API returned status %d", resp.StatusCode())
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoContent
	}

	text := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}
