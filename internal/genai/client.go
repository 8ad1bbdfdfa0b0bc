// Package genai is the outbound client for the generative-AI service that
// backs content moderation and auto-reply generation.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"kindathreads/internal/models"
)

const (
	// probabilityNegligible is the only severity tier that passes moderation.
	// Any category reported above it fails the content.
	probabilityNegligible = "NEGLIGIBLE"

	defaultTimeout = 30 * time.Second
)

// replyPattern extracts the delimited span the generation prompt asks for.
var replyPattern = regexp.MustCompile(`(?s)\*\*\*(.*?)\*\*\*`)

// Client calls a Gemini-style generateContent endpoint. It applies no retry
// and no fallback: transport failures surface to the caller as
// UPSTREAM_UNAVAILABLE.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient returns a Client for the given endpoint, model and API key.
func NewClient(baseURL, model, apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
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

type safetyRating struct {
	Category    string `json:"category"`
	Probability string `json:"probability"`
}

type candidate struct {
	Content       content        `json:"content"`
	SafetyRatings []safetyRating `json:"safetyRatings"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

// generate performs one generateContent call and decodes the response.
func (c *Client) generate(ctx context.Context, prompt string) (*generateResponse, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("generateContent returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// CheckContent classifies the given text. It returns true when every safety
// category the service reports is at the negligible tier, false otherwise.
// A failed call is returned as-is; blocked-state cannot be computed without
// a verdict, so there is no fallback.
func (c *Client) CheckContent(ctx context.Context, text string) (bool, error) {
	prompt := fmt.Sprintf(
		"Please check following content for the presence of obscene language, insults, hate speech, etc.: %s.",
		text,
	)
	resp, err := c.generate(ctx, prompt)
	if err != nil {
		return false, models.NewUpstreamError("moderation", err)
	}

	for _, cand := range resp.Candidates {
		for _, rating := range cand.SafetyRatings {
			if rating.Probability != probabilityNegligible {
				return false, nil
			}
		}
	}
	return true, nil
}

// GenerateReply asks the service for a short reply to the given comment and
// extracts the first ***-delimited span from the response. It returns the
// empty string when the response contains no delimited span. The service
// truncates the reply to roughly 200 characters; no local cap is applied.
func (c *Client) GenerateReply(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(
		"Please, generate auto-reply on this comment: %s. Print auto-reply in ***your reply***. "+
			"Max length 200 characters Thanks",
		text,
	)
	resp, err := c.generate(ctx, prompt)
	if err != nil {
		return "", models.NewUpstreamError("generation", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
	}

	match := replyPattern.FindStringSubmatch(sb.String())
	if match == nil {
		return "", nil
	}
	return match[1], nil
}
