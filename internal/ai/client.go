// Package ai provides an HTTP client for a chat-completions style AI
// provider and turns free-text completions into signal candidates.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"klarpakke/internal/logger"
)

const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 500

	maxRetries     = 3
	retryBaseDelay = 250 * time.Millisecond
)

// ErrBadRequest marks a 400 from the provider, typically meaning the
// prompt or requested response format was not accepted. Callers may
// issue exactly one reduced-scope retry on this class of failure.
var ErrBadRequest = errors.New("ai: provider rejected request")

const systemPrompt = `You are a crypto trading analyst. Analyze BTC/ETH and provide ONE actionable signal. ` +
	`Return ONLY valid JSON: {"symbol": "BTC", "direction": "BUY", "confidence": 0.75, "reasoning": "your analysis"}`

const userPrompt = `Analyze current crypto market. Provide trading signal for highest conviction play. ` +
	`Consider: price action, volume, sentiment, macro. Return ONLY the JSON object.`

// Fallback prompt for the single reduced-scope retry after a 400.
const simplifiedPrompt = `Give one crypto trading signal as JSON with keys symbol, direction (BUY or SELL), confidence (0-1), reasoning.`

// Message is a role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client calls a Perplexity-compatible chat completions endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewClient creates a new AI provider client.
func NewClient(baseURL, apiKey, model string, httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

// Model returns the configured model name, used for signal provenance.
func (c *Client) Model() string { return c.model }

// Complete sends one chat completion request and returns the raw
// completion text. 429/503 responses are retried with exponential
// backoff up to maxRetries; a 400 returns ErrBadRequest without retry.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling completion request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			logger.Get().Warnw("retrying AI request", "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		content, retryable, err := c.doComplete(ctx, body)
		if err == nil {
			return content, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

// doComplete performs one request. The second return value reports
// whether the failure is retryable (rate limit or transient upstream).
func (c *Client) doComplete(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("creating completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("calling AI provider: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest:
		return "", false, ErrBadRequest
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		return "", true, fmt.Errorf("AI provider throttled: status %d", resp.StatusCode)
	default:
		return "", false, fmt.Errorf("AI provider error: status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", false, fmt.Errorf("decoding completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", false, fmt.Errorf("completion response contained no choices")
	}
	return parsed.Choices[0].Message.Content, false, nil
}

// GenerateSignal asks the provider for one trading signal and parses the
// completion into a candidate. On a 400 it retries once with a
// simplified prompt before giving up.
func (c *Client) GenerateSignal(ctx context.Context) (*Candidate, error) {
	content, err := c.Complete(ctx, []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	})
	if errors.Is(err, ErrBadRequest) {
		logger.Get().Warn("AI provider rejected full prompt, retrying with simplified prompt")
		content, err = c.Complete(ctx, []Message{
			{Role: "user", Content: simplifiedPrompt},
		})
	}
	if err != nil {
		return nil, err
	}

	return ParseCandidate(content)
}
