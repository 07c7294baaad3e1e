// Package webflow provides an HTTP client for the Webflow CMS collection
// that mirrors approved signals. Only the operations the sync pipeline
// needs are implemented: list items and create item.
package webflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"klarpakke/internal/logger"
)

const (
	// Webflow caps list responses at 100 items per request.
	listPageSize = 100

	maxRetries     = 3
	retryBaseDelay = 250 * time.Millisecond
)

// ItemFields is the field map stored on a collection item.
type ItemFields struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Symbol     string `json:"symbol"`
	Direction  string `json:"direction"`
	Confidence int    `json:"confidence"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
}

// Item is a collection item as returned by the list endpoint.
type Item struct {
	ID        string     `json:"id"`
	FieldData ItemFields `json:"fieldData"`
}

type createItemRequest struct {
	IsArchived bool       `json:"isArchived"`
	IsDraft    bool       `json:"isDraft"`
	FieldData  ItemFields `json:"fieldData"`
}

// Client communicates with the Webflow v2 collection items API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	collectionID string
}

// NewClient creates a new Webflow collection client.
func NewClient(baseURL, token, collectionID string, httpClient *http.Client) *Client {
	return &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(baseURL, "/"),
		token:        token,
		collectionID: collectionID,
	}
}

// ListItems fetches every item in the collection, paginating with
// limit/offset until a short page is returned.
func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	var items []Item
	offset := 0

	for {
		url := fmt.Sprintf("%s/collections/%s/items?limit=%d&offset=%d",
			c.baseURL, c.collectionID, listPageSize, offset)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating list request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("listing collection items: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			return nil, fmt.Errorf("listing collection items: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		var page struct {
			Items []Item `json:"items"`
		}
		err = json.NewDecoder(resp.Body).Decode(&page)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding list response: %w", err)
		}

		items = append(items, page.Items...)
		if len(page.Items) < listPageSize {
			return items, nil
		}
		offset += listPageSize
	}
}

// ExistingSlugs returns the set of slugs already present in the collection.
func (c *Client) ExistingSlugs(ctx context.Context) (map[string]bool, error) {
	items, err := c.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	slugs := make(map[string]bool, len(items))
	for _, item := range items {
		if item.FieldData.Slug != "" {
			slugs[item.FieldData.Slug] = true
		}
	}
	return slugs, nil
}

// CreateItem creates a live (non-draft) collection item. Rate-limit and
// transient upstream responses are retried with exponential backoff.
func (c *Client) CreateItem(ctx context.Context, fields ItemFields) error {
	body, err := json.Marshal(createItemRequest{FieldData: fields})
	if err != nil {
		return fmt.Errorf("marshaling item: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			logger.Get().Warnw("retrying item create", "slug", fields.Slug, "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		retryable, err := c.doCreate(ctx, body)
		if err == nil {
			return nil
		}
		if !retryable {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (c *Client) doCreate(ctx context.Context, body []byte) (bool, error) {
	url := fmt.Sprintf("%s/collections/%s/items", c.baseURL, c.collectionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("creating item request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("creating collection item: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		return true, fmt.Errorf("collection API throttled: status %d", resp.StatusCode)
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("creating collection item: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
}
