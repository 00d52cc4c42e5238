// Package outline is a minimal client for the Outline document API.
// Every endpoint is JSON over POST with bearer auth. Write calls are
// spaced by a minimum delay to respect the remote request budget.
package outline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// ErrNotFound is returned when the remote document does not exist.
var ErrNotFound = errors.New("outline: document not found")

// APIError is a non-2xx response from the Outline API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("outline: API error %d: %s", e.Status, e.Body)
}

// Document is the remote document surface the sync engine consumes.
type Document struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Text             string `json:"text"`
	ParentDocumentID string `json:"parentDocumentId"`
}

// Client talks to one Outline instance.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	minDelay time.Duration

	mu        sync.Mutex
	lastWrite time.Time
}

// New builds a client. httpClient may be nil for sane defaults;
// minDelay is the mandatory spacing between consecutive write calls.
func New(baseURL, apiKey string, minDelay time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		http:     httpClient,
		minDelay: minDelay,
	}
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("outline: encoding %s request: %w", endpoint, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("outline: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &APIError{Status: resp.StatusCode, Body: string(text)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("outline: decoding %s response: %w", endpoint, err)
	}
	return nil
}

// throttle blocks until the minimum delay since the last write call has
// elapsed, or the context is cancelled.
func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	wait := time.Duration(0)
	if !c.lastWrite.IsZero() {
		if next := c.lastWrite.Add(c.minDelay); next.After(now) {
			wait = next.Sub(now)
		}
	}
	c.lastWrite = now.Add(wait)
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

type documentResponse struct {
	Data Document `json:"data"`
}

// Get fetches a document by id.
func (c *Client) Get(ctx context.Context, id string) (*Document, error) {
	var out documentResponse
	if err := c.post(ctx, "documents.info", map[string]string{"id": id}, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// CreateRequest names a new document's placement and content.
type CreateRequest struct {
	Title            string `json:"title"`
	Text             string `json:"text"`
	CollectionID     string `json:"collectionId"`
	ParentDocumentID string `json:"parentDocumentId,omitempty"`
	Publish          bool   `json:"publish"`
}

// Create makes a new published document.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Document, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}
	req.Publish = true
	var out documentResponse
	if err := c.post(ctx, "documents.create", req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Update rewrites a document's title and/or text. Empty arguments leave
// the corresponding attribute unchanged.
func (c *Client) Update(ctx context.Context, id, title, text string) (*Document, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}
	payload := map[string]string{"id": id}
	if title != "" {
		payload["title"] = title
	}
	if text != "" {
		payload["text"] = text
	}
	var out documentResponse
	if err := c.post(ctx, "documents.update", payload, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

type listResponse struct {
	Data []Document `json:"data"`
}

// List returns every document in a collection, paging through the API.
func (c *Client) List(ctx context.Context, collectionID string) ([]Document, error) {
	const pageSize = 100
	var docs []Document
	for offset := 0; ; offset += pageSize {
		payload := map[string]interface{}{
			"collectionId": collectionID,
			"limit":        pageSize,
			"offset":       offset,
		}
		var out listResponse
		if err := c.post(ctx, "documents.list", payload, &out); err != nil {
			return nil, err
		}
		docs = append(docs, out.Data...)
		if len(out.Data) < pageSize {
			return docs, nil
		}
	}
}
