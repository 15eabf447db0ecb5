// Package remotestore talks to the remote cart document store: one fixed
// JSON resource read with GET and replaced wholesale with PUT.
package remotestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CartDocument is the wire shape of the remote resource.
type CartDocument struct {
	Items         []LinePayload `json:"items"`
	TotalQuantity int           `json:"totalQuantity"`
}

// LinePayload mirrors one cart line on the wire.
type LinePayload struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
}

// Client wraps the remote document endpoint with typed fetch/replace helpers.
type Client struct {
	endpoint string
	httpc    *http.Client
}

// NewClient instantiates the remote store client with sane defaults.
func NewClient(endpoint string, httpClient *http.Client) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("remote store endpoint is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{endpoint: endpoint, httpc: httpClient}, nil
}

// FetchCart reads the remote document. The store answers an empty path with
// 200 and a JSON null body, which maps to an empty document; any non-2xx
// status is an error.
func (c *Client) FetchCart(ctx context.Context) (*CartDocument, error) {
	if c == nil || c.httpc == nil {
		return nil, errors.New("remote store client not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call remote store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("remote store fetch failed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read remote store response: %w", err)
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &CartDocument{}, nil
	}
	var doc CartDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode remote store response: %w", err)
	}
	return &doc, nil
}

// PutCart replaces the remote document with the payload.
func (c *Client) PutCart(ctx context.Context, doc CartDocument) error {
	if c == nil || c.httpc == nil {
		return errors.New("remote store client not configured")
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode cart document: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build put request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("call remote store: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("remote store put failed: %s", resp.Status)
	}
	return nil
}
