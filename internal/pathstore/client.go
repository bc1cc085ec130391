// Package pathstore stores finished outlines in a pathstore key/value
// service over its HTTP API.
package pathstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// OutlinePrefix is the key prefix outlines are stored under.
const OutlinePrefix = "outlines"

// Client communicates with the pathstore HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NodeRequest is the body for PUT /kv/{key}.
type NodeRequest struct {
	Value      any     `json:"value"`
	MemoryType string  `json:"memory_type,omitempty"`
	Salience   float64 `json:"salience,omitempty"`
	Source     string  `json:"source,omitempty"`
}

// NodeResponse is the response from GET /kv/{key}.
type NodeResponse struct {
	Key   string          `json:"key_path"`
	Value json.RawMessage `json:"value"`
}

// StoredOutline is the value written for each document.
type StoredOutline struct {
	DocID       string                 `json:"doc_id"`
	Filename    string                 `json:"filename"`
	ContentHash string                 `json:"content_hash,omitempty"`
	Title       string                 `json:"title"`
	Outline     []doctree.OutlineEntry `json:"outline"`
	CreatedAt   string                 `json:"created_at"`
}

// RetryableError indicates a transient failure (429 or 5xx) that can be
// retried.
type RetryableError struct {
	StatusCode int
	Message    string
	// RetryAfter is the server's requested wait, zero when it sent none.
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// ErrInvalidDocID is returned for document IDs that are not a single safe
// key segment.
var ErrInvalidDocID = errors.New("invalid doc_id")

// docIDPattern allows one key segment: letters, digits, '-' and '_', no
// separators or dots.
var docIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// ValidDocID reports whether id can be used as a document ID.
func ValidDocID(id string) bool {
	return docIDPattern.MatchString(id)
}

// OutlineKey returns the key an outline is stored under.
func OutlineKey(docID string) (string, error) {
	if !ValidDocID(docID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDocID, docID)
	}
	return OutlinePrefix + "/" + docID, nil
}

// PutOutline stores the outline of one document.
func (c *Client) PutOutline(ctx context.Context, out StoredOutline) error {
	key, err := OutlineKey(out.DocID)
	if err != nil {
		return err
	}
	return c.PutNode(ctx, key, NodeRequest{
		Value:      out,
		MemoryType: "semantic",
		Salience:   0.5,
		Source:     "docoutline:" + out.DocID,
	})
}

// GetOutline fetches a stored outline. It returns nil, nil when the
// document is unknown.
func (c *Client) GetOutline(ctx context.Context, docID string) (*StoredOutline, error) {
	key, err := OutlineKey(docID)
	if err != nil {
		return nil, err
	}
	node, err := c.GetNode(ctx, key)
	if err != nil || node == nil {
		return nil, err
	}
	var out StoredOutline
	if err := json.Unmarshal(node.Value, &out); err != nil {
		return nil, fmt.Errorf("decode outline %s: %w", docID, err)
	}
	return &out, nil
}

// PutNode stores or updates a node at the given path.
func (c *Client) PutNode(ctx context.Context, key string, req NodeRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal node: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/kv/"+key, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("put node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError("put node "+key, resp)
	}
	return nil
}

// GetNode retrieves a node by key.
func (c *Client) GetNode(ctx context.Context, key string) (*NodeResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/kv/"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("get node "+key, resp)
	}

	var node NodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&node); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	return &node, nil
}

// ListChildrenResponse is a single node from a prefix scan.
type ListChildrenResponse struct {
	Key   string          `json:"key_path"`
	Value json.RawMessage `json:"value"`
}

// ListChildren does a prefix scan under the given key.
func (c *Client) ListChildren(ctx context.Context, key string, limit int) ([]ListChildrenResponse, error) {
	u := c.baseURL + "/kv/" + key + "/*"
	if limit > 0 {
		u += "?limit=" + url.QueryEscape(fmt.Sprintf("%d", limit))
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list children "+key, resp)
	}

	var result struct {
		Nodes []ListChildrenResponse `json:"nodes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode children: %w", err)
	}
	return result.Nodes, nil
}

// ListOutlineIDs returns the document IDs of stored outlines, up to limit.
func (c *Client) ListOutlineIDs(ctx context.Context, limit int) ([]string, error) {
	nodes, err := c.ListChildren(ctx, OutlinePrefix, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		// Keys come back dotted or slashed depending on the server version.
		key := strings.ReplaceAll(n.Key, ".", "/")
		ids = append(ids, key[strings.LastIndex(key, "/")+1:])
	}
	return ids, nil
}

// Close releases any resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// statusError reads a short error body. 429 and 5xx responses are
// retryable.
func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, string(body))
}

// retryAfter parses a Retry-After header given in seconds. HTTP dates are
// ignored.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
