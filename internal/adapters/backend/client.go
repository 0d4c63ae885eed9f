// Package backend is a thin client for the tabular persistence service.
// It issues generic filtered CRUD requests over named tables and talks
// to the same service's auth endpoints. There are no transactions, no
// retries, and no backoff; callers decide how failures surface.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/HeatedDotCom/heated/internal/adapters/session"
	"github.com/HeatedDotCom/heated/internal/domain/model"
	"github.com/HeatedDotCom/heated/pkg/logger"
	"github.com/HeatedDotCom/heated/pkg/metrics"
)

const defaultTimeout = 15 * time.Second

// Sessions persists auth state across runs, the way browser local
// storage does for the web client.
type Sessions interface {
	Save(st session.State) error
	Load() (session.State, bool, error)
	Clear() error
}

// Client issues CRUD and auth requests against the backend.
type Client struct {
	baseURL  string
	anonKey  string
	http     *http.Client
	log      logger.Logger
	sessions Sessions

	mu     sync.RWMutex
	bearer string
	user   *model.User
}

// New creates a backend client. The anon key doubles as the bearer
// token until a sign-in replaces it.
func New(baseURL, anonKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		http:    &http.Client{Timeout: defaultTimeout},
		bearer:  anonKey,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.Get().Named("backend")
	}

	return c
}

// Insert creates a record in table.
func (c *Client) Insert(ctx context.Context, table string, record any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", table, err)
	}
	_, err = c.do(ctx, http.MethodPost, c.restURL(table, Query{}), body, table, "insert")
	return err
}

// Select fetches rows from table matching q, decoding the JSON array
// into dest.
func (c *Client) Select(ctx context.Context, table string, q Query, dest any) error {
	data, err := c.do(ctx, http.MethodGet, c.restURL(table, q), nil, table, "select")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s rows: %w", table, err)
	}
	return nil
}

// Update patches rows in table matching q.
func (c *Client) Update(ctx context.Context, table string, patch any, q Query) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode %s patch: %w", table, err)
	}
	_, err = c.do(ctx, http.MethodPatch, c.restURL(table, q), body, table, "update")
	return err
}

// Delete removes rows from table matching q.
func (c *Client) Delete(ctx context.Context, table string, q Query) error {
	_, err := c.do(ctx, http.MethodDelete, c.restURL(table, q), nil, table, "delete")
	return err
}

func (c *Client) restURL(table string, q Query) string {
	u := c.baseURL + "/rest/v1/" + table
	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, table, operation string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", operation, table, err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordBackendError(table, operation)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, operation, table, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordBackendError(table, operation)
		return nil, fmt.Errorf("read %s %s response: %w", operation, table, err)
	}

	metrics.RecordBackendRequest(table, operation, time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordBackendError(table, operation)
		c.log.Debug(ctx, "backend request rejected",
			logger.String("table", table),
			logger.String("operation", operation),
			logger.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: %s %s: status %d", ErrRequestFailed, operation, table, resp.StatusCode)
	}

	return data, nil
}

func (c *Client) setHeaders(req *http.Request) {
	c.mu.RLock()
	bearer := c.bearer
	c.mu.RUnlock()

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")
}
