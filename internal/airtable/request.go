package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/hireloop/shortlister/internal/retry"
)

const contentType = "application/json"

type listResponse struct {
	Records []*Record `json:"records"`
	Offset  string    `json:"offset,omitempty"`
}

// ListAll retrieves every record of the table, following the offset token
// until the API stops returning one. Pages are concatenated in fetch order. A
// page failure aborts the whole fetch: callers never see a partial table.
func (c *Client) ListAll(ctx context.Context, table string) ([]*Record, error) {
	var records []*Record

	offset := ""
	for {
		q := url.Values{}
		if offset != "" {
			q.Set("offset", offset)
		}

		var page listResponse
		if err := c.doJSON(ctx, http.MethodGet, c.tableURL(table), q, nil, &page); err != nil {
			return nil, fmt.Errorf("list %s: %w", table, err)
		}

		records = append(records, page.Records...)

		if page.Offset == "" {
			break
		}

		c.logger.Debug("additional page needed", zap.String("table", table), zap.String("offset", page.Offset))
		offset = page.Offset
	}

	c.logger.Debug("retrieved records", zap.String("table", table), zap.Int("count", len(records)))

	return records, nil
}

// Create adds a record to the table and returns it with the remote identifier.
func (c *Client) Create(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	var created Record
	payload := map[string]any{"fields": fields}
	if err := c.doJSON(ctx, http.MethodPost, c.tableURL(table), nil, payload, &created); err != nil {
		return nil, fmt.Errorf("create record in %s: %w", table, err)
	}

	return &created, nil
}

// Update patches the given fields of an existing record, leaving others alone.
func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any) (*Record, error) {
	var updated Record
	payload := map[string]any{"fields": fields}
	if err := c.doJSON(ctx, http.MethodPatch, c.tableURL(table, id), nil, payload, &updated); err != nil {
		return nil, fmt.Errorf("update record %s in %s: %w", id, table, err)
	}

	return &updated, nil
}

// Delete removes a record from the table.
func (c *Client) Delete(ctx context.Context, table, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.tableURL(table, id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete record %s from %s: %w", id, table, err)
	}

	return nil
}

// doJSON runs a single API call through the rate limiter and the retry
// schedule. The request is rebuilt from the marshaled payload on every
// attempt so retries never reuse a drained body.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, q url.Values, payload, target any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	return retry.Do(ctx, c.retry, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return err
		}

		c.setHeaders(req)
		if len(q) > 0 {
			req.URL.RawQuery = q.Encode()
		}

		c.logger.Debug("make request", zap.String("method", method), zap.String("url", req.URL.String()))

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("bad status: %s", resp.Status)
		}

		if target == nil {
			return nil
		}

		return json.Unmarshal(data, target)
	})
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", contentType)
}

func (c *Client) tableURL(table string, segments ...string) string {
	parts := []string{strings.TrimSuffix(c.APIURL, "/"), c.baseID, url.PathEscape(table)}
	for _, segment := range segments {
		parts = append(parts, url.PathEscape(segment))
	}

	return strings.Join(parts, "/")
}
