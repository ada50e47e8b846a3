// Package bodik provides a typed HTTP client for the BODIK open-data
// API (https://wapi.bodik.jp). The client is immutable after
// construction and safe for concurrent use; every request is a single
// best-effort attempt bound to the caller's context, with no retries.
package bodik

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxBodyBytes bounds how much of an upstream response is read. BODIK
// search responses are paginated and stay well under this.
const maxBodyBytes = 32 << 20 // 32 MB

// excerptLen bounds how much upstream error detail is copied into an
// error message.
const excerptLen = 500

// Client is an HTTP client for the BODIK API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New returns a Client targeting baseURL. A zero timeout falls back to
// 30 seconds; a nil logger falls back to slog.Default().
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ListDatasets returns the dataset catalogue (GET /api/list).
func (c *Client) ListDatasets(ctx context.Context) ([]Dataset, error) {
	var datasets []Dataset
	if err := c.get(ctx, "/api/list", nil, &datasets); err != nil {
		return nil, err
	}
	return datasets, nil
}

// Organizations returns every organization publishing to BODIK
// (GET /organization).
func (c *Client) Organizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	if err := c.get(ctx, "/organization", nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// FindOrganizations returns the organizations whose name contains q.
// The BODIK API has no server-side organization search, so matching
// happens here over the full list.
func (c *Client) FindOrganizations(ctx context.Context, q string) ([]Organization, error) {
	if q == "" {
		return nil, fmt.Errorf("%w: q is required", ErrValidation)
	}
	orgs, err := c.Organizations(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]Organization, 0)
	for _, org := range orgs {
		if strings.Contains(org.Name, q) {
			matched = append(matched, org)
		}
	}
	return matched, nil
}

// DatasetOrganizations returns the organizations publishing one dataset
// (GET /{apiname}/organization). The shape varies per dataset, so the
// decoded JSON is passed through.
func (c *Client) DatasetOrganizations(ctx context.Context, apiname string) (any, error) {
	if err := ValidateAPIName(apiname); err != nil {
		return nil, err
	}
	var out any
	if err := c.get(ctx, "/"+apiname+"/organization", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Config returns the dataset schema/configuration
// (GET /config/{apiname}).
func (c *Client) Config(ctx context.Context, apiname string) (any, error) {
	if err := ValidateAPIName(apiname); err != nil {
		return nil, err
	}
	var out any
	if err := c.get(ctx, "/config/"+apiname, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchGET runs a query-parameter search (GET /{apiname}) and returns
// the decoded response unchanged.
func (c *Client) SearchGET(ctx context.Context, apiname string, p SearchParams) (any, error) {
	if err := ValidateAPIName(apiname); err != nil {
		return nil, err
	}
	q, err := p.Values()
	if err != nil {
		return nil, err
	}
	var out any
	if err := c.get(ctx, "/"+apiname, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchPOST runs an advanced search (POST /api/{apiname}) with the
// given filter conditions and returns the decoded response unchanged.
func (c *Client) SearchPOST(ctx context.Context, apiname string, conditions map[string]any) (any, error) {
	if err := ValidateAPIName(apiname); err != nil {
		return nil, err
	}
	body, err := NormalizeConditions(conditions)
	if err != nil {
		return nil, err
	}
	var out any
	if err := c.post(ctx, "/api/"+apiname, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// do performs one request and decodes the JSON response into out.
// Failures are classified: dial/timeout errors wrap ErrTransport,
// non-2xx statuses and undecodable bodies wrap ErrUpstream.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encoding request body: %v", ErrValidation, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("%w: building request for %s: %v", ErrValidation, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	id := uuid.NewString()[:8]
	c.logger.Info("bodik request", "id", id, "method", method, "url", reqURL)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("bodik request failed", "id", id, "error", err)
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.logger.Warn("bodik response read failed", "id", id, "error", err)
		return fmt.Errorf("%w: reading %s %s response: %v", ErrTransport, method, path, err)
	}

	c.logger.Info("bodik response", "id", id, "status", resp.StatusCode,
		"bytes", len(data), "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s returned %d: %s",
			ErrUpstream, method, path, resp.StatusCode, excerpt(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s returned malformed JSON: %v (%s)",
			ErrUpstream, method, path, err, excerpt(data))
	}
	return nil
}

// excerpt returns a bounded prefix of an upstream body for error
// messages.
func excerpt(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > excerptLen {
		return s[:excerptLen] + "..."
	}
	return s
}
