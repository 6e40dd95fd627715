package landregistry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/SearchIntel/getmyhousevalue-backend/internal/errors"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/logger"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 8 << 20

// Client runs SPARQL queries against the price-paid endpoint
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a new Land Registry client. Per-call deadlines come from
// the context; the client timeout is only a backstop.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithHTTPClient swaps the transport, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// buildRequest constructs the GET request carrying the query
func (c *Client) buildRequest(ctx context.Context, q Query) (*http.Request, error) {
	params := url.Values{}
	params.Set("query", q.Text)
	params.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create sparql request: %v", err)
	}
	req.Header.Set("Accept", "application/sparql-results+json")
	return req, nil
}

// Run executes q and decodes the bindings into sale records.
func (c *Client) Run(ctx context.Context, q Query) ([]models.SaleRecord, error) {
	req, err := c.buildRequest(ctx, q)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to build land registry request: mode=%s, error=%v", q.Mode, err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("land registry %s query: %w: %v", q.Mode, apperrors.ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("land registry %s query: %w: %v", q.Mode, apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("land registry %s query: read body: %w: %v", q.Mode, apperrors.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("land registry %s query: %w: status=%s, response=%s", q.Mode, apperrors.ErrUpstreamUnavailable, resp.Status, truncate(body, 256))
	}

	records, skipped, err := decodeBindings(body, q.Postcode)
	if err != nil {
		return nil, fmt.Errorf("land registry %s query: %w: %v", q.Mode, apperrors.ErrMalformedUpstreamPayload, err)
	}
	if skipped > 0 {
		logger.GlobalLogger.Warnf("Skipped land registry rows without a usable price: mode=%s, literal=%s, skipped=%d", q.Mode, q.Literal, skipped)
	}

	logger.GlobalLogger.Debugf("Land registry query returned: mode=%s, literal=%s, records=%d", q.Mode, q.Literal, len(records))
	return records, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
