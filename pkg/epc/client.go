package epc

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/SearchIntel/getmyhousevalue-backend/internal/errors"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/logger"
)

const maxBodyBytes = 8 << 20

// Client manages authenticated searches against the EPC register
type Client struct {
	endpoint   string
	user       string
	key        string
	httpClient *http.Client
}

// NewClient creates a new EPC client. Missing credentials leave the client
// disabled rather than failing.
func NewClient(endpoint, user, key string) *Client {
	return &Client{
		endpoint: endpoint,
		user:     user,
		key:      key,
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

// Enabled reports whether credentials are configured.
func (c *Client) Enabled() bool {
	return c.user != "" && c.key != ""
}

// authHeader encodes the user:key pair as a basic auth header value
func (c *Client) authHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.user+":"+c.key))
}

func (c *Client) buildRequest(ctx context.Context, q SearchQuery) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Values().Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create epc request: %v", err)
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Search returns certificate rows for the postcode in upstream order.
func (c *Client) Search(ctx context.Context, q SearchQuery) ([]models.CertificateRecord, error) {
	if !c.Enabled() {
		return nil, nil
	}

	req, err := c.buildRequest(ctx, q)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to build epc request: postcode=%s, error=%v", q.Postcode, err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("epc search: %w: %v", apperrors.ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("epc search: %w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("epc search: read body: %w: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("epc search: %w: status=%s", apperrors.ErrUpstreamUnavailable, resp.Status)
	}

	// The register answers an unknown postcode with 200 and no body.
	if len(bytes.TrimSpace(body)) == 0 {
		return []models.CertificateRecord{}, nil
	}

	records, err := decodeRows(body)
	if err != nil {
		return nil, fmt.Errorf("epc search: %w: %v", apperrors.ErrMalformedUpstreamPayload, err)
	}

	logger.GlobalLogger.Debugf("EPC search returned: postcode=%s, records=%d", q.Postcode, len(records))
	return records, nil
}
