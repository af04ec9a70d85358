// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval calls the external retrieval service, which returns the
// citation records attached to a generated answer. The service is a black
// box; this package only speaks its JSON contract.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/citerank/internal/httputil"
	"github.com/pdiddy/citerank/pkg/types"
)

const defaultTopK = 10

// Request is a retrieval query.
type Request struct {
	Query      string   `json:"query"`
	TopK       int      `json:"top_k,omitempty"`
	Namespaces []string `json:"namespaces,omitempty"`
}

type response struct {
	Citations []types.Citation `json:"citations"`
}

// Client queries the retrieval service.
type Client struct {
	cfg    types.RetrievalConfig
	retry  *httputil.Retrier
	logger *zap.Logger
}

// NewClient returns a client for cfg. A nil httpClient gets one with
// cfg.Timeout; a nil logger discards output.
func NewClient(cfg types.RetrievalConfig, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("retrieval endpoint is not configured")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg: cfg,
		retry: &httputil.Retrier{
			Client:     httpClient,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		},
		logger: logger,
	}, nil
}

// Retrieve sends req and returns the citations in the order the service
// produced them. That order defines each citation's display number.
func (c *Client) Retrieve(ctx context.Context, req Request) ([]types.Citation, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("retrieval query is empty")
	}
	if req.TopK <= 0 {
		req.TopK = c.cfg.TopK
	}
	if req.TopK <= 0 {
		req.TopK = defaultTopK
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/retrieve"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.retry.Do(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("retrieval request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("retrieval service returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("parsing retrieval response: %w", err)
	}

	c.logger.Debug("retrieved citations",
		zap.String("query", req.Query),
		zap.Int("top_k", req.TopK),
		zap.Int("count", len(r.Citations)),
	)
	return r.Citations, nil
}
