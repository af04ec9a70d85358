// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for calls to the retrieval service.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	defaultMaxRetries = 5
	defaultBaseDelay  = 2 * time.Second
	maxRetryAfter     = 2 * time.Minute
)

// Retrier executes requests and retries on HTTP 429 and 503 with
// exponential backoff. A Retry-After header in seconds overrides the
// computed delay, capped at two minutes.
type Retrier struct {
	Client *http.Client

	// MaxRetries is the number of retries after the first attempt (default 5).
	MaxRetries int

	// BaseDelay is the first backoff; it doubles on each attempt (default 2s).
	BaseDelay time.Duration

	Logger *zap.Logger
}

// Do sends req until it receives a non-retryable status or retries are
// exhausted, in which case the last retryable response is returned so the
// caller can inspect it. Request bodies are replayed through req.GetBody.
// A cancelled context during backoff returns ctx.Err().
func (r *Retrier) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	maxRetries := r.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	base := r.BaseDelay
	if base <= 0 {
		base = defaultBaseDelay
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := base << attempt
		if ra, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			wait = ra
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		logger.Warn("retrieval request throttled, retrying",
			zap.Int("status", resp.StatusCode),
			zap.Duration("backoff", wait),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

func retryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d, true
}
