/*
Copyright 2025-2026 the Apivet Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package transport abstracts HTTP exchange with the implementation under
// verification. The contract runner only depends on the Transport interface,
// which keeps request execution replaceable in tests.
package transport

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds each individual request.
const DefaultTimeout = 10 * time.Second

// Response is a captured HTTP exchange result: status and raw body.
// Decoding is deferred to the caller, which knows whether a body is
// expected at all.
type Response struct {
	StatusCode int
	Body       []byte
}

// JSON decodes the body as JSON.
func (r *Response) JSON() (any, error) {
	var value any

	if err := json.Unmarshal(r.Body, &value); err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}

	return value, nil
}

// Text returns the body as a string, for diagnostics on non-JSON responses.
func (r *Response) Text() string {
	return string(r.Body)
}

// Transport issues a single HTTP request and captures the response. A body
// of nil sends no request body; any other value is JSON-encoded.
type Transport interface {
	Send(ctx context.Context, method, url string, body any) (*Response, error)
}

// Client is the production Transport over net/http. Every request carries a
// fresh W3C traceparent so a failing exchange can be located in the
// implementation's logs.
type Client struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewClient creates a transport rooted at baseURL. A zero timeout selects
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// generateTraceID creates a new W3C trace ID.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// Send implements Transport.
func (c *Client) Send(ctx context.Context, method, url string, body any) (*Response, error) {
	fullURL := c.baseURL + url

	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "verification=apivet")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()

	resp, err := c.client.Do(req)

	duration := time.Since(start)

	if err != nil {
		c.log.Debug("http request failed",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Duration("duration", duration),
			zap.String("traceparent", traceParent),
			zap.Error(err))

		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.log.Debug("http exchange",
		zap.String("method", method),
		zap.String("url", fullURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
		zap.String("traceparent", traceParent))

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}
