// Package vapi is a minimal client for the Vapi voice-API call listing.
package vapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"callboard/pkg/metrics"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultBaseURL = "https://api.vapi.ai"

// ErrInvalidBody is returned when a 2xx response does not carry valid JSON.
var ErrInvalidBody = errors.New("provider returned malformed JSON")

// StatusError is a non-2xx answer from the provider.
type StatusError struct {
	Code   int
	Status string // reason phrase, e.g. "Unauthorized"
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("VAPI Error: %d %s", e.Code, e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for baseURL. A zero timeout leaves outbound calls unbounded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// ListCalls issues a single GET /call and returns the response body untouched.
// Non-2xx responses come back as *StatusError.
func (c *Client) ListCalls(ctx context.Context, apiKey string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/call", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vapi request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveProvider(resp.StatusCode, time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Status: reasonPhrase(resp)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if !json.Valid(body) {
		return nil, ErrInvalidBody
	}
	return json.RawMessage(body), nil
}

// reasonPhrase returns the text after the code in the status line,
// falling back to the canonical text when the server sent none.
func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}
