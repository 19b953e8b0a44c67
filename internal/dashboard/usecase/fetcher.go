package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	calldomain "callboard/internal/call/domain"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ProxyError is a non-200 answer from the Record Proxy. Message holds the
// proxy's "error" field and is empty when the body carried none.
type ProxyError struct {
	Status  int
	Message string
}

func (e *ProxyError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("proxy returned %d", e.Status)
	}
	return fmt.Sprintf("proxy returned %d: %s", e.Status, e.Message)
}

type proxyFetcher struct {
	baseURL string
	http    *http.Client
}

// NewProxyFetcher returns a CallFetcher that calls GET {baseURL}/api/calls.
func NewProxyFetcher(baseURL string) CallFetcher {
	return &proxyFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

func (f *proxyFetcher) FetchCalls(ctx context.Context, bearer string) ([]calldomain.CallRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/api/calls", nil)
	if err != nil {
		return nil, err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read proxy response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var payload struct {
			Error string `json:"error"`
		}
		// A body without a usable "error" field leaves Message empty.
		_ = json.Unmarshal(body, &payload)
		return nil, &ProxyError{Status: resp.StatusCode, Message: payload.Error}
	}

	var records []calldomain.CallRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode call records: %w", err)
	}
	return records, nil
}
