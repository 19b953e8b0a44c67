package usecase

import (
	"context"
	"encoding/json"
)

// CallUsecase lists call records from the provider on behalf of the Record Proxy.
type CallUsecase interface {
	// ListCalls returns the provider's JSON body untouched.
	ListCalls(ctx context.Context) (json.RawMessage, error)
}

// CallLister is the outbound provider client.
type CallLister interface {
	ListCalls(ctx context.Context, apiKey string) (json.RawMessage, error)
}
