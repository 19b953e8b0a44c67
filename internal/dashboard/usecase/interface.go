package usecase

import (
	"context"

	calldomain "callboard/internal/call/domain"
)

// CallFetcher reaches the Record Proxy on behalf of a signed-in session.
type CallFetcher interface {
	FetchCalls(ctx context.Context, bearer string) ([]calldomain.CallRecord, error)
}
