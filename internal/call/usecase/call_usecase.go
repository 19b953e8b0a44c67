package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"callboard/pkg/logger"
	"callboard/pkg/metrics"
	"callboard/pkg/vapi"

	"github.com/rs/zerolog"
)

var (
	// ErrAPIKeyNotSet means no provider credential was configured.
	ErrAPIKeyNotSet = errors.New("api key not set")
	// ErrFetchFailed wraps transport and decode failures.
	ErrFetchFailed = errors.New("failed to fetch call records")
)

// callUsecase implements CallUsecase interface
type callUsecase struct {
	lister CallLister
	apiKey string
	log    zerolog.Logger
}

// NewCallUsecase creates a new instance of callUsecase. The credential is
// fixed for the lifetime of the usecase.
func NewCallUsecase(lister CallLister, apiKey string) CallUsecase {
	return &callUsecase{
		lister: lister,
		apiKey: apiKey,
		log:    logger.WithComponent("calls"),
	}
}

func (u *callUsecase) ListCalls(ctx context.Context) (json.RawMessage, error) {
	if u.apiKey == "" {
		metrics.IncProxy(metrics.OutcomeNoAPIKey)
		u.log.Error().Msg("VAPI_API_KEY is not configured")
		return nil, ErrAPIKeyNotSet
	}

	body, err := u.lister.ListCalls(ctx, u.apiKey)
	if err != nil {
		var statusErr *vapi.StatusError
		if errors.As(err, &statusErr) {
			metrics.IncProxy(metrics.OutcomeProviderErr)
			u.log.Warn().Int("status", statusErr.Code).Msg("provider rejected call listing")
			return nil, statusErr
		}
		metrics.IncProxy(metrics.OutcomeTransport)
		u.log.Error().Err(err).Msg("call listing failed")
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	metrics.IncProxy(metrics.OutcomeOK)
	u.log.Debug().Int("bytes", len(body)).Msg("call listing relayed")
	return body, nil
}
