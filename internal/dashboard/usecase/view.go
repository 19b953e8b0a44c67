package usecase

import (
	"context"
	"errors"
	"sync"

	calldomain "callboard/internal/call/domain"
	"callboard/internal/dashboard/domain"
	"callboard/pkg/metrics"

	"github.com/rs/zerolog"
)

const (
	// MsgFetchFailed is shown when the proxy failed without an error message.
	MsgFetchFailed = "Failed to fetch call records"
	// MsgSomethingWrong is shown when the proxy could not be reached or decoded.
	MsgSomethingWrong = "Something went wrong. Try again."
)

// View holds the records, loading flag and error of one dashboard session.
//
// Every fetch is tagged with a sequence number. Starting a fetch cancels the
// one in flight, and only the fetch holding the latest number may commit.
type View struct {
	fetcher CallFetcher
	log     zerolog.Logger

	mu      sync.Mutex
	bearer  string
	state   domain.State
	records []calldomain.CallRecord
	loading bool
	err     string
	seq     uint64
	cancel  context.CancelFunc
}

func NewView(fetcher CallFetcher, bearer string, log zerolog.Logger) *View {
	return &View{
		fetcher: fetcher,
		bearer:  bearer,
		state:   domain.StateIdle,
		log:     log,
	}
}

// Mount performs the initial fetch the first time it is called. Later calls
// return the current state without fetching.
func (v *View) Mount(ctx context.Context) domain.Snapshot {
	v.mu.Lock()
	if v.state != domain.StateIdle {
		snap := v.snapshotLocked()
		v.mu.Unlock()
		return snap
	}
	token, fetchCtx, bearer := v.beginLocked(ctx)
	v.mu.Unlock()

	return v.run(fetchCtx, token, bearer)
}

// Refresh starts a new fetch from any state, superseding a pending one.
func (v *View) Refresh(ctx context.Context) domain.Snapshot {
	v.mu.Lock()
	token, fetchCtx, bearer := v.beginLocked(ctx)
	v.mu.Unlock()

	return v.run(fetchCtx, token, bearer)
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() domain.Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// SetBearer replaces the token used for subsequent fetches.
func (v *View) SetBearer(bearer string) {
	v.mu.Lock()
	v.bearer = bearer
	v.mu.Unlock()
}

// Close cancels any fetch in flight. Its result will not be committed.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

func (v *View) beginLocked(ctx context.Context) (uint64, context.Context, string) {
	if v.cancel != nil {
		v.cancel()
	}
	v.seq++
	// The fetch belongs to the view, not to the page request that triggered it.
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	v.cancel = cancel
	v.state = domain.StateLoading
	v.loading = true
	v.err = ""
	return v.seq, fetchCtx, v.bearer
}

func (v *View) run(ctx context.Context, token uint64, bearer string) domain.Snapshot {
	records, err := v.fetcher.FetchCalls(ctx, bearer)

	v.mu.Lock()
	defer v.mu.Unlock()

	if token != v.seq {
		metrics.IncViewFetch(metrics.FetchSuperseded)
		v.log.Debug().Uint64("token", token).Uint64("latest", v.seq).Msg("fetch superseded")
		return v.snapshotLocked()
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.loading = false

	if err != nil {
		v.state = domain.StateErrored
		v.records = nil
		v.err = errorMessage(err)
		metrics.IncViewFetch(metrics.FetchErrored)
		v.log.Warn().Err(err).Msg("call fetch failed")
		return v.snapshotLocked()
	}

	v.state = domain.StateLoaded
	v.records = records
	metrics.IncViewFetch(metrics.FetchLoaded)
	v.log.Debug().Int("records", len(records)).Msg("call fetch loaded")
	return v.snapshotLocked()
}

func (v *View) snapshotLocked() domain.Snapshot {
	var records []calldomain.CallRecord
	if len(v.records) > 0 {
		records = make([]calldomain.CallRecord, len(v.records))
		copy(records, v.records)
	}
	return domain.Snapshot{
		State:   v.state,
		Records: records,
		Loading: v.loading,
		Error:   v.err,
	}
}

func errorMessage(err error) string {
	var proxyErr *ProxyError
	if errors.As(err, &proxyErr) {
		if proxyErr.Message != "" {
			return proxyErr.Message
		}
		return MsgFetchFailed
	}
	return MsgSomethingWrong
}
