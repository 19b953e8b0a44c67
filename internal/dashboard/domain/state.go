package domain

import calldomain "callboard/internal/call/domain"

// State is the lifecycle position of a dashboard view.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of a view's state, safe to render.
type Snapshot struct {
	State   State
	Records []calldomain.CallRecord
	Loading bool
	Error   string
}

// Empty reports whether the empty-state message should be shown.
func (s Snapshot) Empty() bool {
	return len(s.Records) == 0 && s.Error == ""
}
