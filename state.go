package sieve

// State represents the current state of a Feed.
type State int32

const (
	// StateLoading indicates the Feed has not yet processed a document.
	StateLoading State = iota

	// StateHealthy indicates the last document replaced the collection.
	StateHealthy

	// StateDegraded indicates the last document was rejected. The
	// collection still holds the previous valid document.
	StateDegraded

	// StateEmpty indicates the initial document was rejected and no valid
	// document has ever been applied. The Feed keeps watching.
	StateEmpty
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// ViewState is the lifecycle state of a View.
type ViewState int32

const (
	// ViewInactive means the View holds no upstream subscriptions.
	ViewInactive ViewState = iota

	// ViewActive means the View is subscribed and recomputing.
	ViewActive
)

func (s ViewState) String() string {
	switch s {
	case ViewInactive:
		return "inactive"
	case ViewActive:
		return "active"
	default:
		return "unknown"
	}
}
