// Package fetch holds the shared list-fetch state machine and the stale
// response guard used by every screen that loads data from the backend.
package fetch

// Status is the lifecycle of a single fetch.
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State carries a fetch outcome. Data is meaningful only when Status is
// Loaded; Err only when Status is Failed.
type State[T any] struct {
	Status Status
	Data   T
	Err    error
}

func IdleState[T any]() State[T]    { return State[T]{Status: Idle} }
func LoadingState[T any]() State[T] { return State[T]{Status: Loading} }

func LoadedState[T any](data T) State[T] {
	return State[T]{Status: Loaded, Data: data}
}

func FailedState[T any](err error) State[T] {
	return State[T]{Status: Failed, Err: err}
}

func (s State[T]) IsLoading() bool { return s.Status == Loading }
func (s State[T]) IsLoaded() bool  { return s.Status == Loaded }
func (s State[T]) IsFailed() bool  { return s.Status == Failed }
