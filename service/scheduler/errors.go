package scheduler

import "errors"

var (
	// ErrProcessNotFound is returned when an id does not name a live,
	// unfinished process.
	ErrProcessNotFound = errors.New("process not found")
	// ErrInvalidProcess is returned for a process spec with negative
	// arrival or runtime.
	ErrInvalidProcess = errors.New("invalid process")
	// ErrUnknownDiscipline is returned by New for an unsupported discipline.
	ErrUnknownDiscipline = errors.New("unknown discipline")
)
