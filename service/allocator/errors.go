package allocator

import "errors"

var (
	// ErrInvalidRequest is returned when a request exceeds the process need
	// or the available units.
	ErrInvalidRequest = errors.New("allocator: invalid request")

	// ErrWouldDeadlock is returned when granting a request leaves the system
	// in an unsafe state. The request is not applied.
	ErrWouldDeadlock = errors.New("allocator: request would lead to an unsafe state")

	// ErrNotConfigured is returned before Configure succeeded.
	ErrNotConfigured = errors.New("allocator: resource state not configured")

	// ErrUnknownProcess is returned for a process id outside the matrices.
	ErrUnknownProcess = errors.New("allocator: unknown process")

	// ErrUnknownField is returned by Edit for an unsupported field.
	ErrUnknownField = errors.New("allocator: unknown field")
)
