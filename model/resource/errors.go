package resource

import "errors"

var (
	// ErrDimension is returned when vector or matrix lengths disagree.
	ErrDimension = errors.New("resource: dimension mismatch")

	// ErrInvariant is returned when allocation exceeds max or a value is
	// negative.
	ErrInvariant = errors.New("resource: invariant violated")
)
