package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// NewFunc generates a new identifier. Defaults to a random UUID.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier.
func New() string { return NewFunc() }

// Sequence returns a generator yielding prefix1, prefix2, ... It is handy for
// stubbing NewFunc in tests.
func Sequence(prefix string) func() string {
	var n int64
	return func() string {
		return prefix + strconv.FormatInt(atomic.AddInt64(&n, 1), 10)
	}
}
