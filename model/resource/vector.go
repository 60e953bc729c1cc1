package resource

import (
	"strconv"
	"strings"
)

// Vector holds one non-negative count per resource class.
type Vector []int

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	return append(Vector(nil), v...)
}

// LessOrEqual reports whether v[r] <= o[r] for every r.
func (v Vector) LessOrEqual(o Vector) bool {
	for r := range v {
		if v[r] > o[r] {
			return false
		}
	}
	return true
}

// Add adds o to v in place.
func (v Vector) Add(o Vector) {
	for r := range v {
		v[r] += o[r]
	}
}

// Sub subtracts o from v in place.
func (v Vector) Sub(o Vector) {
	for r := range v {
		v[r] -= o[r]
	}
}

// Equal reports element-wise equality.
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for r := range v {
		if v[r] != o[r] {
			return false
		}
	}
	return true
}

// IsNonNegative reports whether every element is >= 0.
func (v Vector) IsNonNegative() bool {
	for _, n := range v {
		if n < 0 {
			return false
		}
	}
	return true
}

// String renders v as [a, b, c].
func (v Vector) String() string {
	b := strings.Builder{}
	b.WriteByte('[')
	for i, n := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(n))
	}
	b.WriteByte(']')
	return b.String()
}

// Matrix holds one Vector per process, indexed by process id.
type Matrix []Vector

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = row.Clone()
	}
	return out
}

// Equal reports element-wise equality.
func (m Matrix) Equal(o Matrix) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if !m[i].Equal(o[i]) {
			return false
		}
	}
	return true
}
