package resource

import (
	"fmt"
	"strings"
)

// State is the banker's-algorithm view of the system: free units, declared
// maxima, current holdings and the derived remaining need per process.
// Process ids are row indexes into Max, Allocation and Need.
type State struct {
	Available  Vector `json:"available" yaml:"available"`
	Max        Matrix `json:"max" yaml:"max"`
	Allocation Matrix `json:"allocation" yaml:"allocation"`
	Need       Matrix `json:"need" yaml:"need"`
}

// NewState validates dimensions and invariants and derives Need. Inputs are
// copied; the caller keeps ownership of its slices.
func NewState(available Vector, max, allocation Matrix) (*State, error) {
	ret := &State{
		Available:  available.Clone(),
		Max:        max.Clone(),
		Allocation: allocation.Clone(),
	}
	if err := ret.checkDimensions(); err != nil {
		return nil, err
	}
	ret.DeriveNeed()
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Processes returns the number of processes.
func (s *State) Processes() int { return len(s.Max) }

// Resources returns the number of resource classes.
func (s *State) Resources() int { return len(s.Available) }

// DeriveNeed recomputes Need = Max - Allocation.
func (s *State) DeriveNeed() {
	s.Need = make(Matrix, len(s.Max))
	for p := range s.Max {
		row := make(Vector, len(s.Available))
		for r := range row {
			row[r] = s.Max[p][r] - s.Allocation[p][r]
		}
		s.Need[p] = row
	}
}

func (s *State) checkDimensions() error {
	if len(s.Available) == 0 {
		return fmt.Errorf("%w: available is empty", ErrDimension)
	}
	if len(s.Max) != len(s.Allocation) {
		return fmt.Errorf("%w: max has %d rows, allocation has %d", ErrDimension, len(s.Max), len(s.Allocation))
	}
	resources := len(s.Available)
	for p := range s.Max {
		if len(s.Max[p]) != resources {
			return fmt.Errorf("%w: max[%d] has %d classes, want %d", ErrDimension, p, len(s.Max[p]), resources)
		}
		if len(s.Allocation[p]) != resources {
			return fmt.Errorf("%w: allocation[%d] has %d classes, want %d", ErrDimension, p, len(s.Allocation[p]), resources)
		}
	}
	return nil
}

// Validate checks dimensions, non-negativity, allocation <= max and
// need == max - allocation.
func (s *State) Validate() error {
	if err := s.checkDimensions(); err != nil {
		return err
	}
	if len(s.Need) != len(s.Max) {
		return fmt.Errorf("%w: need has %d rows, max has %d", ErrDimension, len(s.Need), len(s.Max))
	}
	if !s.Available.IsNonNegative() {
		return fmt.Errorf("%w: available %v is negative", ErrInvariant, s.Available)
	}
	for p := range s.Max {
		if !s.Max[p].IsNonNegative() || !s.Allocation[p].IsNonNegative() {
			return fmt.Errorf("%w: process %d has negative max or allocation", ErrInvariant, p)
		}
		if !s.Allocation[p].LessOrEqual(s.Max[p]) {
			return fmt.Errorf("%w: allocation[%d]=%v exceeds max[%d]=%v", ErrInvariant, p, s.Allocation[p], p, s.Max[p])
		}
		for r := range s.Need[p] {
			if s.Need[p][r] != s.Max[p][r]-s.Allocation[p][r] {
				return fmt.Errorf("%w: need[%d][%d] out of sync", ErrInvariant, p, r)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	return &State{
		Available:  s.Available.Clone(),
		Max:        s.Max.Clone(),
		Allocation: s.Allocation.Clone(),
		Need:       s.Need.Clone(),
	}
}

// Equal reports whether both states hold identical values.
func (s *State) Equal(o *State) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.Available.Equal(o.Available) &&
		s.Max.Equal(o.Max) &&
		s.Allocation.Equal(o.Allocation) &&
		s.Need.Equal(o.Need)
}

// String renders the state as a table with one row per process.
func (s *State) String() string {
	b := strings.Builder{}
	b.WriteString("Available = ")
	b.WriteString(s.Available.String())
	b.WriteString("\nPID\tMax\t\tAllocation\tNeed")
	for p := range s.Max {
		fmt.Fprintf(&b, "\n%d\t%v\t%v\t%v", p, s.Max[p], s.Allocation[p], s.Need[p])
	}
	return b.String()
}
