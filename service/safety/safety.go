// Package safety implements the banker's-algorithm safety test. Every
// function is pure: the supplied state is read, never written.
package safety

import "github.com/viant/ossim/model/resource"

// Admission records one process admitted by the safety walk together with
// the work vector after its allocation was released.
type Admission struct {
	Process int             `json:"process"`
	Work    resource.Vector `json:"work"`
}

// Walk runs the safety algorithm on a scratch work vector. Processes are
// scanned in ascending id order; an admitted process releases its
// allocation into work immediately, so later processes in the same pass see
// it. Walking stops after a pass that admits nobody. The second return value
// reports whether every process was admitted.
func Walk(state *resource.State) ([]Admission, bool) {
	work := state.Available.Clone()
	finished := make([]bool, state.Processes())
	admissions := make([]Admission, 0, state.Processes())
	for {
		admitted := false
		for p := range finished {
			if finished[p] || !state.Need[p].LessOrEqual(work) {
				continue
			}
			work.Add(state.Allocation[p])
			finished[p] = true
			admitted = true
			admissions = append(admissions, Admission{Process: p, Work: work.Clone()})
		}
		if !admitted {
			break
		}
	}
	return admissions, len(admissions) == len(finished)
}

// IsSafe reports whether every process can run to completion in some order.
func IsSafe(state *resource.State) bool {
	_, safe := Walk(state)
	return safe
}

// FindSafeSequence returns the admission order of a safe state, or an empty
// sequence when the state is unsafe.
func FindSafeSequence(state *resource.State) []int {
	admissions, safe := Walk(state)
	if !safe {
		return []int{}
	}
	ret := make([]int, len(admissions))
	for i, admission := range admissions {
		ret[i] = admission.Process
	}
	return ret
}
