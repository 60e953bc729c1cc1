package allocator

import (
	"fmt"
	"strings"

	"github.com/viant/ossim/model/resource"
	"github.com/viant/ossim/service/safety"
)

// Reason explains why a request was rejected.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonNegative      Reason = "negative"
	ReasonOverNeed      Reason = "over-need"
	ReasonOverAvailable Reason = "over-available"
	ReasonWouldDeadlock Reason = "would-deadlock"
)

// Result reports the outcome of TryAllocate.
type Result struct {
	Process      int                `json:"process"`
	Request      resource.Vector    `json:"request"`
	Granted      bool               `json:"granted"`
	Reason       Reason             `json:"reason,omitempty"`
	SafeSequence []int              `json:"safeSequence"`
	Snapshot     *resource.State    `json:"snapshot"`
	Trace        []safety.Admission `json:"trace,omitempty"`
}

// EditResult reports a committed Edit.
type EditResult struct {
	Process  int             `json:"process"`
	Field    Field           `json:"field"`
	Value    resource.Vector `json:"value"`
	Snapshot *resource.State `json:"snapshot"`
}

// String renders the result as a human readable report.
func (r *Result) String() string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "request: %d ==> %v\n", r.Process, r.Request)
	switch {
	case r.Granted:
		b.WriteString("granted, system is in a safe state\n")
		b.WriteString(r.Snapshot.String())
		b.WriteByte('\n')
		for _, admission := range r.Trace {
			fmt.Fprintf(&b, "run process %d, work = %v\n", admission.Process, admission.Work)
		}
		fmt.Fprintf(&b, "safe sequence: %v\n", r.SafeSequence)
	case r.Reason == ReasonWouldDeadlock:
		b.WriteString("rejected, no safe sequence exists; state left unchanged\n")
	default:
		fmt.Fprintf(&b, "rejected, request is %s\n", r.Reason)
	}
	return b.String()
}
