package scheduler

import (
	"fmt"
	"strings"

	"github.com/viant/ossim/model/process"
)

// Status is the lifecycle state of a scheduling session.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusDrained Status = "drained"
)

// StepResult describes the outcome of one tick.
type StepResult struct {
	Discipline Discipline `json:"discipline"`
	Tick       int        `json:"tick"`
	Status     Status     `json:"status"`
	// RanID names the process that received this tick, empty when none ran.
	RanID string `json:"ranProcessId,omitempty"`
	// Ran is a snapshot of that process after the tick.
	Ran *process.PCB `json:"ran,omitempty"`
	// Remaining is the CPU time Ran still needs.
	Remaining int `json:"remaining,omitempty"`
	// Finished reports whether Ran completed on this tick.
	Finished bool `json:"finished,omitempty"`
	// PendingID names the process the engine is waiting on when nothing
	// was eligible to run.
	PendingID   string         `json:"pendingProcessId,omitempty"`
	ReadyIDs    []string       `json:"readyIds"`
	WaitIDs     []string       `json:"waitIds"`
	FinishedIDs []string       `json:"finishedIds"`
	Drained     bool           `json:"drained"`
	Processes   []*process.PCB `json:"processes"`
}

func (r *StepResult) names() map[string]string {
	ret := make(map[string]string, len(r.Processes))
	for _, p := range r.Processes {
		ret[p.ID] = p.Name
	}
	return ret
}

func (r *StepResult) String() string {
	names := r.names()
	list := func(ids []string) string {
		items := make([]string, len(ids))
		for i, id := range ids {
			if name, ok := names[id]; ok && name != "" {
				items[i] = name
			} else {
				items[i] = id
			}
		}
		return "[" + strings.Join(items, " ") + "]"
	}
	builder := strings.Builder{}
	if r.Drained {
		builder.WriteString(fmt.Sprintf("%s session drained after tick %d, finished: %s\n", r.Discipline, r.Tick, list(r.FinishedIDs)))
		return builder.String()
	}
	builder.WriteString(fmt.Sprintf("%s tick %d\n", r.Discipline, r.Tick))
	switch {
	case r.Ran != nil:
		builder.WriteString(fmt.Sprintf("running: %s, remaining %d\n", r.Ran.String(), r.Remaining))
	case r.PendingID != "":
		builder.WriteString("waiting for arrival of " + list([]string{r.PendingID}) + "\n")
	}
	builder.WriteString("ready: " + list(r.ReadyIDs) + "\n")
	builder.WriteString("wait: " + list(r.WaitIDs) + "\n")
	builder.WriteString("finished: " + list(r.FinishedIDs) + "\n")
	return builder.String()
}
