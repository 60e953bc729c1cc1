package process

import (
	"fmt"
	"time"
)

// Spec describes a process-creation request.
type Spec struct {
	Name            string `json:"name" yaml:"name"`
	Priority        int    `json:"priority" yaml:"priority"`
	ArrivalTime     int    `json:"arrivalTime" yaml:"arrivalTime"`
	RequiredRuntime int    `json:"requiredRuntime" yaml:"requiredRuntime"`
}

// Edit carries an external change to a live process. Nil fields are left
// untouched.
type Edit struct {
	Name            *string `json:"name,omitempty"`
	Priority        *int    `json:"priority,omitempty"`
	ArrivalTime     *int    `json:"arrivalTime,omitempty"`
	RequiredRuntime *int    `json:"requiredRuntime,omitempty"`
}

// IsEmpty reports whether the edit changes nothing.
func (e Edit) IsEmpty() bool {
	return e.Name == nil && e.Priority == nil && e.ArrivalTime == nil && e.RequiredRuntime == nil
}

// PCB is the process control block of one simulated process.
type PCB struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Priority        int       `json:"priority"`
	ArrivalTime     int       `json:"arrivalTime"`
	RequiredRuntime int       `json:"requiredRuntime"`
	UsedCPUTime     int       `json:"usedCPUTime"`
	State           State     `json:"state"`
	CreatedAt       time.Time `json:"createdAt"`
	// basePriority is the priority restored when a session resets. It is
	// captured at creation and only changed by an explicit Edit.
	basePriority int
}

// New creates a ready process with no CPU time used.
func New(id string, spec Spec, createdAt time.Time) *PCB {
	return &PCB{
		ID:              id,
		Name:            spec.Name,
		Priority:        spec.Priority,
		ArrivalTime:     spec.ArrivalTime,
		RequiredRuntime: spec.RequiredRuntime,
		State:           StateReady,
		CreatedAt:       createdAt,
		basePriority:    spec.Priority,
	}
}

// BasePriority returns the priority the process started the session with.
func (p *PCB) BasePriority() int { return p.basePriority }

// IsFinished reports whether the process completed its runtime.
func (p *PCB) IsFinished() bool { return p.State == StateFinished }

// Remaining returns the CPU time still required, never below zero.
func (p *PCB) Remaining() int {
	if rem := p.RequiredRuntime - p.UsedCPUTime; rem > 0 {
		return rem
	}
	return 0
}

// Reset restores the pre-run attributes: no CPU time used, ready, base
// priority.
func (p *PCB) Reset() {
	p.UsedCPUTime = 0
	p.State = StateReady
	p.Priority = p.basePriority
}

// Apply applies e. A priority edit also moves the base priority.
func (p *PCB) Apply(e Edit) {
	if e.Name != nil {
		p.Name = *e.Name
	}
	if e.Priority != nil {
		p.Priority = *e.Priority
		p.basePriority = *e.Priority
	}
	if e.ArrivalTime != nil {
		p.ArrivalTime = *e.ArrivalTime
	}
	if e.RequiredRuntime != nil {
		p.RequiredRuntime = *e.RequiredRuntime
	}
}

// Clone returns a copy safe to hand to observers.
func (p *PCB) Clone() *PCB {
	if p == nil {
		return nil
	}
	ret := *p
	return &ret
}

func (p *PCB) String() string {
	return fmt.Sprintf("%s(priority=%d, arrival=%d, runtime=%d, used=%d, state=%s)",
		p.Name, p.Priority, p.ArrivalTime, p.RequiredRuntime, p.UsedCPUTime, p.State.Code())
}
