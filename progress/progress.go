package progress

import (
	"sync"
	"time"
)

// Delta is an incremental counter change. Fields are signed.
type Delta struct {
	Total    int
	Ready    int
	Finished int
	Ticks    int
}

// Counters is a point-in-time view of a session.
type Counters struct {
	Discipline string    `json:"discipline"`
	StartedAt  time.Time `json:"startedAt"`

	TotalProcesses    int `json:"totalProcesses"`
	ReadyProcesses    int `json:"readyProcesses"`
	FinishedProcesses int `json:"finishedProcesses"`
	Ticks             int `json:"ticks"`
}

// Progress keeps session counters. It is safe for concurrent use.
type Progress struct {
	counters Counters
	mux      sync.Mutex
	onChange func(Counters)
}

// New creates a tracker for the given discipline.
func New(discipline string, onChange func(Counters)) *Progress {
	return &Progress{
		counters: Counters{Discipline: discipline, StartedAt: time.Now()},
		onChange: onChange,
	}
}

// Update applies d. The onChange callback, if any, receives a copy outside
// the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mux.Lock()
	p.counters.TotalProcesses += d.Total
	p.counters.ReadyProcesses += d.Ready
	p.counters.FinishedProcesses += d.Finished
	p.counters.Ticks += d.Ticks
	snapshot := p.counters
	cb := p.onChange
	p.mux.Unlock()
	if cb != nil {
		cb(snapshot)
	}
}

// Restart zeroes the finished and tick counters and marks every process
// ready, as happens when a session drains or is reset.
func (p *Progress) Restart() {
	if p == nil {
		return
	}
	p.mux.Lock()
	p.counters.FinishedProcesses = 0
	p.counters.Ticks = 0
	p.counters.ReadyProcesses = p.counters.TotalProcesses
	snapshot := p.counters
	cb := p.onChange
	p.mux.Unlock()
	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns the current counters.
func (p *Progress) Snapshot() Counters {
	if p == nil {
		return Counters{}
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.counters
}

// OnChange registers a callback invoked after every update; nil disables it.
func (p *Progress) OnChange(cb func(Counters)) {
	if p == nil {
		return
	}
	p.mux.Lock()
	p.onChange = cb
	p.mux.Unlock()
}
