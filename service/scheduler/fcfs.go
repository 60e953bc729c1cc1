package scheduler

import (
	"context"

	"github.com/viant/ossim/model/process"
)

// FCFS runs the ready process with the earliest arrival time, ties broken
// by creation order. A preempted process keeps its place, so the head runs
// to completion before the next one starts. Arrival time only orders the
// queue; the head runs even if its arrival lies ahead of the clock.
type FCFS struct {
	*core
}

// NewFCFS creates a first-come-first-served scheduler.
func NewFCFS(opts ...Option) *FCFS {
	return &FCFS{core: newCore(DisciplineFCFS, byArrival, opts)}
}

// Step advances the session by one tick.
func (f *FCFS) Step(ctx context.Context) (*StepResult, error) {
	return f.step(ctx, f.advance)
}

func (f *FCFS) advance() (*process.PCB, bool) {
	e := f.ready.pop()
	f.tick++
	return e.pcb, f.execute(e, nil)
}
