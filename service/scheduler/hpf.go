package scheduler

import (
	"context"

	"github.com/viant/ossim/model/process"
	"github.com/viant/ossim/progress"
)

// HPF runs the highest-priority process that has arrived, ties broken by
// creation order. Each tick a process runs without finishing costs it one
// priority level, so long jobs yield to equal or lower peers.
//
// A process with arrival time t is eligible on the step taken when the clock
// reads t, which is reported as tick t+1. When nothing has arrived yet the
// tick elapses idle and the highest-priority process is reported as pending.
type HPF struct {
	*core
}

// NewHPF creates a highest-priority-first scheduler with aging.
func NewHPF(opts ...Option) *HPF {
	return &HPF{core: newCore(DisciplineHPF, byPriority, opts)}
}

// Step advances the session by one tick.
func (h *HPF) Step(ctx context.Context) (*StepResult, error) {
	return h.step(ctx, h.advance)
}

func (h *HPF) advance() (*process.PCB, bool) {
	start := h.tick
	h.tick++
	for _, e := range h.ready.sorted() {
		if e.pcb.ArrivalTime > start {
			continue
		}
		h.ready.remove(e.pcb.ID)
		return e.pcb, h.execute(e, age)
	}
	h.current = h.ready.peek().pcb
	h.track(progress.Delta{Ticks: 1})
	return nil, false
}

func age(pcb *process.PCB) {
	pcb.Priority--
}
