package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/viant/ossim/internal/clock"
	"github.com/viant/ossim/internal/idgen"
	"github.com/viant/ossim/internal/logging"
	"github.com/viant/ossim/model/process"
	"github.com/viant/ossim/progress"
	"github.com/viant/ossim/service/event"
	"github.com/viant/ossim/tracing"
)

// core holds the session state shared by every discipline.
type core struct {
	discipline Discipline
	processes  []*process.PCB // live processes in creation order
	ready      *ordering
	finished   []*process.PCB // completion order
	waiting    []*process.PCB // blocked processes; always empty for FCFS and HPF
	tick       int
	current    *process.PCB
	status     Status
	seq        uint64
	delta      progress.Delta // counter changes collected under the lock
	restart    bool

	logger    *slog.Logger
	publisher *event.Publisher[StepResult]
	progress  *progress.Progress
	newID     func() string
	mux       sync.Mutex
}

func newCore(discipline Discipline, less lessFunc, opts []Option) *core {
	ret := &core{
		discipline: discipline,
		ready:      newOrdering(less),
		status:     StatusIdle,
		logger:     logging.Discard(),
		newID:      idgen.New,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Discipline returns the scheduling discipline.
func (c *core) Discipline() Discipline { return c.discipline }

// CreateProcess registers a new ready process. Creating a process in a
// drained session re-arms it with every live process.
func (c *core) CreateProcess(ctx context.Context, spec process.Spec) (*process.PCB, error) {
	if spec.ArrivalTime < 0 || spec.RequiredRuntime < 0 {
		return nil, fmt.Errorf("%w: %q has negative arrival or runtime", ErrInvalidProcess, spec.Name)
	}
	pcb := process.New(c.newID(), spec, clock.Now())

	c.mux.Lock()
	c.processes = append(c.processes, pcb)
	if c.status == StatusDrained {
		c.rearmLocked()
	} else {
		c.pushLocked(pcb)
	}
	ret := pcb.Clone()
	c.mux.Unlock()

	c.progress.Update(progress.Delta{Total: 1, Ready: 1})
	c.logger.Info("process created",
		slog.String("discipline", string(c.discipline)),
		slog.String("id", ret.ID),
		slog.String("name", ret.Name),
		slog.Int("priority", ret.Priority),
		slog.Int("arrival", ret.ArrivalTime),
		slog.Int("runtime", ret.RequiredRuntime))
	return ret, nil
}

// KillProcess removes a live, unfinished process from every queue.
func (c *core) KillProcess(ctx context.Context, id string) error {
	c.mux.Lock()
	idx := c.indexLocked(id)
	if idx == -1 {
		c.mux.Unlock()
		return fmt.Errorf("%w: %s", ErrProcessNotFound, id)
	}
	pcb := c.processes[idx]
	c.processes = append(c.processes[:idx], c.processes[idx+1:]...)
	c.ready.remove(id)
	if c.current == pcb {
		c.current = nil
	}
	c.mux.Unlock()

	c.progress.Update(progress.Delta{Total: -1, Ready: -1})
	c.logger.Info("process killed", slog.String("discipline", string(c.discipline)), slog.String("id", id), slog.String("name", pcb.Name))
	return nil
}

// EditProcess applies edit to a live, unfinished process and restores the
// ordering it is held in.
func (c *core) EditProcess(ctx context.Context, id string, edit process.Edit) (*process.PCB, error) {
	if (edit.ArrivalTime != nil && *edit.ArrivalTime < 0) || (edit.RequiredRuntime != nil && *edit.RequiredRuntime < 0) {
		return nil, fmt.Errorf("%w: %s edit has negative arrival or runtime", ErrInvalidProcess, id)
	}
	c.mux.Lock()
	idx := c.indexLocked(id)
	if idx == -1 {
		c.mux.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrProcessNotFound, id)
	}
	pcb := c.processes[idx]
	if edit.IsEmpty() {
		ret := pcb.Clone()
		c.mux.Unlock()
		return ret, nil
	}
	pcb.Apply(edit)
	c.ready.fix(id)
	ret := pcb.Clone()
	c.mux.Unlock()

	c.logger.Info("process edited", slog.String("discipline", string(c.discipline)), slog.String("id", id), slog.String("process", ret.String()))
	return ret, nil
}

// ResetSession restores every live process to its pre-run attributes and
// reloads the ordering.
func (c *core) ResetSession(ctx context.Context) {
	c.mux.Lock()
	c.resetLocked()
	c.rearmLocked()
	c.mux.Unlock()
	c.progress.Restart()
	c.logger.Info("session reset", slog.String("discipline", string(c.discipline)))
}

// Current returns a snapshot of the process that last received the CPU, or
// of the process being waited on when nothing could run. It is nil before
// the first step and after a drain.
func (c *core) Current() *process.PCB {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.current.Clone()
}

// Processes returns snapshots of the live processes in creation order.
func (c *core) Processes() []*process.PCB {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.snapshotLocked()
}

// Tick returns the session clock.
func (c *core) Tick() int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.tick
}

// Status returns the session lifecycle state.
func (c *core) Status() Status {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.status
}

// step runs one tick. advance is the discipline hook; it is called with the
// lock held and a non-empty ordering, and returns the process that ran, if
// any, and whether it finished.
func (c *core) step(ctx context.Context, advance func() (*process.PCB, bool)) (result *StepResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "scheduler.Step")
	span.WithAttributes(map[string]string{"discipline": string(c.discipline)})
	defer func() {
		if result != nil {
			span.WithInt("tick", result.Tick).WithBool("drained", result.Drained)
			if result.RanID != "" {
				span.WithAttributes(map[string]string{"process": result.RanID})
			}
		}
		tracing.EndSpan(span, err)
	}()
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	c.mux.Lock()
	if c.ready.len() == 0 {
		result = c.drainLocked()
	} else {
		c.status = StatusRunning
		ran, finished := advance()
		result = c.resultLocked(ran, finished)
		if ran == nil && c.current != nil {
			result.PendingID = c.current.ID
		}
	}
	delta, restart := c.delta, c.restart
	c.delta, c.restart = progress.Delta{}, false
	c.mux.Unlock()

	if restart {
		c.progress.Restart()
	} else if delta != (progress.Delta{}) {
		c.progress.Update(delta)
	}

	c.report(ctx, result)
	return result, nil
}

// execute gives e one tick of CPU. A preempted process is aged when age is
// set and goes back to the ordering with its original sequence. It returns
// true when the process finished.
func (c *core) execute(e *entry, age func(pcb *process.PCB)) bool {
	pcb := e.pcb
	c.current = pcb
	if pcb.RequiredRuntime > 0 {
		pcb.State = process.StateExecuting
		pcb.UsedCPUTime++
	}
	if pcb.UsedCPUTime >= pcb.RequiredRuntime {
		pcb.State = process.StateFinished
		c.finished = append(c.finished, pcb)
		c.track(progress.Delta{Ready: -1, Finished: 1, Ticks: 1})
		return true
	}
	if age != nil {
		age(pcb)
	}
	pcb.State = process.StateReady
	c.ready.push(e)
	c.track(progress.Delta{Ticks: 1})
	return false
}

// track collects a counter change; step applies it once the lock is
// released.
func (c *core) track(d progress.Delta) {
	c.delta.Total += d.Total
	c.delta.Ready += d.Ready
	c.delta.Finished += d.Finished
	c.delta.Ticks += d.Ticks
}

// drainLocked reports a drained session. The first call after the last
// process finished also resets process attributes so the set can be
// replayed; later calls only report.
func (c *core) drainLocked() *StepResult {
	result := c.resultLocked(nil, false)
	result.Drained = true
	result.Status = StatusDrained
	if c.status == StatusDrained {
		return result
	}
	c.resetLocked()
	c.status = StatusDrained
	c.restart = true
	return result
}

func (c *core) resultLocked(ran *process.PCB, finished bool) *StepResult {
	result := &StepResult{
		Discipline:  c.discipline,
		Tick:        c.tick,
		Status:      c.status,
		Finished:    finished,
		ReadyIDs:    []string{},
		WaitIDs:     make([]string, 0, len(c.waiting)),
		FinishedIDs: make([]string, 0, len(c.finished)),
		Processes:   c.snapshotLocked(),
	}
	if ran != nil {
		result.RanID = ran.ID
		result.Ran = ran.Clone()
		result.Remaining = ran.Remaining()
	}
	for _, e := range c.ready.sorted() {
		result.ReadyIDs = append(result.ReadyIDs, e.pcb.ID)
	}
	for _, pcb := range c.waiting {
		result.WaitIDs = append(result.WaitIDs, pcb.ID)
	}
	for _, pcb := range c.finished {
		result.FinishedIDs = append(result.FinishedIDs, pcb.ID)
	}
	return result
}

func (c *core) report(ctx context.Context, result *StepResult) {
	eventType := "step"
	switch {
	case result.Drained:
		eventType = "drained"
		c.logger.Info("session drained",
			slog.String("discipline", string(c.discipline)),
			slog.Int("tick", result.Tick),
			slog.Any("finished", result.FinishedIDs))
	case result.RanID == "":
		eventType = "idle"
		c.logger.Debug("no process eligible",
			slog.String("discipline", string(c.discipline)),
			slog.Int("tick", result.Tick),
			slog.String("pending", result.PendingID))
	default:
		c.logger.Debug("process ran",
			slog.String("discipline", string(c.discipline)),
			slog.Int("tick", result.Tick),
			slog.String("process", result.RanID),
			slog.Bool("finished", result.Finished))
	}
	eventContext := &event.Context{Engine: event.EngineScheduler, EventType: eventType, ProcessID: result.RanID, Tick: result.Tick}
	if err := c.publisher.Publish(ctx, eventContext, *result); err != nil {
		c.logger.Warn("failed to publish step event", logging.ErrAttr(err))
	}
}

func (c *core) pushLocked(pcb *process.PCB) {
	c.seq++
	c.ready.push(&entry{pcb: pcb, seq: c.seq})
}

// resetLocked restores pre-run attributes and empties the session queues.
func (c *core) resetLocked() {
	for _, pcb := range c.processes {
		pcb.Reset()
	}
	c.ready.clear()
	c.waiting = nil
	c.finished = nil
	c.current = nil
	c.tick = 0
}

// rearmLocked reloads the ordering with every live process in creation order.
func (c *core) rearmLocked() {
	c.ready.clear()
	for _, pcb := range c.processes {
		if !pcb.IsFinished() {
			c.pushLocked(pcb)
		}
	}
	c.status = StatusIdle
}

// indexLocked returns the position of a live, unfinished process, or -1.
func (c *core) indexLocked(id string) int {
	for i, pcb := range c.processes {
		if pcb.ID == id {
			if pcb.IsFinished() {
				return -1
			}
			return i
		}
	}
	return -1
}

func (c *core) snapshotLocked() []*process.PCB {
	ret := make([]*process.PCB, len(c.processes))
	for i, pcb := range c.processes {
		ret[i] = pcb.Clone()
	}
	return ret
}
