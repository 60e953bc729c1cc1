package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/ossim/model/process"
)

// Discipline names a scheduling policy.
type Discipline string

const (
	DisciplineFCFS Discipline = "fcfs"
	DisciplineHPF  Discipline = "hpf"
)

// ParseDiscipline resolves a case-insensitive discipline name.
func ParseDiscipline(name string) (Discipline, error) {
	switch Discipline(strings.ToLower(strings.TrimSpace(name))) {
	case DisciplineFCFS:
		return DisciplineFCFS, nil
	case DisciplineHPF:
		return DisciplineHPF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDiscipline, name)
}

// Scheduler is a scheduling engine. FCFS and HPF are the only
// implementations.
type Scheduler interface {
	Discipline() Discipline
	CreateProcess(ctx context.Context, spec process.Spec) (*process.PCB, error)
	KillProcess(ctx context.Context, id string) error
	EditProcess(ctx context.Context, id string, edit process.Edit) (*process.PCB, error)
	Step(ctx context.Context) (*StepResult, error)
	ResetSession(ctx context.Context)
	Current() *process.PCB
	Processes() []*process.PCB
	Tick() int
	Status() Status
}

var (
	_ Scheduler = (*FCFS)(nil)
	_ Scheduler = (*HPF)(nil)
)

// New creates a scheduler for discipline.
func New(discipline Discipline, opts ...Option) (Scheduler, error) {
	switch discipline {
	case DisciplineFCFS:
		return NewFCFS(opts...), nil
	case DisciplineHPF:
		return NewHPF(opts...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDiscipline, discipline)
}

// Run steps s until the session drains and returns every non-drained
// result. limit bounds the number of steps; zero means unbounded.
func Run(ctx context.Context, s Scheduler, limit int) ([]*StepResult, error) {
	var ret []*StepResult
	for i := 0; limit == 0 || i < limit; i++ {
		result, err := s.Step(ctx)
		if err != nil {
			return ret, err
		}
		if result.Drained {
			return ret, nil
		}
		ret = append(ret, result)
	}
	return ret, nil
}
