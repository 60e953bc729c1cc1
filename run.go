package ossim

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/ossim/model/resource"
	"github.com/viant/ossim/service/allocator"
	"github.com/viant/ossim/service/scheduler"
)

// Report is the outcome of Run. Initial and Final are nil when no resource
// state is configured.
type Report struct {
	Initial     *resource.State         `json:"initial,omitempty" yaml:"initial,omitempty"`
	Safe        bool                    `json:"safe" yaml:"safe"`
	Sequence    []int                   `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	Allocations []*allocator.Result     `json:"allocations,omitempty" yaml:"allocations,omitempty"`
	Final       *resource.State         `json:"final,omitempty" yaml:"final,omitempty"`
	Steps       []*scheduler.StepResult `json:"steps,omitempty" yaml:"steps,omitempty"`
	Drained     *scheduler.StepResult   `json:"drained,omitempty" yaml:"drained,omitempty"`
}

// Run replays the scripted requests against the resource engine, then steps
// the scheduling engine until it drains or the configured step limit is hit.
// Rejected requests are reported, not returned as errors.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	report := &Report{}
	if r := s.config.Resource; r != nil {
		report.Initial = s.allocator.Snapshot()
		var err error
		if report.Sequence, err = s.allocator.SafeSequence(); err != nil {
			return nil, err
		}
		report.Safe = len(report.Sequence) == report.Initial.Processes()
		for i, request := range r.Requests {
			if request == nil {
				return nil, fmt.Errorf("resource.requests[%d]: %w", i, ErrNilRequest)
			}
			result, err := s.allocator.TryAllocate(ctx, request.Process, request.Request)
			if err != nil && !errors.Is(err, allocator.ErrInvalidRequest) && !errors.Is(err, allocator.ErrWouldDeadlock) {
				return nil, err
			}
			report.Allocations = append(report.Allocations, result)
		}
		report.Final = s.allocator.Snapshot()
	}

	for i := 0; s.config.Scheduler.MaxSteps == 0 || i < s.config.Scheduler.MaxSteps; i++ {
		result, err := s.scheduler.Step(ctx)
		if err != nil {
			return report, err
		}
		if result.Drained {
			report.Drained = result
			break
		}
		report.Steps = append(report.Steps, result)
	}
	return report, nil
}

func (r *Report) String() string {
	builder := strings.Builder{}
	if r.Initial != nil {
		builder.WriteString(r.Initial.String())
		builder.WriteString("\n")
		if r.Safe {
			builder.WriteString(fmt.Sprintf("initial state is safe, sequence: %v\n", r.Sequence))
		} else {
			builder.WriteString("initial state is unsafe\n")
		}
		for _, allocation := range r.Allocations {
			builder.WriteString(allocation.String())
			builder.WriteString("\n")
		}
	}
	for _, step := range r.Steps {
		builder.WriteString(step.String())
	}
	if r.Drained != nil {
		builder.WriteString(r.Drained.String())
	}
	return builder.String()
}
