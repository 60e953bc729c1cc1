package allocator

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/viant/ossim/internal/logging"
	"github.com/viant/ossim/model/resource"
	"github.com/viant/ossim/service/event"
	"github.com/viant/ossim/service/safety"
	"github.com/viant/ossim/tracing"
)

// Field names a matrix row or vector that Edit can replace.
type Field string

const (
	FieldMax        Field = "max"
	FieldAllocation Field = "allocation"
	FieldAvailable  Field = "available"
)

// Service is the resource engine: it owns one resource.State and exposes
// the tentative-request protocol over it.
type Service struct {
	state     *resource.State
	logger    *slog.Logger
	publisher *event.Publisher[Result]
	edits     *event.Publisher[EditResult]
	mux       sync.Mutex
}

// New creates an unconfigured allocator.
func New(opts ...Option) *Service {
	ret := &Service{logger: logging.Discard()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Configure replaces the owned state. available, max and allocation must
// agree on the number of resource classes; max and allocation on the number
// of processes. The returned snapshot is a copy.
func (s *Service) Configure(available resource.Vector, max, allocation resource.Matrix) (*resource.State, error) {
	state, err := resource.NewState(available, max, allocation)
	if err != nil {
		return nil, err
	}
	s.mux.Lock()
	s.state = state
	s.mux.Unlock()
	s.logger.Info("resource state configured",
		slog.Int("processes", state.Processes()),
		slog.Int("resources", state.Resources()))
	return state.Clone(), nil
}

// Snapshot returns a copy of the current state, or nil before Configure.
func (s *Service) Snapshot() *resource.State {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.state.Clone()
}

// IsSafe reports whether the current state is safe.
func (s *Service) IsSafe() (bool, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.state == nil {
		return false, ErrNotConfigured
	}
	return safety.IsSafe(s.state), nil
}

// SafeSequence returns a safe sequence for the current state, empty when
// the state is unsafe.
func (s *Service) SafeSequence() ([]int, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.state == nil {
		return nil, ErrNotConfigured
	}
	return safety.FindSafeSequence(s.state), nil
}

// TryAllocate grants request to process if it is within the process need,
// within the available units, and the resulting state is safe. A granted
// request is committed and reported with a safe sequence; any rejection
// leaves the state exactly as it was. Rejections return both a Result and
// an error wrapping ErrInvalidRequest or ErrWouldDeadlock.
func (s *Service) TryAllocate(ctx context.Context, process int, request resource.Vector) (result *Result, err error) {
	ctx, span := tracing.StartSpan(ctx, "allocator.TryAllocate")
	span.WithInt("process", process).WithInts("request", request)
	defer func() {
		if result != nil {
			span.WithBool("granted", result.Granted)
		}
		tracing.EndSpan(span, err)
	}()

	s.mux.Lock()
	result, err = s.tryAllocate(process, request)
	s.mux.Unlock()

	if result != nil {
		s.report(ctx, result, err)
	}
	return result, err
}

func (s *Service) tryAllocate(process int, request resource.Vector) (*Result, error) {
	if s.state == nil {
		return nil, ErrNotConfigured
	}
	if process < 0 || process >= s.state.Processes() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProcess, process)
	}
	if len(request) != s.state.Resources() {
		return nil, fmt.Errorf("%w: request has %d classes, want %d", resource.ErrDimension, len(request), s.state.Resources())
	}
	result := &Result{Process: process, Request: request.Clone(), SafeSequence: []int{}}
	if !request.IsNonNegative() {
		result.Reason = ReasonNegative
		result.Snapshot = s.state.Clone()
		return result, fmt.Errorf("%w: request %v is negative", ErrInvalidRequest, request)
	}
	if !request.LessOrEqual(s.state.Need[process]) {
		result.Reason = ReasonOverNeed
		result.Snapshot = s.state.Clone()
		return result, fmt.Errorf("%w: request %v exceeds need %v", ErrInvalidRequest, request, s.state.Need[process])
	}
	if !request.LessOrEqual(s.state.Available) {
		result.Reason = ReasonOverAvailable
		result.Snapshot = s.state.Clone()
		return result, fmt.Errorf("%w: request %v exceeds available %v", ErrInvalidRequest, request, s.state.Available)
	}

	candidate := s.state.Clone()
	candidate.Available.Sub(request)
	candidate.Allocation[process].Add(request)
	candidate.Need[process].Sub(request)

	admissions, safe := safety.Walk(candidate)
	if !safe {
		result.Reason = ReasonWouldDeadlock
		result.Snapshot = s.state.Clone()
		return result, fmt.Errorf("%w: process %d request %v", ErrWouldDeadlock, process, request)
	}
	s.state = candidate
	result.Granted = true
	result.Snapshot = candidate.Clone()
	result.Trace = admissions
	result.SafeSequence = make([]int, len(admissions))
	for i, admission := range admissions {
		result.SafeSequence[i] = admission.Process
	}
	return result, nil
}

func (s *Service) report(ctx context.Context, result *Result, err error) {
	eventType := "allocation.granted"
	if result.Granted {
		s.logger.Info("allocation granted",
			slog.Int("process", result.Process),
			slog.String("request", result.Request.String()),
			slog.Any("safeSequence", result.SafeSequence))
	} else {
		eventType = "allocation.rejected"
		s.logger.Warn("allocation rejected",
			slog.Int("process", result.Process),
			slog.String("request", result.Request.String()),
			slog.String("reason", string(result.Reason)),
			logging.ErrAttr(err))
	}
	eventContext := &event.Context{Engine: event.EngineResource, EventType: eventType, ProcessID: strconv.Itoa(result.Process)}
	if pubErr := s.publisher.Publish(ctx, eventContext, *result); pubErr != nil {
		s.logger.Warn("failed to publish allocation event", logging.ErrAttr(pubErr))
	}
}

// Edit replaces the max or allocation row of process, or the available
// vector (process is ignored for FieldAvailable). Need is re-derived. An
// edit that breaks allocation <= max or non-negativity is rejected and the
// state is left unchanged.
func (s *Service) Edit(ctx context.Context, process int, field Field, value resource.Vector) (state *resource.State, err error) {
	ctx, span := tracing.StartSpan(ctx, "allocator.Edit")
	span.WithInt("process", process).WithInts("value", value)
	span.WithAttributes(map[string]string{"field": string(field)})
	defer func() { tracing.EndSpan(span, err) }()

	s.mux.Lock()
	state, err = s.edit(process, field, value)
	s.mux.Unlock()
	if err != nil {
		return nil, err
	}

	s.logger.Info("resource state edited", slog.Int("process", process), slog.String("field", string(field)))
	processID := ""
	if field != FieldAvailable {
		processID = strconv.Itoa(process)
	}
	eventContext := &event.Context{Engine: event.EngineResource, EventType: "resource.edited", ProcessID: processID}
	edit := EditResult{Process: process, Field: field, Value: value.Clone(), Snapshot: state.Clone()}
	if pubErr := s.edits.Publish(ctx, eventContext, edit); pubErr != nil {
		s.logger.Warn("failed to publish edit event", logging.ErrAttr(pubErr))
	}
	return state, nil
}

func (s *Service) edit(process int, field Field, value resource.Vector) (*resource.State, error) {
	if s.state == nil {
		return nil, ErrNotConfigured
	}
	if len(value) != s.state.Resources() {
		return nil, fmt.Errorf("%w: %s has %d classes, want %d", resource.ErrDimension, field, len(value), s.state.Resources())
	}
	candidate := s.state.Clone()
	switch field {
	case FieldAvailable:
		candidate.Available = value.Clone()
	case FieldMax, FieldAllocation:
		if process < 0 || process >= candidate.Processes() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownProcess, process)
		}
		if field == FieldMax {
			candidate.Max[process] = value.Clone()
		} else {
			candidate.Allocation[process] = value.Clone()
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	candidate.DeriveNeed()
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	s.state = candidate
	return candidate.Clone(), nil
}
