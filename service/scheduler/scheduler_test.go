package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/ossim/internal/clock"
	"github.com/viant/ossim/internal/idgen"
	"github.com/viant/ossim/model/process"
	"github.com/viant/ossim/progress"
	"github.com/viant/ossim/service/event"
)

func newScheduler(t *testing.T, discipline Discipline, specs []process.Spec, opts ...Option) Scheduler {
	opts = append([]Option{WithIDGenerator(idgen.Sequence("pid-"))}, opts...)
	s, err := New(discipline, opts...)
	require.NoError(t, err)
	for _, spec := range specs {
		_, err := s.CreateProcess(context.Background(), spec)
		require.NoError(t, err)
	}
	return s
}

// ranNames steps s until it drains and returns the name run on every tick,
// "-" for an idle tick, plus the drained result.
func ranNames(t *testing.T, s Scheduler) ([]string, *StepResult) {
	var ret []string
	for i := 0; i < 100; i++ {
		result, err := s.Step(context.Background())
		require.NoError(t, err)
		if result.Drained {
			return ret, result
		}
		assert.Equal(t, i+1, result.Tick)
		if result.Ran == nil {
			ret = append(ret, "-")
			continue
		}
		ret = append(ret, result.Ran.Name)
	}
	t.Fatal("session did not drain")
	return nil, nil
}

func namesOf(result *StepResult, ids []string) []string {
	names := result.names()
	ret := make([]string, 0, len(ids))
	for _, id := range ids {
		ret = append(ret, names[id])
	}
	return ret
}

func TestScheduler_Run(t *testing.T) {
	testCases := []struct {
		description string
		discipline  Discipline
		specs       []process.Spec
		ran         []string
		finished    []string
	}{
		{
			description: "fcfs runs the head to completion",
			discipline:  DisciplineFCFS,
			specs: []process.Spec{
				{Name: "P1", Priority: 1, ArrivalTime: 0, RequiredRuntime: 3},
				{Name: "P2", Priority: 9, ArrivalTime: 1, RequiredRuntime: 2},
			},
			ran:      []string{"P1", "P1", "P1", "P2", "P2"},
			finished: []string{"P1", "P2"},
		},
		{
			description: "fcfs orders by arrival not creation",
			discipline:  DisciplineFCFS,
			specs: []process.Spec{
				{Name: "P1", ArrivalTime: 5, RequiredRuntime: 1},
				{Name: "P2", ArrivalTime: 0, RequiredRuntime: 1},
			},
			ran:      []string{"P2", "P1"},
			finished: []string{"P2", "P1"},
		},
		{
			description: "fcfs equal arrival keeps creation order",
			discipline:  DisciplineFCFS,
			specs: []process.Spec{
				{Name: "P1", ArrivalTime: 2, RequiredRuntime: 1},
				{Name: "P2", ArrivalTime: 2, RequiredRuntime: 2},
				{Name: "P3", ArrivalTime: 2, RequiredRuntime: 1},
			},
			ran:      []string{"P1", "P2", "P2", "P3"},
			finished: []string{"P1", "P2", "P3"},
		},
		{
			description: "hpf ties after aging go to the earlier process",
			discipline:  DisciplineHPF,
			specs: []process.Spec{
				{Name: "P1", Priority: 5, ArrivalTime: 0, RequiredRuntime: 3},
				{Name: "P2", Priority: 3, ArrivalTime: 0, RequiredRuntime: 2},
			},
			ran:      []string{"P1", "P1", "P1", "P2", "P2"},
			finished: []string{"P1", "P2"},
		},
		{
			description: "hpf aging interleaves close priorities",
			discipline:  DisciplineHPF,
			specs: []process.Spec{
				{Name: "P1", Priority: 5, ArrivalTime: 0, RequiredRuntime: 4},
				{Name: "P2", Priority: 4, ArrivalTime: 0, RequiredRuntime: 2},
			},
			ran:      []string{"P1", "P1", "P2", "P1", "P2", "P1"},
			finished: []string{"P2", "P1"},
		},
		{
			description: "hpf idles until the first arrival",
			discipline:  DisciplineHPF,
			specs: []process.Spec{
				{Name: "P1", Priority: 1, ArrivalTime: 2, RequiredRuntime: 1},
			},
			ran:      []string{"-", "-", "P1"},
			finished: []string{"P1"},
		},
		{
			description: "hpf skips a higher priority process that has not arrived",
			discipline:  DisciplineHPF,
			specs: []process.Spec{
				{Name: "P1", Priority: 9, ArrivalTime: 2, RequiredRuntime: 1},
				{Name: "P2", Priority: 1, ArrivalTime: 0, RequiredRuntime: 1},
			},
			ran:      []string{"P2", "-", "P1"},
			finished: []string{"P2", "P1"},
		},
		{
			description: "zero runtime finishes on its first tick",
			discipline:  DisciplineFCFS,
			specs: []process.Spec{
				{Name: "P1", RequiredRuntime: 0},
				{Name: "P2", RequiredRuntime: 1},
			},
			ran:      []string{"P1", "P2"},
			finished: []string{"P1", "P2"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			s := newScheduler(t, testCase.discipline, testCase.specs)
			ran, drained := ranNames(t, s)
			assert.Equal(t, testCase.ran, ran)
			assert.True(t, drained.Drained)
			assert.Equal(t, len(testCase.ran), drained.Tick)
			assert.Equal(t, testCase.finished, namesOf(drained, drained.FinishedIDs))
			assert.Empty(t, drained.ReadyIDs)
			assert.Empty(t, drained.WaitIDs)
		})
	}
}

func TestScheduler_StepDetails(t *testing.T) {
	s := newScheduler(t, DisciplineHPF, []process.Spec{
		{Name: "P1", Priority: 5, RequiredRuntime: 2},
		{Name: "P2", Priority: 3, RequiredRuntime: 1},
	})
	assert.Equal(t, StatusIdle, s.Status())
	assert.Nil(t, s.Current())

	result, err := s.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, result.Status)
	assert.Equal(t, "pid-1", result.RanID)
	assert.Equal(t, 1, result.Ran.UsedCPUTime)
	assert.Equal(t, 1, result.Remaining)
	assert.Equal(t, 4, result.Ran.Priority)
	assert.Equal(t, process.StateReady, result.Ran.State)
	assert.False(t, result.Finished)
	assert.Equal(t, []string{"pid-1", "pid-2"}, result.ReadyIDs)
	assert.Equal(t, []string{}, result.FinishedIDs)
	assert.Equal(t, "pid-1", s.Current().ID)
	assert.Equal(t, 1, s.Tick())

	result, err = s.Step(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Finished)
	assert.Equal(t, 0, result.Remaining)
	assert.Equal(t, process.StateFinished, result.Ran.State)
	assert.Equal(t, []string{"pid-2"}, result.ReadyIDs)
	assert.Equal(t, []string{"pid-1"}, result.FinishedIDs)

	assert.Contains(t, result.String(), "hpf tick 2")
	assert.Contains(t, result.String(), "running: P1(priority=4, arrival=0, runtime=2, used=2, state=F), remaining 0")
	assert.Contains(t, result.String(), "ready: [P2]")
	assert.Contains(t, result.String(), "wait: []")
	assert.Contains(t, result.String(), "finished: [P1]")
	assert.Equal(t, []string{}, result.WaitIDs)
}

func TestScheduler_AgingHasNoFloor(t *testing.T) {
	s := newScheduler(t, DisciplineHPF, []process.Spec{{Name: "P1", Priority: 0, RequiredRuntime: 4}})
	var priorities []int
	for i := 0; i < 4; i++ {
		result, err := s.Step(context.Background())
		require.NoError(t, err)
		require.NotNil(t, result.Ran)
		priorities = append(priorities, result.Ran.Priority)
	}
	assert.Equal(t, []int{-1, -2, -3, -3}, priorities)

	result, err := s.Step(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Drained)
	assert.Equal(t, 0, s.Processes()[0].Priority)
}

func TestScheduler_PendingArrival(t *testing.T) {
	s := newScheduler(t, DisciplineHPF, []process.Spec{{Name: "P1", Priority: 1, ArrivalTime: 1, RequiredRuntime: 1}})
	result, err := s.Step(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.RanID)
	assert.Equal(t, "pid-1", result.PendingID)
	assert.False(t, result.Drained)
	assert.Equal(t, "pid-1", s.Current().ID)
	assert.Equal(t, 0, s.Current().UsedCPUTime)
	assert.Contains(t, result.String(), "waiting for arrival of [P1]")
}

func TestScheduler_Drain(t *testing.T) {
	s := newScheduler(t, DisciplineHPF, []process.Spec{
		{Name: "P1", Priority: 5, RequiredRuntime: 2},
		{Name: "P2", Priority: 3, RequiredRuntime: 1},
	})
	_, drained := ranNames(t, s)
	assert.Equal(t, "hpf session drained after tick 3, finished: [P1 P2]\n", drained.String())
	assert.Equal(t, StatusDrained, s.Status())
	assert.Nil(t, s.Current())
	assert.Equal(t, 0, s.Tick())

	for _, pcb := range s.Processes() {
		assert.Equal(t, process.StateReady, pcb.State)
		assert.Equal(t, 0, pcb.UsedCPUTime)
		assert.Equal(t, pcb.BasePriority(), pcb.Priority)
	}

	for i := 0; i < 3; i++ {
		result, err := s.Step(context.Background())
		require.NoError(t, err)
		assert.True(t, result.Drained)
		assert.Empty(t, result.RanID)
		assert.Empty(t, result.FinishedIDs)
	}

	_, err := s.CreateProcess(context.Background(), process.Spec{Name: "P3", Priority: 4, RequiredRuntime: 1})
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, s.Status())
	ran, _ := ranNames(t, s)
	assert.Equal(t, []string{"P1", "P1", "P3", "P2"}, ran)
}

func TestScheduler_ResetSession(t *testing.T) {
	s := newScheduler(t, DisciplineHPF, []process.Spec{
		{Name: "P1", Priority: 5, RequiredRuntime: 1},
		{Name: "P2", Priority: 3, RequiredRuntime: 3},
	})
	for i := 0; i < 3; i++ {
		_, err := s.Step(context.Background())
		require.NoError(t, err)
	}
	s.ResetSession(context.Background())
	assert.Equal(t, StatusIdle, s.Status())
	assert.Equal(t, 0, s.Tick())
	assert.Nil(t, s.Current())
	processes := s.Processes()
	require.Len(t, processes, 2)
	assert.Equal(t, 5, processes[0].Priority)
	assert.Equal(t, 3, processes[1].Priority)
	assert.Equal(t, 0, processes[1].UsedCPUTime)

	ran, drained := ranNames(t, s)
	assert.Equal(t, []string{"P1", "P2", "P2", "P2"}, ran)
	assert.Equal(t, []string{"P1", "P2"}, namesOf(drained, drained.FinishedIDs))
}

func TestScheduler_KillProcess(t *testing.T) {
	ctx := context.Background()
	s := newScheduler(t, DisciplineFCFS, []process.Spec{
		{Name: "P1", RequiredRuntime: 1},
		{Name: "P2", RequiredRuntime: 2},
		{Name: "P3", RequiredRuntime: 1},
	})
	result, err := s.Step(ctx)
	require.NoError(t, err)
	assert.True(t, result.Finished)

	err = s.KillProcess(ctx, "pid-1")
	assert.True(t, errors.Is(err, ErrProcessNotFound), "finished process cannot be killed")
	err = s.KillProcess(ctx, "pid-404")
	assert.True(t, errors.Is(err, ErrProcessNotFound))

	require.NoError(t, s.KillProcess(ctx, "pid-2"))
	assert.True(t, errors.Is(s.KillProcess(ctx, "pid-2"), ErrProcessNotFound))
	for _, pcb := range s.Processes() {
		assert.NotEqual(t, "pid-2", pcb.ID)
	}

	result, err = s.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pid-3", result.RanID)
	assert.Equal(t, []string{"pid-1", "pid-3"}, result.FinishedIDs)

	result, err = s.Step(ctx)
	require.NoError(t, err)
	assert.True(t, result.Drained)
}

func TestScheduler_KillCurrent(t *testing.T) {
	ctx := context.Background()
	s := newScheduler(t, DisciplineHPF, []process.Spec{
		{Name: "P1", Priority: 5, RequiredRuntime: 3},
		{Name: "P2", Priority: 1, RequiredRuntime: 1},
	})
	_, err := s.Step(ctx)
	require.NoError(t, err)
	require.NoError(t, s.KillProcess(ctx, "pid-1"))
	assert.Nil(t, s.Current())

	result, err := s.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Tick)
	assert.Equal(t, "pid-2", result.RanID)

	result, err = s.Step(ctx)
	require.NoError(t, err)
	assert.True(t, result.Drained)
	assert.Equal(t, []string{"pid-2"}, result.FinishedIDs)
}

func TestScheduler_EditProcess(t *testing.T) {
	ctx := context.Background()
	s := newScheduler(t, DisciplineHPF, []process.Spec{
		{Name: "P1", Priority: 5, RequiredRuntime: 1},
		{Name: "P2", Priority: 3, RequiredRuntime: 1},
	})
	priority := 10
	name := "boosted"
	edited, err := s.EditProcess(ctx, "pid-2", process.Edit{Priority: &priority, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, 10, edited.Priority)
	assert.Equal(t, 10, edited.BasePriority())

	ran, _ := ranNames(t, s)
	assert.Equal(t, []string{"boosted", "P1"}, ran)
	assert.Equal(t, 10, s.Processes()[1].Priority)

	_, err = s.EditProcess(ctx, "pid-404", process.Edit{Priority: &priority})
	assert.True(t, errors.Is(err, ErrProcessNotFound))

	unchanged, err := s.EditProcess(ctx, "pid-1", process.Edit{})
	require.NoError(t, err)
	assert.Equal(t, "P1", unchanged.Name)
	assert.Equal(t, 5, unchanged.Priority)
	_, err = s.EditProcess(ctx, "pid-404", process.Edit{})
	assert.True(t, errors.Is(err, ErrProcessNotFound))

	runtime := -1
	_, err = s.EditProcess(ctx, "pid-1", process.Edit{RequiredRuntime: &runtime})
	assert.True(t, errors.Is(err, ErrInvalidProcess))
}

func TestScheduler_CreateProcessValidation(t *testing.T) {
	s := newScheduler(t, DisciplineFCFS, nil)
	_, err := s.CreateProcess(context.Background(), process.Spec{Name: "P1", RequiredRuntime: -1})
	assert.True(t, errors.Is(err, ErrInvalidProcess))
	_, err = s.CreateProcess(context.Background(), process.Spec{Name: "P1", ArrivalTime: -2})
	assert.True(t, errors.Is(err, ErrInvalidProcess))
	assert.Empty(t, s.Processes())

	result, err := s.Step(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Drained)
}

func TestScheduler_Progress(t *testing.T) {
	tracker := progress.New(string(DisciplineFCFS), nil)
	s := newScheduler(t, DisciplineFCFS, []process.Spec{
		{Name: "P1", RequiredRuntime: 2},
		{Name: "P2", RequiredRuntime: 1},
	}, WithProgress(tracker))

	results, err := Run(context.Background(), s, 0)
	require.NoError(t, err)
	assert.Len(t, results, 3)
	last := results[len(results)-1]
	assert.True(t, last.Finished)

	counters := tracker.Snapshot()
	assert.Equal(t, 2, counters.TotalProcesses)
	assert.Equal(t, 2, counters.ReadyProcesses)
	assert.Equal(t, 0, counters.FinishedProcesses)
	assert.Equal(t, 0, counters.Ticks)

	results, err = Run(context.Background(), s, 2)
	require.NoError(t, err)
	assert.Len(t, results, 0, "drained session stays drained")
}

func TestScheduler_Events(t *testing.T) {
	srv, err := event.New(event.VendorMemory)
	require.NoError(t, err)
	defer srv.Close()

	var mux sync.Mutex
	var received []*event.Event[any]
	srv.AddListener(func(e *event.Event[any]) error {
		mux.Lock()
		received = append(received, e)
		mux.Unlock()
		return nil
	})

	s := newScheduler(t, DisciplineHPF, []process.Spec{{Name: "P1", ArrivalTime: 1, RequiredRuntime: 1}},
		WithPublisher(event.PublisherOf[StepResult](srv)))
	_, _ = ranNames(t, s)

	assert.Eventually(t, func() bool {
		mux.Lock()
		defer mux.Unlock()
		return len(received) == 3
	}, time.Second, 5*time.Millisecond)

	mux.Lock()
	defer mux.Unlock()
	var types []string
	for _, e := range received {
		assert.Equal(t, event.EngineScheduler, e.Context.Engine)
		types = append(types, e.Context.EventType)
	}
	assert.Equal(t, []string{"idle", "step", "drained"}, types)
	assert.Equal(t, "pid-1", received[1].Context.ProcessID)
	assert.Equal(t, 2, received[1].Data.(StepResult).Tick)
}

func TestScheduler_CancelledContext(t *testing.T) {
	s := newScheduler(t, DisciplineFCFS, []process.Spec{{Name: "P1", RequiredRuntime: 1}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Step(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, s.Tick())
}

func TestParseDiscipline(t *testing.T) {
	discipline, err := ParseDiscipline(" HPF ")
	assert.NoError(t, err)
	assert.Equal(t, DisciplineHPF, discipline)

	discipline, err = ParseDiscipline("fcfs")
	assert.NoError(t, err)
	assert.Equal(t, DisciplineFCFS, discipline)

	_, err = ParseDiscipline("round-robin")
	assert.True(t, errors.Is(err, ErrUnknownDiscipline))

	_, err = New("sjf")
	assert.True(t, errors.Is(err, ErrUnknownDiscipline))
}

func TestScheduler_CreatedAt(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	prev := clock.NowFunc
	clock.NowFunc = clock.Fixed(at)
	defer func() { clock.NowFunc = prev }()

	s := newScheduler(t, DisciplineFCFS, []process.Spec{{Name: "P1", RequiredRuntime: 1}})
	assert.Equal(t, at, s.Processes()[0].CreatedAt)
}
