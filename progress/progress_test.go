package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Update(t *testing.T) {
	var seen []Counters
	tracker := New("fcfs", func(p Counters) { seen = append(seen, p) })

	tracker.Update(Delta{Total: 2, Ready: 2})
	tracker.Update(Delta{Ready: -1, Finished: 1, Ticks: 3})

	snapshot := tracker.Snapshot()
	assert.Equal(t, 2, snapshot.TotalProcesses)
	assert.Equal(t, 1, snapshot.ReadyProcesses)
	assert.Equal(t, 1, snapshot.FinishedProcesses)
	assert.Equal(t, 3, snapshot.Ticks)
	assert.Len(t, seen, 2)

	tracker.Restart()
	snapshot = tracker.Snapshot()
	assert.Equal(t, 2, snapshot.ReadyProcesses)
	assert.Equal(t, 0, snapshot.FinishedProcesses)
	assert.Equal(t, 0, snapshot.Ticks)
	assert.Len(t, seen, 3)
}

func TestProgress_NilIsSafe(t *testing.T) {
	var tracker *Progress
	tracker.Update(Delta{Total: 1})
	tracker.Restart()
	tracker.OnChange(nil)
	assert.Equal(t, Counters{}, tracker.Snapshot())
}

func TestProgress_OnChange(t *testing.T) {
	tracker := New("hpf", nil)
	tracker.Update(Delta{Total: 1})

	var seen []Counters
	tracker.OnChange(func(p Counters) { seen = append(seen, p) })
	tracker.Update(Delta{Ready: 1})
	tracker.OnChange(nil)
	tracker.Update(Delta{Ticks: 1})

	assert.Len(t, seen, 1)
	assert.Equal(t, 1, seen[0].ReadyProcesses)
}
