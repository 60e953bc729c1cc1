package journal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/ossim/service/dao"
	"github.com/viant/ossim/service/event"
)

func TestService_List(t *testing.T) {
	ctx := context.Background()
	srv := New(nil)
	events := []*event.Event[any]{
		{Context: &event.Context{Engine: event.EngineScheduler, EventType: "step", ProcessID: "p1", Tick: 1}, Data: "a"},
		{Context: &event.Context{Engine: event.EngineResource, EventType: "allocation.granted", ProcessID: "1"}, Data: "b"},
		{Context: &event.Context{Engine: event.EngineScheduler, EventType: "idle", Tick: 2}, Data: "c"},
		{Context: &event.Context{Engine: event.EngineScheduler, EventType: "drained", Tick: 2}, Data: "d"},
	}
	for _, e := range events {
		require.NoError(t, srv.Record(ctx, e))
	}
	assert.True(t, errors.Is(srv.Record(ctx, nil), dao.ErrNilEntity))
	assert.Equal(t, 4, srv.Len())

	testCases := []struct {
		description string
		parameters  []*dao.Parameter
		expect      []interface{}
	}{
		{description: "all in order", expect: []interface{}{"a", "b", "c", "d"}},
		{description: "by engine", parameters: []*dao.Parameter{dao.NewParameter(ParamEngine, event.EngineScheduler)}, expect: []interface{}{"a", "c", "d"}},
		{description: "by event types", parameters: []*dao.Parameter{dao.NewParameter(ParamEventType, "idle", "drained")}, expect: []interface{}{"c", "d"}},
		{description: "by process", parameters: []*dao.Parameter{dao.NewParameter(ParamProcessID, "1")}, expect: []interface{}{"b"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			records, err := srv.List(ctx, testCase.parameters...)
			require.NoError(t, err)
			var actual []interface{}
			for _, record := range records {
				actual = append(actual, record.Data)
			}
			assert.Equal(t, testCase.expect, actual)
		})
	}

	records, err := srv.List(ctx)
	require.NoError(t, err)
	loaded, err := srv.Load(ctx, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.Seq)
	_, err = srv.Load(ctx, "")
	assert.True(t, errors.Is(err, dao.ErrInvalidID))
}

func TestService_Handler(t *testing.T) {
	events, err := event.New(event.VendorMemory)
	require.NoError(t, err)
	defer events.Close()

	srv := New(nil)
	events.AddListener(srv.Handler())
	publisher := event.PublisherOf[string](events)
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = publisher.Publish(context.Background(), &event.Context{Engine: event.EngineScheduler, EventType: "step"}, "tick")
		}()
	}
	wg.Wait()
	assert.Eventually(t, func() bool { return srv.Len() == 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, errors.Is(srv.Handler()(nil), dao.ErrNilEntity))
}
