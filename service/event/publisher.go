package event

import (
	"context"

	"github.com/viant/ossim/internal/clock"
	"github.com/viant/ossim/service/messaging"
)

// Publisher publishes typed events onto the shared event queue.
type Publisher[T any] struct {
	queue messaging.Queue[Event[any]]
}

// NewPublisher returns a publisher writing to queue.
func NewPublisher[T any](queue messaging.Queue[Event[any]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

// Publish stamps and enqueues an event. A nil publisher is a no-op so
// engines can publish unconditionally.
func (p *Publisher[T]) Publish(ctx context.Context, eventContext *Context, data T) error {
	if p == nil || p.queue == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return p.queue.Publish(ctx, &Event[any]{
		Context:   eventContext,
		CreatedAt: clock.Now(),
		Data:      data,
	})
}
