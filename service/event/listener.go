package event

import (
	"context"
	"sync"

	"github.com/viant/ossim/service/messaging"
)

// Listener drains a queue on its own goroutine and hands every event to a
// handler. A handler error nacks the message so the queue can redeliver it.
type Listener struct {
	queue   messaging.Queue[Event[any]]
	handler func(*Event[any]) error
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

// NewListener creates a stopped listener.
func NewListener(queue messaging.Queue[Event[any]], handler func(*Event[any]) error) *Listener {
	return &Listener{queue: queue, handler: handler, done: make(chan struct{})}
}

// Start begins consuming until Stop is called.
func (l *Listener) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	go func() {
		defer close(l.done)
		for {
			msg, err := l.queue.Consume(ctx)
			if err != nil {
				return
			}
			if err := l.handler(msg.T()); err != nil {
				_ = msg.Nack(err)
				continue
			}
			_ = msg.Ack()
		}
	}()
}

// Stop cancels consumption and waits for the goroutine to exit.
func (l *Listener) Stop() {
	l.once.Do(func() {
		if l.cancel == nil {
			return
		}
		l.cancel()
		<-l.done
	})
}
