package event

import (
	"fmt"
	"sync"

	"github.com/viant/ossim/service/messaging"
	"github.com/viant/ossim/service/messaging/memory"
)

// VendorMemory is the only supported queue vendor.
const VendorMemory messaging.Vendor = "memory"

// Service owns the shared event queue and its listeners.
type Service struct {
	queue       messaging.Queue[Event[any]]
	queueConfig memory.Config
	listeners   []*Listener
	mux         sync.Mutex
}

// New creates an event service backed by the given vendor.
func New(vendor messaging.Vendor, opts ...Option) (*Service, error) {
	ret := &Service{queueConfig: DefaultQueueConfig()}
	for _, opt := range opts {
		opt(ret)
	}
	switch vendor {
	case VendorMemory:
		ret.queue = memory.NewQueue[Event[any]](ret.queueConfig)
	default:
		return nil, fmt.Errorf("unsupported queue vendor: %s", vendor)
	}
	return ret, nil
}

// DefaultQueueConfig never blocks publishers: a full buffer drops events.
func DefaultQueueConfig() memory.Config {
	cfg := memory.DefaultConfig()
	cfg.DropWhenFull = true
	cfg.QueueBuffer = 1024
	return cfg
}

// Queue returns the shared queue.
func (s *Service) Queue() messaging.Queue[Event[any]] { return s.queue }

// AddListener starts a listener invoking handler for every event. Events the
// handler fails are retried per the queue configuration.
func (s *Service) AddListener(handler func(*Event[any]) error) *Listener {
	listener := NewListener(s.queue, handler)
	s.mux.Lock()
	s.listeners = append(s.listeners, listener)
	s.mux.Unlock()
	listener.Start()
	return listener
}

// Close stops every listener.
func (s *Service) Close() {
	s.mux.Lock()
	listeners := s.listeners
	s.listeners = nil
	s.mux.Unlock()
	for _, listener := range listeners {
		listener.Stop()
	}
}

// PublisherOf returns a typed publisher onto the shared queue.
func PublisherOf[T any](s *Service) *Publisher[T] {
	if s == nil {
		return nil
	}
	return NewPublisher[T](s.queue)
}
