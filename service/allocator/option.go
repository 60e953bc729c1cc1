package allocator

import (
	"log/slog"

	"github.com/viant/ossim/service/event"
)

type Option func(s *Service)

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPublisher publishes every allocation attempt
func WithPublisher(publisher *event.Publisher[Result]) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithEditPublisher publishes every committed table edit
func WithEditPublisher(publisher *event.Publisher[EditResult]) Option {
	return func(s *Service) {
		s.edits = publisher
	}
}
