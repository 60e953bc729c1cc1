package scheduler

import (
	"log/slog"

	"github.com/viant/ossim/progress"
	"github.com/viant/ossim/service/event"
)

type Option func(c *core)

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *core) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPublisher publishes every step result
func WithPublisher(publisher *event.Publisher[StepResult]) Option {
	return func(c *core) {
		c.publisher = publisher
	}
}

// WithProgress keeps session counters up to date
func WithProgress(tracker *progress.Progress) Option {
	return func(c *core) {
		c.progress = tracker
	}
}

// WithIDGenerator overrides process id generation
func WithIDGenerator(fn func() string) Option {
	return func(c *core) {
		if fn != nil {
			c.newID = fn
		}
	}
}
