package ossim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/ossim/internal/logging"
	"github.com/viant/ossim/progress"
	"github.com/viant/ossim/service/allocator"
	"github.com/viant/ossim/service/event"
	"github.com/viant/ossim/service/journal"
	"github.com/viant/ossim/service/messaging"
	"github.com/viant/ossim/service/meta"
	"github.com/viant/ossim/service/scheduler"
)

// Service wires the resource engine, the scheduling engine, the event
// stream and the journal.
type Service struct {
	config           *Config
	logger           *slog.Logger
	metaService      *meta.Service
	metaBaseURL      string
	metaFsOptions    []storage.Option
	eventService     *event.Service
	ownsEvents       bool
	journal          *journal.Service
	journalListener  *event.Listener
	allocator        *allocator.Service
	scheduler        scheduler.Scheduler
	progress         *progress.Progress
	progressListener func(progress.Counters)
	tracingErr       error
}

// New creates a service from DefaultConfig.
func New(options ...Option) (*Service, error) {
	return NewFromConfig(DefaultConfig(), options...)
}

// NewFromConfig creates a service from cfg. The configured resource state
// and processes are loaded into the engines; scripted requests are only
// replayed by Run.
func NewFromConfig(cfg *Config, options ...Option) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ret := &Service{config: cfg}
	if cfg.Tracing.Enabled {
		options = append([]Option{WithTracing(cfg.Tracing.ServiceName, cfg.Tracing.ServiceVersion, cfg.Tracing.OutputFile)}, options...)
	}
	for _, option := range options {
		option(ret)
	}
	if ret.tracingErr != nil {
		return nil, fmt.Errorf("failed to initialise tracing: %w", ret.tracingErr)
	}
	if err := ret.init(context.Background()); err != nil {
		ret.Close()
		return nil, err
	}
	return ret, nil
}

func (s *Service) init(ctx context.Context) error {
	cfg := s.config
	if s.logger == nil {
		s.logger = logging.New(cfg.Log.Level, cfg.Log.Format)
	}
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.eventService == nil && cfg.Events.Enabled {
		queueConfig := event.DefaultQueueConfig()
		queueConfig.QueueBuffer = cfg.Events.QueueBuffer
		eventService, err := event.New(event.VendorMemory, event.WithQueueConfig(queueConfig))
		if err != nil {
			return err
		}
		s.eventService = eventService
		s.ownsEvents = true
	}
	s.journal = journal.New(s.logger)
	if s.eventService != nil {
		s.journalListener = s.eventService.AddListener(s.journal.Handler())
	}

	s.allocator = allocator.New(
		allocator.WithLogger(s.logger.With(slog.String("engine", event.EngineResource))),
		allocator.WithPublisher(event.PublisherOf[allocator.Result](s.eventService)),
		allocator.WithEditPublisher(event.PublisherOf[allocator.EditResult](s.eventService)),
	)
	if r := cfg.Resource; r != nil {
		if _, err := s.allocator.Configure(r.Available, r.Max, r.Allocation); err != nil {
			return err
		}
	}

	discipline, err := scheduler.ParseDiscipline(cfg.Scheduler.Discipline)
	if err != nil {
		return err
	}
	s.progress = progress.New(string(discipline), s.progressListener)
	if s.scheduler, err = scheduler.New(discipline,
		scheduler.WithLogger(s.logger.With(slog.String("engine", event.EngineScheduler))),
		scheduler.WithPublisher(event.PublisherOf[scheduler.StepResult](s.eventService)),
		scheduler.WithProgress(s.progress),
	); err != nil {
		return err
	}
	for _, spec := range cfg.Scheduler.Processes {
		if _, err = s.scheduler.CreateProcess(ctx, spec); err != nil {
			return err
		}
	}
	return nil
}

// ResourceEngine returns the banker's-algorithm engine.
func (s *Service) ResourceEngine() *allocator.Service { return s.allocator }

// SchedulingEngine returns the scheduling engine.
func (s *Service) SchedulingEngine() scheduler.Scheduler { return s.scheduler }

// Journal returns the event journal. It only fills up when events are
// enabled.
func (s *Service) Journal() *journal.Service { return s.journal }

// MetaService returns the document loader.
func (s *Service) MetaService() *meta.Service { return s.metaService }

// Progress returns the current scheduling counters.
func (s *Service) Progress() progress.Counters { return s.progress.Snapshot() }

// OnProgress replaces the progress listener; nil disables it.
func (s *Service) OnProgress(listener func(progress.Counters)) {
	s.progress.OnChange(listener)
}

// Events returns the event queue, or nil when events are disabled.
func (s *Service) Events() messaging.Queue[event.Event[any]] {
	if s.eventService == nil {
		return nil
	}
	return s.eventService.Queue()
}

// Close stops the journal listener and, when the service created it, the
// event service.
func (s *Service) Close() {
	if s.journalListener != nil {
		s.journalListener.Stop()
	}
	if s.ownsEvents && s.eventService != nil {
		s.eventService.Close()
	}
}
