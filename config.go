package ossim

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/ossim/internal/logging"
	"github.com/viant/ossim/model/process"
	"github.com/viant/ossim/model/resource"
	"github.com/viant/ossim/service/meta"
	"github.com/viant/ossim/service/scheduler"
)

// ErrNilRequest reports an empty entry in resource.requests.
var ErrNilRequest = errors.New("request is nil")

// Config is a serialisable representation of a simulation: engine settings
// plus an optional initial resource state, request script and process set.
// DefaultConfig supplies every setting a document leaves out.
type Config struct {
	Resource  *ResourceConfig `json:"resource,omitempty" yaml:"resource,omitempty"`
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	Events    EventsConfig    `json:"events" yaml:"events"`
	Tracing   TracingConfig   `json:"tracing" yaml:"tracing"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// ResourceConfig is the initial banker state and the requests to replay
// against it.
type ResourceConfig struct {
	Available  resource.Vector  `json:"available" yaml:"available"`
	Max        resource.Matrix  `json:"max" yaml:"max"`
	Allocation resource.Matrix  `json:"allocation" yaml:"allocation"`
	Requests   []*RequestConfig `json:"requests,omitempty" yaml:"requests,omitempty"`
}

// RequestConfig is one scripted allocation request.
type RequestConfig struct {
	Process int             `json:"process" yaml:"process"`
	Request resource.Vector `json:"request" yaml:"request"`
}

type SchedulerConfig struct {
	Discipline string         `json:"discipline" yaml:"discipline"`
	Processes  []process.Spec `json:"processes,omitempty" yaml:"processes,omitempty"`
	// MaxSteps bounds a scripted run; zero means until drained.
	MaxSteps int `json:"maxSteps,omitempty" yaml:"maxSteps,omitempty"`
}

type EventsConfig struct {
	Enabled     bool `json:"enabled" yaml:"enabled"`
	QueueBuffer int  `json:"queueBuffer" yaml:"queueBuffer"`
}

type TracingConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	ServiceName    string `json:"serviceName" yaml:"serviceName"`
	ServiceVersion string `json:"serviceVersion" yaml:"serviceVersion"`
	OutputFile     string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// DefaultConfig returns a Config populated with default values. Callers may
// modify the returned struct before passing it to NewFromConfig.
func DefaultConfig() *Config {
	return &Config{
		Scheduler: SchedulerConfig{Discipline: string(scheduler.DisciplineFCFS)},
		Events:    EventsConfig{Enabled: true, QueueBuffer: 1024},
		Tracing:   TracingConfig{ServiceName: "ossim", ServiceVersion: "dev"},
		Log:       LogConfig{Level: "info", Format: logging.FormatText},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if _, err := scheduler.ParseDiscipline(c.Scheduler.Discipline); err != nil {
		errs = append(errs, fmt.Errorf("scheduler.discipline: %w", err))
	}
	if c.Scheduler.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("scheduler.maxSteps must be >= 0"))
	}
	for i, spec := range c.Scheduler.Processes {
		if spec.ArrivalTime < 0 || spec.RequiredRuntime < 0 {
			errs = append(errs, fmt.Errorf("scheduler.processes[%d]: %w", i, scheduler.ErrInvalidProcess))
		}
	}
	if c.Events.Enabled && c.Events.QueueBuffer <= 0 {
		errs = append(errs, fmt.Errorf("events.queueBuffer must be > 0"))
	}
	if c.Tracing.Enabled && c.Tracing.ServiceName == "" {
		errs = append(errs, fmt.Errorf("tracing.serviceName is required"))
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatJSON, logging.FormatText:
	default:
		errs = append(errs, fmt.Errorf("log.format must be %q or %q", logging.FormatJSON, logging.FormatText))
	}
	if r := c.Resource; r != nil {
		state, err := resource.NewState(r.Available, r.Max, r.Allocation)
		if err != nil {
			errs = append(errs, fmt.Errorf("resource: %w", err))
		}
		for i, request := range r.Requests {
			if request == nil {
				errs = append(errs, fmt.Errorf("resource.requests[%d]: %w", i, ErrNilRequest))
				continue
			}
			if state == nil {
				continue
			}
			if request.Process < 0 || request.Process >= state.Processes() || len(request.Request) != state.Resources() {
				errs = append(errs, fmt.Errorf("resource.requests[%d]: %w", i, resource.ErrDimension))
			}
		}
	}
	return errors.Join(errs...)
}

// LoadConfig loads a YAML or JSON document from any afs-supported URL on top
// of DefaultConfig and validates it.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	cfg := DefaultConfig()
	if err := meta.New(afs.New(), "", options...).Load(ctx, URL, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return cfg, nil
}
