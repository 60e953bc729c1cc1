// Command ossim runs a resource-safety and CPU-scheduling scenario and
// prints the resulting report.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/viant/ossim"
	"github.com/viant/ossim/internal/logging"
	"github.com/viant/ossim/internal/vector"
	"github.com/viant/ossim/model/resource"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ossim: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("ossim", flag.ContinueOnError)
	var (
		configURL  = flags.String("config", "", "Scenario document URL (YAML or JSON, any afs scheme)")
		discipline = flags.String("discipline", "", "Scheduling discipline override: fcfs or hpf")
		available  = flags.String("available", "", "Available vector, e.g. [3,3,2]")
		maxMatrix  = flags.String("max", "", "Max matrix, e.g. [[7,5,3],[3,2,2]]")
		allocation = flags.String("allocation", "", "Allocation matrix, e.g. [[0,1,0],[2,0,0]]")
		steps      = flags.Int("steps", -1, "Step limit override, 0 runs until drained")
		outURL     = flags.String("out", "", "Optional URL the report is saved to")
		logLevel   = flags.String("log-level", "", "Log level override: debug, info, warn, error")
		logFormat  = flags.String("log-format", "", "Log format override: text or json")
		traceFile  = flags.String("trace", "", "Write OpenTelemetry spans to this file")
		requests   []*ossim.RequestConfig
	)
	flags.Func("request", "Allocation request process:vector, e.g. 1:[1,0,2]; repeatable", func(value string) error {
		request, err := parseRequest(value)
		if err != nil {
			return err
		}
		requests = append(requests, request)
		return nil
	})
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg := ossim.DefaultConfig()
	if *configURL != "" {
		loaded, err := ossim.LoadConfig(ctx, *configURL)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *available != "" || *maxMatrix != "" || *allocation != "" {
		state, err := parseState(*available, *maxMatrix, *allocation)
		if err != nil {
			return err
		}
		if cfg.Resource == nil {
			cfg.Resource = &ossim.ResourceConfig{}
		}
		cfg.Resource.Available, cfg.Resource.Max, cfg.Resource.Allocation = state.Available, state.Max, state.Allocation
	}
	if len(requests) > 0 {
		if cfg.Resource == nil {
			return fmt.Errorf("-request requires a resource state")
		}
		cfg.Resource.Requests = append(cfg.Resource.Requests, requests...)
	}
	if *discipline != "" {
		cfg.Scheduler.Discipline = *discipline
	}
	if *steps >= 0 {
		cfg.Scheduler.MaxSteps = *steps
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *traceFile != "" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.OutputFile = *traceFile
	}

	srv, err := ossim.NewFromConfig(cfg, ossim.WithLogger(logging.NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)))
	if err != nil {
		return err
	}
	defer srv.Close()

	report, err := srv.Run(ctx)
	if err != nil {
		return err
	}
	if _, err = io.WriteString(stdout, report.String()); err != nil {
		return err
	}
	if *outURL != "" {
		if err = srv.MetaService().Save(ctx, *outURL, report); err != nil {
			return err
		}
	}
	return nil
}

// parseRequest parses "process:[a,b,c]".
func parseRequest(value string) (*ossim.RequestConfig, error) {
	processText, vectorText, ok := strings.Cut(value, ":")
	if !ok {
		return nil, fmt.Errorf("invalid request %q, expected process:[...]", value)
	}
	process, err := strconv.Atoi(strings.TrimSpace(processText))
	if err != nil {
		return nil, fmt.Errorf("invalid request process %q: %w", processText, err)
	}
	request, err := vector.Parse(vectorText)
	if err != nil {
		return nil, fmt.Errorf("invalid request vector %q: %w", vectorText, err)
	}
	return &ossim.RequestConfig{Process: process, Request: request}, nil
}

func parseState(available, max, allocation string) (*resource.State, error) {
	if available == "" || max == "" || allocation == "" {
		return nil, fmt.Errorf("-available, -max and -allocation must be set together")
	}
	availableVector, err := vector.Parse(available)
	if err != nil {
		return nil, fmt.Errorf("invalid -available: %w", err)
	}
	maxMatrix, err := vector.ParseMatrix(max)
	if err != nil {
		return nil, fmt.Errorf("invalid -max: %w", err)
	}
	allocationMatrix, err := vector.ParseMatrix(allocation)
	if err != nil {
		return nil, fmt.Errorf("invalid -allocation: %w", err)
	}
	return resource.NewState(availableVector, maxMatrix, allocationMatrix)
}
