// Package tracing wraps OpenTelemetry so the engines can emit spans for
// allocation attempts and scheduling ticks without importing the upstream
// packages directly. Until Init or InitWithExporter is called the global
// no-op provider is used and spans cost nothing.
package tracing
