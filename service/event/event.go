// Package event carries engine notifications (allocation attempts,
// scheduling ticks) from the engines to any number of observers through a
// messaging queue.
package event

import "time"

// Engine names used in Context.Engine.
const (
	EngineResource  = "resource"
	EngineScheduler = "scheduler"
)

// Context identifies where an event came from.
type Context struct {
	Engine    string `json:"engine"`
	EventType string `json:"eventType"`
	ProcessID string `json:"processID,omitempty"`
	Tick      int    `json:"tick,omitempty"`
}

// Event wraps a typed payload.
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}
