package process

// State represents the lifecycle state of a simulated process.
type State string

const (
	StateReady     State = "ready"
	StateExecuting State = "executing"
	StateWaiting   State = "waiting" // reserved, no discipline enters it
	StateFinished  State = "finished"
)

// Code returns the single-letter form used in compact reports.
func (s State) Code() string {
	switch s {
	case StateReady:
		return "R"
	case StateExecuting:
		return "E"
	case StateWaiting:
		return "W"
	case StateFinished:
		return "F"
	}
	return "?"
}
