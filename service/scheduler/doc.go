// Package scheduler implements the discrete-tick CPU scheduling engine.
//
// One Scheduler owns a set of live processes and advances a session one
// tick per Step. Two disciplines are provided: FCFS runs the
// earliest-arriving ready process, HPF runs the highest-priority process
// that has arrived and ages it by one priority level per tick. A session
// drains once every process finished; its attributes are then reset so the
// same set can be replayed.
package scheduler
