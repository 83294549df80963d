package sim

import (
	"fmt"
	"sort"
)

// SchedulingPolicy reorders the ready queue at admission time to determine
// which process is selected next. Implementations sort the slice in-place
// using sort.SliceStable for determinism.
type SchedulingPolicy interface {
	OrderQueue(processes []*Process)
}

// RoundRobinPolicy preserves plain FIFO order (no-op). This is the default
// policy: selection takes the head and preempted processes rejoin the tail.
type RoundRobinPolicy struct{}

func (r *RoundRobinPolicy) OrderQueue(_ []*Process) {
	// No-op: FIFO order preserved from admission order
}

// PriorityPolicy sorts processes by priority (descending), then by arrival
// time (ascending), then by PID (ascending) for determinism.
type PriorityPolicy struct{}

func (p *PriorityPolicy) OrderQueue(procs []*Process) {
	sort.SliceStable(procs, func(i, j int) bool {
		if procs[i].Priority != procs[j].Priority {
			return procs[i].Priority > procs[j].Priority
		}
		if procs[i].ArrivalTime != procs[j].ArrivalTime {
			return procs[i].ArrivalTime < procs[j].ArrivalTime
		}
		return procs[i].PID < procs[j].PID
	})
}

// SJFPolicy sorts processes by remaining CPU time (ascending, shortest
// first), then by arrival time (ascending), then by PID (ascending).
// Warning: SJF can starve long processes under sustained load.
type SJFPolicy struct{}

func (s *SJFPolicy) OrderQueue(procs []*Process) {
	sort.SliceStable(procs, func(i, j int) bool {
		if procs[i].RemainingTime != procs[j].RemainingTime {
			return procs[i].RemainingTime < procs[j].RemainingTime
		}
		if procs[i].ArrivalTime != procs[j].ArrivalTime {
			return procs[i].ArrivalTime < procs[j].ArrivalTime
		}
		return procs[i].PID < procs[j].PID
	})
}

// PolicyNames lists the recognized scheduling policy names.
var PolicyNames = []string{"round-robin", "priority", "sjf"}

// IsValidPolicy reports whether name is a recognized policy name.
// Empty string defaults to round-robin.
func IsValidPolicy(name string) bool {
	switch name {
	case "", "round-robin", "priority", "sjf":
		return true
	}
	return false
}

// NewPolicy creates a SchedulingPolicy by name.
// Valid names: "round-robin" (default), "priority", "sjf".
// Empty string defaults to RoundRobinPolicy (for CLI flag default compatibility).
func NewPolicy(name string) (SchedulingPolicy, error) {
	switch name {
	case "", "round-robin":
		return &RoundRobinPolicy{}, nil
	case "priority":
		return &PriorityPolicy{}, nil
	case "sjf":
		return &SJFPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown scheduling policy %q", name)
	}
}
