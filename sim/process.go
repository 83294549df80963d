// Defines the Process struct that models an individual simulated process,
// and the ProcessTable that owns process lifecycle bookkeeping.
// Tracks arrival, burst and remaining CPU time, memory demand, and the
// timestamps needed for turnaround/waiting statistics.

package sim

import (
	"fmt"
)

// ProcessState represents the lifecycle state of a process.
type ProcessState string

const (
	StateNew        ProcessState = "new"
	StateReady      ProcessState = "ready"
	StateRunning    ProcessState = "running"
	StateBlocked    ProcessState = "blocked"
	StateTerminated ProcessState = "terminated"
)

// Priority is a fixed process priority level. Higher = more urgent.
type Priority int

const (
	PriorityLow      Priority = 1
	PriorityMedium   Priority = 5
	PriorityHigh     Priority = 10
	PriorityCritical Priority = 15
)

// Priorities lists all levels in ascending order, for random selection.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Process models a single process's lifecycle in the simulation.
// The engine mutates State, RemainingTime and CompletionTime; everything
// else is fixed at creation.
type Process struct {
	PID  uint32 // Unique identifier, assigned by the ProcessTable
	Name string

	ArrivalTime    int64  // Tick at which the process enters the system
	BurstTime      int64  // Total CPU time required
	RemainingTime  int64  // CPU time still needed
	MemoryRequired uint64 // Memory demand in bytes

	Priority       Priority
	State          ProcessState
	CompletionTime int64 // Tick of termination; 0 while incomplete

	// Address is the start address returned by the allocator, or 0 when the
	// process has no backing memory. Compaction relocates regions, so the
	// engine releases memory by owner PID rather than by this address.
	Address uint64

	executionHistory []int64 // Ticks at which the process held the CPU
}

// NewProcess validates and constructs a process in the NEW state.
// Burst time and memory requirement must both be positive.
func NewProcess(pid uint32, arrivalTime, burstTime int64, memoryRequired uint64, priority Priority) (*Process, error) {
	if burstTime <= 0 {
		return nil, fmt.Errorf("burst time must be greater than 0")
	}
	if memoryRequired == 0 {
		return nil, fmt.Errorf("memory requirement must be greater than 0")
	}
	return &Process{
		PID:            pid,
		Name:           fmt.Sprintf("process_%d", pid),
		ArrivalTime:    arrivalTime,
		BurstTime:      burstTime,
		RemainingTime:  burstTime,
		MemoryRequired: memoryRequired,
		Priority:       priority,
		State:          StateNew,
	}, nil
}

// SetName renames the process. Empty names are rejected.
func (p *Process) SetName(name string) error {
	if name == "" {
		return fmt.Errorf("process name cannot be empty")
	}
	p.Name = name
	return nil
}

// Execute consumes up to timeSlice units of remaining CPU time.
// Returns true if the process completed within the slice. The caller must
// have transitioned the process to RUNNING first.
func (p *Process) Execute(timeSlice int64) (bool, error) {
	if p.State != StateRunning {
		return false, fmt.Errorf("process %d must be running to execute, state=%s", p.PID, p.State)
	}
	if p.RemainingTime <= timeSlice {
		p.RemainingTime = 0
		p.State = StateTerminated
		return true, nil
	}
	p.RemainingTime -= timeSlice
	return false, nil
}

// Completed reports whether the process has terminated.
func (p *Process) Completed() bool {
	return p.State == StateTerminated
}

// TurnaroundTime is completion minus arrival; 0 while incomplete.
func (p *Process) TurnaroundTime() int64 {
	if p.CompletionTime == 0 {
		return 0
	}
	return p.CompletionTime - p.ArrivalTime
}

// WaitingTime is turnaround minus burst; 0 while incomplete.
func (p *Process) WaitingTime() int64 {
	if p.CompletionTime == 0 {
		return 0
	}
	return p.TurnaroundTime() - p.BurstTime
}

// RecordExecution appends a tick to the execution history.
func (p *Process) RecordExecution(timestamp int64) {
	p.executionHistory = append(p.executionHistory, timestamp)
}

// ExecutionHistory returns the ticks at which the process held the CPU.
func (p *Process) ExecutionHistory() []int64 {
	return p.executionHistory
}

func (p *Process) String() string {
	return fmt.Sprintf("Process: (PID: %d, State: %s, Remaining: %d, ArrivalTime: %d)",
		p.PID, p.State, p.RemainingTime, p.ArrivalTime)
}

// ProcessTable owns every process created for a run and assigns PIDs.
type ProcessTable struct {
	processes []*Process
	byPID     map[uint32]*Process
	nextPID   uint32
}

// NewProcessTable creates an empty table. PIDs start at 1.
func NewProcessTable() *ProcessTable {
	return &ProcessTable{
		byPID:   make(map[uint32]*Process),
		nextPID: 1,
	}
}

// CreateProcess validates and registers a new process.
// Returns nil if the parameters are invalid; PID assignment is not consumed
// by a failed creation.
func (pt *ProcessTable) CreateProcess(arrivalTime, burstTime int64, memoryRequired uint64, priority Priority) *Process {
	p, err := NewProcess(pt.nextPID, arrivalTime, burstTime, memoryRequired, priority)
	if err != nil {
		return nil
	}
	pt.nextPID++
	pt.processes = append(pt.processes, p)
	pt.byPID[p.PID] = p
	return p
}

// Get returns the process with the given PID, or nil.
func (pt *ProcessTable) Get(pid uint32) *Process {
	return pt.byPID[pid]
}

// All returns every registered process in creation order.
func (pt *ProcessTable) All() []*Process {
	return pt.processes
}

// ByState returns the processes currently in the given state.
func (pt *ProcessTable) ByState(state ProcessState) []*Process {
	var matched []*Process
	for _, p := range pt.processes {
		if p.State == state {
			matched = append(matched, p)
		}
	}
	return matched
}

// Count returns the number of registered processes.
func (pt *ProcessTable) Count() int {
	return len(pt.processes)
}

// CompletedCount returns the number of terminated processes.
func (pt *ProcessTable) CompletedCount() int {
	n := 0
	for _, p := range pt.processes {
		if p.State == StateTerminated {
			n++
		}
	}
	return n
}

// CleanupTerminated drops terminated processes from the table and returns
// how many were removed.
func (pt *ProcessTable) CleanupTerminated() int {
	kept := pt.processes[:0]
	removed := 0
	for _, p := range pt.processes {
		if p.State == StateTerminated {
			delete(pt.byPID, p.PID)
			removed++
			continue
		}
		kept = append(kept, p)
	}
	pt.processes = kept
	return removed
}

// Reset discards all processes and restarts PID assignment at 1.
func (pt *ProcessTable) Reset() {
	pt.processes = nil
	pt.byPID = make(map[uint32]*Process)
	pt.nextPID = 1
}
