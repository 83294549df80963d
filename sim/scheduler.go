// sim/scheduler.go
//
// Sequences process execution: admission into the ready queue, next-process
// selection, forced withdrawal, and context-switch cost accounting. Every
// state transition is recorded in an append-only history.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// DefaultTimeSlice is the round-robin quantum when none is configured.
const DefaultTimeSlice = 10

// contextSwitchOverhead is the fixed scheduler-level cost of one switch.
const contextSwitchOverhead int64 = 1

// ScheduleEvent records one process state transition, append-only.
type ScheduleEvent struct {
	Timestamp int64
	Process   *Process
	OldState  ProcessState
	NewState  ProcessState
}

// Scheduler maintains the ready queue, selects the next process to run, and
// simulates context-switch cost. The active policy reorders the queue at
// admission time; with the default round-robin policy selection is plain
// FIFO.
//
// Not safe for concurrent use.
type Scheduler struct {
	policy    SchedulingPolicy
	timeSlice int64

	ready           ReadyQueue
	history         []ScheduleEvent
	contextSwitches int64
}

// NewScheduler validates the configuration and creates an empty scheduler.
// A zero time slice is rejected.
func NewScheduler(policy SchedulingPolicy, timeSlice int64) (*Scheduler, error) {
	if timeSlice <= 0 {
		return nil, fmt.Errorf("time slice must be greater than 0")
	}
	if policy == nil {
		policy = &RoundRobinPolicy{}
	}
	return &Scheduler{policy: policy, timeSlice: timeSlice}, nil
}

// TimeSlice returns the configured quantum.
func (s *Scheduler) TimeSlice() int64 {
	return s.timeSlice
}

// SetPolicy switches the scheduling policy and reorders the current queue.
func (s *Scheduler) SetPolicy(policy SchedulingPolicy) {
	s.policy = policy
	s.ready.Reorder(policy.OrderQueue)
}

// Admit transitions a process to READY, appends it to the ready queue, logs
// the transition, and applies the policy ordering. Re-admitting a process
// already in the queue is a no-op, so the per-tick admission pass is
// idempotent.
func (s *Scheduler) Admit(p *Process, timestamp int64) {
	if p == nil || s.ready.Contains(p) {
		return
	}
	s.transition(p, StateReady, timestamp)
	s.ready.Enqueue(p)
	s.ready.Reorder(s.policy.OrderQueue)
}

// SelectNext removes and returns the queue head, transitioning it to
// RUNNING. Returns nil (not an error) when the queue is empty.
func (s *Scheduler) SelectNext(timestamp int64) *Process {
	p := s.ready.Dequeue()
	if p == nil {
		return nil
	}
	s.transition(p, StateRunning, timestamp)
	return p
}

// Withdraw removes a specific process from the ready queue, used for forced
// termination. The process transitions to TERMINATED; returns whether it was
// present. Removal is a linear scan over the queue.
func (s *Scheduler) Withdraw(p *Process, timestamp int64) bool {
	if p == nil || !s.ready.Remove(p) {
		return false
	}
	s.transition(p, StateTerminated, timestamp)
	return true
}

// ContextSwitch accounts the fixed cost of switching the CPU between two
// processes. A non-nil from transitions RUNNING->READY at timestamp; a
// non-nil to transitions READY->RUNNING at timestamp+overhead. Returns the
// overhead.
func (s *Scheduler) ContextSwitch(from, to *Process, timestamp int64) int64 {
	if from != nil {
		s.transition(from, StateReady, timestamp)
	}
	if to != nil {
		s.transition(to, StateRunning, timestamp+contextSwitchOverhead)
	}
	s.contextSwitches++
	return contextSwitchOverhead
}

// transition sets the new state and logs it; same-state transitions are not
// recorded.
func (s *Scheduler) transition(p *Process, newState ProcessState, timestamp int64) {
	if p.State == newState {
		return
	}
	old := p.State
	p.State = newState
	s.history = append(s.history, ScheduleEvent{
		Timestamp: timestamp,
		Process:   p,
		OldState:  old,
		NewState:  newState,
	})
	logrus.Debugf("[tick %07d] pid %d: %s -> %s", timestamp, p.PID, old, newState)
}

// QueueLen returns the number of processes awaiting selection.
func (s *Scheduler) QueueLen() int {
	return s.ready.Len()
}

// DrainAll removes every queued process, transitioning each to TERMINATED.
func (s *Scheduler) DrainAll(timestamp int64) {
	for _, p := range s.ready.Drain() {
		s.transition(p, StateTerminated, timestamp)
	}
}

// History returns the append-only state-transition log.
func (s *Scheduler) History() []ScheduleEvent {
	return s.history
}

// ContextSwitchCount returns the number of context switches performed.
func (s *Scheduler) ContextSwitchCount() int64 {
	return s.contextSwitches
}

// Reset clears the queue, the history, and the switch counter.
func (s *Scheduler) Reset() {
	s.ready = ReadyQueue{}
	s.history = nil
	s.contextSwitches = 0
}
