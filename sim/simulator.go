// sim/simulator.go
//
// The discrete-time loop that drives the allocator, scheduler and interrupt
// controller together. Each tick admits arrived processes, runs the selected
// process for a slice, applies completion/I-O/preemption outcomes, drains
// due interrupts, and periodically compacts memory.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Simulator is the core object that holds simulated time, system state, and
// the tick loop.
type Simulator struct {
	Clock   int64
	Horizon int64

	Memory     *MemoryManager
	Sched      *Scheduler
	Interrupts *InterruptController
	Table      *ProcessTable
	Metrics    *Metrics
	RNG        *PartitionedRNG

	loop LoopConfig
}

// NewSimulator validates the configuration, constructs every component, and
// generates the synthetic workload. Construction fails on any invalid
// configuration; a usable simulator is fully staged to Run.
func NewSimulator(cfg Config) (*Simulator, error) {
	pageSize := cfg.Memory.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	mm, err := NewMemoryManager(cfg.Memory.TotalMemory, pageSize, cfg.Memory.Strategy)
	if err != nil {
		return nil, fmt.Errorf("memory manager: %w", err)
	}

	policy, err := NewPolicy(cfg.Sched.Policy)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	timeSlice := cfg.Sched.TimeSlice
	if timeSlice == 0 {
		timeSlice = DefaultTimeSlice
	}
	sched, err := NewScheduler(policy, timeSlice)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	if cfg.Loop.Horizon <= 0 {
		return nil, fmt.Errorf("loop: horizon must be greater than 0")
	}
	if cfg.Loop.TickSize < 0 {
		return nil, fmt.Errorf("loop: tick size must not be negative")
	}
	if cfg.Loop.CompactEvery < 0 {
		return nil, fmt.Errorf("loop: compaction period must not be negative")
	}
	if cfg.Loop.IOLatency < 0 {
		return nil, fmt.Errorf("loop: I/O latency must not be negative")
	}
	if cfg.Loop.BlockProbability < 0 || cfg.Loop.BlockProbability > 1 {
		return nil, fmt.Errorf("loop: block probability must be in [0, 1]")
	}
	if err := cfg.Workload.Validate(); err != nil {
		return nil, fmt.Errorf("workload: %w", err)
	}

	s := &Simulator{
		Horizon:    cfg.Loop.Horizon,
		Memory:     mm,
		Sched:      sched,
		Interrupts: NewInterruptController(),
		Table:      NewProcessTable(),
		Metrics:    NewMetrics(),
		RNG:        NewPartitionedRNG(cfg.Seed),
		loop:       cfg.Loop.withDefaults(),
	}

	// A drained I/O-completion interrupt wakes its blocked owner; the next
	// tick's admission pass re-queues it.
	s.Interrupts.OnHandled(func(iv Interrupt) {
		if iv.Kind != InterruptIOCompletion {
			return
		}
		if p := s.Table.Get(iv.SourceID); p != nil && p.State == StateBlocked {
			p.State = StateReady
		}
	})

	failures := cfg.Workload.Generate(s.Table, mm, s.RNG.ForSubsystem(SubsystemWorkload))
	s.Metrics.AllocationFailures += failures
	s.Metrics.TotalProcesses = s.Table.Count()
	return s, nil
}

// Run drives the loop from time 0 to the horizon in fixed ticks.
func (s *Simulator) Run() {
	lifecycle := s.RNG.ForSubsystem(SubsystemLifecycle)
	var lastCompaction int64

	for s.Clock < s.Horizon {
		// 1. Admit READY processes that have arrived. Admission is
		// idempotent for processes already queued.
		for _, p := range s.Table.ByState(StateReady) {
			if p.ArrivalTime <= s.Clock {
				s.Sched.Admit(p, s.Clock)
			}
		}

		// 2. Select and execute the head of the ready queue.
		if proc := s.Sched.SelectNext(s.Clock); proc != nil {
			s.executeSlice(proc, lifecycle)
		}

		// 4. Drain interrupts due at or before now.
		s.Metrics.InterruptsHandled += s.Interrupts.Drain(s.Clock)

		// 5. Periodic compaction.
		if s.Clock-lastCompaction >= s.loop.CompactEvery {
			s.Metrics.BytesCompacted += s.Memory.Compact()
			s.Metrics.CompactionRuns++
			lastCompaction = s.Clock
		}

		// 6. Advance simulated time.
		s.Clock += s.loop.TickSize
	}

	s.Metrics.SimEndedTime = s.Clock
	logrus.Infof("[tick %07d] Simulation ended: %d/%d processes completed",
		s.Clock, s.Metrics.CompletedProcesses, s.Metrics.TotalProcesses)
}

// executeSlice runs proc for one slice and applies the outcome: termination
// with memory release, an I/O block, or preemption back into the ready
// queue. Step 3 of the tick.
func (s *Simulator) executeSlice(proc *Process, lifecycle randFloater) {
	// Greedy when alone, fair when contended: a solo process gets five
	// quanta, otherwise one.
	slice := s.Sched.TimeSlice()
	if s.Sched.QueueLen() == 0 {
		slice *= 5
	}

	consumed := slice
	if proc.RemainingTime < slice {
		consumed = proc.RemainingTime
	}

	completed, err := proc.Execute(slice)
	if err != nil {
		logrus.Errorf("[tick %07d] execute pid %d: %v", s.Clock, proc.PID, err)
		return
	}
	proc.RecordExecution(s.Clock)

	// The clock only advances one tick however large the slice was, so busy
	// time is capped at the tick or utilization would exceed 100%.
	if consumed > s.loop.TickSize {
		consumed = s.loop.TickSize
	}
	s.Metrics.BusyTime += consumed

	if completed {
		proc.CompletionTime = s.Clock
		s.Memory.Release(proc.PID)
		s.Metrics.RecordCompletion(proc)
		logrus.Debugf("[tick %07d] pid %d terminated", s.Clock, proc.PID)
		return
	}

	if lifecycle.Float64() < s.loop.BlockProbability {
		// Block on I/O; completion is raised for a future tick and the
		// drain-side wakeup returns the process to READY.
		proc.State = StateBlocked
		s.Interrupts.Raise(InterruptIOCompletion, proc.PID, s.Clock+s.loop.IOLatency, "I/O operation completed")
		logrus.Debugf("[tick %07d] pid %d blocked on I/O", s.Clock, proc.PID)
		return
	}

	// Preempted: pay the context-switch cost and rejoin the ready queue.
	s.Sched.ContextSwitch(proc, nil, s.Clock)
	s.Sched.Admit(proc, s.Clock)
}

// randFloater is the single draw the lifecycle branch needs; *rand.Rand
// satisfies it and tests can substitute a fixed sequence.
type randFloater interface {
	Float64() float64
}

// Reset returns every component to its initial empty state. The generated
// workload is discarded; the simulator must be rebuilt to run again.
func (s *Simulator) Reset() {
	s.Clock = 0
	s.Memory.Reset()
	s.Sched.Reset()
	s.Interrupts.Reset()
	s.Table.Reset()
	s.Metrics.Reset()
}
