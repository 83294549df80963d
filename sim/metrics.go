// Tracks simulation-wide counters for final reporting.

package sim

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
)

// Metrics aggregates statistics about the simulation for final reporting.
// The engine increments counters as it runs; everything derived is computed
// read-only at snapshot time.
type Metrics struct {
	TotalProcesses     int    // Processes created for the run
	CompletedProcesses int    // Processes that reached TERMINATED
	AllocationFailures int    // Allocate calls that found no fitting region
	InterruptsHandled  int    // Interrupts drained across all ticks
	CompactionRuns     int    // Periodic compaction invocations
	BytesCompacted     uint64 // Total bytes relocated by compaction
	BusyTime           int64  // Simulated time units spent executing, capped per tick
	SimEndedTime       int64  // Simulated time at loop exit

	Turnarounds  []float64 // Per-completed-process turnaround times
	WaitingTimes []float64 // Per-completed-process waiting times
}

// NewMetrics returns zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordCompletion accumulates the turnaround and waiting time of a process
// that just terminated.
func (m *Metrics) RecordCompletion(p *Process) {
	m.CompletedProcesses++
	m.Turnarounds = append(m.Turnarounds, float64(p.TurnaroundTime()))
	m.WaitingTimes = append(m.WaitingTimes, float64(p.WaitingTime()))
}

// PerformanceMetrics is the derived, read-only summary of one run.
type PerformanceMetrics struct {
	Throughput         float64 // Completed processes per 1000 time units
	AvgTurnaround      float64
	AvgWaiting         float64
	CPUUtilization     float64 // Busy time over elapsed simulated time
	TotalProcesses     int
	CompletedProcesses int
	ContextSwitches    int64
	InterruptOverhead  int64
	MemoryUtilization  float64
	Fragmentation      float64
}

// Snapshot derives the performance summary from the accumulated counters and
// the current allocator state. Pure reads, no side effects.
func (m *Metrics) Snapshot(mm *MemoryManager, sched *Scheduler, ic *InterruptController) PerformanceMetrics {
	pm := PerformanceMetrics{
		TotalProcesses:     m.TotalProcesses,
		CompletedProcesses: m.CompletedProcesses,
		ContextSwitches:    sched.ContextSwitchCount(),
		InterruptOverhead:  ic.TotalOverhead(),
		MemoryUtilization:  mm.Utilization(),
		Fragmentation:      mm.Fragmentation(),
	}
	if m.SimEndedTime > 0 {
		pm.Throughput = float64(m.CompletedProcesses) / float64(m.SimEndedTime) * 1000
		pm.CPUUtilization = float64(m.BusyTime) / float64(m.SimEndedTime)
	}
	if len(m.Turnarounds) > 0 {
		pm.AvgTurnaround, _ = stats.Mean(m.Turnarounds)
		pm.AvgWaiting, _ = stats.Mean(m.WaitingTimes)
	}
	return pm
}

// percentileOrZero avoids error plumbing for empty data sets.
func percentileOrZero(data []float64, p float64) float64 {
	v, err := stats.Percentile(data, p)
	if err != nil {
		return 0
	}
	return v
}

// Report renders the end-of-run summary. elapsed is the wall-clock duration
// measured by the driver's stopwatch.
func (m *Metrics) Report(mm *MemoryManager, sched *Scheduler, ic *InterruptController, elapsed time.Duration) string {
	pm := m.Snapshot(mm, sched, ic)

	var sb strings.Builder
	sb.WriteString("=== Simulation Metrics ===\n")
	fmt.Fprintf(&sb, "Simulated Time       : %d time units (%s wall clock)\n", m.SimEndedTime, elapsed.Round(time.Microsecond))
	fmt.Fprintf(&sb, "Processes            : %d completed / %d total\n", pm.CompletedProcesses, pm.TotalProcesses)
	fmt.Fprintf(&sb, "Throughput           : %.2f processes per 1000 time units\n", pm.Throughput)
	fmt.Fprintf(&sb, "CPU Utilization      : %.1f%%\n", pm.CPUUtilization*100)
	fmt.Fprintf(&sb, "Context Switches     : %d\n", pm.ContextSwitches)
	fmt.Fprintf(&sb, "Interrupts Handled   : %d (%d time units overhead)\n", m.InterruptsHandled, pm.InterruptOverhead)
	fmt.Fprintf(&sb, "Allocation Failures  : %d\n", m.AllocationFailures)
	fmt.Fprintf(&sb, "Memory               : %s total, %s allocated\n",
		humanize.IBytes(mm.TotalMemory()), humanize.IBytes(mm.AllocatedMemory()))
	fmt.Fprintf(&sb, "Memory Utilization   : %.1f%%\n", pm.MemoryUtilization*100)
	fmt.Fprintf(&sb, "Fragmentation        : %.1f%%\n", pm.Fragmentation*100)
	fmt.Fprintf(&sb, "Compaction           : %d runs, %s moved\n", m.CompactionRuns, humanize.IBytes(m.BytesCompacted))
	if len(m.Turnarounds) > 0 {
		fmt.Fprintf(&sb, "Turnaround Time      : avg %.2f, p50 %.2f, p95 %.2f, p99 %.2f\n",
			pm.AvgTurnaround,
			percentileOrZero(m.Turnarounds, 50),
			percentileOrZero(m.Turnarounds, 95),
			percentileOrZero(m.Turnarounds, 99))
		fmt.Fprintf(&sb, "Waiting Time         : avg %.2f, p50 %.2f, p95 %.2f, p99 %.2f\n",
			pm.AvgWaiting,
			percentileOrZero(m.WaitingTimes, 50),
			percentileOrZero(m.WaitingTimes, 95),
			percentileOrZero(m.WaitingTimes, 99))
	}
	return sb.String()
}

// Reset zeroes all counters and accumulations.
func (m *Metrics) Reset() {
	*m = Metrics{}
}
