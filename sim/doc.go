// Package sim provides the core discrete-time simulation engine for the
// kernel resource simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: Process lifecycle (new → ready → running → blocked/terminated) and the process table
//   - memory.go: Block-based allocation, fit strategies, coalescing and compaction
//   - simulator.go: The tick loop tying scheduler, allocator and interrupts together
//
// # Architecture
//
// Everything is in-process library surface driven by a tick loop:
//   - memory.go: MemoryManager, the ordered region list and its invariants
//   - queue.go / policy.go / scheduler.go: ready queue, pluggable ordering policies, selection and context switches
//   - interrupt.go: timestamp-ordered interrupt queue with fixed per-kind handling cost
//   - workload.go / rng.go: deterministic synthetic process generation
//   - metrics.go: counters accumulated by the loop, derived summaries computed read-only
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - SchedulingPolicy: order the ready queue at admission time
//
// Operational failures (no fitting region, empty queue, missing deallocation
// target) are sentinel returns, not errors; only invalid construction
// parameters produce errors.
package sim
