// sim/workload.go
//
// Synthetic process generation. A WorkloadSpec describes uniform parameter
// ranges; Generate draws from an explicit RNG, registers the processes, and
// allocates their memory up front so the loop's admission pass can pick them
// up by arrival time.

package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// WorkloadSpec describes the parameter ranges for synthetic processes.
// All ranges are inclusive and sampled uniformly.
type WorkloadSpec struct {
	Processes  int    `yaml:"processes"`
	ArrivalMin int64  `yaml:"arrival_min"`
	ArrivalMax int64  `yaml:"arrival_max"`
	BurstMin   int64  `yaml:"burst_min"`
	BurstMax   int64  `yaml:"burst_max"`
	MemoryMin  uint64 `yaml:"memory_min"`
	MemoryMax  uint64 `yaml:"memory_max"`
}

// DefaultWorkloadSpec mirrors the conventional benchmark ranges: arrivals in
// the first 1000 ticks, bursts of 10-500, memory 1 KiB up to a tenth of the
// machine.
func DefaultWorkloadSpec(processes int, totalMemory uint64) WorkloadSpec {
	return WorkloadSpec{
		Processes:  processes,
		ArrivalMin: 0,
		ArrivalMax: 1000,
		BurstMin:   10,
		BurstMax:   500,
		MemoryMin:  1024,
		MemoryMax:  totalMemory / 10,
	}
}

// Validate rejects empty or inverted ranges.
func (w WorkloadSpec) Validate() error {
	if w.Processes <= 0 {
		return fmt.Errorf("workload must generate at least one process")
	}
	if w.ArrivalMin > w.ArrivalMax {
		return fmt.Errorf("arrival range inverted: [%d, %d]", w.ArrivalMin, w.ArrivalMax)
	}
	if w.BurstMin <= 0 || w.BurstMin > w.BurstMax {
		return fmt.Errorf("burst range invalid: [%d, %d]", w.BurstMin, w.BurstMax)
	}
	if w.MemoryMin == 0 || w.MemoryMin > w.MemoryMax {
		return fmt.Errorf("memory range invalid: [%d, %d]", w.MemoryMin, w.MemoryMax)
	}
	return nil
}

// sampleInt64 draws uniformly from [min, max].
func sampleInt64(rng *rand.Rand, min, max int64) int64 {
	if min == max {
		return min
	}
	return min + rng.Int63n(max-min+1)
}

// samplePriority draws one of the four priority levels uniformly.
func samplePriority(rng *rand.Rand) Priority {
	return Priorities[rng.Intn(len(Priorities))]
}

// Generate creates the processes described by the spec, registers them in
// the table, and allocates their memory. Each process that receives backing
// memory is staged READY for admission; a failed allocation leaves the
// process NEW without memory and the run continues. Returns the number of
// allocation failures.
func (w WorkloadSpec) Generate(table *ProcessTable, mm *MemoryManager, rng *rand.Rand) int {
	failures := 0
	for i := 0; i < w.Processes; i++ {
		arrival := sampleInt64(rng, w.ArrivalMin, w.ArrivalMax)
		burst := sampleInt64(rng, w.BurstMin, w.BurstMax)
		memory := uint64(sampleInt64(rng, int64(w.MemoryMin), int64(w.MemoryMax)))
		priority := samplePriority(rng)

		p := table.CreateProcess(arrival, burst, memory, priority)
		if p == nil {
			logrus.Warnf("workload: invalid process parameters (burst=%d memory=%d)", burst, memory)
			failures++
			continue
		}

		addr, ok := mm.Allocate(p.PID, p.MemoryRequired)
		if !ok {
			logrus.Warnf("workload: allocation of %d bytes failed for pid %d", p.MemoryRequired, p.PID)
			failures++
			continue
		}
		p.Address = addr
		p.State = StateReady
	}
	return failures
}
