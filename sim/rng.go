package sim

import (
	"hash/fnv"
	"math/rand"
)

// Named RNG subsystems. Each gets its own deterministic stream so adding
// draws to one never perturbs another.
const (
	// SubsystemWorkload feeds synthetic process generation. It uses the
	// master seed directly, so --seed alone pins the generated process set.
	SubsystemWorkload = "workload"

	// SubsystemLifecycle feeds in-loop probabilistic branching (the
	// block-on-I/O versus continue draw).
	SubsystemLifecycle = "lifecycle"
)

// PartitionedRNG hands out one deterministically-seeded *rand.Rand per named
// subsystem. Two runs with the same master seed and identical configuration
// produce bit-for-bit identical results.
//
// Not safe for concurrent use; the engine draws from a single goroutine.
type PartitionedRNG struct {
	masterSeed int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from the run's master seed.
func NewPartitionedRNG(masterSeed int64) *PartitionedRNG {
	return &PartitionedRNG{
		masterSeed: masterSeed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the RNG for the named subsystem, creating it on first
// use and caching it after. SubsystemWorkload is seeded with the master seed
// itself; every other name is seeded with masterSeed XOR fnv1a64(name).
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	seed := p.masterSeed
	if name != SubsystemWorkload {
		seed ^= fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(seed))
	p.subsystems[name] = rng
	return rng
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
