// sim/memory.go
//
// Block-based memory allocator. Memory is a single ordered sequence of
// address-contiguous regions whose sizes always sum to the configured total.
// Allocation picks a free region per the configured fit strategy and splits
// it when the remainder is at least one page; deallocation coalesces with
// free neighbors so no two adjacent free regions ever persist.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Strategy selects which free region satisfies an allocation request.
type Strategy string

const (
	// FirstFit takes the lowest-addressed free region that fits.
	FirstFit Strategy = "first-fit"
	// BestFit takes the smallest free region that fits; ties go to the
	// lowest address.
	BestFit Strategy = "best-fit"
	// WorstFit takes the largest free region that fits; ties go to the
	// lowest address.
	WorstFit Strategy = "worst-fit"
)

// Strategies lists all fit strategies, for benchmark sweeps.
var Strategies = []Strategy{FirstFit, BestFit, WorstFit}

// IsValidStrategy reports whether name is a recognized fit strategy.
// Empty string defaults to FirstFit.
func IsValidStrategy(name string) bool {
	switch Strategy(name) {
	case "", FirstFit, BestFit, WorstFit:
		return true
	}
	return false
}

// Region is a contiguous span of simulated memory, either free or allocated
// to exactly one process.
type Region struct {
	Start     uint64 // Starting address
	Size      uint64 // Span in bytes
	Allocated bool
	OwnerID   uint32 // PID of the owning process; 0 when free
}

// DefaultPageSize is the minimum split granularity when none is configured.
const DefaultPageSize = 4096

// MemoryManager owns the region list and implements fit strategies,
// splitting, coalescing, compaction and the utilization/fragmentation
// queries.
//
// Not safe for concurrent use; the simulation engine is single-threaded and
// multi-step operations (find-then-split, free-then-coalesce) are not
// independently atomic.
type MemoryManager struct {
	totalMemory uint64
	pageSize    uint64
	strategy    Strategy

	regions []*Region
	// ownerRegions maps a PID to the start addresses of its live regions.
	// Kept in sync by Allocate/Deallocate/Compact so callers can release by
	// owner instead of holding raw addresses across compaction.
	ownerRegions map[uint32][]uint64
}

// NewMemoryManager validates the configuration and initializes one free
// region spanning all memory. pageSize 0 is rejected; pass DefaultPageSize
// for the conventional 4 KiB granularity.
func NewMemoryManager(totalMemory, pageSize uint64, strategy Strategy) (*MemoryManager, error) {
	if totalMemory == 0 {
		return nil, fmt.Errorf("total memory must be greater than 0")
	}
	if pageSize == 0 {
		return nil, fmt.Errorf("page size must be greater than 0")
	}
	if !IsValidStrategy(string(strategy)) {
		return nil, fmt.Errorf("unknown allocation strategy %q", strategy)
	}
	if strategy == "" {
		strategy = FirstFit
	}
	mm := &MemoryManager{
		totalMemory: totalMemory,
		pageSize:    pageSize,
		strategy:    strategy,
	}
	mm.initialize()
	return mm, nil
}

func (mm *MemoryManager) initialize() {
	mm.regions = []*Region{{Start: 0, Size: mm.totalMemory}}
	mm.ownerRegions = make(map[uint32][]uint64)
}

// SetStrategy switches the fit strategy for subsequent allocations.
func (mm *MemoryManager) SetStrategy(strategy Strategy) {
	mm.strategy = strategy
}

// Strategy returns the active fit strategy.
func (mm *MemoryManager) Strategy() Strategy {
	return mm.strategy
}

// Allocate maps a request of size bytes for ownerID to a start address.
// The ok result reports success; it is false when size is 0, exceeds total
// memory, or no free region fits, and state is left unchanged. The address
// alone cannot signal failure because the lowest region starts at 0.
func (mm *MemoryManager) Allocate(ownerID uint32, size uint64) (addr uint64, ok bool) {
	if size == 0 || size > mm.totalMemory {
		return 0, false
	}

	idx := mm.findFit(size)
	if idx < 0 {
		logrus.Debugf("allocate: no %s region of %d bytes for pid %d", mm.strategy, size, ownerID)
		return 0, false
	}

	region := mm.regions[idx]
	region.Allocated = true
	region.OwnerID = ownerID

	// Split off the remainder unless it would be smaller than a page;
	// sub-page remainders stay attached to the allocation as internal
	// fragmentation.
	if remainder := region.Size - size; remainder >= mm.pageSize {
		mm.splitRegion(idx, size)
	}

	mm.ownerRegions[ownerID] = append(mm.ownerRegions[ownerID], region.Start)
	return region.Start, true
}

// findFit returns the index of the free region chosen by the active
// strategy, or -1 when nothing fits. All three scans run in address order,
// so exact ties resolve to the first-seen (lowest-addressed) region.
func (mm *MemoryManager) findFit(size uint64) int {
	best := -1
	for i, r := range mm.regions {
		if r.Allocated || r.Size < size {
			continue
		}
		switch mm.strategy {
		case FirstFit:
			return i
		case BestFit:
			if best < 0 || r.Size < mm.regions[best].Size {
				best = i
			}
		case WorstFit:
			if best < 0 || r.Size > mm.regions[best].Size {
				best = i
			}
		}
	}
	return best
}

// splitRegion cuts regions[idx] into an allocated prefix of exactly size
// bytes and a free remainder inserted immediately after it.
func (mm *MemoryManager) splitRegion(idx int, size uint64) {
	region := mm.regions[idx]
	remainder := &Region{
		Start: region.Start + size,
		Size:  region.Size - size,
	}
	region.Size = size

	mm.regions = append(mm.regions, nil)
	copy(mm.regions[idx+2:], mm.regions[idx+1:])
	mm.regions[idx+1] = remainder
}

// Deallocate frees the allocated region starting at address and coalesces
// it with free neighbors in a single pass. Returns false when no region
// allocated to ownerID starts there; a mismatched owner never frees another
// process's memory.
func (mm *MemoryManager) Deallocate(ownerID uint32, address uint64) bool {
	idx := -1
	for i, r := range mm.regions {
		if r.Start == address && r.Allocated && r.OwnerID == ownerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	region := mm.regions[idx]
	region.Allocated = false
	region.OwnerID = 0
	mm.forgetOwnedRegion(ownerID, address)

	// Merge with a free successor first, then a free predecessor, so the
	// surviving region absorbs both neighbors in one pass.
	if idx+1 < len(mm.regions) && !mm.regions[idx+1].Allocated {
		region.Size += mm.regions[idx+1].Size
		mm.regions = append(mm.regions[:idx+1], mm.regions[idx+2:]...)
	}
	if idx > 0 && !mm.regions[idx-1].Allocated {
		mm.regions[idx-1].Size += region.Size
		mm.regions = append(mm.regions[:idx], mm.regions[idx+1:]...)
	}
	return true
}

// Release frees every region owned by ownerID and returns the bytes
// reclaimed. Safe to call after Compact: the owner index tracks relocation.
func (mm *MemoryManager) Release(ownerID uint32) uint64 {
	addrs := mm.ownerRegions[ownerID]
	if len(addrs) == 0 {
		return 0
	}
	var freed uint64
	for _, addr := range append([]uint64(nil), addrs...) {
		for _, r := range mm.regions {
			if r.Start == addr && r.Allocated && r.OwnerID == ownerID {
				freed += r.Size
				break
			}
		}
		mm.Deallocate(ownerID, addr)
	}
	delete(mm.ownerRegions, ownerID)
	return freed
}

func (mm *MemoryManager) forgetOwnedRegion(ownerID uint32, address uint64) {
	addrs := mm.ownerRegions[ownerID]
	for i, a := range addrs {
		if a == address {
			mm.ownerRegions[ownerID] = append(addrs[:i], addrs[i+1:]...)
			break
		}
	}
	if len(mm.ownerRegions[ownerID]) == 0 {
		delete(mm.ownerRegions, ownerID)
	}
}

// Utilization returns allocated bytes over total bytes.
func (mm *MemoryManager) Utilization() float64 {
	return float64(mm.AllocatedMemory()) / float64(mm.totalMemory)
}

// Fragmentation returns 1 - largest_free/total_free, the share of free
// memory unusable for a maximal request. 0 when nothing is free.
func (mm *MemoryManager) Fragmentation() float64 {
	var totalFree, largestFree uint64
	for _, r := range mm.regions {
		if r.Allocated {
			continue
		}
		totalFree += r.Size
		if r.Size > largestFree {
			largestFree = r.Size
		}
	}
	return fragmentationRatio(largestFree, totalFree)
}

// fragmentationRatio applies the boundary rules: no free bytes means no
// fragmentation; free bytes with a zero largest region is the degenerate
// fully-fragmented state.
func fragmentationRatio(largestFree, totalFree uint64) float64 {
	if totalFree == 0 {
		return 0.0
	}
	if largestFree == 0 {
		return 1.0
	}
	return 1.0 - float64(largestFree)/float64(totalFree)
}

// TotalMemory returns the configured memory size in bytes.
func (mm *MemoryManager) TotalMemory() uint64 {
	return mm.totalMemory
}

// FreeMemory returns the sum of free region sizes.
func (mm *MemoryManager) FreeMemory() uint64 {
	var free uint64
	for _, r := range mm.regions {
		if !r.Allocated {
			free += r.Size
		}
	}
	return free
}

// AllocatedMemory returns the sum of allocated region sizes.
func (mm *MemoryManager) AllocatedMemory() uint64 {
	var allocated uint64
	for _, r := range mm.regions {
		if r.Allocated {
			allocated += r.Size
		}
	}
	return allocated
}

// Compact relocates all allocated regions to the lowest addresses,
// preserving their relative order, and leaves exactly one trailing free
// region. Returns the total bytes relocated. Start addresses of allocated
// regions change; the owner index is rebuilt so Release stays valid, but any
// raw address held outside the allocator is stale after this call.
func (mm *MemoryManager) Compact() uint64 {
	var moved uint64
	var cursor uint64
	compacted := make([]*Region, 0, len(mm.regions))

	for _, r := range mm.regions {
		if !r.Allocated {
			continue
		}
		if r.Start != cursor {
			moved += r.Size
			r.Start = cursor
		}
		cursor += r.Size
		compacted = append(compacted, r)
	}

	if cursor < mm.totalMemory {
		compacted = append(compacted, &Region{Start: cursor, Size: mm.totalMemory - cursor})
	}
	mm.regions = compacted

	mm.ownerRegions = make(map[uint32][]uint64)
	for _, r := range mm.regions {
		if r.Allocated {
			mm.ownerRegions[r.OwnerID] = append(mm.ownerRegions[r.OwnerID], r.Start)
		}
	}

	if moved > 0 {
		logrus.Debugf("compact: relocated %d bytes into %d regions", moved, len(compacted))
	}
	return moved
}

// Reset discards all regions and reinitializes to one free region spanning
// total memory.
func (mm *MemoryManager) Reset() {
	mm.initialize()
}

// Snapshot returns a copy of the current region list for inspection.
func (mm *MemoryManager) Snapshot() []Region {
	out := make([]Region, len(mm.regions))
	for i, r := range mm.regions {
		out[i] = *r
	}
	return out
}
