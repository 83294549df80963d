package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkloadSpec_Validate(t *testing.T) {
	valid := WorkloadSpec{
		Processes: 10, ArrivalMin: 0, ArrivalMax: 100,
		BurstMin: 10, BurstMax: 50, MemoryMin: 1024, MemoryMax: 4096,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*WorkloadSpec)
	}{
		{"zero processes", func(w *WorkloadSpec) { w.Processes = 0 }},
		{"inverted arrival", func(w *WorkloadSpec) { w.ArrivalMin = 200 }},
		{"zero burst min", func(w *WorkloadSpec) { w.BurstMin = 0 }},
		{"inverted burst", func(w *WorkloadSpec) { w.BurstMin = 100 }},
		{"zero memory min", func(w *WorkloadSpec) { w.MemoryMin = 0 }},
		{"inverted memory", func(w *WorkloadSpec) { w.MemoryMin = 8192 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := valid
			tt.mutate(&w)
			assert.Error(t, w.Validate())
		})
	}
}

func TestWorkloadSpec_Generate_Deterministic(t *testing.T) {
	// Two generations with the same seed produce identical process sets.
	spec := DefaultWorkloadSpec(20, 512*1024*1024)

	run := func() []*Process {
		table := NewProcessTable()
		mm, err := NewMemoryManager(512*1024*1024, DefaultPageSize, FirstFit)
		require.NoError(t, err)
		rng := NewPartitionedRNG(42).ForSubsystem(SubsystemWorkload)
		spec.Generate(table, mm, rng)
		return table.All()
	}

	first, second := run(), run()
	require.Len(t, first, 20)
	require.Len(t, second, 20)
	for i := range first {
		assert.Equal(t, first[i].ArrivalTime, second[i].ArrivalTime, "process %d arrival", i)
		assert.Equal(t, first[i].BurstTime, second[i].BurstTime, "process %d burst", i)
		assert.Equal(t, first[i].MemoryRequired, second[i].MemoryRequired, "process %d memory", i)
		assert.Equal(t, first[i].Priority, second[i].Priority, "process %d priority", i)
	}
}

func TestWorkloadSpec_Generate_StagesReadyWithMemory(t *testing.T) {
	spec := WorkloadSpec{
		Processes: 5, ArrivalMin: 0, ArrivalMax: 100,
		BurstMin: 10, BurstMax: 50, MemoryMin: 100, MemoryMax: 100,
	}
	table := NewProcessTable()
	mm, err := NewMemoryManager(1000, 100, FirstFit)
	require.NoError(t, err)
	rng := NewPartitionedRNG(1).ForSubsystem(SubsystemWorkload)

	failures := spec.Generate(table, mm, rng)

	assert.Equal(t, 0, failures)
	for _, p := range table.All() {
		assert.Equal(t, StateReady, p.State)
		assert.GreaterOrEqual(t, p.ArrivalTime, int64(0))
		assert.LessOrEqual(t, p.ArrivalTime, int64(100))
		assert.GreaterOrEqual(t, p.BurstTime, int64(10))
		assert.LessOrEqual(t, p.BurstTime, int64(50))
	}
	assert.Equal(t, uint64(500), mm.AllocatedMemory())
}

func TestWorkloadSpec_Generate_AllocationFailureLeavesProcessNew(t *testing.T) {
	// 3 processes of 400 bytes into 1000 bytes: the third fails and stays
	// NEW without backing memory; the run continues.
	spec := WorkloadSpec{
		Processes: 3, ArrivalMin: 0, ArrivalMax: 0,
		BurstMin: 10, BurstMax: 10, MemoryMin: 400, MemoryMax: 400,
	}
	table := NewProcessTable()
	mm, err := NewMemoryManager(1000, 100, FirstFit)
	require.NoError(t, err)
	rng := NewPartitionedRNG(1).ForSubsystem(SubsystemWorkload)

	failures := spec.Generate(table, mm, rng)

	assert.Equal(t, 1, failures)
	assert.Equal(t, 3, table.Count())
	third := table.Get(3)
	assert.Equal(t, StateNew, third.State)
	assert.Equal(t, uint64(0), third.Address)
}
