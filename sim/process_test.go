package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcess_Validation(t *testing.T) {
	tests := []struct {
		name    string
		burst   int64
		memory  uint64
		wantErr bool
	}{
		{"valid", 100, 1024, false},
		{"zero burst", 0, 1024, true},
		{"zero memory", 100, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProcess(1, 0, tt.burst, tt.memory, PriorityMedium)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, p)
			} else {
				require.NoError(t, err)
				assert.Equal(t, StateNew, p.State)
				assert.Equal(t, tt.burst, p.RemainingTime)
			}
		})
	}
}

func TestProcess_SetName(t *testing.T) {
	p, _ := NewProcess(3, 0, 100, 1024, PriorityMedium)
	assert.Equal(t, "process_3", p.Name, "default name derives from PID")

	require.NoError(t, p.SetName("init"))
	assert.Equal(t, "init", p.Name)

	assert.Error(t, p.SetName(""), "empty name rejected")
	assert.Equal(t, "init", p.Name)
}

func TestProcess_Execute(t *testing.T) {
	p, _ := NewProcess(1, 0, 100, 1024, PriorityMedium)

	_, err := p.Execute(10)
	assert.Error(t, err, "must be running to execute")

	p.State = StateRunning
	done, err := p.Execute(40)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, int64(60), p.RemainingTime)

	done, err = p.Execute(60)
	require.NoError(t, err)
	assert.True(t, done, "exact remaining completes")
	assert.Equal(t, int64(0), p.RemainingTime)
	assert.Equal(t, StateTerminated, p.State)
	assert.True(t, p.Completed())
}

func TestProcess_TurnaroundAndWaiting(t *testing.T) {
	p, _ := NewProcess(1, 100, 50, 1024, PriorityMedium)

	assert.Equal(t, int64(0), p.TurnaroundTime(), "incomplete process has no turnaround")
	assert.Equal(t, int64(0), p.WaitingTime())

	p.CompletionTime = 400
	assert.Equal(t, int64(300), p.TurnaroundTime())
	assert.Equal(t, int64(250), p.WaitingTime())
}

func TestProcess_ExecutionHistory(t *testing.T) {
	p, _ := NewProcess(1, 0, 100, 1024, PriorityMedium)
	p.RecordExecution(10)
	p.RecordExecution(20)
	assert.Equal(t, []int64{10, 20}, p.ExecutionHistory())
}

func TestProcessTable_CreateAndLookup(t *testing.T) {
	pt := NewProcessTable()

	p1 := pt.CreateProcess(0, 100, 1024, PriorityMedium)
	p2 := pt.CreateProcess(10, 200, 2048, PriorityHigh)
	require.NotNil(t, p1)
	require.NotNil(t, p2)
	assert.Equal(t, uint32(1), p1.PID, "PIDs start at 1")
	assert.Equal(t, uint32(2), p2.PID)

	assert.Same(t, p1, pt.Get(1))
	assert.Nil(t, pt.Get(99))
	assert.Equal(t, 2, pt.Count())
}

func TestProcessTable_CreateProcess_InvalidReturnsNil(t *testing.T) {
	pt := NewProcessTable()

	assert.Nil(t, pt.CreateProcess(0, 0, 1024, PriorityMedium), "zero burst")
	assert.Nil(t, pt.CreateProcess(0, 100, 0, PriorityMedium), "zero memory")
	assert.Equal(t, 0, pt.Count())

	p := pt.CreateProcess(0, 100, 1024, PriorityMedium)
	require.NotNil(t, p)
	assert.Equal(t, uint32(1), p.PID, "failed creations do not consume PIDs")
}

func TestProcessTable_ByStateAndCompletedCount(t *testing.T) {
	pt := NewProcessTable()
	a := pt.CreateProcess(0, 100, 1024, PriorityMedium)
	b := pt.CreateProcess(0, 100, 1024, PriorityMedium)
	c := pt.CreateProcess(0, 100, 1024, PriorityMedium)
	a.State = StateReady
	b.State = StateTerminated
	c.State = StateReady

	ready := pt.ByState(StateReady)
	assert.Len(t, ready, 2)
	assert.Equal(t, 1, pt.CompletedCount())
	assert.Empty(t, pt.ByState(StateBlocked))
}

func TestProcessTable_CleanupTerminated(t *testing.T) {
	pt := NewProcessTable()
	a := pt.CreateProcess(0, 100, 1024, PriorityMedium)
	b := pt.CreateProcess(0, 100, 1024, PriorityMedium)
	a.State = StateTerminated

	removed := pt.CleanupTerminated()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, pt.Count())
	assert.Nil(t, pt.Get(a.PID))
	assert.Same(t, b, pt.Get(b.PID))
}

func TestProcessTable_Reset(t *testing.T) {
	pt := NewProcessTable()
	pt.CreateProcess(0, 100, 1024, PriorityMedium)

	pt.Reset()

	assert.Equal(t, 0, pt.Count())
	p := pt.CreateProcess(0, 100, 1024, PriorityMedium)
	assert.Equal(t, uint32(1), p.PID, "PID assignment restarts at 1")
}
