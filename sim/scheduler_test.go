package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T, policyName string) *Scheduler {
	t.Helper()
	policy, err := NewPolicy(policyName)
	require.NoError(t, err)
	sched, err := NewScheduler(policy, DefaultTimeSlice)
	require.NoError(t, err)
	return sched
}

func newReadyProcess(pid uint32) *Process {
	p, _ := NewProcess(pid, 0, 100, 1024, PriorityMedium)
	return p
}

func TestNewScheduler_ZeroTimeSlice(t *testing.T) {
	_, err := NewScheduler(&RoundRobinPolicy{}, 0)
	assert.Error(t, err)
}

func TestScheduler_FIFOSelection(t *testing.T) {
	// GIVEN processes A, B, C admitted in that order under round-robin
	sched := newTestScheduler(t, "round-robin")
	a, b, c := newReadyProcess(1), newReadyProcess(2), newReadyProcess(3)
	sched.Admit(a, 0)
	sched.Admit(b, 0)
	sched.Admit(c, 0)

	// WHEN selecting three times
	// THEN they come back in admission order
	assert.Same(t, a, sched.SelectNext(10))
	assert.Same(t, b, sched.SelectNext(20))
	assert.Same(t, c, sched.SelectNext(30))
	assert.Nil(t, sched.SelectNext(40), "empty queue returns nil, not an error")
}

func TestScheduler_Admit_TransitionsAndLogs(t *testing.T) {
	sched := newTestScheduler(t, "round-robin")
	p := newReadyProcess(1)
	require.Equal(t, StateNew, p.State)

	sched.Admit(p, 5)

	assert.Equal(t, StateReady, p.State)
	require.Len(t, sched.History(), 1)
	ev := sched.History()[0]
	assert.Equal(t, int64(5), ev.Timestamp)
	assert.Equal(t, StateNew, ev.OldState)
	assert.Equal(t, StateReady, ev.NewState)
}

func TestScheduler_Admit_Idempotent(t *testing.T) {
	// Re-admitting a queued process must not duplicate it.
	sched := newTestScheduler(t, "round-robin")
	p := newReadyProcess(1)
	sched.Admit(p, 0)
	sched.Admit(p, 10)

	assert.Equal(t, 1, sched.QueueLen())
}

func TestScheduler_PriorityPolicyReordersAtAdmission(t *testing.T) {
	sched := newTestScheduler(t, "priority")
	low, _ := NewProcess(1, 0, 100, 1024, PriorityLow)
	crit, _ := NewProcess(2, 0, 100, 1024, PriorityCritical)
	sched.Admit(low, 0)
	sched.Admit(crit, 0)

	assert.Same(t, crit, sched.SelectNext(0), "critical priority selected first")
	assert.Same(t, low, sched.SelectNext(0))
}

func TestScheduler_SelectNext_TransitionsToRunning(t *testing.T) {
	sched := newTestScheduler(t, "round-robin")
	p := newReadyProcess(1)
	sched.Admit(p, 0)

	got := sched.SelectNext(10)

	require.Same(t, p, got)
	assert.Equal(t, StateRunning, p.State)
	last := sched.History()[len(sched.History())-1]
	assert.Equal(t, StateReady, last.OldState)
	assert.Equal(t, StateRunning, last.NewState)
}

func TestScheduler_Withdraw(t *testing.T) {
	sched := newTestScheduler(t, "round-robin")
	a, b := newReadyProcess(1), newReadyProcess(2)
	sched.Admit(a, 0)
	sched.Admit(b, 0)

	assert.True(t, sched.Withdraw(a, 5))
	assert.Equal(t, StateTerminated, a.State)
	assert.Equal(t, 1, sched.QueueLen())

	assert.False(t, sched.Withdraw(a, 6), "already withdrawn")
	assert.False(t, sched.Withdraw(nil, 6))
}

func TestScheduler_ContextSwitch(t *testing.T) {
	sched := newTestScheduler(t, "round-robin")
	from := newReadyProcess(1)
	from.State = StateRunning
	to := newReadyProcess(2)
	to.State = StateReady

	overhead := sched.ContextSwitch(from, to, 100)

	assert.Equal(t, int64(1), overhead, "fixed 1 time unit")
	assert.Equal(t, StateReady, from.State)
	assert.Equal(t, StateRunning, to.State)
	assert.Equal(t, int64(1), sched.ContextSwitchCount())

	// from logged at the switch timestamp, to at timestamp+overhead
	history := sched.History()
	require.Len(t, history, 2)
	assert.Equal(t, int64(100), history[0].Timestamp)
	assert.Equal(t, int64(101), history[1].Timestamp)

	// nil endpoints still count as a switch
	sched.ContextSwitch(nil, nil, 200)
	assert.Equal(t, int64(2), sched.ContextSwitchCount())
}

func TestScheduler_DrainAll(t *testing.T) {
	sched := newTestScheduler(t, "round-robin")
	a, b := newReadyProcess(1), newReadyProcess(2)
	sched.Admit(a, 0)
	sched.Admit(b, 0)

	sched.DrainAll(50)

	assert.Equal(t, 0, sched.QueueLen())
	assert.Equal(t, StateTerminated, a.State)
	assert.Equal(t, StateTerminated, b.State)
}

func TestScheduler_Reset(t *testing.T) {
	sched := newTestScheduler(t, "round-robin")
	sched.Admit(newReadyProcess(1), 0)
	sched.ContextSwitch(nil, nil, 0)

	sched.Reset()

	assert.Equal(t, 0, sched.QueueLen())
	assert.Empty(t, sched.History())
	assert.Equal(t, int64(0), sched.ContextSwitchCount())
}
