// sim/interrupt.go
//
// Models asynchronous hardware/software events as a timestamp-ordered queue
// with a fixed, deterministic handling cost per interrupt kind. Ties on
// timestamp are broken by insertion order so draining is fully deterministic.

package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"
)

// InterruptKind classifies an interrupt event.
type InterruptKind string

const (
	InterruptTimer         InterruptKind = "timer"
	InterruptIOCompletion  InterruptKind = "io-completion"
	InterruptSystemCall    InterruptKind = "system-call"
	InterruptHardwareFault InterruptKind = "hardware-fault"
)

// Fixed handling overheads per interrupt kind, in simulated time units.
const (
	timerOverhead         int64 = 1
	ioOverhead            int64 = 3
	systemCallOverhead    int64 = 5
	hardwareFaultOverhead int64 = 10

	// hardwareSwitchOverhead is the fixed cost of a hardware-level context
	// switch, on top of the scheduler's own bookkeeping cost.
	hardwareSwitchOverhead int64 = 2
)

// handlingOverhead returns the fixed cost of handling one interrupt.
func handlingOverhead(kind InterruptKind) int64 {
	switch kind {
	case InterruptTimer:
		return timerOverhead
	case InterruptIOCompletion:
		return ioOverhead
	case InterruptSystemCall:
		return systemCallOverhead
	case InterruptHardwareFault:
		return hardwareFaultOverhead
	default:
		return 0
	}
}

// Interrupt is a single pending or handled interrupt event.
type Interrupt struct {
	Timestamp   int64
	Kind        InterruptKind
	SourceID    uint32 // PID or device ID that raised the event
	Description string

	seq uint64 // insertion sequence, breaks timestamp ties FIFO
}

func (iv Interrupt) String() string {
	return fmt.Sprintf("Interrupt: (kind: %s, source: %d, ts: %d, %q)",
		iv.Kind, iv.SourceID, iv.Timestamp, iv.Description)
}

// interruptHeap implements heap.Interface with deterministic ordering:
// timestamp first, then insertion sequence.
type interruptHeap []Interrupt

func (h interruptHeap) Len() int { return len(h) }

func (h interruptHeap) Less(i, j int) bool {
	if h[i].Timestamp != h[j].Timestamp {
		return h[i].Timestamp < h[j].Timestamp
	}
	return h[i].seq < h[j].seq
}

func (h interruptHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *interruptHeap) Push(x any) {
	*h = append(*h, x.(Interrupt))
}

func (h *interruptHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// InterruptController holds pending interrupts and an append-only history of
// handled ones, accumulating the fixed handling overhead of each.
//
// Not safe for concurrent use.
type InterruptController struct {
	pending       interruptHeap
	history       []Interrupt
	totalOverhead int64
	nextSeq       uint64

	// onHandled, when set, observes every handled interrupt during Drain.
	// The simulation loop uses it for I/O completion wakeups.
	onHandled func(Interrupt)
}

// NewInterruptController creates a controller with no pending interrupts.
func NewInterruptController() *InterruptController {
	return &InterruptController{}
}

// OnHandled registers a callback invoked for every interrupt as it is
// handled by Drain and the convenience raisers.
func (ic *InterruptController) OnHandled(fn func(Interrupt)) {
	ic.onHandled = fn
}

// Raise inserts an interrupt into the pending queue.
func (ic *InterruptController) Raise(kind InterruptKind, sourceID uint32, timestamp int64, description string) {
	iv := Interrupt{
		Timestamp:   timestamp,
		Kind:        kind,
		SourceID:    sourceID,
		Description: description,
		seq:         ic.nextSeq,
	}
	ic.nextSeq++
	heap.Push(&ic.pending, iv)
}

// Drain handles every pending interrupt whose timestamp is at or before
// currentTime, in nondecreasing timestamp order (FIFO within a timestamp),
// moving each into history and accumulating its overhead. Returns the number
// of interrupts handled.
func (ic *InterruptController) Drain(currentTime int64) int {
	handled := 0
	for len(ic.pending) > 0 && ic.pending[0].Timestamp <= currentTime {
		iv := heap.Pop(&ic.pending).(Interrupt)
		ic.handle(iv)
		handled++
	}
	return handled
}

func (ic *InterruptController) handle(iv Interrupt) {
	overhead := handlingOverhead(iv.Kind)
	ic.totalOverhead += overhead
	ic.history = append(ic.history, iv)
	logrus.Debugf("[tick %07d] handled %s interrupt from %d (+%d overhead)",
		iv.Timestamp, iv.Kind, iv.SourceID, overhead)
	if ic.onHandled != nil {
		ic.onHandled(iv)
	}
}

// SimulateTimerInterrupt raises and immediately handles a timer interrupt
// for the current process (0 when idle), returning the handling overhead.
func (ic *InterruptController) SimulateTimerInterrupt(current *Process, timestamp int64) int64 {
	var pid uint32
	if current != nil {
		pid = current.PID
	}
	ic.Raise(InterruptTimer, pid, timestamp, "timer slice expired")
	ic.Drain(timestamp)
	return timerOverhead
}

// SimulateIOInterrupt raises and immediately handles an I/O completion
// interrupt. The boolean is a proxy for overhead > 0 and is always true.
func (ic *InterruptController) SimulateIOInterrupt(pid uint32, timestamp int64) bool {
	ic.Raise(InterruptIOCompletion, pid, timestamp, "I/O operation completed")
	ic.Drain(timestamp)
	return ioOverhead > 0
}

// SimulateSystemCall raises and immediately handles a system call interrupt,
// returning the handling overhead.
func (ic *InterruptController) SimulateSystemCall(pid uint32, callType string, timestamp int64) int64 {
	ic.Raise(InterruptSystemCall, pid, timestamp, "system call: "+callType)
	ic.Drain(timestamp)
	return systemCallOverhead
}

// SimulateHardwareFault raises and immediately handles a hardware fault.
// The boolean is a proxy for overhead > 0 and is always true.
func (ic *InterruptController) SimulateHardwareFault(description string, timestamp int64) bool {
	ic.Raise(InterruptHardwareFault, 0, timestamp, description)
	ic.Drain(timestamp)
	return hardwareFaultOverhead > 0
}

// HardwareContextSwitch accounts the fixed hardware-level cost of switching
// between two processes, performing the placeholder address translation per
// non-nil process. Returns the overhead.
func (ic *InterruptController) HardwareContextSwitch(from, to *Process, timestamp int64) int64 {
	if from != nil {
		translateAddress(from.PID, 0) // flush TLB
	}
	if to != nil {
		translateAddress(to.PID, 0) // load page tables
	}
	ic.totalOverhead += hardwareSwitchOverhead
	return hardwareSwitchOverhead
}

// translateAddress is a placeholder MMU transform. A real MMU would walk
// page tables and consult a TLB; the simulation only needs a deterministic
// arithmetic stand-in.
func translateAddress(pid uint32, virtualAddress uint64) uint64 {
	return virtualAddress + uint64(pid)*0x1000
}

// Pending returns the number of interrupts not yet handled.
func (ic *InterruptController) Pending() int {
	return len(ic.pending)
}

// History returns the handled interrupts in handling order.
func (ic *InterruptController) History() []Interrupt {
	return ic.history
}

// TotalOverhead returns the accumulated handling cost in time units.
func (ic *InterruptController) TotalOverhead() int64 {
	return ic.totalOverhead
}

// Reset clears the pending queue, the history, and the accumulated overhead.
func (ic *InterruptController) Reset() {
	ic.pending = nil
	ic.history = nil
	ic.totalOverhead = 0
	ic.nextSeq = 0
}
