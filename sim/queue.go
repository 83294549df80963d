// Implements the ReadyQueue, which holds all processes awaiting CPU
// selection. Processes are enqueued on admission.

package sim

import (
	"fmt"
	"strings"
)

// ReadyQueue is a FIFO queue of processes waiting to be selected for
// execution. The configured scheduling policy may reorder it at admission
// time; selection always removes the head.
type ReadyQueue struct {
	queue []*Process
}

// Enqueue adds a process to the back of the ready queue.
func (rq *ReadyQueue) Enqueue(p *Process) {
	rq.queue = append(rq.queue, p)
}

// Dequeue removes and returns the process at the front of the queue.
// Returns nil if the queue is empty.
func (rq *ReadyQueue) Dequeue() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	head := rq.queue[0]
	rq.queue = rq.queue[1:]
	return head
}

// Peek returns the process at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (rq *ReadyQueue) Peek() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	return rq.queue[0]
}

// Len returns the number of processes in the queue.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

// Contains reports whether p is currently queued.
func (rq *ReadyQueue) Contains(p *Process) bool {
	for _, q := range rq.queue {
		if q == p {
			return true
		}
	}
	return false
}

// Remove splices a specific process out of the queue, preserving the order
// of the rest. Returns whether it was present. This is a linear scan; the
// cost is proportional to queue length.
func (rq *ReadyQueue) Remove(p *Process) bool {
	for i, q := range rq.queue {
		if q == p {
			rq.queue = append(rq.queue[:i], rq.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Reorder applies fn to the queue contents, allowing in-place reordering.
// fn receives the underlying slice and may sort it in place.
// fn MUST NOT change the slice length (no append/delete).
func (rq *ReadyQueue) Reorder(fn func([]*Process)) {
	if fn == nil {
		panic("Reorder: fn must not be nil")
	}
	n := len(rq.queue)
	fn(rq.queue)
	if len(rq.queue) != n {
		panic(fmt.Sprintf("Reorder: fn changed queue length from %d to %d", n, len(rq.queue)))
	}
}

// Drain removes and returns all queued processes in order.
func (rq *ReadyQueue) Drain() []*Process {
	drained := rq.queue
	rq.queue = nil
	return drained
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range rq.queue {
		sb.WriteString(fmt.Sprint(p.PID))
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
