package sim

import "time"

// Stopwatch measures wall-clock time around a simulation run. Simulated time
// lives in the engine; this only reports how long the host took.
type Stopwatch struct {
	start   time.Time
	end     time.Time
	running bool
}

// NewStopwatch returns a stopped stopwatch.
func NewStopwatch() *Stopwatch {
	sw := &Stopwatch{}
	sw.Reset()
	return sw
}

// Start begins timing. Starting a running stopwatch is a no-op.
func (sw *Stopwatch) Start() {
	if !sw.running {
		sw.start = time.Now()
		sw.running = true
	}
}

// Stop ends timing. Stopping a stopped stopwatch is a no-op.
func (sw *Stopwatch) Stop() {
	if sw.running {
		sw.end = time.Now()
		sw.running = false
	}
}

// Reset stops the stopwatch and zeroes the elapsed time.
func (sw *Stopwatch) Reset() {
	sw.start = time.Now()
	sw.end = sw.start
	sw.running = false
}

// Elapsed returns the measured duration, live while running.
func (sw *Stopwatch) Elapsed() time.Duration {
	end := sw.end
	if sw.running {
		end = time.Now()
	}
	return end.Sub(sw.start)
}

// Running reports whether the stopwatch is timing.
func (sw *Stopwatch) Running() bool {
	return sw.running
}
