package sim

// MemoryConfig groups allocator construction parameters.
type MemoryConfig struct {
	TotalMemory uint64   // total simulated memory in bytes (must be > 0)
	PageSize    uint64   // split granularity in bytes (must be > 0, default 4096)
	Strategy    Strategy // fit strategy (default first-fit)
}

// SchedulerConfig groups scheduler construction parameters.
type SchedulerConfig struct {
	Policy    string // "round-robin" (default), "priority", "sjf"
	TimeSlice int64  // quantum in time units (must be > 0, default 10)
}

// LoopConfig groups the discrete-time loop parameters.
type LoopConfig struct {
	Horizon          int64   // simulated time at which the loop exits
	TickSize         int64   // fixed time advance per tick (default 10)
	CompactEvery     int64   // compaction period in time units (default 1000)
	IOLatency        int64   // delay before a blocked process's I/O completes (default 30)
	BlockProbability float64 // per-slice chance an incomplete process blocks on I/O; 0 disables blocking
}

// Config is the full engine configuration.
type Config struct {
	Seed     int64
	Memory   MemoryConfig
	Sched    SchedulerConfig
	Loop     LoopConfig
	Workload WorkloadSpec
}

// Loop parameter defaults.
const (
	DefaultTickSize         = 10
	DefaultCompactEvery     = 1000
	DefaultIOLatency        = 30
	DefaultBlockProbability = 0.1
)

// withDefaults fills zero-valued loop parameters. BlockProbability is left
// alone: zero is a meaningful setting (never block), and the CLI applies
// DefaultBlockProbability through its flag default.
func (lc LoopConfig) withDefaults() LoopConfig {
	if lc.TickSize == 0 {
		lc.TickSize = DefaultTickSize
	}
	if lc.CompactEvery == 0 {
		lc.CompactEvery = DefaultCompactEvery
	}
	if lc.IOLatency == 0 {
		lc.IOLatency = DefaultIOLatency
	}
	return lc
}
