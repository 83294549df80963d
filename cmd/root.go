package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/kernel-sim/kernel-sim/sim"
)

var (
	// CLI flags for engine configuration
	seed        int64  // Seed for random workload generation
	horizon     int64  // Total simulation time (in time units)
	logLevel    string // Log verbosity level
	totalMemory uint64 // Total simulated memory in bytes
	pageSize    uint64 // Allocation split granularity in bytes
	strategy    string // Memory allocation strategy
	policy      string // CPU scheduling policy
	timeSlice   int64  // Round-robin quantum (in time units)

	// CLI flags for the tick loop
	tickSize     int64   // Time advance per tick
	compactEvery int64   // Compaction period
	ioLatency    int64   // Delay before a blocked process's I/O completes
	blockProb    float64 // Per-slice chance an incomplete process blocks

	// CLI flags for workload generation
	numProcesses int    // Number of synthetic processes
	arrivalMin   int64  // Min arrival time
	arrivalMax   int64  // Max arrival time
	burstMin     int64  // Min burst time
	burstMax     int64  // Max burst time
	memoryMin    uint64 // Min memory requirement in bytes
	memoryMax    uint64 // Max memory requirement in bytes
	preset       string // Named workload preset from the presets file
	presetsFile  string // Path to the workload presets YAML
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "kernel-sim",
	Short: "Discrete-time simulator for OS scheduling and memory allocation",
}

// buildConfig assembles the engine configuration from CLI flags, applying a
// named workload preset when requested.
func buildConfig() (sim.Config, error) {
	workload := sim.WorkloadSpec{
		Processes:  numProcesses,
		ArrivalMin: arrivalMin,
		ArrivalMax: arrivalMax,
		BurstMin:   burstMin,
		BurstMax:   burstMax,
		MemoryMin:  memoryMin,
		MemoryMax:  memoryMax,
	}
	if memoryMax == 0 {
		workload.MemoryMax = totalMemory / 10
	}
	if preset != "" {
		loaded, err := LoadPreset(presetsFile, preset)
		if err != nil {
			return sim.Config{}, err
		}
		workload = loaded
	}

	if !sim.IsValidStrategy(strategy) {
		return sim.Config{}, fmt.Errorf("unknown allocation strategy %q", strategy)
	}
	if !sim.IsValidPolicy(policy) {
		return sim.Config{}, fmt.Errorf("unknown scheduling policy %q", policy)
	}

	return sim.Config{
		Seed: seed,
		Memory: sim.MemoryConfig{
			TotalMemory: totalMemory,
			PageSize:    pageSize,
			Strategy:    sim.Strategy(strategy),
		},
		Sched: sim.SchedulerConfig{
			Policy:    policy,
			TimeSlice: timeSlice,
		},
		Loop: sim.LoopConfig{
			Horizon:          horizon,
			TickSize:         tickSize,
			CompactEvery:     compactEvery,
			IOLatency:        ioLatency,
			BlockProbability: blockProb,
		},
		Workload: workload,
	}, nil
}

// runCmd executes a single simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one kernel simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := buildConfig()
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		logrus.Infof("Starting simulation with %d bytes memory, strategy=%s, policy=%s, horizon=%d",
			cfg.Memory.TotalMemory, cfg.Memory.Strategy, cfg.Sched.Policy, cfg.Loop.Horizon)

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Failed to construct simulator: %v", err)
		}

		sw := sim.NewStopwatch()
		sw.Start()
		s.Run()
		sw.Stop()

		fmt.Print(s.Metrics.Report(s.Memory, s.Sched, s.Interrupts, sw.Elapsed()))
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, cmd := range []*cobra.Command{runCmd, benchCmd} {
		cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random workload generation")
		cmd.Flags().Int64Var(&horizon, "horizon", 10000, "Total simulation horizon (in time units)")
		cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

		// Memory configuration
		cmd.Flags().Uint64Var(&totalMemory, "total-memory", 512*1024*1024, "Total simulated memory in bytes")
		cmd.Flags().Uint64Var(&pageSize, "page-size", sim.DefaultPageSize, "Allocation split granularity in bytes")

		// Loop configuration
		cmd.Flags().Int64Var(&tickSize, "tick", sim.DefaultTickSize, "Time advance per tick")
		cmd.Flags().Int64Var(&compactEvery, "compact-every", sim.DefaultCompactEvery, "Compaction period in time units")
		cmd.Flags().Int64Var(&ioLatency, "io-latency", sim.DefaultIOLatency, "Simulated I/O completion delay")
		cmd.Flags().Float64Var(&blockProb, "block-probability", sim.DefaultBlockProbability, "Per-slice chance an incomplete process blocks on I/O")

		// Workload generation
		cmd.Flags().IntVar(&numProcesses, "processes", 100, "Number of synthetic processes")
		cmd.Flags().Int64Var(&arrivalMin, "arrival-min", 0, "Min process arrival time")
		cmd.Flags().Int64Var(&arrivalMax, "arrival-max", 1000, "Max process arrival time")
		cmd.Flags().Int64Var(&burstMin, "burst-min", 10, "Min CPU burst time")
		cmd.Flags().Int64Var(&burstMax, "burst-max", 500, "Max CPU burst time")
		cmd.Flags().Uint64Var(&memoryMin, "memory-min", 1024, "Min process memory requirement in bytes")
		cmd.Flags().Uint64Var(&memoryMax, "memory-max", 0, "Max process memory requirement in bytes (0 = total/10)")
		cmd.Flags().StringVar(&preset, "workload", "", "Named workload preset from the presets file")
		cmd.Flags().StringVar(&presetsFile, "presets-file", defaultPresetsFilePath, "Path to the workload presets YAML")
	}

	// Single-run knobs; bench sweeps these itself
	runCmd.Flags().StringVar(&strategy, "strategy", string(sim.FirstFit), "Allocation strategy (first-fit, best-fit, worst-fit)")
	runCmd.Flags().StringVar(&policy, "policy", "round-robin", "Scheduling policy (round-robin, priority, sjf)")
	runCmd.Flags().Int64Var(&timeSlice, "time-slice", sim.DefaultTimeSlice, "Round-robin quantum in time units")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(benchCmd)
}
