package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/kernel-sim/kernel-sim/sim"
)

// benchResult is one cell of the policy x strategy sweep.
type benchResult struct {
	RunID    string
	Policy   string
	Strategy sim.Strategy
	Metrics  sim.PerformanceMetrics
}

// benchCmd sweeps every scheduling policy against every allocation strategy
// with a fresh engine per combination and reports a comparison table.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare scheduling policies against allocation strategies",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		results := make([]benchResult, 0, len(sim.PolicyNames)*len(sim.Strategies))
		sw := sim.NewStopwatch()
		sw.Start()

		for _, policyName := range sim.PolicyNames {
			for _, strat := range sim.Strategies {
				cfg, err := buildConfig()
				if err != nil {
					logrus.Fatalf("Invalid configuration: %v", err)
				}
				cfg.Sched.Policy = policyName
				cfg.Memory.Strategy = strat

				s, err := sim.NewSimulator(cfg)
				if err != nil {
					logrus.Fatalf("Failed to construct simulator: %v", err)
				}

				runID := uuid.NewString()
				logrus.Infof("bench run %s: policy=%s strategy=%s", runID, policyName, strat)
				s.Run()

				results = append(results, benchResult{
					RunID:    runID,
					Policy:   policyName,
					Strategy: strat,
					Metrics:  s.Metrics.Snapshot(s.Memory, s.Sched, s.Interrupts),
				})
			}
		}
		sw.Stop()

		printBenchTable(results)
		fmt.Printf("\nBench completed in %s wall clock.\n", sw.Elapsed().Round(1e6))
	},
}

func printBenchTable(results []benchResult) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POLICY\tSTRATEGY\tTHROUGHPUT\tCPU%\tAVG TURNAROUND\tAVG WAITING\tSWITCHES\tFRAG%")
	best := -1
	for i, r := range results {
		m := r.Metrics
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.1f\t%.2f\t%.2f\t%d\t%.1f\n",
			r.Policy, r.Strategy, m.Throughput, m.CPUUtilization*100,
			m.AvgTurnaround, m.AvgWaiting, m.ContextSwitches, m.Fragmentation*100)
		if best < 0 || m.Throughput > results[best].Metrics.Throughput {
			best = i
		}
	}
	w.Flush()

	if best >= 0 {
		r := results[best]
		fmt.Printf("\nBest throughput: %.2f processes/1000tu with policy=%s strategy=%s (run %s)\n",
			r.Metrics.Throughput, r.Policy, r.Strategy, r.RunID)
	}
}
