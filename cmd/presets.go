package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/kernel-sim/kernel-sim/sim"
)

// defaultPresetsFilePath is where the workload presets live unless
// overridden by --presets-file.
const defaultPresetsFilePath = "defaults.yaml"

// PresetsConfig represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict
// parsing, so a typo in a preset file is an error rather than silence.
type PresetsConfig struct {
	Version   string                      `yaml:"version"`
	Workloads map[string]sim.WorkloadSpec `yaml:"workloads"`
}

// LoadPreset reads the presets file and returns the named workload spec.
func LoadPreset(path, name string) (sim.WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.WorkloadSpec{}, fmt.Errorf("read presets file: %w", err)
	}

	var cfg PresetsConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return sim.WorkloadSpec{}, fmt.Errorf("parse presets YAML: %w", err)
	}

	spec, ok := cfg.Workloads[name]
	if !ok {
		return sim.WorkloadSpec{}, fmt.Errorf("unknown workload preset %q", name)
	}
	if err := spec.Validate(); err != nil {
		return sim.WorkloadSpec{}, fmt.Errorf("preset %q: %w", name, err)
	}
	return spec, nil
}
