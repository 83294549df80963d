package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePresets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPreset_Valid(t *testing.T) {
	path := writePresets(t, `
version: "1.0"
workloads:
  interactive:
    processes: 50
    arrival_min: 0
    arrival_max: 2000
    burst_min: 5
    burst_max: 50
    memory_min: 1024
    memory_max: 65536
`)

	spec, err := LoadPreset(path, "interactive")

	require.NoError(t, err)
	assert.Equal(t, 50, spec.Processes)
	assert.Equal(t, int64(2000), spec.ArrivalMax)
	assert.Equal(t, uint64(65536), spec.MemoryMax)
}

func TestLoadPreset_UnknownName(t *testing.T) {
	path := writePresets(t, `
version: "1.0"
workloads: {}
`)

	_, err := LoadPreset(path, "batch")

	assert.ErrorContains(t, err, "unknown workload preset")
}

func TestLoadPreset_StrictParsingRejectsUnknownFields(t *testing.T) {
	path := writePresets(t, `
version: "1.0"
workloads:
  interactive:
    processes: 10
    burst_min: 5
    burst_max: 50
    memory_min: 1024
    memory_max: 4096
    burst_mean: 25
`)

	_, err := LoadPreset(path, "interactive")

	assert.Error(t, err, "unrecognized field must fail, not be ignored")
}

func TestLoadPreset_InvalidSpecRejected(t *testing.T) {
	path := writePresets(t, `
version: "1.0"
workloads:
  broken:
    processes: 10
    burst_min: 50
    burst_max: 5
    memory_min: 1024
    memory_max: 4096
`)

	_, err := LoadPreset(path, "broken")

	assert.ErrorContains(t, err, "burst range invalid")
}

func TestLoadPreset_MissingFile(t *testing.T) {
	_, err := LoadPreset(filepath.Join(t.TempDir(), "nope.yaml"), "interactive")

	assert.ErrorContains(t, err, "read presets file")
}

func TestShippedDefaultsParse(t *testing.T) {
	// The defaults.yaml checked in next to the binary must load cleanly for
	// every preset it declares.
	for _, name := range []string{"interactive", "batch", "memory-heavy"} {
		t.Run(name, func(t *testing.T) {
			spec, err := LoadPreset("defaults.yaml", name)
			require.NoError(t, err)
			assert.NoError(t, spec.Validate())
		})
	}
}
