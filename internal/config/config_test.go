package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func int64Ptr(v int64) *int64     { return &v }
func floatPtr(v float64) *float64 { return &v }

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	require.Equal(t, 5, cfg.Runs)
	require.Equal(t, int64(0), cfg.Seed0)
	require.Equal(t, 2.0, cfg.TimeLimitS)
	require.Equal(t, 1, cfg.Workers)
	require.Equal(t, 5000, cfg.Tabu.MaxIters)
	require.Equal(t, 200, cfg.Tabu.NeighborhoodSamples)
	require.Equal(t, 25, cfg.Tabu.Tenure)
	require.Equal(t, 600, cfg.Tabu.StagnationLimit)
}

func TestLoadFromYAML(t *testing.T) {
	path := writeConfigFile(t, `
runs: 10
seed0: 7
time_limit_s: 0.5
workers: 4
tabu:
  max_iters: 1000
  neighborhood_samples: 50
  tenure: 15
  stagnation_limit: 200
`)

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	require.NoError(t, err)
	require.Equal(t, 10, cfg.Runs)
	require.Equal(t, int64(7), cfg.Seed0)
	require.Equal(t, 0.5, cfg.TimeLimitS)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, 1000, cfg.Tabu.MaxIters)
	require.Equal(t, 50, cfg.Tabu.NeighborhoodSamples)
	require.Equal(t, 15, cfg.Tabu.Tenure)
	require.Equal(t, 200, cfg.Tabu.StagnationLimit)
}

func TestLoadPartialYAMLKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, "runs: 3\n")

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Runs)
	require.Equal(t, 2.0, cfg.TimeLimitS)
	require.Equal(t, 5000, cfg.Tabu.MaxIters)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BPBENCH_RUNS", "8")
	t.Setenv("BPBENCH_TIME_LIMIT_S", "1.5")
	t.Setenv("BPBENCH_WORKERS", "2")

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Runs)
	require.Equal(t, 1.5, cfg.TimeLimitS)
	require.Equal(t, 2, cfg.Workers)
}

func TestLoadIgnoresInvalidEnv(t *testing.T) {
	t.Setenv("BPBENCH_RUNS", "not-a-number")
	t.Setenv("BPBENCH_WORKERS", "-3")

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Runs)
	require.Equal(t, 1, cfg.Workers)
}

func TestLoadPrecedence(t *testing.T) {
	t.Setenv("BPBENCH_RUNS", "8")

	path := writeConfigFile(t, "runs: 10\nworkers: 4\n")
	overrides := &CLIOverrides{
		ConfigFile: path,
		Runs:       intPtr(20),
		Seed0:      int64Ptr(99),
		TimeLimitS: floatPtr(0),
	}

	cfg, err := Load(overrides)
	require.NoError(t, err)
	require.Equal(t, 20, cfg.Runs, "CLI beats YAML which beats env")
	require.Equal(t, 4, cfg.Workers, "YAML applies where CLI is silent")
	require.Equal(t, int64(99), cfg.Seed0)
	require.Equal(t, 0.0, cfg.TimeLimitS, "an explicit zero disables the time budget")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "ZeroRuns", content: "runs: 0\n"},
		{name: "NegativeTimeLimit", content: "time_limit_s: -1\n"},
		{name: "NegativeWorkers", content: "workers: -2\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfigFile(t, tc.content)
			_, err := Load(&CLIOverrides{ConfigFile: path})
			require.Error(t, err)
		})
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "runs: [broken\n")
	_, err := Load(&CLIOverrides{ConfigFile: path})
	require.Error(t, err)
}

func TestParamsMapping(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	params := cfg.Params()
	require.Equal(t, cfg.Tabu.MaxIters, params.MaxIters)
	require.Equal(t, cfg.Tabu.NeighborhoodSamples, params.NeighborhoodSamples)
	require.Equal(t, cfg.Tabu.Tenure, params.Tenure)
	require.Equal(t, cfg.Tabu.StagnationLimit, params.StagnationLimit)
	require.Equal(t, 2*time.Second, params.TimeLimit)

	cfg.TimeLimitS = 0
	require.Equal(t, time.Duration(0), cfg.Params().TimeLimit, "zero seconds disables the deadline")
}
