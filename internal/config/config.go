package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"bpbench/internal/tabu"
)

const (
	defaultRuns       = 5
	defaultSeed0      = 0
	defaultTimeLimitS = 2.0
	defaultWorkers    = 1
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Runs       int
	Seed0      int64
	TimeLimitS float64
	Workers    int
	Tabu       TabuConfig
}

// TabuConfig holds the search parameters exposed to configuration.
type TabuConfig struct {
	MaxIters            int `yaml:"max_iters"`
	NeighborhoodSamples int `yaml:"neighborhood_samples"`
	Tenure              int `yaml:"tenure"`
	StagnationLimit     int `yaml:"stagnation_limit"`
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Runs       *int       `yaml:"runs"`
	Seed0      *int64     `yaml:"seed0"`
	TimeLimitS *float64   `yaml:"time_limit_s"`
	Workers    *int       `yaml:"workers"`
	Tabu       TabuConfig `yaml:"tabu"`
}

// CLIOverrides holds command-line flag overrides. Nil pointer fields mean the
// flag was not supplied.
type CLIOverrides struct {
	ConfigFile string
	Runs       *int
	Seed0      *int64
	TimeLimitS *float64
	Workers    *int
}

// Load resolves configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Params maps the configuration onto solver parameters, converting the
// time-limit seconds into a duration (0 disables the budget).
func (c Config) Params() tabu.Params {
	params := tabu.Params{
		MaxIters:            c.Tabu.MaxIters,
		NeighborhoodSamples: c.Tabu.NeighborhoodSamples,
		Tenure:              c.Tabu.Tenure,
		StagnationLimit:     c.Tabu.StagnationLimit,
	}
	if c.TimeLimitS > 0 {
		params.TimeLimit = time.Duration(c.TimeLimitS * float64(time.Second))
	}
	return params
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	defaults := tabu.DefaultParams()
	return Config{
		Runs:       defaultRuns,
		Seed0:      defaultSeed0,
		TimeLimitS: defaultTimeLimitS,
		Workers:    defaultWorkers,
		Tabu: TabuConfig{
			MaxIters:            defaults.MaxIters,
			NeighborhoodSamples: defaults.NeighborhoodSamples,
			Tenure:              defaults.Tenure,
			StagnationLimit:     defaults.StagnationLimit,
		},
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Runs != nil {
		cfg.Runs = *yamlCfg.Runs
	}
	if yamlCfg.Seed0 != nil {
		cfg.Seed0 = *yamlCfg.Seed0
	}
	if yamlCfg.TimeLimitS != nil {
		cfg.TimeLimitS = *yamlCfg.TimeLimitS
	}
	if yamlCfg.Workers != nil {
		cfg.Workers = *yamlCfg.Workers
	}
	if yamlCfg.Tabu.MaxIters > 0 {
		cfg.Tabu.MaxIters = yamlCfg.Tabu.MaxIters
	}
	if yamlCfg.Tabu.NeighborhoodSamples > 0 {
		cfg.Tabu.NeighborhoodSamples = yamlCfg.Tabu.NeighborhoodSamples
	}
	if yamlCfg.Tabu.Tenure > 0 {
		cfg.Tabu.Tenure = yamlCfg.Tabu.Tenure
	}
	if yamlCfg.Tabu.StagnationLimit > 0 {
		cfg.Tabu.StagnationLimit = yamlCfg.Tabu.StagnationLimit
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if runs := strings.TrimSpace(os.Getenv("BPBENCH_RUNS")); runs != "" {
		if value, err := strconv.Atoi(runs); err == nil && value > 0 {
			cfg.Runs = value
		}
	}
	if limit := strings.TrimSpace(os.Getenv("BPBENCH_TIME_LIMIT_S")); limit != "" {
		if value, err := strconv.ParseFloat(limit, 64); err == nil && value >= 0 {
			cfg.TimeLimitS = value
		}
	}
	if workers := strings.TrimSpace(os.Getenv("BPBENCH_WORKERS")); workers != "" {
		if value, err := strconv.Atoi(workers); err == nil && value > 0 {
			cfg.Workers = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Runs != nil && *overrides.Runs > 0 {
		cfg.Runs = *overrides.Runs
	}
	if overrides.Seed0 != nil {
		cfg.Seed0 = *overrides.Seed0
	}
	if overrides.TimeLimitS != nil && *overrides.TimeLimitS >= 0 {
		cfg.TimeLimitS = *overrides.TimeLimitS
	}
	if overrides.Workers != nil && *overrides.Workers > 0 {
		cfg.Workers = *overrides.Workers
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.Runs <= 0 {
		return fmt.Errorf("runs must be > 0 (got %d)", cfg.Runs)
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", cfg.Workers)
	}
	if cfg.TimeLimitS < 0 {
		return fmt.Errorf("time limit must be >= 0 (got %f)", cfg.TimeLimitS)
	}
	return cfg.Params().Validate()
}
