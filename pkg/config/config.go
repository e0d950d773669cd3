package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/limaJavier/lessonplanner/pkg/schedule"
	"github.com/mitchellh/mapstructure"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	envPrefix = "PLANNER_"
)

type Config struct {
	Env       string          `env:"ENV" envDefault:"development" mapstructure:"env"`
	Grid      GridConfig      `envPrefix:"GRID_" mapstructure:"grid"`
	Workload  WorkloadConfig  `envPrefix:"WORKLOAD_" mapstructure:"workload"`
	Optimizer OptimizerConfig `envPrefix:"OPTIMIZER_" mapstructure:"optimizer"`
	Log       LogConfig       `envPrefix:"LOG_" mapstructure:"log"`
}

// GridConfig holds the daily windows as "HH:MM" clocks
type GridConfig struct {
	UnitMinutes    int    `env:"UNIT_MINUTES" envDefault:"30" mapstructure:"unitMinutes"`
	BreakMinutes   int    `env:"BREAK_MINUTES" envDefault:"5" mapstructure:"breakMinutes"`
	MorningStart   string `env:"MORNING_START" envDefault:"08:30" mapstructure:"morningStart"`
	MorningEnd     string `env:"MORNING_END" envDefault:"12:00" mapstructure:"morningEnd"`
	AfternoonStart string `env:"AFTERNOON_START" envDefault:"14:00" mapstructure:"afternoonStart"`
	AfternoonEnd   string `env:"AFTERNOON_END" envDefault:"17:30" mapstructure:"afternoonEnd"`
	LunchStart     string `env:"LUNCH_START" envDefault:"12:00" mapstructure:"lunchStart"`
	LunchEnd       string `env:"LUNCH_END" envDefault:"14:00" mapstructure:"lunchEnd"`
}

type WorkloadConfig struct {
	MaxUnitsPerTeacher  int `env:"MAX_UNITS_PER_TEACHER" envDefault:"60" mapstructure:"maxUnitsPerTeacher"`
	MaxDifference       int `env:"MAX_DIFFERENCE" envDefault:"15" mapstructure:"maxDifference"`
	WarningThreshold    int `env:"WARNING_THRESHOLD" envDefault:"40" mapstructure:"warningThreshold"`
	LongPartMinutes     int `env:"LONG_PART_MINUTES" envDefault:"180" mapstructure:"longPartMinutes"`
	RandomSplitDuration int `env:"RANDOM_SPLIT_DURATION" envDefault:"240" mapstructure:"randomSplitDuration"`
}

type OptimizerConfig struct {
	Iterations int    `env:"ITERATIONS" envDefault:"10" mapstructure:"iterations"`
	Seed       uint64 `env:"SEED" envDefault:"0" mapstructure:"seed"` // 0 derives the seed from the clock
	Parallel   bool   `env:"PARALLEL" envDefault:"true" mapstructure:"parallel"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info" mapstructure:"level"`
	Format string `env:"FORMAT" envDefault:"console" mapstructure:"format"`
}

// Load reads an optional .env file, the PLANNER_ environment and finally an optional JSON file whose keys
// override the environment. Empty paths are skipped
func Load(dotenvPath, jsonPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot load %v: %w", dotenvPath, err)
		}
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// Only the first error keeps the log readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if jsonPath != "" {
		if err := overlay(cfg, jsonPath); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func overlay(cfg *Config, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("cannot read config file: %w", err)
	}

	var configJson map[string]any
	if err := json.Unmarshal(bytes, &configJson); err != nil {
		return fmt.Errorf("cannot parse config file %v: %w", jsonPath, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(configJson); err != nil {
		return fmt.Errorf("cannot decode config file %v: %w", jsonPath, err)
	}
	return nil
}

// Parameters converts the configuration into validated engine parameters
func (cfg *Config) Parameters() (schedule.Parameters, error) {
	params := schedule.Parameters{
		UnitMinutes:              cfg.Grid.UnitMinutes,
		BreakMinutes:             cfg.Grid.BreakMinutes,
		MaxUnitsPerTeacher:       cfg.Workload.MaxUnitsPerTeacher,
		MaxWorkloadDifference:    cfg.Workload.MaxDifference,
		WorkloadWarningThreshold: cfg.Workload.WarningThreshold,
		LongPartMinutes:          cfg.Workload.LongPartMinutes,
		SplitDuration:            cfg.Workload.RandomSplitDuration,
	}

	clocks := []struct {
		value  string
		target *int
	}{
		{cfg.Grid.MorningStart, &params.MorningStart},
		{cfg.Grid.MorningEnd, &params.MorningEnd},
		{cfg.Grid.AfternoonStart, &params.AfternoonStart},
		{cfg.Grid.AfternoonEnd, &params.AfternoonEnd},
		{cfg.Grid.LunchStart, &params.LunchStart},
		{cfg.Grid.LunchEnd, &params.LunchEnd},
	}
	for _, clock := range clocks {
		minutes, err := schedule.ParseClock(clock.value)
		if err != nil {
			return schedule.Parameters{}, fmt.Errorf("%w: %v", schedule.ErrInvalidParameters, err)
		}
		*clock.target = minutes
	}

	if err := params.Validate(); err != nil {
		return schedule.Parameters{}, err
	}
	return params, nil
}
