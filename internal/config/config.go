package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/limaJavier/tutorshifts/pkg/schedule"
	"github.com/limaJavier/tutorshifts/pkg/survey"
	"github.com/samber/lo"
)

// EnvPrefix prefixes the environment variables overriding file values, "__" separating sections
// (e.g. TUTORSHIFTS_SOLVER__TIME_LIMIT=30s).
const EnvPrefix = "TUTORSHIFTS_"

type Config struct {
	Columns  survey.ColumnConfig `koanf:"-"`
	Solver   SolverConfig        `koanf:"solver"`
	Schedule ScheduleConfig      `koanf:"schedule"`
	Log      LogConfig           `koanf:"log"`
}

type SolverConfig struct {
	// Backend names the SAT solver, see sat.Names.
	Backend string `koanf:"backend"`
	// Strategy is either "optimal" or "enumerate".
	Strategy string `koanf:"strategy"`
	// Limit bounds the number of schedules listed by the enumerate strategy.
	Limit int `koanf:"limit"`
	// TimeLimit is the wall-clock budget of a whole solve.
	TimeLimit time.Duration `koanf:"time_limit"`
	// Paths is the JSON file mapping external solvers to their binaries.
	Paths string `koanf:"paths"`
}

type ScheduleConfig struct {
	MaxTutorsPerSlot    int    `koanf:"max_tutors_per_slot"`
	EnforceMinimumHours bool   `koanf:"enforce_minimum_hours"`
	Objective           string `koanf:"objective"`
	LPBound             bool   `koanf:"lp_bound"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

const (
	StrategyOptimal   = "optimal"
	StrategyEnumerate = "enumerate"
)

func (c *SolverConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "gini"
	}
	if c.Strategy == "" {
		c.Strategy = StrategyOptimal
	}
	if c.Limit == 0 {
		c.Limit = schedule.DefaultEnumerationLimit
	}
	if c.TimeLimit == 0 {
		c.TimeLimit = 60 * time.Second
	}
	if c.Paths == "" {
		c.Paths = "solvers.json"
	}
}

func (c SolverConfig) Validate() error {
	if c.Strategy != StrategyOptimal && c.Strategy != StrategyEnumerate {
		return fmt.Errorf("unknown strategy %q: allowed values are %q and %q", c.Strategy, StrategyOptimal, StrategyEnumerate)
	}
	if c.Limit < 0 {
		return fmt.Errorf("solution limit must not be negative, got %d", c.Limit)
	}
	if c.TimeLimit < 0 {
		return fmt.Errorf("time limit must not be negative, got %v", c.TimeLimit)
	}
	return nil
}

func (c *ScheduleConfig) SetDefaults() {
	if c.MaxTutorsPerSlot == 0 {
		c.MaxTutorsPerSlot = schedule.DefaultMaxTutorsPerSlot
	}
	if c.Objective == "" {
		c.Objective = string(schedule.Lexicographic)
	}
}

func (c ScheduleConfig) Validate() error {
	if c.MaxTutorsPerSlot < 1 {
		return fmt.Errorf("max_tutors_per_slot must be at least 1, got %d", c.MaxTutorsPerSlot)
	}
	if !lo.Contains([]schedule.ObjectiveMode{schedule.Lexicographic, schedule.Weighted}, schedule.ObjectiveMode(c.Objective)) {
		return fmt.Errorf("unknown objective %q", c.Objective)
	}
	return nil
}

// Options converts the section into scheduling options
func (c ScheduleConfig) Options() schedule.Options {
	return schedule.Options{
		MaxTutorsPerSlot:    c.MaxTutorsPerSlot,
		EnforceMinimumHours: c.EnforceMinimumHours,
		Objective:           schedule.ObjectiveMode(c.Objective),
	}
}

func (c *LogConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

func (c *Config) SetDefaults() {
	c.Solver.SetDefaults()
	c.Schedule.SetDefaults()
	c.Log.SetDefaults()
}

// Validate checks every section. Column problems are reported as a *survey.ConfigError.
func (c Config) Validate() error {
	if err := c.Columns.Validate(); err != nil {
		return err
	}
	return errors.Join(c.Solver.Validate(), c.Schedule.Validate())
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// Load reads a YAML or JSON file, applies environment overrides, then defaults. An empty path loads the
// environment only. The result is not validated so that command-line flags can still override it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("cannot load %v: %w", path, err)
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("cannot decode configuration: %w", err)
	}
	columns, err := decodeColumns(k.Get("columns"))
	if err != nil {
		return nil, err
	}
	cfg.Columns = columns
	cfg.SetDefaults()
	return &cfg, nil
}
