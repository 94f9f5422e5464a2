// Package config defines EngineConfig and its layered loading via viper
// (flags > env > file > defaults).
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EngineConfig is every tunable the Engine Orchestrator reads. Zero values
// are never treated as "unset" for booleans (FullWeekRequired defaults to
// true, unlike most Go zero values), so Load always starts from Defaults()
// and layers viper's bound sources on top.
type EngineConfig struct {
	Seed             *int64        `mapstructure:"seed"`
	PopulationSize   int           `mapstructure:"population_size"`
	MaxGenerations   int           `mapstructure:"max_generations"`
	Patience         int           `mapstructure:"patience"`
	TimeBudget       time.Duration `mapstructure:"time_budget_seconds"`
	CrossoverProb    float64       `mapstructure:"crossover_prob"`
	MutationProb     float64       `mapstructure:"mutation_prob"`
	EliteCount       int           `mapstructure:"elite_count"`
	TournamentSize   int           `mapstructure:"tournament_size"`
	Workers          int           `mapstructure:"workers"`
	LNSPeriod        int           `mapstructure:"lns_period_generations"`
	LNSFraction      float64       `mapstructure:"lns_fraction"`
	FullWeekRequired bool          `mapstructure:"full_week_required"`
	OccupancyTarget  float64       `mapstructure:"occupancy_target"`

	WeightGaps    float64 `mapstructure:"w_gaps"`
	WeightFringe  float64 `mapstructure:"w_fringe"`
	WeightBalance float64 `mapstructure:"w_balance"`
	WeightDemand  float64 `mapstructure:"w_demand"`
	FringeWindow  int     `mapstructure:"fringe_window"`
}

// Defaults returns the engine's default configuration.
func Defaults() EngineConfig {
	workers := runtime.NumCPU()
	if workers > 4 {
		workers = 4
	}
	if workers < 1 {
		workers = 1
	}
	return EngineConfig{
		PopulationSize:   100,
		MaxGenerations:   500,
		Patience:         25,
		TimeBudget:       180 * time.Second,
		CrossoverProb:    0.85,
		MutationProb:     0.25,
		EliteCount:       4,
		TournamentSize:   3,
		Workers:          workers,
		LNSPeriod:        10,
		LNSFraction:      0.25,
		FullWeekRequired: true,
		OccupancyTarget:  1.0,
		WeightGaps:       10,
		WeightFringe:     5,
		WeightBalance:    3,
		WeightDemand:     15,
		FringeWindow:     2,
	}
}

// Load builds an EngineConfig by layering, from lowest to highest
// priority: Defaults(), an optional config file, environment variables
// prefixed TIMETABLE_, and whatever the caller has already bound into v
// (typically cobra flags bound with v.BindPFlag). This mirrors the
// flags > env > file > defaults precedence every viper-based repo in the
// retrieval pack uses.
func Load(v *viper.Viper, configFile string) (EngineConfig, error) {
	if v == nil {
		v = viper.New()
	}

	defaults := Defaults()
	v.SetDefault("population_size", defaults.PopulationSize)
	v.SetDefault("max_generations", defaults.MaxGenerations)
	v.SetDefault("patience", defaults.Patience)
	v.SetDefault("time_budget_seconds", int(defaults.TimeBudget.Seconds()))
	v.SetDefault("crossover_prob", defaults.CrossoverProb)
	v.SetDefault("mutation_prob", defaults.MutationProb)
	v.SetDefault("elite_count", defaults.EliteCount)
	v.SetDefault("tournament_size", defaults.TournamentSize)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("lns_period_generations", defaults.LNSPeriod)
	v.SetDefault("lns_fraction", defaults.LNSFraction)
	v.SetDefault("full_week_required", defaults.FullWeekRequired)
	v.SetDefault("occupancy_target", defaults.OccupancyTarget)
	v.SetDefault("w_gaps", defaults.WeightGaps)
	v.SetDefault("w_fringe", defaults.WeightFringe)
	v.SetDefault("w_balance", defaults.WeightBalance)
	v.SetDefault("w_demand", defaults.WeightDemand)
	v.SetDefault("fringe_window", defaults.FringeWindow)

	v.SetEnvPrefix("TIMETABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return EngineConfig{}, fmt.Errorf("config: reading %s: %w", configFile, err)
		}
	}

	cfg := EngineConfig{
		PopulationSize:   v.GetInt("population_size"),
		MaxGenerations:   v.GetInt("max_generations"),
		Patience:         v.GetInt("patience"),
		TimeBudget:       time.Duration(v.GetInt("time_budget_seconds")) * time.Second,
		CrossoverProb:    v.GetFloat64("crossover_prob"),
		MutationProb:     v.GetFloat64("mutation_prob"),
		EliteCount:       v.GetInt("elite_count"),
		TournamentSize:   v.GetInt("tournament_size"),
		Workers:          v.GetInt("workers"),
		LNSPeriod:        v.GetInt("lns_period_generations"),
		LNSFraction:      v.GetFloat64("lns_fraction"),
		FullWeekRequired: v.GetBool("full_week_required"),
		OccupancyTarget:  v.GetFloat64("occupancy_target"),
		WeightGaps:       v.GetFloat64("w_gaps"),
		WeightFringe:     v.GetFloat64("w_fringe"),
		WeightBalance:    v.GetFloat64("w_balance"),
		WeightDemand:     v.GetFloat64("w_demand"),
		FringeWindow:     v.GetInt("fringe_window"),
	}

	if v.IsSet("seed") {
		seed := v.GetInt64("seed")
		cfg.Seed = &seed
	}

	if err := cfg.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}

// Validate rejects out-of-range configuration values.
func (c EngineConfig) Validate() error {
	switch {
	case c.PopulationSize <= 0:
		return fmt.Errorf("config: population_size must be positive, got %d", c.PopulationSize)
	case c.MaxGenerations <= 0:
		return fmt.Errorf("config: max_generations must be positive, got %d", c.MaxGenerations)
	case c.Patience < 0:
		return fmt.Errorf("config: patience must be non-negative, got %d", c.Patience)
	case c.TimeBudget <= 0:
		return fmt.Errorf("config: time_budget_seconds must be positive, got %v", c.TimeBudget)
	case c.CrossoverProb < 0 || c.CrossoverProb > 1:
		return fmt.Errorf("config: crossover_prob must be in [0,1], got %v", c.CrossoverProb)
	case c.MutationProb < 0 || c.MutationProb > 1:
		return fmt.Errorf("config: mutation_prob must be in [0,1], got %v", c.MutationProb)
	case c.EliteCount < 0:
		return fmt.Errorf("config: elite_count must be non-negative, got %d", c.EliteCount)
	case c.TournamentSize < 2:
		return fmt.Errorf("config: tournament_size must be >= 2, got %d", c.TournamentSize)
	case c.EliteCount >= c.PopulationSize:
		return fmt.Errorf("config: elite_count (%d) must be less than population_size (%d)", c.EliteCount, c.PopulationSize)
	case c.TournamentSize > c.PopulationSize:
		return fmt.Errorf("config: tournament_size (%d) must be <= population_size (%d)", c.TournamentSize, c.PopulationSize)
	case c.Workers <= 0:
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	case c.LNSPeriod <= 0:
		return fmt.Errorf("config: lns_period_generations must be positive, got %d", c.LNSPeriod)
	case c.LNSFraction < 0 || c.LNSFraction > 1:
		return fmt.Errorf("config: lns_fraction must be in [0,1], got %v", c.LNSFraction)
	}
	return nil
}
