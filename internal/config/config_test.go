package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/classyard/timetable-engine/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, 100, cfg.PopulationSize)
	require.Equal(t, 500, cfg.MaxGenerations)
	require.Nil(t, cfg.Seed)
}

func TestLoad_SeedOnlySetWhenProvided(t *testing.T) {
	v := viper.New()
	v.Set("seed", int64(777))
	cfg, err := config.Load(v, "")
	require.NoError(t, err)
	require.NotNil(t, cfg.Seed)
	require.Equal(t, int64(777), *cfg.Seed)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TIMETABLE_POPULATION_SIZE", "42")
	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, 42, cfg.PopulationSize)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := config.Defaults()
	cfg.PopulationSize = 0
	require.Error(t, cfg.Validate())

	cfg = config.Defaults()
	cfg.EliteCount = cfg.PopulationSize
	require.Error(t, cfg.Validate())

	cfg = config.Defaults()
	cfg.TournamentSize = 1
	require.Error(t, cfg.Validate())

	cfg = config.Defaults()
	cfg.CrossoverProb = 1.5
	require.Error(t, cfg.Validate())
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	require.NoError(t, config.Defaults().Validate())
}
