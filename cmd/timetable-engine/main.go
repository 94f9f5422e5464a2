// Command timetable-engine runs the scheduling engine standalone against a
// catalog file: a cobra root command with subcommands that share flags
// bound into one EngineConfig via viper.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/config"
	"github.com/classyard/timetable-engine/internal/engine"
	"github.com/classyard/timetable-engine/internal/feasibility"
	"github.com/classyard/timetable-engine/internal/loader"
	"github.com/classyard/timetable-engine/internal/logging"
	"github.com/classyard/timetable-engine/internal/mask"
	"github.com/classyard/timetable-engine/internal/validate"
)

var (
	catalogFile string
	configFile  string
	debugLog    bool

	seed           int64
	populationSize int
	maxGenerations int
	patience       int
	timeBudget     int
	workers        int
	fullWeek       bool
)

func main() {
	root := &cobra.Command{
		Use:   "timetable-engine",
		Short: "Weekly class timetable scheduling engine",
		Long:  "Generates and validates weekly class timetables from a catalog of courses, teachers, subjects, and rooms.",
	}

	cmdSolve := &cobra.Command{
		Use:   "solve",
		Short: "run the full pipeline and print a solution report",
		RunE:  runSolve,
	}
	bindCatalogFlags(cmdSolve)
	bindEngineFlags(cmdSolve)
	root.AddCommand(cmdSolve)

	cmdFeasibility := &cobra.Command{
		Use:   "feasibility",
		Short: "run only the mask precomputer and feasibility analyzer",
		RunE:  runFeasibility,
	}
	bindCatalogFlags(cmdFeasibility)
	root.AddCommand(cmdFeasibility)

	cmdValidate := &cobra.Command{
		Use:   "validate",
		Short: "load a previously-produced assignment list and re-check every hard invariant",
		RunE:  runValidate,
	}
	bindCatalogFlags(cmdValidate)
	cmdValidate.Flags().String("assignments", "", "path to a JSON assignment list to validate")

	root.AddCommand(cmdValidate)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bindCatalogFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "path to a catalog JSON file (required)")
	cmd.Flags().StringVar(&configFile, "config", "", "optional YAML config file")
	cmd.Flags().BoolVar(&debugLog, "debug", false, "enable verbose development logging")
	cmd.MarkFlagRequired("catalog")
}

func bindEngineFlags(cmd *cobra.Command) {
	d := config.Defaults()
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = derive from wall clock)")
	cmd.Flags().IntVar(&populationSize, "population-size", d.PopulationSize, "evolutionary population size")
	cmd.Flags().IntVar(&maxGenerations, "max-generations", d.MaxGenerations, "maximum generations to run")
	cmd.Flags().IntVar(&patience, "patience", d.Patience, "generations without improvement before stopping")
	cmd.Flags().IntVar(&timeBudget, "time-budget-seconds", int(d.TimeBudget.Seconds()), "wall-clock budget in seconds")
	cmd.Flags().IntVar(&workers, "workers", d.Workers, "number of concurrent evaluation workers")
	cmd.Flags().BoolVar(&fullWeek, "full-week-required", d.FullWeekRequired, "pad every course's week to full occupancy with filler subjects")
}

func buildConfig(cmd *cobra.Command) (config.EngineConfig, error) {
	v := viper.New()
	v.BindPFlag("population_size", cmd.Flags().Lookup("population-size"))
	v.BindPFlag("max_generations", cmd.Flags().Lookup("max-generations"))
	v.BindPFlag("patience", cmd.Flags().Lookup("patience"))
	v.BindPFlag("time_budget_seconds", cmd.Flags().Lookup("time-budget-seconds"))
	v.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	v.BindPFlag("full_week_required", cmd.Flags().Lookup("full-week-required"))
	// Bound separately: BindPFlag reports IsSet true for any bound flag
	// (changed or not), which would defeat config.Load's "0 = derive from
	// wall clock" contract if bound directly against a default of 0.
	if cmd.Flags().Changed("seed") {
		v.Set("seed", seed)
	}
	return config.Load(v, configFile)
}

func loadCatalog() (*catalog.ProblemInstance, error) {
	fp, err := os.Open(catalogFile)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer fp.Close()
	return loader.ReadJSON(fp)
}

func runSolve(cmd *cobra.Command, args []string) error {
	log, err := logging.New(debugLog)
	if err != nil {
		return err
	}
	defer log.Sync()

	inst, err := loadCatalog()
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	e := engine.New(cfg, log)
	report := e.Run(context.Background(), inst, nil)

	return loader.WriteReport(os.Stdout, report)
}

func runFeasibility(cmd *cobra.Command, args []string) error {
	inst, err := loadCatalog()
	if err != nil {
		return err
	}

	snap, err := catalog.BuildSnapshot(inst)
	if err != nil {
		return err
	}
	masks, err := mask.Precompute(snap)
	if err != nil {
		return err
	}

	result := feasibility.Analyze(snap, masks)
	return loader.WriteReport(os.Stdout, result)
}

func runValidate(cmd *cobra.Command, args []string) error {
	inst, err := loadCatalog()
	if err != nil {
		return err
	}
	snap, err := catalog.BuildSnapshot(inst)
	if err != nil {
		return err
	}
	masks, err := mask.Precompute(snap)
	if err != nil {
		return err
	}

	assignmentsPath, _ := cmd.Flags().GetString("assignments")
	if assignmentsPath == "" {
		return fmt.Errorf("validate: --assignments is required")
	}
	fp, err := os.Open(assignmentsPath)
	if err != nil {
		return fmt.Errorf("opening assignments file: %w", err)
	}
	defer fp.Close()

	var assignments []engine.Assignment
	if err := json.NewDecoder(fp).Decode(&assignments); err != nil {
		return fmt.Errorf("decoding assignments: %w", err)
	}

	cand := assignmentsToCandidate(snap, assignments)
	violations := validate.Validate(snap, masks, cand)
	return loader.WriteReport(os.Stdout, violations)
}
