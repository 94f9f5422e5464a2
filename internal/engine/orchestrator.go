// Package engine wires the whole pipeline together: Catalog Snapshot ->
// Mask Precomputer -> Feasibility Analyzer -> Constructive Builder (via
// the Evolutionary Refiner's population seeding) -> Evolutionary Refiner
// -> Final Validator -> SolutionReport. It owns seed handling, the
// time/iteration budget, and recovery from an internal invariant break.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/config"
	"github.com/classyard/timetable-engine/internal/feasibility"
	"github.com/classyard/timetable-engine/internal/ga"
	"github.com/classyard/timetable-engine/internal/mask"
	"github.com/classyard/timetable-engine/internal/metrics"
	"github.com/classyard/timetable-engine/internal/repair"
	"github.com/classyard/timetable-engine/internal/solution"
	"github.com/classyard/timetable-engine/internal/validate"
)

// Engine runs the full pipeline against one ProblemInstance.
type Engine struct {
	Config config.EngineConfig
	Logger *zap.Logger

	// Metrics is the Prometheus registry for the run currently in
	// flight (or the most recently completed one). Run rebuilds it
	// fresh, labeled with that run's run_id, since each run's gauges
	// are independent of any prior run's.
	Metrics *metrics.Registry
}

// New builds an Engine. A nil logger falls back to a no-op logger.
func New(cfg config.EngineConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Config: cfg, Logger: logger}
}

// Run executes the whole pipeline and always returns a SolutionReport,
// never an error: every expected failure mode maps to a Status, and the
// one truly unexpected failure mode (an internal invariant break) is
// caught by the recover() at the top of this method and converted to
// StatusInternalErr.
func (e *Engine) Run(ctx context.Context, inst *catalog.ProblemInstance, progress ga.ProgressFunc) (report SolutionReport) {
	runID := uuid.NewString()
	seed := e.resolveSeed()
	start := time.Now()

	e.Metrics = metrics.New(runID)

	report = SolutionReport{
		Status:          StatusInternalErr,
		SeedUsed:        seed,
		RunID:           runID,
		MetricsRegistry: e.Metrics,
	}

	defer func() {
		if r := recover(); r != nil {
			e.Logger.Error("internal invariant break", zap.Any("panic", r), zap.String("run_id", runID))
			report.Status = StatusInternalErr
			report.Diagnostic = fmt.Sprintf("internal error: %v", r)
		}
	}()

	if inst != nil && e.Config.FullWeekRequired && !inst.FullWeekRequired {
		padded := *inst
		padded.FullWeekRequired = true
		inst = &padded
	}

	snap, err := catalog.BuildSnapshot(inst)
	if err != nil {
		report.Status = StatusInfeasible
		report.Diagnostic = err.Error()
		return report
	}

	masks, err := mask.Precompute(snap)
	if err != nil {
		report.Status = StatusInfeasible
		report.Diagnostic = err.Error()
		return report
	}

	if len(snap.Courses) == 0 {
		report.Status = StatusSuccess
		report.Metrics.WallClockSeconds = time.Since(start).Seconds()
		return report
	}

	feas := feasibility.Analyze(snap, masks)
	report.SupplyVsDemand = feas.Table
	if !feas.Feasible {
		e.Logger.Info("infeasible instance", zap.String("run_id", runID), zap.Int("bottlenecks", len(feas.Bottlenecks)))
		report.Status = StatusInfeasible
		report.Diagnostic = bottleneckSummary(feas)
		return report
	}

	deadline, cancel := context.WithTimeout(ctx, e.Config.TimeBudget)
	defer cancel()

	result := ga.Run(deadline, snap, masks, e.Config, seed, e.recordingProgress(progress))

	violations := e.finalize(snap, masks, result.Best, seed)

	report.Assignments = assignmentsOf(snap, result.Best)
	report.Metrics = Metrics{
		BestFitness:      bestFitnessOf(result),
		GenerationsRun:   result.Generations,
		WallClockSeconds: time.Since(start).Seconds(),
		History:          result.History,
	}
	report.TimedOut = result.TimedOut

	if len(violations) == 0 {
		report.Status = StatusSuccess
	} else {
		// Budget exhaustion and repair exhaustion both land here: timeout
		// is the status that carries a best-so-far result alongside a
		// populated validation list.
		report.Status = StatusTimeout
		report.Validation = violations
		report.TimedOut = true
	}

	return report
}

// finalize runs the Final Validator on best; if it finds violations, it
// attempts one last repair-and-fill pass and re-validates, per spec
// §4.7's "on termination ... if invalid it attempts one final
// repair-and-fill before returning."
func (e *Engine) finalize(snap *catalog.Snapshot, masks *mask.Masks, best *solution.Candidate, seed int64) []validate.Violation {
	violations := validate.Validate(snap, masks, best)
	if len(violations) == 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	repair.Repair(snap, masks, best, rng)
	return validate.Validate(snap, masks, best)
}

// recordingProgress wraps the caller's progress callback so every
// generation boundary also records into e.Metrics before (optionally)
// reaching the caller, giving an embedding service a live /metrics feed
// without requiring it to poll the progress channel itself.
func (e *Engine) recordingProgress(progress ga.ProgressFunc) ga.ProgressFunc {
	return func(stat ga.GenerationStats) {
		e.Metrics.Record(stat.Generation, stat.BestFitness, stat.MeanFitness, stat.OccupancyPct, stat.Conflicts, stat.ElapsedSecond)
		if progress != nil {
			defer func() {
				if r := recover(); r != nil {
					e.Logger.Warn("progress callback panicked", zap.Any("panic", r), zap.Int("generation", stat.Generation))
				}
			}()
			progress(stat)
		}
	}
}

func (e *Engine) resolveSeed() int64 {
	if e.Config.Seed != nil {
		return *e.Config.Seed
	}
	return time.Now().UnixNano()
}

func bottleneckSummary(feas *feasibility.Result) string {
	if len(feas.Bottlenecks) == 0 {
		return "infeasible"
	}
	return feas.Bottlenecks[0].Detail
}

func bestFitnessOf(result ga.Result) float64 {
	if len(result.History) == 0 {
		return 0
	}
	return result.History[len(result.History)-1].BestFitness
}

func assignmentsOf(snap *catalog.Snapshot, cand *solution.Candidate) []Assignment {
	var out []Assignment
	for course := range snap.Courses {
		for slot := 0; slot < snap.NumSlots; slot++ {
			cell := cand.At(course, slot)
			if cell.Subject == solution.Empty {
				continue
			}
			a := Assignment{
				CourseID:  snap.CourseID[course],
				Day:       snap.Days[snap.SlotDay[slot]],
				Block:     snap.SlotBlock[slot],
				SubjectID: snap.SubjectID[cell.Subject],
				TeacherID: snap.TeacherID[cell.Teacher],
			}
			if cell.Room != solution.Empty {
				roomID := snap.RoomID[cell.Room]
				a.RoomID = &roomID
			}
			out = append(out, a)
		}
	}
	return out
}
