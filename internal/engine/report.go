package engine

import (
	"github.com/classyard/timetable-engine/internal/feasibility"
	"github.com/classyard/timetable-engine/internal/ga"
	"github.com/classyard/timetable-engine/internal/metrics"
	"github.com/classyard/timetable-engine/internal/validate"
)

// Status is the top-level outcome of one engine run.
type Status string

const (
	StatusSuccess     Status = "success"
	StatusInfeasible  Status = "infeasible"
	StatusTimeout     Status = "timeout"
	StatusInternalErr Status = "internal_error"
)

// Assignment is one (course, day, block) -> (subject, teacher, room) cell
// in caller id-space.
type Assignment struct {
	CourseID  int    `json:"course_id"`
	Day       string `json:"day"`
	Block     int    `json:"block"`
	SubjectID int    `json:"subject_id"`
	TeacherID int    `json:"teacher_id"`
	RoomID    *int   `json:"room_id,omitempty"`
}

// Metrics is the metrics block of a SolutionReport.
type Metrics struct {
	BestFitness      float64              `json:"best_fitness"`
	GenerationsRun   int                  `json:"generations_completed"`
	WallClockSeconds float64              `json:"wall_clock_seconds"`
	History          []ga.GenerationStats `json:"history,omitempty"`
}

// SolutionReport is the complete output of one engine run.
type SolutionReport struct {
	Status         Status                        `json:"status"`
	Assignments    []Assignment                  `json:"assignments"`
	Validation     []validate.Violation          `json:"validation,omitempty"`
	Metrics        Metrics                       `json:"metrics"`
	SupplyVsDemand []feasibility.SupplyDemandRow `json:"supply_vs_demand"`
	SeedUsed       int64                         `json:"seed_used"`
	RunID          string                        `json:"run_id"`
	Diagnostic     string                        `json:"diagnostic,omitempty"`
	TimedOut       bool                          `json:"timeout"`

	// MetricsRegistry is the engine-owned Prometheus registry for this
	// run; a caller embedding the engine in a long-lived service can
	// gather it into its own /metrics handler. Not part of the JSON
	// wire format.
	MetricsRegistry *metrics.Registry `json:"-"`
}
