package fitness_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/fitness"
	"github.com/classyard/timetable-engine/internal/mask"
	"github.com/classyard/timetable-engine/internal/solution"
)

func inst() *catalog.ProblemInstance {
	return &catalog.ProblemInstance{
		Days: []string{"Mon", "Tue"},
		Blocks: []catalog.BlockDef{
			{Number: 1, Type: catalog.BlockClass},
			{Number: 2, Type: catalog.BlockClass},
		},
		Courses:  []catalog.CourseDef{{ID: 1, Name: "C1", Grade: "G1"}},
		Teachers: []catalog.TeacherDef{{ID: 10, Name: "T1"}},
		Subjects: []catalog.SubjectDef{{ID: 100, Name: "Math", DefaultWeeklyBlocks: 2}},
		Quals:    []catalog.Qualification{{TeacherID: 10, SubjectID: 100}},
		Avail: []catalog.AvailabilityRange{
			{TeacherID: 10, Day: "Mon", StartBlock: 1, EndBlock: 2},
			{TeacherID: 10, Day: "Tue", StartBlock: 1, EndBlock: 2},
		},
		Demand: []catalog.CourseSubjectDemand{{CourseID: 1, SubjectID: 100, RequiredBlocks: 2}},
	}
}

func build(t *testing.T) (*catalog.Snapshot, *mask.Masks) {
	t.Helper()
	snap, err := catalog.BuildSnapshot(inst())
	require.NoError(t, err)
	m, err := mask.Precompute(snap)
	require.NoError(t, err)
	return snap, m
}

var defaultWeights = fitness.Weights{Gaps: 10, Fringe: 5, Balance: 3, Demand: 15, FringeWindow: 2}

func TestEvaluate_PerfectCandidateHasZeroHard(t *testing.T) {
	snap, m := build(t)
	cand := solution.New(0, snap)
	cand.Place(0, snap.SlotIndex(0, 1), 0, 0, solution.Empty)
	cand.Place(0, snap.SlotIndex(1, 1), 0, 0, solution.Empty)

	score := fitness.Evaluate(snap, m, cand, defaultWeights)
	require.Equal(t, 0, score.Hard)
	require.Equal(t, -score.Soft, score.Fitness)
}

func TestEvaluate_UnderstaffedCourseCountsAsHard(t *testing.T) {
	snap, m := build(t)
	cand := solution.New(0, snap)
	cand.Place(0, snap.SlotIndex(0, 1), 0, 0, solution.Empty)

	score := fitness.Evaluate(snap, m, cand, defaultWeights)
	require.Equal(t, 1, score.Hard) // 2 required, 1 assigned
}

func TestEvaluate_EmptyCandidateHasDemandViolation(t *testing.T) {
	snap, m := build(t)
	cand := solution.New(0, snap)
	score := fitness.Evaluate(snap, m, cand, defaultWeights)
	require.Equal(t, 2, score.Hard) // 2 required, 0 assigned
}

func TestEvaluate_FitnessOrdering(t *testing.T) {
	snap, m := build(t)
	good := solution.New(0, snap)
	good.Place(0, snap.SlotIndex(0, 1), 0, 0, solution.Empty)
	good.Place(0, snap.SlotIndex(1, 1), 0, 0, solution.Empty)

	bad := solution.New(1, snap)

	gs := fitness.Evaluate(snap, m, good, defaultWeights)
	bs := fitness.Evaluate(snap, m, bad, defaultWeights)
	require.Greater(t, gs.Fitness, bs.Fitness)
}
