package ga_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/fitness"
	"github.com/classyard/timetable-engine/internal/ga"
	"github.com/classyard/timetable-engine/internal/mask"
)

func smallInstance() *catalog.ProblemInstance {
	return &catalog.ProblemInstance{
		Days: []string{"Mon", "Tue", "Wed"},
		Blocks: []catalog.BlockDef{
			{Number: 1, Type: catalog.BlockClass},
			{Number: 2, Type: catalog.BlockClass},
			{Number: 3, Type: catalog.BlockClass},
		},
		Courses: []catalog.CourseDef{
			{ID: 1, Name: "C1", Grade: "G1"},
			{ID: 2, Name: "C2", Grade: "G1"},
		},
		Teachers: []catalog.TeacherDef{
			{ID: 10, Name: "T1"},
			{ID: 11, Name: "T2"},
			{ID: 12, Name: "T3"},
		},
		Subjects: []catalog.SubjectDef{
			{ID: 100, Name: "Math", DefaultWeeklyBlocks: 3},
			{ID: 101, Name: "Sci", DefaultWeeklyBlocks: 2},
		},
		Quals: []catalog.Qualification{
			{TeacherID: 10, SubjectID: 100},
			{TeacherID: 11, SubjectID: 100},
			{TeacherID: 11, SubjectID: 101},
			{TeacherID: 12, SubjectID: 101},
		},
		Avail: []catalog.AvailabilityRange{
			{TeacherID: 10, Day: "Mon", StartBlock: 1, EndBlock: 3},
			{TeacherID: 10, Day: "Tue", StartBlock: 1, EndBlock: 3},
			{TeacherID: 10, Day: "Wed", StartBlock: 1, EndBlock: 3},
			{TeacherID: 11, Day: "Mon", StartBlock: 1, EndBlock: 3},
			{TeacherID: 11, Day: "Tue", StartBlock: 1, EndBlock: 3},
			{TeacherID: 11, Day: "Wed", StartBlock: 1, EndBlock: 3},
			{TeacherID: 12, Day: "Mon", StartBlock: 1, EndBlock: 3},
			{TeacherID: 12, Day: "Tue", StartBlock: 1, EndBlock: 3},
			{TeacherID: 12, Day: "Wed", StartBlock: 1, EndBlock: 3},
		},
		Demand: []catalog.CourseSubjectDemand{
			{CourseID: 1, SubjectID: 100, RequiredBlocks: 3},
			{CourseID: 1, SubjectID: 101, RequiredBlocks: 2},
			{CourseID: 2, SubjectID: 100, RequiredBlocks: 3},
			{CourseID: 2, SubjectID: 101, RequiredBlocks: 2},
		},
	}
}

func buildSnapMasks(t *testing.T) (*catalog.Snapshot, *mask.Masks) {
	t.Helper()
	snap, err := catalog.BuildSnapshot(smallInstance())
	require.NoError(t, err)
	m, err := mask.Precompute(snap)
	require.NoError(t, err)
	return snap, m
}

var weights = fitness.Weights{Gaps: 10, Fringe: 5, Balance: 3, Demand: 15, FringeWindow: 2}

func TestSeed_PopulationSizeAndSort(t *testing.T) {
	snap, m := buildSnapMasks(t)
	pop := ga.Seed(snap, m, 8, 1, weights)
	require.Len(t, pop.Members, 8)
	for i := 1; i < len(pop.Members); i++ {
		prev, cur := pop.Members[i-1], pop.Members[i]
		require.True(t, prev.Score.Fitness >= cur.Score.Fitness)
	}
}

func TestSeed_Deterministic(t *testing.T) {
	snap, m := buildSnapMasks(t)
	a := ga.Seed(snap, m, 6, 99, weights)
	b := ga.Seed(snap, m, 6, 99, weights)
	require.Equal(t, a.Best().Score.Fitness, b.Best().Score.Fitness)
}

func TestNewID_Monotonic(t *testing.T) {
	snap, m := buildSnapMasks(t)
	pop := ga.Seed(snap, m, 4, 5, weights)
	a := pop.NewID()
	b := pop.NewID()
	require.Less(t, a, b)
}
