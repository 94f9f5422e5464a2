package mask_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/mask"
)

func buildSnap(t *testing.T) *catalog.Snapshot {
	t.Helper()
	room := 1
	inst := &catalog.ProblemInstance{
		Days:    []string{"Mon"},
		Blocks:  []catalog.BlockDef{{Number: 1, Type: catalog.BlockClass}, {Number: 2, Type: catalog.BlockClass}},
		Courses: []catalog.CourseDef{{ID: 1, Name: "C1", Grade: "G1", FixedRoom: &room}},
		Teachers: []catalog.TeacherDef{
			{ID: 10, Name: "T1"},
		},
		Subjects: []catalog.SubjectDef{
			{ID: 100, Name: "S1", DefaultWeeklyBlocks: 1},
		},
		Rooms: []catalog.RoomDef{{ID: 1, Name: "R1", Type: "standard"}},
		Quals: []catalog.Qualification{{TeacherID: 10, SubjectID: 100}},
		Avail: []catalog.AvailabilityRange{{TeacherID: 10, Day: "Mon", StartBlock: 1, EndBlock: 1}},
		Demand: []catalog.CourseSubjectDemand{
			{CourseID: 1, SubjectID: 100, RequiredBlocks: 1},
		},
	}
	snap, err := catalog.BuildSnapshot(inst)
	require.NoError(t, err)
	return snap
}

func TestPrecompute(t *testing.T) {
	snap := buildSnap(t)
	m, err := mask.Precompute(snap)
	require.NoError(t, err)

	require.True(t, m.TeacherAvailable[0].Test(0))
	require.False(t, m.TeacherAvailable[0].Test(1))
	require.True(t, m.TeacherSubject[0].Test(0))
	require.True(t, m.CourseSubject[0].Test(0))
	require.Equal(t, 0, m.FixedRoomOf(0))
}

func TestCountQualifiedAvailableSlots(t *testing.T) {
	snap := buildSnap(t)
	m, err := mask.Precompute(snap)
	require.NoError(t, err)
	require.Equal(t, 1, m.CountQualifiedAvailableSlots(0))
}

func TestQualifiedAvailable_NotQualified(t *testing.T) {
	snap := buildSnap(t)
	m, err := mask.Precompute(snap)
	require.NoError(t, err)
	bs := m.QualifiedAvailable(0, 5) // out-of-range subject index never set
	require.Equal(t, uint(0), bs.Count())
}
