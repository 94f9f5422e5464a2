package solution_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/solution"
)

func buildSnap(t *testing.T) *catalog.Snapshot {
	t.Helper()
	inst := &catalog.ProblemInstance{
		Days: []string{"Mon", "Tue"},
		Blocks: []catalog.BlockDef{
			{Number: 1, Type: catalog.BlockClass},
			{Number: 2, Type: catalog.BlockClass},
		},
		Courses: []catalog.CourseDef{
			{ID: 1, Name: "C1", Grade: "G1"},
			{ID: 2, Name: "C2", Grade: "G1"},
		},
		Teachers: []catalog.TeacherDef{{ID: 10, Name: "T1"}},
		Subjects: []catalog.SubjectDef{{ID: 100, Name: "Math", DefaultWeeklyBlocks: 1}},
		Quals:    []catalog.Qualification{{TeacherID: 10, SubjectID: 100}},
		Avail: []catalog.AvailabilityRange{
			{TeacherID: 10, Day: "Mon", StartBlock: 1, EndBlock: 2},
			{TeacherID: 10, Day: "Tue", StartBlock: 1, EndBlock: 2},
		},
		Demand: []catalog.CourseSubjectDemand{
			{CourseID: 1, SubjectID: 100, RequiredBlocks: 1},
			{CourseID: 2, SubjectID: 100, RequiredBlocks: 1},
		},
	}
	snap, err := catalog.BuildSnapshot(inst)
	require.NoError(t, err)
	return snap
}

func TestPlaceAndClear(t *testing.T) {
	snap := buildSnap(t)
	cand := solution.New(0, snap)
	slot := snap.SlotIndex(0, 1)

	cand.Place(0, slot, 0, 0, solution.Empty)
	require.False(t, cand.IsEmpty(0, slot))
	require.Equal(t, 1, cand.AssignedCount(0, 0))
	course, busy := cand.TeacherBusy(0, slot)
	require.True(t, busy)
	require.Equal(t, 0, course)

	cand.Clear(0, slot)
	require.True(t, cand.IsEmpty(0, slot))
	require.Equal(t, 0, cand.AssignedCount(0, 0))
	_, busy = cand.TeacherBusy(0, slot)
	require.False(t, busy)
}

func TestPlace_OwnershipCheckPreservesOtherCoursesCacheEntry(t *testing.T) {
	snap := buildSnap(t)
	cand := solution.New(0, snap)
	slot := snap.SlotIndex(0, 1)

	// simulate a transient double-booking: two courses both write teacher 0
	// into the same slot via Place (the kind of state crossover
	// can momentarily produce).
	cand.Place(0, slot, 0, 0, solution.Empty)
	cand.Place(1, slot, 0, 0, solution.Empty)

	// clearing course 0 must not erase course 1's still-valid ownership of
	// the teacherSlot cache entry.
	cand.Clear(0, slot)
	course, busy := cand.TeacherBusy(0, slot)
	require.True(t, busy)
	require.Equal(t, 1, course)
}

func TestTeacherOccupants_FindsDoubleBooking(t *testing.T) {
	snap := buildSnap(t)
	cand := solution.New(0, snap)
	slot := snap.SlotIndex(0, 1)
	cand.Place(0, slot, 0, 0, solution.Empty)
	cand.Place(1, slot, 0, 0, solution.Empty)

	occupants := cand.TeacherOccupants(0, slot)
	require.ElementsMatch(t, []int{0, 1}, occupants)
}

func TestClone_IsDeepCopy(t *testing.T) {
	snap := buildSnap(t)
	cand := solution.New(0, snap)
	slot := snap.SlotIndex(0, 1)
	cand.Place(0, slot, 0, 0, solution.Empty)

	clone := cand.Clone(5)
	clone.Clear(0, slot)

	require.False(t, cand.IsEmpty(0, slot))
	require.True(t, clone.IsEmpty(0, slot))
	require.Equal(t, 5, clone.ID)
	require.NotEqual(t, cand.RunID, clone.RunID)
}

func TestOccupancyAndClearDay(t *testing.T) {
	snap := buildSnap(t)
	cand := solution.New(0, snap)
	cand.Place(0, snap.SlotIndex(0, 1), 0, 0, solution.Empty)
	cand.Place(1, snap.SlotIndex(1, 1), 0, 0, solution.Empty)
	require.Equal(t, 2, cand.Occupancy())

	cand.ClearDay(0)
	require.Equal(t, 1, cand.Occupancy())
}
