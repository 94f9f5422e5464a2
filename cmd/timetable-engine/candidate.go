package main

import (
	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/engine"
	"github.com/classyard/timetable-engine/internal/solution"
)

// assignmentsToCandidate rebuilds a Candidate from a caller-supplied
// assignment list (external id space) against snap, for the standalone
// `validate` subcommand. Assignments referencing a course, subject or
// teacher id, day or block the snapshot doesn't know about are silently
// skipped rather than erroring; an unknown room id leaves the cell without
// a room. Skipped rows never reach the validator, so they show up only as
// unmet demand for the courses they would have filled.
func assignmentsToCandidate(snap *catalog.Snapshot, assignments []engine.Assignment) *solution.Candidate {
	cand := solution.New(0, snap)

	for _, a := range assignments {
		course := indexOf(snap.CourseID, a.CourseID)
		subj := indexOf(snap.SubjectID, a.SubjectID)
		teacher := indexOf(snap.TeacherID, a.TeacherID)
		if course < 0 || subj < 0 || teacher < 0 {
			continue
		}
		day := snap.DayIndex(a.Day)
		if day < 0 {
			continue
		}
		slot := snap.SlotIndex(day, a.Block)
		if slot < 0 {
			continue
		}
		room := solution.Empty
		if a.RoomID != nil {
			if r := indexOf(snap.RoomID, *a.RoomID); r >= 0 {
				room = r
			}
		}
		cand.Place(course, slot, subj, teacher, room)
	}

	return cand
}

func indexOf(ids []int, id int) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
