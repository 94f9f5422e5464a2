// Package repair implements the four-pass fixed-point repair loop:
// teacher-overlap resolution, availability-violation resolution, demand
// rebalancing, and (when the full-week policy is on) filler padding. It is
// applied after every crossover and mutation, and whenever the evaluator
// reports hard violations.
package repair

import (
	"math/rand"
	"sort"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/construct"
	"github.com/classyard/timetable-engine/internal/mask"
	"github.com/classyard/timetable-engine/internal/solution"
)

// maxPasses bounds the fixed-point iteration by an iteration cap derived
// from problem size. Each pass is idempotent once no further progress is
// possible, so in practice this loop exits in a handful of iterations;
// the cap only guards against a pathological oscillation.
func maxPasses(snap *catalog.Snapshot) int {
	n := len(snap.Courses)*snap.NumSlots + len(snap.Teachers) + 8
	if n > 500 {
		n = 500
	}
	return n
}

// Repair drives the four passes to a fixed point (or the iteration cap,
// whichever comes first) on cand in place.
func Repair(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, rng *rand.Rand) {
	cap := maxPasses(snap)
	for i := 0; i < cap; i++ {
		changed := false
		if pass1TeacherOverlaps(snap, masks, cand) {
			changed = true
		}
		if pass2Availability(snap, masks, cand) {
			changed = true
		}
		if pass3DemandRebalance(snap, masks, cand) {
			changed = true
		}
		before := cand.Occupancy()
		construct.FillFiller(snap, masks, cand, rng)
		if cand.Occupancy() != before {
			changed = true
		}
		if !changed {
			return
		}
	}
}

// relocate tries to move the assignment currently at (course, slot) to a
// different still-empty slot for the same course, preserving its teacher,
// as long as the teacher is available and free there. Room is recomputed
// for the new slot (special-room subjects may need a different concrete
// room even though the subject is unchanged).
func relocate(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, course, slot int) bool {
	cell := cand.At(course, slot)
	if cell.Subject == solution.Empty {
		return false
	}
	for target := 0; target < snap.NumSlots; target++ {
		if target == slot || !cand.IsEmpty(course, target) {
			continue
		}
		if !masks.TeacherAvailable[cell.Teacher].Test(uint(target)) {
			continue
		}
		if occ := cand.TeacherOccupants(cell.Teacher, target); len(occ) != 0 {
			continue
		}
		room := construct.PickRoom(snap, masks, cand, course, cell.Subject, target)
		cand.Clear(course, slot)
		cand.Place(course, target, cell.Subject, cell.Teacher, room)
		return true
	}
	return false
}

// swapTeacher tries to replace the teacher at (course, slot) with another
// qualified, available, non-conflicting one, keeping the same slot and
// subject.
func swapTeacher(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, course, slot int) bool {
	cell := cand.At(course, slot)
	if cell.Subject == solution.Empty {
		return false
	}
	for t := range snap.Teachers {
		if t == cell.Teacher {
			continue
		}
		if !masks.TeacherSubject[t].Test(uint(cell.Subject)) {
			continue
		}
		if !masks.TeacherAvailable[t].Test(uint(slot)) {
			continue
		}
		if occ := cand.TeacherOccupants(t, slot); len(occ) != 0 {
			continue
		}
		cand.Place(course, slot, cell.Subject, t, cell.Room)
		return true
	}
	return false
}

// resolve runs the relocate -> swap-teacher -> empty chain common to
// passes 1 and 2.
func resolve(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, course, slot int) {
	if relocate(snap, masks, cand, course, slot) {
		return
	}
	if swapTeacher(snap, masks, cand, course, slot) {
		return
	}
	cand.Clear(course, slot)
}

// pass1TeacherOverlaps resolves every (teacher, slot) pair occupied by more
// than one course, keeping the lexicographically first (by caller course
// id) and running the relocate/swap/empty chain on the rest.
func pass1TeacherOverlaps(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate) bool {
	changed := false
	for slot := 0; slot < snap.NumSlots; slot++ {
		for t := range snap.Teachers {
			occupants := cand.TeacherOccupants(t, slot)
			if len(occupants) <= 1 {
				continue
			}
			sort.Slice(occupants, func(i, j int) bool {
				return snap.CourseID[occupants[i]] < snap.CourseID[occupants[j]]
			})
			for _, course := range occupants[1:] {
				resolve(snap, masks, cand, course, slot)
				changed = true
			}
		}
	}
	return changed
}

// pass2Availability resolves every cell whose teacher is not available in
// that slot.
func pass2Availability(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate) bool {
	changed := false
	for course := range snap.Courses {
		for slot := 0; slot < snap.NumSlots; slot++ {
			cell := cand.At(course, slot)
			if cell.Subject == solution.Empty {
				continue
			}
			if masks.TeacherAvailable[cell.Teacher].Test(uint(slot)) {
				continue
			}
			resolve(snap, masks, cand, course, slot)
			changed = true
		}
	}
	return changed
}

// pass3DemandRebalance frees surplus-subject cells and fills deficit
// subjects for every course, iterating within the course until no
// reconcilable surplus/deficit pair remains.
func pass3DemandRebalance(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate) bool {
	changed := false
	for course := range snap.Courses {
		for {
			progressed := false

			for subj, required := range snap.CourseSubjectDemand[course] {
				have := cand.AssignedCount(course, subj)
				if have <= required {
					continue
				}
				toFree := have - required
				for slot := 0; slot < snap.NumSlots && toFree > 0; slot++ {
					if cand.At(course, slot).Subject != subj {
						continue
					}
					cand.Clear(course, slot)
					toFree--
					progressed = true
					changed = true
				}
			}

			for subj, required := range snap.CourseSubjectDemand[course] {
				have := cand.AssignedCount(course, subj)
				if have >= required {
					continue
				}
				need := required - have
				for slot := 0; slot < snap.NumSlots && need > 0; slot++ {
					if !cand.IsEmpty(course, slot) {
						continue
					}
					teacher := construct.PickTeacher(snap, masks, cand, subj, slot)
					if teacher < 0 {
						continue
					}
					room := construct.PickRoom(snap, masks, cand, course, subj, slot)
					cand.Place(course, slot, subj, teacher, room)
					need--
					progressed = true
					changed = true
				}
			}

			if !progressed {
				break
			}
		}
	}
	return changed
}
