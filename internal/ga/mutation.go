package ga

import (
	"math/rand"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/construct"
	"github.com/classyard/timetable-engine/internal/mask"
	"github.com/classyard/timetable-engine/internal/solution"
)

// mutationCells is the number of cells mutation picks per mutated
// individual.
const mutationCells = 2

// Mutate applies, with probability prob, a handful of targeted
// reassignment attempts to cand in place: either relocate the assignment
// to a different empty slot for the same course (preserving its teacher),
// or swap the teacher for another qualified/available/non-conflicting one.
// A failed attempt is simply a no-op: these helpers never commit a change
// unless it succeeds, so there is nothing to roll back.
func Mutate(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, rng *rand.Rand, prob float64) {
	if rng.Float64() >= prob {
		return
	}
	for i := 0; i < mutationCells; i++ {
		course := rng.Intn(len(snap.Courses))
		slot := rng.Intn(snap.NumSlots)
		if cand.IsEmpty(course, slot) {
			continue
		}
		if rng.Intn(2) == 0 {
			relocateRandom(snap, masks, cand, rng, course, slot)
		} else {
			swapTeacherRandom(snap, masks, cand, rng, course, slot)
		}
	}
}

// relocateRandom moves the assignment at (course, slot) to a randomly
// chosen empty slot for the same course where its teacher remains
// available and non-conflicting. It scans in a random start offset so
// repeated calls don't all gravitate to the same low-numbered slot.
func relocateRandom(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, rng *rand.Rand, course, slot int) bool {
	cell := cand.At(course, slot)
	if cell.Subject == solution.Empty {
		return false
	}
	start := rng.Intn(snap.NumSlots)
	for i := 0; i < snap.NumSlots; i++ {
		target := (start + i) % snap.NumSlots
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

// swapTeacherRandom replaces the teacher at (course, slot) with a randomly
// chosen different qualified/available/non-conflicting one.
func swapTeacherRandom(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, rng *rand.Rand, course, slot int) bool {
	cell := cand.At(course, slot)
	if cell.Subject == solution.Empty {
		return false
	}
	start := rng.Intn(len(snap.Teachers))
	for i := 0; i < len(snap.Teachers); i++ {
		t := (start + i) % len(snap.Teachers)
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
