package ga

import (
	"math/rand"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/construct"
	"github.com/classyard/timetable-engine/internal/mask"
	"github.com/classyard/timetable-engine/internal/solution"
)

// LNSKick implements a large-neighborhood-search kick: destroy all
// assignments of either one random course or one random day and rebuild
// them greedily, in the style of the constructive builder.
// fraction controls how much of the destroyed region is actually emptied
// before rebuilding -- at 1.0 the whole course/day is destroyed; smaller
// values leave some of it intact, giving the rebuild less to do and making
// the kick less disruptive.
func LNSKick(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, rng *rand.Rand, fraction float64) {
	if rng.Intn(2) == 0 {
		kickCourse(snap, masks, cand, rng, fraction)
	} else {
		kickDay(snap, masks, cand, rng, fraction)
	}
}

func kickCourse(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, rng *rand.Rand, fraction float64) {
	course := rng.Intn(len(snap.Courses))
	allSlots := make([]int, snap.NumSlots)
	for i := range allSlots {
		allSlots[i] = i
	}
	destroyFraction(cand, rng, fraction, course, allSlots)
	rebuildCourse(snap, masks, cand, rng, course)
}

func kickDay(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, rng *rand.Rand, fraction float64) {
	day := rng.Intn(len(snap.Days))
	for course := range snap.Courses {
		slots := slotsOnDay(snap, day)
		destroyFraction(cand, rng, fraction, course, slots)
	}
	for course := range snap.Courses {
		rebuildDay(snap, masks, cand, rng, course, day)
	}
}

func slotsOnDay(snap *catalog.Snapshot, day int) []int {
	var out []int
	for slot, d := range snap.SlotDay {
		if d == day {
			out = append(out, slot)
		}
	}
	return out
}

// destroyFraction clears a random fraction of the non-empty slots (among
// the given candidate slot set) a course occupies.
func destroyFraction(cand *solution.Candidate, rng *rand.Rand, fraction float64, course int, slots []int) {
	occupied := make([]int, 0, len(slots))
	for _, slot := range slots {
		if !cand.IsEmpty(course, slot) {
			occupied = append(occupied, slot)
		}
	}
	n := int(float64(len(occupied))*fraction + 0.5)
	rng.Shuffle(len(occupied), func(i, j int) { occupied[i], occupied[j] = occupied[j], occupied[i] })
	for i := 0; i < n && i < len(occupied); i++ {
		cand.Clear(course, occupied[i])
	}
}

// rebuildCourse greedily places course's unmet demand into its empty slots,
// subject by subject in subject-index order, until each subject reaches its
// required count or no empty slot has an available qualified teacher. It
// mirrors the constructor's per-pair placement loop scoped to a single course.
func rebuildCourse(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, rng *rand.Rand, course int) {
	order := construct.ShuffledSlots(rng, snap.NumSlots)
	for subj, required := range snap.CourseSubjectDemand[course] {
		for cand.AssignedCount(course, subj) < required {
			placed := false
			for _, slot := range order {
				if !cand.IsEmpty(course, slot) {
					continue
				}
				teacher := construct.PickTeacher(snap, masks, cand, subj, slot)
				if teacher < 0 {
					continue
				}
				room := construct.PickRoom(snap, masks, cand, course, subj, slot)
				cand.Place(course, slot, subj, teacher, room)
				placed = true
				break
			}
			if !placed {
				break
			}
		}
	}
}

// rebuildDay is rebuildCourse narrowed to the slots of a single day, used
// by the "destroy one day" kick variant.
func rebuildDay(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, rng *rand.Rand, course, day int) {
	slots := slotsOnDay(snap, day)
	rng.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })
	for subj, required := range snap.CourseSubjectDemand[course] {
		for cand.AssignedCount(course, subj) < required {
			placed := false
			for _, slot := range slots {
				if !cand.IsEmpty(course, slot) {
					continue
				}
				teacher := construct.PickTeacher(snap, masks, cand, subj, slot)
				if teacher < 0 {
					continue
				}
				room := construct.PickRoom(snap, masks, cand, course, subj, slot)
				cand.Place(course, slot, subj, teacher, room)
				placed = true
				break
			}
			if !placed {
				break
			}
		}
	}
}
