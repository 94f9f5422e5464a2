package ga

import (
	"math/rand"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/solution"
)

// Crossover implements block-wise day crossover: pick a random day D;
// child A gets parent1's assignments for D and parent2's for every other
// day, child B is the complement. Block-wise on whole days rather than
// individual cells preserves per-day teacher feasibility more often than
// a uniform, cell-by-cell crossover would.
func Crossover(snap *catalog.Snapshot, rng *rand.Rand, parent1, parent2 *solution.Candidate, idA, idB int) (*solution.Candidate, *solution.Candidate) {
	day := rng.Intn(len(snap.Days))

	childA := solution.New(idA, snap)
	childB := solution.New(idB, snap)

	for course := range snap.Courses {
		for slot := 0; slot < snap.NumSlots; slot++ {
			fromA, fromB := parent1.At(course, slot), parent2.At(course, slot)
			if snap.SlotDay[slot] == day {
				placeCell(childA, course, slot, fromA)
				placeCell(childB, course, slot, fromB)
			} else {
				placeCell(childA, course, slot, fromB)
				placeCell(childB, course, slot, fromA)
			}
		}
	}

	return childA, childB
}

func placeCell(cand *solution.Candidate, course, slot int, cell solution.Cell) {
	if cell.Subject == solution.Empty {
		return
	}
	cand.Place(course, slot, cell.Subject, cell.Teacher, cell.Room)
}
