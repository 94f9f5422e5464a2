// Package solution defines the candidate representation shared by the
// constructive builder, the repair/local-search passes, the evolutionary
// refiner, the fitness evaluator, and the final validator: a dense grid of
// (course, slot) -> (subject, teacher, room), plus the small bookkeeping
// indexes that turn conflict checks into O(1) lookups instead of scans.
package solution

import (
	"github.com/google/uuid"

	"github.com/classyard/timetable-engine/internal/catalog"
)

// Empty marks an unfilled subject, teacher, or room slot in a Cell.
const Empty = -1

// Cell is the atomic unit of assignment for one (course, day, block).
type Cell struct {
	Subject int
	Teacher int
	Room    int
}

func emptyCell() Cell { return Cell{Subject: Empty, Teacher: Empty, Room: Empty} }

// Candidate is one complete (possibly partial or invalid) timetable. It is
// owned by exactly one goroutine at a time: crossover and mutation read two
// parents and produce a brand new child rather than mutating a parent in
// place, so each candidate is owned by exactly one worker at a time.
type Candidate struct {
	// ID is the birth-order id used for deterministic tie-break sorting.
	// It is assigned by the population/orchestrator, monotonically, and
	// never reused.
	ID int
	// RunID is an external-traceability UUID, independent of ID's
	// ordering role.
	RunID string

	Snap *catalog.Snapshot

	// Grid[course][slot] is the cell assigned to that course in that slot.
	Grid [][]Cell

	// teacherSlot[teacher][slot] is the course index occupying that
	// teacher in that slot, or Empty.
	teacherSlot [][]int

	// assignedCount[course][subject] is the number of cells of Grid
	// currently carrying that subject for that course.
	assignedCount [][]int
}

// New allocates an entirely empty candidate over the given snapshot.
func New(id int, snap *catalog.Snapshot) *Candidate {
	c := &Candidate{
		ID:    id,
		RunID: uuid.NewString(),
		Snap:  snap,
	}
	c.Grid = make([][]Cell, len(snap.Courses))
	for i := range c.Grid {
		c.Grid[i] = make([]Cell, snap.NumSlots)
		for j := range c.Grid[i] {
			c.Grid[i][j] = emptyCell()
		}
	}
	c.teacherSlot = make([][]int, len(snap.Teachers))
	for i := range c.teacherSlot {
		row := make([]int, snap.NumSlots)
		for j := range row {
			row[j] = Empty
		}
		c.teacherSlot[i] = row
	}
	c.assignedCount = make([][]int, len(snap.Courses))
	for i := range c.assignedCount {
		c.assignedCount[i] = make([]int, len(snap.Subjects))
	}
	return c
}

// Clone performs a deep copy of the candidate under a fresh ID (and a fresh
// RunID, since cloning produces a new individual, not an alias of the
// parent).
func (c *Candidate) Clone(newID int) *Candidate {
	n := &Candidate{
		ID:    newID,
		RunID: uuid.NewString(),
		Snap:  c.Snap,
	}
	n.Grid = make([][]Cell, len(c.Grid))
	for i, row := range c.Grid {
		n.Grid[i] = append([]Cell(nil), row...)
	}
	n.teacherSlot = make([][]int, len(c.teacherSlot))
	for i, row := range c.teacherSlot {
		n.teacherSlot[i] = append([]int(nil), row...)
	}
	n.assignedCount = make([][]int, len(c.assignedCount))
	for i, row := range c.assignedCount {
		n.assignedCount[i] = append([]int(nil), row...)
	}
	return n
}

// At returns the cell assigned to (course, slot).
func (c *Candidate) At(course, slot int) Cell {
	return c.Grid[course][slot]
}

// IsEmpty reports whether (course, slot) carries no assignment.
func (c *Candidate) IsEmpty(course, slot int) bool {
	return c.Grid[course][slot].Subject == Empty
}

// TeacherBusy reports whether teacher is occupied in slot, and if so by
// which course.
func (c *Candidate) TeacherBusy(teacher, slot int) (course int, busy bool) {
	course = c.teacherSlot[teacher][slot]
	return course, course != Empty
}

// TeacherOccupants scans the whole grid (not the teacherSlot cache, which
// only remembers the most recent writer) and returns every course currently
// using teacher in slot. Normally at most one; repair pass 1 calls this
// precisely to find the transient double-bookings the cache can't see.
func (c *Candidate) TeacherOccupants(teacher, slot int) []int {
	var out []int
	for course := range c.Grid {
		if c.Grid[course][slot].Teacher == teacher {
			out = append(out, course)
		}
	}
	return out
}

// AssignedCount returns how many cells of course currently carry subject.
func (c *Candidate) AssignedCount(course, subject int) int {
	return c.assignedCount[course][subject]
}

// Place assigns (subject, teacher, room) to (course, slot), replacing
// whatever was there and keeping the teacher-occupancy and
// assigned-subject-count indexes consistent. Callers are responsible for
// having already verified the placement does not create a hard-invariant
// violation (construction and repair always check before placing; the
// evaluator is the component that detects violations when that discipline
// slips, e.g. across a crossover).
//
// The teacher-occupancy cache is kept "last writer wins" rather than
// asserting single occupancy: a crossover or mutation can transiently
// double-book a teacher before repair resolves it, and clearing a losing
// duplicate must not erase the cache entry a still-valid course legitimately
// owns. Clear/Place therefore only ever clear a teacherSlot entry that
// still points back at the course doing the clearing.
func (c *Candidate) Place(course, slot, subject, teacher, room int) {
	old := c.Grid[course][slot]
	if old.Subject != Empty {
		c.assignedCount[course][old.Subject]--
		if old.Teacher != Empty && c.teacherSlot[old.Teacher][slot] == course {
			c.teacherSlot[old.Teacher][slot] = Empty
		}
	}
	c.Grid[course][slot] = Cell{Subject: subject, Teacher: teacher, Room: room}
	c.assignedCount[course][subject]++
	if teacher != Empty {
		c.teacherSlot[teacher][slot] = course
	}
}

// Clear empties (course, slot) if it carries an assignment.
func (c *Candidate) Clear(course, slot int) {
	old := c.Grid[course][slot]
	if old.Subject == Empty {
		return
	}
	c.assignedCount[course][old.Subject]--
	if old.Teacher != Empty && c.teacherSlot[old.Teacher][slot] == course {
		c.teacherSlot[old.Teacher][slot] = Empty
	}
	c.Grid[course][slot] = emptyCell()
}

// ClearCourseDay empties every slot of course that falls on the given day
// index.
func (c *Candidate) ClearCourseDay(course, dayIdx int) {
	for slot, d := range c.Snap.SlotDay {
		if d == dayIdx {
			c.Clear(course, slot)
		}
	}
}

// ClearCourse empties every slot of course.
func (c *Candidate) ClearCourse(course int) {
	for slot := 0; slot < c.Snap.NumSlots; slot++ {
		c.Clear(course, slot)
	}
}

// ClearDay empties every slot on the given day index, across every course.
func (c *Candidate) ClearDay(dayIdx int) {
	for course := range c.Grid {
		c.ClearCourseDay(course, dayIdx)
	}
}

// Occupancy returns the number of non-empty cells across the whole grid,
// used for the occupancy_pct metric and the full-week termination check.
func (c *Candidate) Occupancy() int {
	n := 0
	for _, row := range c.Grid {
		for _, cell := range row {
			if cell.Subject != Empty {
				n++
			}
		}
	}
	return n
}

// RoomFree reports whether no course currently uses room in slot. Room
// double-booking is not itself a hard invariant (only the fixed-room
// invariant mentions rooms), but the constructor and repair still avoid
// it when they have a choice, since a special-room subject placed into an
// already-busy lab is not a useful placement in practice.
func (c *Candidate) RoomFree(slot, room int) bool {
	for course := range c.Grid {
		if c.Grid[course][slot].Room == room {
			return false
		}
	}
	return true
}
