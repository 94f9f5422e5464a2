// Package mask precomputes the dense boolean relations every other
// component in the engine reads from, backed by bitset.BitSet rows so hot
// loops test conflicts with a handful of machine-word operations instead of
// a []bool scan.
package mask

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/classyard/timetable-engine/internal/catalog"
)

// Masks is the output of the mask precomputer: one bitset row per
// teacher/course for each of the four relations the rest of the engine
// needs as O(1) (really O(word)) lookups.
type Masks struct {
	// TeacherAvailable[t] has bit s set iff teacher t may be scheduled in slot s.
	TeacherAvailable []*bitset.BitSet
	// TeacherSubject[t] has bit m set iff teacher t is qualified for subject m.
	TeacherSubject []*bitset.BitSet
	// CourseSubject[c] has bit m set iff course c requires subject m (required blocks > 0).
	CourseSubject []*bitset.BitSet
	// CourseFixedRoom[c] has at most one bit set: the room fixed for course c.
	CourseFixedRoom []*bitset.BitSet

	NumSlots    uint
	NumSubjects uint
	NumRooms    uint
}

// Precompute builds the Masks for a Snapshot. It is a pure function of the
// snapshot; the snapshot has already rejected the no-schedulable-slots case
// during BuildSnapshot, so the only remaining job here is translating dense
// []bool rows into bitset rows.
func Precompute(s *catalog.Snapshot) (*Masks, error) {
	if s.NumSlots == 0 {
		return nil, catalog.ErrNoSchedulableSlots
	}

	m := &Masks{
		NumSlots:    uint(s.NumSlots),
		NumSubjects: uint(len(s.Subjects)),
		NumRooms:    uint(len(s.Rooms)),
	}

	m.TeacherAvailable = make([]*bitset.BitSet, len(s.Teachers))
	for t, row := range s.TeacherAvailSlots {
		bs := bitset.New(m.NumSlots)
		for slot, ok := range row {
			if ok {
				bs.Set(uint(slot))
			}
		}
		m.TeacherAvailable[t] = bs
	}

	m.TeacherSubject = make([]*bitset.BitSet, len(s.Teachers))
	for t, row := range s.TeacherQualified {
		bs := bitset.New(m.NumSubjects)
		for subj, ok := range row {
			if ok {
				bs.Set(uint(subj))
			}
		}
		m.TeacherSubject[t] = bs
	}

	m.CourseSubject = make([]*bitset.BitSet, len(s.Courses))
	for c, row := range s.CourseSubjectDemand {
		bs := bitset.New(m.NumSubjects)
		for subj, required := range row {
			if required > 0 {
				bs.Set(uint(subj))
			}
		}
		m.CourseSubject[c] = bs
	}

	m.CourseFixedRoom = make([]*bitset.BitSet, len(s.Courses))
	for c, room := range s.CourseFixedRoom {
		bs := bitset.New(m.NumRooms)
		if room >= 0 {
			bs.Set(uint(room))
		}
		m.CourseFixedRoom[c] = bs
	}

	return m, nil
}

// QualifiedAvailable returns a bitset over slots: the slots in which
// teacher t is both available and qualified for subject m (qualification is
// slot-independent, so this is simply TeacherAvailable[t] gated by whether
// m is set in TeacherSubject[t]).
func (m *Masks) QualifiedAvailable(t, subj int) *bitset.BitSet {
	if !m.TeacherSubject[t].Test(uint(subj)) {
		return bitset.New(m.NumSlots)
	}
	return m.TeacherAvailable[t].Clone()
}

// CountQualifiedAvailableSlots sums, over every teacher qualified for
// subject m, the number of slots in which that teacher is available. This
// is the "supply" quantity used by the feasibility analyzer and the
// denominator of the constructor's scarcity score.
func (m *Masks) CountQualifiedAvailableSlots(subj int) int {
	total := uint(0)
	for t := range m.TeacherSubject {
		if m.TeacherSubject[t].Test(uint(subj)) {
			total += m.TeacherAvailable[t].Count()
		}
	}
	return int(total)
}

// FixedRoomOf returns the room index fixed for course c, or -1 if none.
func (m *Masks) FixedRoomOf(c int) int {
	bs := m.CourseFixedRoom[c]
	if bs.Count() == 0 {
		return -1
	}
	room, ok := bs.NextSet(0)
	if !ok {
		return -1
	}
	return int(room)
}
