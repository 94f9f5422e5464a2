package construct

import (
	"math/rand"
	"sort"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/mask"
	"github.com/classyard/timetable-engine/internal/solution"
)

// fillerSubjects returns the subject indexes flagged IsFiller, in
// ascending caller-id order for determinism.
func fillerSubjects(snap *catalog.Snapshot) []int {
	var out []int
	for m, subj := range snap.Subjects {
		if subj.IsFiller {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return snap.SubjectID[out[i]] < snap.SubjectID[out[j]] })
	return out
}

// pickFillerTeacher picks an available, non-conflicting teacher flagged
// may-teach-filler for slot. Filler subjects carry no qualification
// requirement of their own: any teacher flagged MayTeachFiller and
// available in the slot may staff it.
func pickFillerTeacher(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, slot int) int {
	best, bestResidual := -1, -1
	for t, teacher := range snap.Teachers {
		if !teacher.MayTeachFiller {
			continue
		}
		if !masks.TeacherAvailable[t].Test(uint(slot)) {
			continue
		}
		if _, busy := cand.TeacherBusy(t, slot); busy {
			continue
		}
		residual := ResidualAvailability(snap, masks, cand, t)
		if residual > bestResidual {
			bestResidual = residual
			best = t
		}
	}
	return best
}

// FillFiller runs the full-week padding pass: for every course whose
// effective full-week policy is on, every still-empty cell is filled with
// a filler subject if a may-teach-filler teacher is available. It is also
// reused, unchanged, as the repair loop's filler-fill pass.
func FillFiller(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, rng *rand.Rand) {
	fillers := fillerSubjects(snap)
	if len(fillers) == 0 {
		return
	}

	for c, course := range snap.Courses {
		_ = course
		if !snap.FullWeekRequired[c] {
			continue
		}
		order := ShuffledSlots(rng, snap.NumSlots)
		for _, slot := range order {
			if !cand.IsEmpty(c, slot) {
				continue
			}
			teacher := pickFillerTeacher(snap, masks, cand, slot)
			if teacher < 0 {
				continue
			}
			subject := fillers[rng.Intn(len(fillers))]
			room := PickRoom(snap, masks, cand, c, subject, slot)
			cand.Place(c, slot, subject, teacher, room)
		}
	}
}
