// Package construct implements the demand-first constructive builder:
// one deterministic greedy pass that places as much of each course's
// required demand as it can, leaving the rest for repair.
package construct

import (
	"math/rand"
	"sort"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/mask"
	"github.com/classyard/timetable-engine/internal/solution"
)

type pair struct {
	course, subject int
	scarcity        float64
}

// orderPairs builds the (course, subject) work list, sorted descending by
// scarcity score with deterministic tie-breaks on (subject id, course id)
// in caller id-space.
func orderPairs(snap *catalog.Snapshot, masks *mask.Masks) []pair {
	supply := make([]int, len(snap.Subjects))
	for m := range snap.Subjects {
		supply[m] = masks.CountQualifiedAvailableSlots(m)
	}

	var pairs []pair
	for c := range snap.Courses {
		for m, required := range snap.CourseSubjectDemand[c] {
			if required <= 0 {
				continue
			}
			denom := supply[m]
			if denom < 1 {
				denom = 1
			}
			pairs = append(pairs, pair{
				course:   c,
				subject:  m,
				scarcity: float64(required) / float64(denom),
			})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if a.scarcity != b.scarcity {
			return a.scarcity > b.scarcity
		}
		if snap.SubjectID[a.subject] != snap.SubjectID[b.subject] {
			return snap.SubjectID[a.subject] < snap.SubjectID[b.subject]
		}
		return snap.CourseID[a.course] < snap.CourseID[b.course]
	})
	return pairs
}

// ResidualAvailability counts how many of teacher's available slots are
// still unoccupied by that teacher in cand -- the "more free future slots
// first" tie-break used when choosing between otherwise-equal teachers.
func ResidualAvailability(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, teacher int) int {
	n := 0
	for slot := 0; slot < snap.NumSlots; slot++ {
		if !masks.TeacherAvailable[teacher].Test(uint(slot)) {
			continue
		}
		if _, busy := cand.TeacherBusy(teacher, slot); !busy {
			n++
		}
	}
	return n
}

// PickTeacher returns the qualified, available, non-conflicting teacher
// with the most residual availability for (subject, slot), or -1 if none
// qualifies.
func PickTeacher(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, subject, slot int) int {
	best, bestResidual := -1, -1
	for t := range snap.Teachers {
		if !masks.TeacherSubject[t].Test(uint(subject)) {
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

// PickRoom picks the room for a placement: the course's fixed room unless
// the subject requires a special room, in which case any free room of the
// matching type is picked (ties broken by ascending caller room id).
func PickRoom(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, course, subject, slot int) int {
	subj := snap.Subjects[subject]
	if !subj.RequiresSpecialRoom {
		return masks.FixedRoomOf(course)
	}

	type cand2 struct{ idx, id int }
	var candidates []cand2
	for r, room := range snap.Rooms {
		if room.Type != subj.RoomType {
			continue
		}
		if !cand.RoomFree(slot, r) {
			continue
		}
		candidates = append(candidates, cand2{r, snap.RoomID[r]})
	}
	if len(candidates) == 0 {
		return solution.Empty
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].id < candidates[j].id })
	return candidates[0].idx
}

// ShuffledSlots returns a deterministic permutation of every slot index,
// drawn from rng, so candidate slots are enumerated in a shuffled order.
func ShuffledSlots(rng *rand.Rand, n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

// Build runs the demand-first greedy constructor over snap/masks, seeded
// by seed, and returns one candidate (id 0, the population's individual
// 0). Any demand the constructor cannot place is simply left empty for
// the repair passes to attempt.
func Build(snap *catalog.Snapshot, masks *mask.Masks, seed int64) *solution.Candidate {
	cand := solution.New(0, snap)
	rng := rand.New(rand.NewSource(seed))
	pairs := orderPairs(snap, masks)

	for _, p := range pairs {
		required := snap.CourseSubjectDemand[p.course][p.subject]
		for cand.AssignedCount(p.course, p.subject) < required {
			order := ShuffledSlots(rng, snap.NumSlots)
			placed := false
			for _, slot := range order {
				if !cand.IsEmpty(p.course, slot) {
					continue
				}
				teacher := PickTeacher(snap, masks, cand, p.subject, slot)
				if teacher < 0 {
					continue
				}
				room := PickRoom(snap, masks, cand, p.course, p.subject, slot)
				cand.Place(p.course, slot, p.subject, teacher, room)
				placed = true
				break
			}
			if !placed {
				// no (slot, teacher) combination works for this pair right
				// now; leave the shortfall for repair pass 3.
				break
			}
		}
	}

	FillFiller(snap, masks, cand, rng)

	return cand
}
