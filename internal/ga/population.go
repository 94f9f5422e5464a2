// Package ga implements the evolutionary refiner: a population of
// candidates advanced generation by generation through tournament
// selection, block-wise crossover, targeted mutation, elitism, periodic
// large-neighborhood-search kicks, and patience-based early termination.
package ga

import (
	"math/rand"
	"sort"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/construct"
	"github.com/classyard/timetable-engine/internal/fitness"
	"github.com/classyard/timetable-engine/internal/mask"
	"github.com/classyard/timetable-engine/internal/repair"
	"github.com/classyard/timetable-engine/internal/solution"
)

// Scored pairs a candidate with its last-computed fitness score.
type Scored struct {
	Cand  *solution.Candidate
	Score fitness.Score
}

// Population is the full generation-g set of candidates plus the
// birth-order counter used to assign new candidate ids at birth.
type Population struct {
	Members []Scored
	nextID  int
	Snap    *catalog.Snapshot
	Masks   *mask.Masks
	Weights fitness.Weights
}

// Seed builds the initial population: individual 0 is the constructive
// builder's output; individuals 1..k are small perturbations of it; the
// remainder are independent constructive perturbations. rng is the
// engine's top-level seeded stream, used only to derive per-candidate
// seeds so each candidate's own randomness is a strictly sequential
// stream.
func Seed(snap *catalog.Snapshot, masks *mask.Masks, size int, seed int64, w fitness.Weights) *Population {
	p := &Population{Snap: snap, Masks: masks, Weights: w}
	rng := rand.New(rand.NewSource(seed))

	base := construct.Build(snap, masks, seed)
	base.ID = p.nextID
	p.nextID++
	p.Members = append(p.Members, p.score(base))

	half := size / 2
	for i := 1; i < size; i++ {
		childSeed := rng.Int63()
		crng := rand.New(rand.NewSource(childSeed))

		var cand *solution.Candidate
		if i <= half {
			cand = base.Clone(p.nextID)
			perturb(snap, masks, cand, crng, 3)
		} else {
			cand = construct.Build(snap, masks, childSeed)
			cand.ID = p.nextID
		}
		p.nextID++
		repair.Repair(snap, masks, cand, crng)
		p.Members = append(p.Members, p.score(cand))
	}

	p.sort()
	return p
}

func (p *Population) score(cand *solution.Candidate) Scored {
	return Scored{Cand: cand, Score: fitness.Evaluate(p.Snap, p.Masks, cand, p.Weights)}
}

// sort orders Members by (fitness desc, candidate id asc), a deterministic
// tie-break.
func (p *Population) sort() {
	sort.SliceStable(p.Members, func(i, j int) bool {
		a, b := p.Members[i], p.Members[j]
		if a.Score.Fitness != b.Score.Fitness {
			return a.Score.Fitness > b.Score.Fitness
		}
		return a.Cand.ID < b.Cand.ID
	})
}

// Best returns the current fittest individual; Population is kept sorted
// after every mutating operation so this is always Members[0].
func (p *Population) Best() Scored {
	return p.Members[0]
}

// MeanFitness averages Fitness across the population, used for the
// per-generation metrics.
func (p *Population) MeanFitness() float64 {
	if len(p.Members) == 0 {
		return 0
	}
	var total float64
	for _, m := range p.Members {
		total += m.Score.Fitness
	}
	return total / float64(len(p.Members))
}

// NewID hands out the next birth-order candidate id.
func (p *Population) NewID() int {
	id := p.nextID
	p.nextID++
	return id
}

// perturb applies n small relocate/swap-teacher moves to cand, used to
// build the "small perturbations of individual 0" half of the initial
// population.
func perturb(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate, rng *rand.Rand, n int) {
	for i := 0; i < n; i++ {
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
