package ga

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/config"
	"github.com/classyard/timetable-engine/internal/fitness"
	"github.com/classyard/timetable-engine/internal/mask"
	"github.com/classyard/timetable-engine/internal/repair"
	"github.com/classyard/timetable-engine/internal/solution"
)

// GenerationStats is the per-generation progress record delivered through
// the progress callback.
type GenerationStats struct {
	Generation    int
	BestFitness   float64
	MeanFitness   float64
	OccupancyPct  float64
	Conflicts     int
	ElapsedSecond float64
}

// ProgressFunc is the caller's optional progress callback. It is
// non-blocking by contract and any panic it raises is caught and ignored
// rather than aborting the run.
type ProgressFunc func(GenerationStats)

// Result is what the refiner hands back to the orchestrator.
type Result struct {
	Best           *solution.Candidate
	Generations    int
	TimedOut       bool
	History        []GenerationStats
}

// Run drives the evolutionary loop to termination: wall-clock budget
// exhausted, patience generations without improvement (past a minimum of
// generations), or the best candidate is valid and the configured
// occupancy target is met. ctx carries the deadline and any caller
// cancellation, checked at generation boundaries.
func Run(ctx context.Context, snap *catalog.Snapshot, masks *mask.Masks, cfg config.EngineConfig, seed int64, progress ProgressFunc) Result {
	w := fitness.WeightsFrom(cfg)
	pop := Seed(snap, masks, cfg.PopulationSize, seed, w)

	start := time.Now()
	rng := rand.New(rand.NewSource(seed))
	mutProb := cfg.MutationProb
	boosted := false
	patienceCounter := 0
	bestFitness := pop.Best().Score.Fitness

	var history []GenerationStats
	gen := 0
	timedOut := false

	for {
		if ctx.Err() != nil {
			timedOut = true
			break
		}
		if gen >= cfg.MaxGenerations {
			break
		}
		if patienceCounter >= cfg.Patience && gen >= cfg.Patience {
			break
		}
		if occupancyTargetMet(snap, pop.Best(), cfg.OccupancyTarget) {
			break
		}

		advance(ctx, snap, masks, cfg, pop, rng, mutProb)

		if gen%cfg.LNSPeriod == 0 && gen > 0 {
			applyLNS(snap, masks, pop, rng, cfg.LNSFraction)
		}

		improved := pop.Best().Score.Fitness > bestFitness
		if improved {
			bestFitness = pop.Best().Score.Fitness
			patienceCounter = 0
			if boosted {
				mutProb = cfg.MutationProb
				boosted = false
			}
		} else {
			patienceCounter++
			if !boosted && cfg.Patience > 0 && patienceCounter >= cfg.Patience/2 {
				mutProb = cfg.MutationProb * 1.5
				if mutProb > 1 {
					mutProb = 1
				}
				boosted = true
			}
		}

		stat := GenerationStats{
			Generation:    gen,
			BestFitness:   pop.Best().Score.Fitness,
			MeanFitness:   pop.MeanFitness(),
			OccupancyPct:  occupancyPct(snap, pop.Best().Cand),
			Conflicts:     pop.Best().Score.Hard,
			ElapsedSecond: time.Since(start).Seconds(),
		}
		history = append(history, stat)
		reportProgress(progress, stat)

		gen++
	}

	return Result{
		Best:        pop.Best().Cand,
		Generations: gen,
		TimedOut:    timedOut,
		History:     history,
	}
}

// reportProgress invokes the caller's callback, swallowing any panic so a
// broken callback never aborts the run (logging the panic, if any, is the
// orchestrator's job; this function only guarantees the run itself
// survives).
func reportProgress(progress ProgressFunc, stat GenerationStats) {
	if progress == nil {
		return
	}
	defer func() { _ = recover() }()
	progress(stat)
}

func occupancyPct(snap *catalog.Snapshot, cand *solution.Candidate) float64 {
	total := len(snap.Courses) * snap.NumSlots
	if total == 0 {
		return 1
	}
	return float64(cand.Occupancy()) / float64(total)
}

func occupancyTargetMet(snap *catalog.Snapshot, best Scored, target float64) bool {
	if best.Score.Hard > 0 {
		return false
	}
	return occupancyPct(snap, best.Cand) >= target
}

// advance produces the next generation in place: elites survive unchanged,
// the rest of the population is filled by tournament-selected parents run
// through crossover (with probability cfg.CrossoverProb) and mutation,
// each child repaired and re-evaluated before joining the next
// generation. Repair of the freshly bred children is fanned out across
// cfg.Workers goroutines bounded by a semaphore; scoring runs afterwards
// on the calling goroutine.
func advance(ctx context.Context, snap *catalog.Snapshot, masks *mask.Masks, cfg config.EngineConfig, pop *Population, rng *rand.Rand, mutProb float64) {
	elite := make([]Scored, cfg.EliteCount)
	copy(elite, pop.Members[:cfg.EliteCount])

	type bredPair struct {
		childA, childB *solution.Candidate
	}
	var bred []bredPair

	for len(elite)+len(bred)*2 < len(pop.Members) {
		i := pop.Tournament(rng, cfg.TournamentSize)
		j := pop.Tournament(rng, cfg.TournamentSize)
		parent1, parent2 := pop.Members[i].Cand, pop.Members[j].Cand

		childSeed := rng.Int63()
		crng := rand.New(rand.NewSource(childSeed))

		var childA, childB *solution.Candidate
		if crng.Float64() < cfg.CrossoverProb {
			childA, childB = Crossover(snap, crng, parent1, parent2, pop.NewID(), pop.NewID())
		} else {
			childA, childB = parent1.Clone(pop.NewID()), parent2.Clone(pop.NewID())
		}

		Mutate(snap, masks, childA, crng, mutProb)
		Mutate(snap, masks, childB, crng, mutProb)

		bred = append(bred, bredPair{childA, childB})
	}

	flat := make([]*solution.Candidate, 0, len(bred)*2)
	for _, b := range bred {
		flat = append(flat, b.childA, b.childB)
	}

	repairAndScore(ctx, snap, masks, cfg, pop, rng, flat)

	next := make([]Scored, 0, len(elite)+len(flat))
	next = append(next, elite...)
	for _, c := range flat {
		next = append(next, pop.score(c))
	}
	if len(next) > len(pop.Members) {
		next = next[:len(pop.Members)]
	}

	pop.Members = next
	pop.sort()
}

// repairAndScore runs repair over every freshly bred candidate, bounded by
// cfg.Workers concurrent goroutines via errgroup+semaphore. Falls back to
// sequential execution when workers<=1.
func repairAndScore(ctx context.Context, snap *catalog.Snapshot, masks *mask.Masks, cfg config.EngineConfig, pop *Population, rng *rand.Rand, candidates []*solution.Candidate) {
	if cfg.Workers <= 1 || len(candidates) <= 1 {
		for i, c := range candidates {
			crng := rand.New(rand.NewSource(rng.Int63() + int64(i)))
			repair.Repair(snap, masks, c, crng)
		}
		return
	}

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	g, gctx := errgroup.WithContext(ctx)

	for i, c := range candidates {
		c := c
		workerSeed := rng.Int63() + int64(i)
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			crng := rand.New(rand.NewSource(workerSeed))
			repair.Repair(snap, masks, c, crng)
			return nil
		})
	}
	_ = g.Wait()
}

// applyLNS runs a large-neighborhood-search kick on a clone of the current
// best individual, invoked every K generations. The kick operates on a
// clone rather than pop.Members[0].Cand directly because that candidate
// may be the very same *solution.Candidate pointer an elite slot was
// carried forward with (advance's shallow copy of Scored); a kick that
// makes the clone worse than the pre-kick original is simply discarded,
// preserving the "elites survive unchanged" guarantee and monotone best
// fitness across generations.
func applyLNS(snap *catalog.Snapshot, masks *mask.Masks, pop *Population, rng *rand.Rand, fraction float64) {
	original := pop.Members[0]
	kicked := original.Cand.Clone(original.Cand.ID)
	LNSKick(snap, masks, kicked, rng, fraction)
	repair.Repair(snap, masks, kicked, rng)
	scored := pop.score(kicked)
	if scored.Score.Fitness >= original.Score.Fitness {
		pop.Members[0] = scored
		pop.sort()
	}
}
