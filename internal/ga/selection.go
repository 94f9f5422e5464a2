package ga

import "math/rand"

// Tournament samples size distinct indices into p.Members uniformly
// without replacement and returns the index of the one with the highest
// fitness. Members is kept sorted by fitness, but the sample itself must
// still be uniform over the population, not biased toward already-fit
// individuals.
func (p *Population) Tournament(rng *rand.Rand, size int) int {
	n := len(p.Members)
	if size > n {
		size = n
	}
	perm := rng.Perm(n)
	best := perm[0]
	for _, idx := range perm[1:size] {
		if p.Members[idx].Score.Fitness > p.Members[best].Score.Fitness {
			best = idx
		}
	}
	return best
}
