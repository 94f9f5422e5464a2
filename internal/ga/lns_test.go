package ga_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classyard/timetable-engine/internal/construct"
	"github.com/classyard/timetable-engine/internal/ga"
	"github.com/classyard/timetable-engine/internal/repair"
)

func TestLNSKick_ThenRepairStaysHardFeasible(t *testing.T) {
	snap, m := buildSnapMasks(t)
	cand := construct.Build(snap, m, 9)
	rng := rand.New(rand.NewSource(10))

	ga.LNSKick(snap, m, cand, rng, 1.0)
	repair.Repair(snap, m, cand, rng)

	for slot := 0; slot < snap.NumSlots; slot++ {
		for tIdx := range snap.Teachers {
			require.LessOrEqual(t, len(cand.TeacherOccupants(tIdx, slot)), 1)
		}
	}
}

func TestLNSKick_PartialFractionLeavesSomeIntact(t *testing.T) {
	snap, m := buildSnapMasks(t)
	cand := construct.Build(snap, m, 11)
	before := cand.Occupancy()
	rng := rand.New(rand.NewSource(12))

	ga.LNSKick(snap, m, cand, rng, 0.0)
	require.Equal(t, before, cand.Occupancy())
}
