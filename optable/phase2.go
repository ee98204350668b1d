package optable

import (
	"context"
	"math"

	"github.com/windrose-labs/tspdrone/bitset"
	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/operation"
)

// buildPhase2 augments every fly-less entry accepted by phase 1 with a
// single candidate fly node, for every location not already covered and
// not the depot, keeping the augmentation only when it strictly improves
// the dominance key (first, last, covered-with-fly, fly) and satisfies
// every constraint.
func (t *Table) buildPhase2(ctx context.Context, inst instance.Instance, constraints []Constraint) error {
	base := t.All() // snapshot: phase 2 never feeds back into itself
	fly := inst.FlyDistance()

	for _, e := range base {
		if e.Fly != nil {
			continue
		}
		if err := cancelled(ctx); err != nil {
			return err
		}

		predIdx, ok := t.findIndex(e)
		if !ok {
			continue // dominated away by a later phase-1 improvement
		}

		for k := 0; k < inst.N(); k++ {
			if inst.IsDepot(k) || bitset.Contains(e.Covered, k) {
				continue
			}
			flyCost := instance.FlyDistance(fly, e.First, e.Last, k)
			if math.IsInf(flyCost, 1) {
				continue
			}

			kk := k
			candidate := operation.OperationEntry{
				First:        e.First,
				Last:         e.Last,
				Covered:      bitset.Add(e.Covered, k),
				Fly:          &kk,
				DriveCost:    e.DriveCost,
				FlyCost:      flyCost,
				Pred:         predIdx,
				FlyAugmented: true,
			}

			allowed := true
			for _, c := range constraints {
				if !c.Allow(candidate, e, true) {
					allowed = false
					break
				}
			}
			if !allowed {
				continue
			}

			t.tryInsert(candidate)
		}
	}
	return nil
}

// findIndex looks up the arena index currently stored for e's exact key,
// used to re-resolve a phase-2 base entry's identity into a stable
// predecessor index.
func (t *Table) findIndex(e operation.OperationEntry) (int, bool) {
	byLast, ok := t.index[e.First]
	if !ok {
		return 0, false
	}
	byCovered, ok := byLast[e.Last]
	if !ok {
		return 0, false
	}
	byFly, ok := byCovered[e.Covered]
	if !ok {
		return 0, false
	}
	idx, ok := byFly[flyKeyOf(e)]
	return idx, ok
}
