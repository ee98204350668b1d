package optable

import (
	"context"

	"github.com/windrose-labs/tspdrone/bitset"
	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/operation"
)

// queueItem carries a phase-1 work item: the arena index of an entry ready
// to expand, plus whether it already contains a repeated node (in which
// case it must never expand further).
type queueItem struct {
	idx        int
	repetition bool
}

// buildPhase1 runs the truck-only expansion DP: starting from one singleton
// entry per location, repeatedly extend every non-repeated, non-depot-
// ending entry by one more location, keeping only entries that strictly
// improve their (first, last, covered) key and satisfy every constraint.
func (t *Table) buildPhase1(ctx context.Context, inst instance.Instance, constraints []Constraint) error {
	var queue []queueItem

	for i := 0; i < inst.N(); i++ {
		e := operation.OperationEntry{
			First:   i,
			Last:    i,
			Covered: bitset.Singleton(i),
			Pred:    -1,
		}
		idx, _ := t.tryInsert(e)
		queue = append(queue, queueItem{idx: idx, repetition: false})
	}

	drive := inst.DriveDistance()

	for head := 0; head < len(queue); head++ {
		if err := cancelled(ctx); err != nil {
			return err
		}
		item := queue[head]
		if item.repetition {
			continue
		}
		e := t.arena[item.idx]
		if inst.IsDepot(e.Last) {
			continue
		}

		for j := 0; j < inst.N(); j++ {
			isRepeat := bitset.Contains(e.Covered, j) && j != e.First

			leg := instance.ContextFree(drive, e.Last, j, e.DriveCost)
			candidate := operation.OperationEntry{
				First:     e.First,
				Last:      j,
				Covered:   bitset.Add(e.Covered, j),
				DriveCost: e.DriveCost + leg,
				Pred:      item.idx,
			}

			allowed := true
			for _, c := range constraints {
				if !c.Allow(candidate, e, false) {
					allowed = false
					break
				}
			}
			if !allowed {
				continue
			}

			idx, inserted := t.tryInsert(candidate)
			if !inserted {
				continue
			}
			queue = append(queue, queueItem{idx: idx, repetition: isRepeat})
		}
	}
	return nil
}
