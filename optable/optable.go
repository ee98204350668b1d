// Package optable implements the operation table: a two-phase dynamic
// program that enumerates every efficient operation, keyed by (first,
// last, covered-set, fly?), for instances up to hardLocationCap locations.
package optable

import (
	"context"
	"log/slog"

	"github.com/windrose-labs/tspdrone/bitset"
	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/operation"
	"github.com/windrose-labs/tspdrone/tsperr"
)

// softCardinalityCap is the default soft cap the exact solver imposes on
// instance size (separate from hardLocationCap below); Build does not
// enforce it itself (callers choose whether 25 is a hard stop or merely a
// warning).
const softCardinalityCap = 25

// hardLocationCap is the largest instance Build will accept. It is smaller
// than bitset.MaxIndex: covered-sets are only one of the dominance key's
// fields, and (first, last, covered, fly?) tuples for instances beyond this
// size blow up the table well before the bitset word width itself becomes
// the bottleneck.
const hardLocationCap = 32

// Table is the built store of efficient operations. Entries live in a flat
// arena so that a table entry's predecessor is a stable integer index
// rather than an ownership reference, avoiding a cyclic reference between
// the table and its own entries.
type Table struct {
	inst  instance.Instance
	arena []operation.OperationEntry

	// index[first][last][covered][flyKey] -> arena index. flyKey is -1 for
	// "no fly" and the fly location index otherwise: dominance is keyed on
	// (first, last, covered, fly?), even though phase 1 alone (fly always
	// nil) only ever needs the first three levels.
	index map[int]map[int]map[bitset.Set]map[int]int
}

// buildConstraints derives the standard constraint set from an instance and
// the range/cardinality knobs: MaxFlyConstraint(maxRangeFactor * longest
// single leg) plus CardinalityConstraint(maxCardinality).
func buildConstraints(inst instance.Instance, maxRangeFactor float64, maxCardinality int) []Constraint {
	maxFly := maxRangeFactor * instance.LongestDroneLeg(inst)
	return []Constraint{
		MaxFlyConstraint{MaxFly: maxFly},
		CardinalityConstraint{K: maxCardinality},
	}
}

// Build runs the full two-phase dynamic program over inst and returns the
// resulting Table, or a typed error: InstanceTooLarge if inst exceeds
// hardLocationCap locations, or Cancelled if ctx is done before the build
// completes. logger may be nil, in which case Build logs nothing; otherwise
// it receives the table's entry count after each phase.
func Build(ctx context.Context, inst instance.Instance, logger *slog.Logger, opts ...TableOption) (*Table, error) {
	if inst.N() > hardLocationCap {
		return nil, tsperr.New(tsperr.InstanceTooLarge, "instance exceeds the bitset-encoding location cap")
	}
	cfg := newTableConfig(opts...)
	constraints := buildConstraints(inst, cfg.maxRangeFactor, cfg.maxCardinality)

	t := &Table{
		inst:  inst,
		index: make(map[int]map[int]map[bitset.Set]map[int]int),
	}

	if err := t.buildPhase1(ctx, inst, constraints); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("operation table phase 1 complete", "entries", len(t.arena))
	}
	if err := t.buildPhase2(ctx, inst, constraints); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("operation table phase 2 complete", "entries", len(t.arena))
	}
	if err := t.checkIntegrity(inst); err != nil {
		return nil, err
	}
	return t, nil
}

func flyKeyOf(e operation.OperationEntry) int {
	if e.Fly == nil {
		return -1
	}
	return *e.Fly
}

// tryInsert stores candidate under its (first, last, covered, fly?) key if
// it is the arena's first entry for that key, or if it strictly improves
// the cost of the entry already stored there. Returns the arena index and
// whether the insertion happened (a fresh entry or an improvement).
func (t *Table) tryInsert(candidate operation.OperationEntry) (idx int, inserted bool) {
	byLast, ok := t.index[candidate.First]
	if !ok {
		byLast = make(map[int]map[bitset.Set]map[int]int)
		t.index[candidate.First] = byLast
	}
	byCovered, ok := byLast[candidate.Last]
	if !ok {
		byCovered = make(map[bitset.Set]map[int]int)
		byLast[candidate.Last] = byCovered
	}
	byFly, ok := byCovered[candidate.Covered]
	if !ok {
		byFly = make(map[int]int)
		byCovered[candidate.Covered] = byFly
	}

	key := flyKeyOf(candidate)
	if existingIdx, ok := byFly[key]; ok {
		if candidate.Cost() >= t.arena[existingIdx].Cost() {
			return existingIdx, false
		}
		t.arena[existingIdx] = candidate
		return existingIdx, true
	}

	t.arena = append(t.arena, candidate)
	idx = len(t.arena) - 1
	byFly[key] = idx
	return idx, true
}

// GetOperations returns every stored entry with the given endpoints.
func (t *Table) GetOperations(first, last int) []operation.OperationEntry {
	byLast, ok := t.index[first]
	if !ok {
		return nil
	}
	byCovered, ok := byLast[last]
	if !ok {
		return nil
	}
	var out []operation.OperationEntry
	for _, byFly := range byCovered {
		for _, idx := range byFly {
			out = append(out, t.arena[idx])
		}
	}
	return out
}

// All returns every entry currently stored in the table, in arena order.
func (t *Table) All() []operation.OperationEntry {
	out := make([]operation.OperationEntry, len(t.arena))
	copy(out, t.arena)
	return out
}

// Size returns the number of surviving entries.
func (t *Table) Size() int { return len(t.arena) }

// Reconstruct rebuilds the full Operation a table entry represents by
// walking its predecessor chain back to its singleton origin.
func (t *Table) Reconstruct(e operation.OperationEntry) operation.Operation {
	var rev []int
	cur := e
	for cur.Pred != -1 {
		pred := t.arena[cur.Pred]
		if !cur.FlyAugmented {
			rev = append(rev, cur.Last)
		}
		cur = pred
	}
	// rev holds, from e back to the origin, every "last" value recorded on
	// a phase-1 hop; reverse it to chronological order.
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	var drivePath []int
	if len(rev) > 0 {
		drivePath = rev[:len(rev)-1] // the last recorded hop is End itself
	}
	return operation.Operation{
		Start:     e.First,
		DrivePath: drivePath,
		End:       e.Last,
		Fly:       e.Fly,
	}
}

// checkIntegrity recomputes every entry's operation cost and aborts with a
// TableIntegrity error if it disagrees with the entry's stored cost beyond
// tsperr.Tolerance.
func (t *Table) checkIntegrity(inst instance.Instance) error {
	for _, e := range t.arena {
		op := t.Reconstruct(e)
		_, _, cost := op.Evaluate(inst)
		stored := e.Cost()
		diff := cost - stored
		if diff < 0 {
			diff = -diff
		}
		if diff > tsperr.Tolerance {
			return tsperr.New(tsperr.TableIntegrity, "table entry cost disagrees with recomputed operation cost")
		}
	}
	return nil
}

func cancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return tsperr.New(tsperr.Cancelled, "operation table build cancelled")
	default:
		return nil
	}
}
