package operation

import (
	"math"

	"github.com/windrose-labs/tspdrone/bitset"
	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/tsperr"
)

// Solution is an ordered, chained list of operations starting and ending
// at the depot. Solutions are immutable value objects; every
// transformation (Simplify, a heuristic move) yields a new Solution.
type Solution struct {
	Ops []Operation
}

// IsTour reports whether the operations chain end-to-start, start and end
// at inst's depot, and the solution is non-empty.
func (s Solution) IsTour(inst instance.Instance) bool {
	if len(s.Ops) == 0 {
		return false
	}
	if s.Ops[0].Start != inst.Depot() {
		return false
	}
	if s.Ops[len(s.Ops)-1].End != inst.Depot() {
		return false
	}
	for i := 0; i+1 < len(s.Ops); i++ {
		if s.Ops[i].End != s.Ops[i+1].Start {
			return false
		}
	}
	return true
}

// CoversAll reports whether the union of every operation's covered-set
// equals the full location set of inst.
func (s Solution) CoversAll(inst instance.Instance) bool {
	covered := bitset.Empty
	for _, op := range s.Ops {
		covered = bitset.Union(covered, op.CoveredSet())
	}
	return covered == bitset.Full(inst.N())
}

// DepotCorrect reports whether the depot is the first operation's start and
// the last operation's end (a weaker check than IsTour: it does not
// require the chain to be fully connected).
func (s Solution) DepotCorrect(inst instance.Instance) bool {
	if len(s.Ops) == 0 {
		return false
	}
	return s.Ops[0].Start == inst.Depot() && s.Ops[len(s.Ops)-1].End == inst.Depot()
}

// IsFeasible reports whether s is a well-formed, fully covering tour.
func (s Solution) IsFeasible(inst instance.Instance) bool {
	return s.IsTour(inst) && s.CoversAll(inst)
}

// IsStrict reports whether every location appears in exactly one
// operation's covered-set (no location is touched twice).
func (s Solution) IsStrict(inst instance.Instance) bool {
	count := make([]int, inst.N())
	for _, op := range s.Ops {
		for _, idx := range bitset.Indices(op.CoveredSet()) {
			count[idx]++
		}
	}
	for _, c := range count {
		if c != 1 {
			return false
		}
	}
	return true
}

// Stats holds the derived scalars evaluation exposes for a Solution:
// total cost, the per-vehicle totals it decomposes into, per-vehicle
// waiting time, and the most expensive single operation.
type Stats struct {
	TotalCost        float64
	TruckCost        float64
	DroneCost        float64
	TruckWait        float64
	DroneWait        float64
	MaxOperationCost float64
}

// Evaluate computes Stats against inst, returning an Infeasible error if
// any operation's cost is non-finite.
func (s Solution) Evaluate(inst instance.Instance) (Stats, error) {
	var st Stats
	for _, op := range s.Ops {
		drive, fly, cost := op.Evaluate(inst)
		if math.IsInf(cost, 1) {
			return Stats{}, tsperr.New(tsperr.Infeasible, "operation has infinite cost")
		}
		st.TotalCost += cost
		st.TruckCost += drive
		st.DroneCost += fly
		if drive > fly {
			st.DroneWait += drive - fly
		} else {
			st.TruckWait += fly - drive
		}
		if cost > st.MaxOperationCost {
			st.MaxOperationCost = cost
		}
	}
	return st, nil
}
