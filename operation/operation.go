// Package operation holds the Operation, OperationEntry, and Solution data
// carriers: value objects with cost evaluation and feasibility checks,
// shared by the exact path (optable/mipsolver/eulerian) and every
// heuristic path.
package operation

import (
	"math"

	"github.com/windrose-labs/tspdrone/bitset"
	"github.com/windrose-labs/tspdrone/instance"
)

// Operation is a joint truck-drone movement: the truck drives
// Start -> DrivePath... -> End, and if Fly is non-nil the drone launches at
// Start, visits *Fly, and rejoins the truck at End. Fly, when present, is
// never a member of DrivePath.
type Operation struct {
	Start     int
	DrivePath []int
	End       int
	Fly       *int
}

// CoveredSet returns the set of location indices touched by op: Start, End,
// every internal truck node, and the fly node if present.
func (op Operation) CoveredSet() bitset.Set {
	s := bitset.Add(bitset.Singleton(op.Start), op.End)
	for _, idx := range op.DrivePath {
		s = bitset.Add(s, idx)
	}
	if op.Fly != nil {
		s = bitset.Add(s, *op.Fly)
	}
	return s
}

// drivePathIndices returns the full ordered truck path Start, DrivePath..., End.
func (op Operation) drivePathIndices() []int {
	path := make([]int, 0, len(op.DrivePath)+2)
	path = append(path, op.Start)
	path = append(path, op.DrivePath...)
	path = append(path, op.End)
	return path
}

// Evaluate computes op's truck-path time, drone-triangle time, and cost
// (the max of the two) against inst. flyCost is 0 when Fly is nil.
func (op Operation) Evaluate(inst instance.Instance) (driveCost, flyCost, cost float64) {
	driveCost = instance.PathDistance(inst.DriveDistance(), op.drivePathIndices())
	if op.Fly != nil {
		flyCost = instance.FlyDistance(inst.FlyDistance(), op.Start, op.End, *op.Fly)
	}
	return driveCost, flyCost, math.Max(driveCost, flyCost)
}

// HasFly reports whether op carries a drone leg.
func (op Operation) HasFly() bool { return op.Fly != nil }

// TruckOnlyCount is |covered-set| minus the start, minus the end (if
// distinct from start), minus the fly node (if present and distinct from
// both endpoints) — the quantity CardinalityConstraint bounds.
func (op Operation) TruckOnlyCount() int {
	n := bitset.Popcount(op.CoveredSet())
	n--
	if op.End != op.Start {
		n--
	}
	if op.Fly != nil && *op.Fly != op.Start && *op.Fly != op.End {
		n--
	}
	return n
}

// OperationEntry is the operation table's row: a
// (first, last, covered-set, fly?, drive-cost, fly-cost, predecessor?)
// tuple. Pred is an arena index (see package optable), not a pointer, so
// that entries remain plain immutable value records with no ownership
// cycle back into the table that holds them.
type OperationEntry struct {
	First, Last int
	Covered     bitset.Set
	Fly         *int
	DriveCost   float64
	FlyCost     float64
	Pred        int // -1 if this entry has no predecessor (a singleton)

	// FlyAugmented marks that Pred is this entry's pre-fly base (same
	// First/Last/Covered minus Fly), as opposed to a phase-1 truck-only
	// predecessor one hop closer to the singleton origin. Reconstruction
	// walks Pred chains and needs this bit to know whether the hop added a
	// drive-path node or only attached the fly leg.
	FlyAugmented bool
}

// TruckOnlyCount mirrors Operation.TruckOnlyCount but works directly off an
// entry's key fields, without needing the reconstructed drive path: it is
// |Covered| minus the start, minus the end if distinct, minus the fly node
// if present and distinct from both endpoints.
func (e OperationEntry) TruckOnlyCount() int {
	n := bitset.Popcount(e.Covered)
	n--
	if e.Last != e.First {
		n--
	}
	if e.Fly != nil && *e.Fly != e.First && *e.Fly != e.Last {
		n--
	}
	return n
}

// Cost is max(DriveCost, FlyCost), the dominance key used once a fly node
// has been attached (entries without a fly node are pruned on DriveCost
// alone, since FlyCost is always 0 for them until phase 2 augments them).
func (e OperationEntry) Cost() float64 {
	return math.Max(e.DriveCost, e.FlyCost)
}
