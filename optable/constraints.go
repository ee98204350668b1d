package optable

import "github.com/windrose-labs/tspdrone/operation"

// Constraint is a predicate applied at insertion time, both when a
// truck-only expansion candidate is formed (hasFly == false, flyCost == 0)
// and when a fly-node augmentation candidate is formed (hasFly == true).
// pred is the entry the candidate was derived from (the entry being
// expanded, or the pre-fly base entry); candidate is the tentative new
// entry, not yet inserted.
type Constraint interface {
	Allow(candidate, pred operation.OperationEntry, hasFly bool) bool
}

// MaxFlyConstraint bounds the drone's single-flight distance. A
// fly-augmentation candidate is rejected outright once its flight exceeds
// maxFly. A truck-only expansion is rejected only once it has exceeded
// maxFly on two consecutive hops (its own drive cost and its predecessor's
// drive cost both over the bound) — a single excursion past maxFly can
// still be salvaged by a later fly augmentation that never looks at the
// truck's drive cost, but two in a row cannot.
type MaxFlyConstraint struct {
	MaxFly float64
}

func (c MaxFlyConstraint) Allow(candidate, pred operation.OperationEntry, hasFly bool) bool {
	if hasFly {
		return candidate.FlyCost <= c.MaxFly
	}
	return !(candidate.DriveCost > c.MaxFly && pred.DriveCost > c.MaxFly)
}

// CardinalityConstraint bounds the number of truck-only stops an operation
// may make. K < 0 means unrestricted.
type CardinalityConstraint struct {
	K int
}

func (c CardinalityConstraint) Allow(candidate, _ operation.OperationEntry, _ bool) bool {
	if c.K < 0 {
		return true
	}
	return candidate.TruckOnlyCount() <= c.K
}
