// Package instance provides the Distance and Instance abstractions plus
// the restricted-instance overlay: geometric, graph, and matrix instance
// variants behind one small capability interface, and a distance
// decorator that enforces drone range and forbidden/no-visit rules.
package instance

import (
	"math"

	"github.com/windrose-labs/tspdrone/tsperr"
)

// Action tags a leg endpoint with the drone's role at that endpoint.
// Truck distances ignore Action entirely; drone distances use it to decide
// whether a restriction applies (see RestrictedInstance).
type Action int

const (
	ActionUndefined Action = iota
	ActionDeparture
	ActionVisit
	ActionArrival
)

// Distance is a contextual pairwise distance: given an origin, a
// destination, the action each endpoint plays, and the cumulative distance
// already flown on the current drone leg, it returns a non-negative
// distance or +Inf when the leg is forbidden. Implementations: a Euclidean
// formula (geometric instances), a dense-matrix lookup (graph/matrix
// instances), and a restriction-enforcing decorator (RestrictedInstance).
type Distance interface {
	Distance(from, to int, fromAction, toAction Action, prior float64) float64
}

// ContextFree evaluates d ignoring action context, for truck-only legs.
func ContextFree(d Distance, a, b int, prior float64) float64 {
	return d.Distance(a, b, ActionUndefined, ActionUndefined, prior)
}

// DepartVisit evaluates the DEPARTURE -> VISIT leg of a drone flight.
func DepartVisit(d Distance, from, fly int) float64 {
	return d.Distance(from, fly, ActionDeparture, ActionVisit, 0)
}

// VisitArrive evaluates the VISIT -> ARRIVAL leg of a drone flight, given
// the cumulative distance already flown (the DEPARTURE -> VISIT leg).
func VisitArrive(d Distance, fly, to int, prior float64) float64 {
	return d.Distance(fly, to, ActionVisit, ActionArrival, prior)
}

// DepartArrive evaluates a direct DEPARTURE -> ARRIVAL leg (no fly node).
func DepartArrive(d Distance, from, to int) float64 {
	return d.Distance(from, to, ActionDeparture, ActionArrival, 0)
}

// VisitTwice evaluates a VISIT -> VISIT leg, used when the drone's flight
// path threads through more than one restricted-aware waypoint.
func VisitTwice(d Distance, a, b int, prior float64) float64 {
	return d.Distance(a, b, ActionVisit, ActionVisit, prior)
}

// FlyDistance computes the full launch-visit-rendezvous triangle distance
// for a drone flight from -> fly -> to. It propagates +Inf from either leg
// without evaluating the other leg's restriction against a bogus prior.
func FlyDistance(d Distance, from, to, fly int) float64 {
	leg1 := DepartVisit(d, from, fly)
	if math.IsInf(leg1, 1) {
		return leg1
	}
	leg2 := VisitArrive(d, fly, to, leg1)
	if math.IsInf(leg2, 1) {
		return leg2
	}
	return leg1 + leg2
}

// PathDistance sums the truck-context-free distance along a sequence of
// locations start, intermediate..., end, tagging the first leg DEPARTURE and
// the last ARRIVAL (intermediate legs are plain VISIT->VISIT); useful when a
// Distance implementation does discriminate on action even for truck legs
// (e.g. a restricted overlay applied defensively to the truck distance).
func PathDistance(d Distance, path []int) float64 {
	if len(path) < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		fromAction := ActionVisit
		if i == 0 {
			fromAction = ActionDeparture
		}
		toAction := ActionVisit
		if i+2 == len(path) {
			toAction = ActionArrival
		}
		leg := d.Distance(path[i], path[i+1], fromAction, toAction, total)
		if math.IsInf(leg, 1) {
			return leg
		}
		total += leg
	}
	return total
}

// Location is an opaque named point in the instance. Equality is by index,
// not by Name; Name exists for I/O round-tripping and diagnostics only.
type Location struct {
	Name string
	X, Y float64 // populated for geometric instances; zero otherwise
}

// Instance is the capability set every instance variant implements:
// ordered locations, a depot predicate, and the two distance providers.
// Immutable after construction.
type Instance interface {
	N() int
	Depot() int
	IsDepot(i int) bool
	Location(i int) Location
	Locations() []Location
	DriveDistance() Distance
	FlyDistance() Distance
	// SubInstance returns the instance restricted to the indices for which
	// keep returns true (the depot is always kept regardless of keep).
	SubInstance(keep func(i int) bool) Instance
}

// BaseInstance is the common implementation shared by the geometric,
// graph, and matrix variants: an ordered location list plus two Distance
// providers, with index 0 reserved for the depot.
type BaseInstance struct {
	locations []Location
	drive     Distance
	fly       Distance
}

func newBaseInstance(locations []Location, drive, fly Distance) (*BaseInstance, error) {
	if len(locations) == 0 {
		return nil, tsperr.New(tsperr.InvalidInput, "instance must have at least a depot")
	}
	return &BaseInstance{locations: locations, drive: drive, fly: fly}, nil
}

func (b *BaseInstance) N() int                { return len(b.locations) }
func (b *BaseInstance) Depot() int            { return 0 }
func (b *BaseInstance) IsDepot(i int) bool    { return i == 0 }
func (b *BaseInstance) Location(i int) Location { return b.locations[i] }
func (b *BaseInstance) Locations() []Location { return b.locations }
func (b *BaseInstance) DriveDistance() Distance { return b.drive }
func (b *BaseInstance) FlyDistance() Distance   { return b.fly }

func (b *BaseInstance) SubInstance(keep func(i int) bool) Instance {
	return Sub(b, keep)
}

// remappedDistance translates new-index lookups back to the original
// instance's indices before delegating, so a SubInstance's Distance
// providers never need their own copy of the underlying matrices.
type remappedDistance struct {
	inner    Distance
	newToOld []int
}

func (r remappedDistance) Distance(from, to int, fa, ta Action, prior float64) float64 {
	return r.inner.Distance(r.newToOld[from], r.newToOld[to], fa, ta, prior)
}

// Sub builds the instance induced by the indices for which keep returns
// true, always retaining the depot as the new index 0. Locations keep their
// relative order.
func Sub(inst Instance, keep func(i int) bool) Instance {
	var newToOld []int
	newToOld = append(newToOld, inst.Depot())
	for i := 0; i < inst.N(); i++ {
		if i == inst.Depot() {
			continue
		}
		if keep(i) {
			newToOld = append(newToOld, i)
		}
	}

	locs := make([]Location, len(newToOld))
	for newIdx, oldIdx := range newToOld {
		locs[newIdx] = inst.Location(oldIdx)
	}

	base, err := newBaseInstance(locs,
		remappedDistance{inner: inst.DriveDistance(), newToOld: newToOld},
		remappedDistance{inner: inst.FlyDistance(), newToOld: newToOld},
	)
	if err != nil {
		// keep always includes the depot, so locs is never empty.
		panic(err)
	}
	return base
}

// LongestDroneLeg returns the longest single DEPARTURE->VISIT (or
// VISIT->ARRIVAL, by symmetry of the scan) drone leg across every ordered
// pair of distinct locations in inst. Both the operation table's
// MaxFlyConstraint and the restricted-instance factory derive maxFly as a
// multiple of this value, so they share this one scan.
func LongestDroneLeg(inst Instance) float64 {
	fly := inst.FlyDistance()
	max := 0.0
	n := inst.N()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := DepartVisit(fly, i, j)
			if math.IsInf(d, 1) {
				continue
			}
			if d > max {
				max = d
			}
		}
	}
	return max
}
