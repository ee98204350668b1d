package instance

import (
	"math"

	"github.com/windrose-labs/tspdrone/tsperr"
)

// restrictedDistance decorates an inner Distance with drone range and
// forbidden/no-visit rules. Forbidden locations block every drone role
// (departure, arrival, visit); no-visit locations only block VISIT (the
// drone may still launch from, or rendezvous at, a no-visit location,
// since those roles belong to the truck's stop, not the drone's delivery).
type restrictedDistance struct {
	inner     Distance
	maxFly    float64
	forbidden map[int]bool
	noVisit   map[int]bool
}

func (r *restrictedDistance) blocked(loc int, action Action) bool {
	switch action {
	case ActionDeparture, ActionArrival:
		return r.forbidden[loc]
	case ActionVisit:
		return r.forbidden[loc] || r.noVisit[loc]
	default:
		return false
	}
}

func (r *restrictedDistance) Distance(from, to int, fromAction, toAction Action, prior float64) float64 {
	if r.blocked(from, fromAction) || r.blocked(to, toAction) {
		return math.Inf(1)
	}
	d := r.inner.Distance(from, to, fromAction, toAction, prior)
	if math.IsInf(d, 1) {
		return d
	}
	if prior+d > r.maxFly+tsperr.Tolerance {
		return math.Inf(1)
	}
	return d
}

// RestrictedInstance wraps a base Instance, replacing its drone distance
// with a restrictedDistance and carrying the forbidden/no-visit sets for
// inspection by callers (e.g. the operation table's constraint builder).
type RestrictedInstance struct {
	base      Instance
	fly       *restrictedDistance
	maxFly    float64
	forbidden []int
	noVisit   []int
}

func toSet(idx []int) map[int]bool {
	s := make(map[int]bool, len(idx))
	for _, i := range idx {
		s[i] = true
	}
	return s
}

// NewRestricted wraps base with an explicit maxFly and forbidden/no-visit
// index lists.
func NewRestricted(base Instance, maxFly float64, forbidden, noVisit []int) *RestrictedInstance {
	return &RestrictedInstance{
		base: base,
		fly: &restrictedDistance{
			inner:     base.FlyDistance(),
			maxFly:    maxFly,
			forbidden: toSet(forbidden),
			noVisit:   toSet(noVisit),
		},
		maxFly:    maxFly,
		forbidden: forbidden,
		noVisit:   noVisit,
	}
}

// RestrictByFactor derives maxFly as maxFlyFactor times the longest single
// drone leg in base (the same scan used by the operation table's
// buildConstraints), then wraps base with it. A factor >= 2 is guaranteed
// by the triangle inequality to impose no real restriction, since any full
// launch-visit-arrive flight is at most twice its longest leg.
func RestrictByFactor(base Instance, maxFlyFactor float64, forbidden, noVisit []int) (*RestrictedInstance, error) {
	if maxFlyFactor <= 0 {
		return nil, tsperr.New(tsperr.InvalidInput, "restricted instance: maxFlyFactor must be positive")
	}
	maxFly := maxFlyFactor * LongestDroneLeg(base)
	return NewRestricted(base, maxFly, forbidden, noVisit), nil
}

func (r *RestrictedInstance) N() int                  { return r.base.N() }
func (r *RestrictedInstance) Depot() int              { return r.base.Depot() }
func (r *RestrictedInstance) IsDepot(i int) bool      { return r.base.IsDepot(i) }
func (r *RestrictedInstance) Location(i int) Location { return r.base.Location(i) }
func (r *RestrictedInstance) Locations() []Location   { return r.base.Locations() }
func (r *RestrictedInstance) DriveDistance() Distance { return r.base.DriveDistance() }
func (r *RestrictedInstance) FlyDistance() Distance   { return r.fly }
func (r *RestrictedInstance) MaxFly() float64         { return r.maxFly }
func (r *RestrictedInstance) Forbidden() []int        { return r.forbidden }
func (r *RestrictedInstance) NoVisit() []int          { return r.noVisit }

func (r *RestrictedInstance) SubInstance(keep func(i int) bool) Instance {
	return Sub(r, keep)
}
