package instance

import (
	"math"

	"github.com/windrose-labs/tspdrone/tsperr"
)

// geometricDistance computes Euclidean distance scaled by a constant speed,
// ignoring action context entirely (truck and drone both move in a
// straight line at a fixed speed in this variant).
type geometricDistance struct {
	points []Location
	speed  float64
}

func (g geometricDistance) Distance(from, to int, _, _ Action, _ float64) float64 {
	if g.speed <= 0 {
		return math.Inf(1)
	}
	dx := g.points[from].X - g.points[to].X
	dy := g.points[from].Y - g.points[to].Y
	return math.Hypot(dx, dy) / g.speed
}

// NewGeometric builds an Instance from named 2D points, the first of which
// is the depot, scaled by independent truck and drone speeds.
func NewGeometric(names []string, xs, ys []float64, driveSpeed, flySpeed float64) (*BaseInstance, error) {
	if len(names) != len(xs) || len(xs) != len(ys) {
		return nil, tsperr.New(tsperr.InvalidInput, "geometric instance: mismatched names/xs/ys lengths")
	}
	if driveSpeed <= 0 {
		return nil, tsperr.New(tsperr.InvalidInput, "geometric instance: drive speed must be positive")
	}
	locs := make([]Location, len(names))
	for i := range names {
		locs[i] = Location{Name: names[i], X: xs[i], Y: ys[i]}
	}
	drive := geometricDistance{points: locs, speed: driveSpeed}
	fly := geometricDistance{points: locs, speed: flySpeed}
	return newBaseInstance(locs, drive, fly)
}
