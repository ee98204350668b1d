// Package genstance generates random geometric instances: uniform,
// single-center, and double-center point clouds, each seeded from a
// caller-supplied *rand.Rand so runs are reproducible and safe to call
// from multiple goroutines with independent generators.
package genstance

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/tsperr"
)

func validateCount(n int) error {
	if n < 1 {
		return tsperr.New(tsperr.InvalidInput, "generator: location count must be at least 1 (including the depot)")
	}
	return nil
}

// Uniform builds a geometric instance with the depot at the center of a
// width x height rectangle and n-1 customers drawn uniformly at random
// inside it.
func Uniform(r *rand.Rand, n int, width, height, driveSpeed, flySpeed float64) (*instance.BaseInstance, error) {
	if err := validateCount(n); err != nil {
		return nil, err
	}
	names := make([]string, n)
	xs := make([]float64, n)
	ys := make([]float64, n)

	names[0] = "depot"
	xs[0], ys[0] = width/2, height/2

	for t := 1; t < n; t++ {
		names[t] = fmt.Sprintf("loc%d", t)
		xs[t] = r.Float64() * width
		ys[t] = r.Float64() * height
	}
	return instance.NewGeometric(names, xs, ys, driveSpeed, flySpeed)
}

// radialPoint draws a polar-coordinate offset from the given center, with
// alpha > 1 biasing draws toward the center (alpha == 1 is uniform along
// the radius, not uniform in area — this generator favors a simple,
// tunable bias over exact areal uniformity).
func radialPoint(r *rand.Rand, radius, alpha float64) (x, y float64) {
	dist := radius * math.Pow(r.Float64(), alpha)
	angle := r.Float64() * 2 * math.Pi
	return dist * math.Cos(angle), dist * math.Sin(angle)
}

// SingleCenter builds a geometric instance with the depot at the origin
// and n-1 customers drawn around it with a radial bias controlled by
// alpha (larger alpha packs points closer to the depot).
func SingleCenter(r *rand.Rand, n int, radius, alpha, driveSpeed, flySpeed float64) (*instance.BaseInstance, error) {
	if err := validateCount(n); err != nil {
		return nil, err
	}
	if alpha <= 0 {
		return nil, tsperr.New(tsperr.InvalidInput, "generator: alpha must be positive")
	}

	names := make([]string, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	names[0] = "depot"

	for t := 1; t < n; t++ {
		x, y := radialPoint(r, radius, alpha)
		names[t] = fmt.Sprintf("v%d", t)
		xs[t], ys[t] = x, y
	}
	return instance.NewGeometric(names, xs, ys, driveSpeed, flySpeed)
}

// DoubleCenter builds a geometric instance with the depot at the origin
// and n-1 customers split, with probability prob, between two
// radially-biased clusters: one centered at the origin (radius1, bias
// alpha) and one centered centerDist away along the x-axis (radius2, bias
// alpha). The instance still has exactly one depot; the second cluster is
// just a denser region, not a second depot.
func DoubleCenter(r *rand.Rand, n int, radius1, radius2, alpha, centerDist, prob, driveSpeed, flySpeed float64) (*instance.BaseInstance, error) {
	if err := validateCount(n); err != nil {
		return nil, err
	}
	if alpha <= 0 {
		return nil, tsperr.New(tsperr.InvalidInput, "generator: alpha must be positive")
	}

	names := make([]string, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	names[0] = "depot"

	for t := 1; t < n; t++ {
		inFirst := r.Float64() < prob
		radius := radius1
		name := fmt.Sprintf("v%d", t)
		offset := 0.0
		if !inFirst {
			radius = radius2
			name = fmt.Sprintf("u%d", t)
			offset = centerDist
		}
		x, y := radialPoint(r, radius, alpha)
		names[t] = name
		xs[t], ys[t] = x+offset, y
	}
	return instance.NewGeometric(names, xs, ys, driveSpeed, flySpeed)
}
