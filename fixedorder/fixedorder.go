// Package fixedorder implements the fixed-order dynamic program: given a
// permutation of every location, it computes the optimal way to
// partition that permutation into truck/drone operations in O(n^3) time
// and O(n^2) space.
package fixedorder

import (
	"log/slog"
	"math"

	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/operation"
	"github.com/windrose-labs/tspdrone/tsperr"
)

// Solve partitions order (a permutation of every non-depot location,
// visited in that order starting and ending at the depot) into an optimal
// sequence of operations. order must not itself contain the depot; it is
// appended implicitly at both ends. logger may be nil, in which case Solve
// logs nothing; otherwise it receives each DP position's best cost (at
// debug level) and the final solution cost and operation count.
func Solve(inst instance.Instance, order []int, logger *slog.Logger) (operation.Solution, error) {
	if err := validateOrder(inst, order); err != nil {
		return operation.Solution{}, err
	}

	list := make([]int, 0, len(order)+2)
	list = append(list, inst.Depot())
	list = append(list, order...)
	list = append(list, inst.Depot())

	dp := newTable(inst, list)
	ops, cost := dp.run(logger)
	if logger != nil {
		logger.Info("fixed-order dp finished", "cost", cost, "operations", len(ops))
	}
	return operation.Solution{Ops: ops}, nil
}

// validateOrder rejects anything that is not an atomic permutation of every
// non-depot location exactly once (the DP's input must already be decided
// on a single visiting order; it cannot itself choose what to skip).
func validateOrder(inst instance.Instance, order []int) error {
	want := inst.N() - 1
	if len(order) != want {
		return tsperr.New(tsperr.InvalidInput, "fixed order must list every non-depot location exactly once")
	}
	seen := make(map[int]bool, len(order))
	for _, loc := range order {
		if inst.IsDepot(loc) {
			return tsperr.New(tsperr.InvalidInput, "fixed order must not include the depot")
		}
		if loc < 0 || loc >= inst.N() {
			return tsperr.New(tsperr.InvalidInput, "fixed order references a location outside the instance")
		}
		if seen[loc] {
			return tsperr.New(tsperr.InvalidInput, "fixed order repeats a location; input is non-atomic")
		}
		seen[loc] = true
	}
	return nil
}

type table struct {
	inst instance.Instance
	list []int
	n    int
	dist [][]float64
	// opCost[i][j][k-i] is the cost of an operation spanning list[i..j]
	// with fly node list[k] (k==i means no fly node, truck-only).
	opCost [][][]float64
}

func newTable(inst instance.Instance, list []int) *table {
	t := &table{inst: inst, list: list, n: len(list)}
	t.buildDist()
	t.buildOps()
	return t
}

func (t *table) buildDist() {
	n := t.n
	drive := t.inst.DriveDistance()
	t.dist = make([][]float64, n)
	for i := range t.dist {
		t.dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			t.dist[i][j] = t.dist[i][j-1] + instance.ContextFree(drive, t.list[j-1], t.list[j], t.dist[i][j-1])
		}
	}
}

func (t *table) buildOps() {
	n := t.n
	drive := t.inst.DriveDistance()
	fly := t.inst.FlyDistance()
	t.opCost = make([][][]float64, n)
	for i := range t.opCost {
		t.opCost[i] = make([][]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			span := j - i + 1
			costs := make([]float64, span)
			costs[0] = t.dist[i][j] // k == i: truck-only
			for k := i + 1; k < j; k++ {
				from, to := t.list[i], t.list[j]
				flyLoc, flyPrev, flyNext := t.list[k], t.list[k-1], t.list[k+1]
				d := t.dist[i][j] -
					instance.ContextFree(drive, flyPrev, flyLoc, 0) -
					instance.ContextFree(drive, flyLoc, flyNext, 0) +
					instance.ContextFree(drive, flyPrev, flyNext, 0)
				fc := instance.FlyDistance(fly, from, to, flyLoc)
				costs[k-i] = math.Max(d, fc)
			}
			t.opCost[i][j] = costs
		}
	}
}

func (t *table) cost(i, j, k int) float64 {
	return t.opCost[i][j][k-i]
}

func (t *table) run(logger *slog.Logger) ([]operation.Operation, float64) {
	n := t.n
	val := make([]float64, n)
	is := make([]int, n)
	ks := make([]int, n)

	for j := 1; j < n; j++ {
		best := math.Inf(1)
		bestI, bestK := -1, -1
		for i := 0; i < j; i++ {
			for k := i; k < j; k++ {
				c := val[i] + t.cost(i, j, k)
				if c < best {
					best, bestI, bestK = c, i, k
				}
			}
		}
		val[j], is[j], ks[j] = best, bestI, bestK
		if logger != nil {
			logger.Debug("fixed-order dp step", "position", j, "best_cost", best)
		}
	}

	var result []operation.Operation
	cur := n - 1
	for cur != 0 {
		i, k := is[cur], ks[cur]
		var flyLoc *int
		if k != i {
			loc := t.list[k]
			flyLoc = &loc
		}

		var locs []int
		for idx := i; idx <= cur; idx++ {
			if flyLoc != nil && idx == k {
				continue
			}
			locs = append(locs, t.list[idx])
		}

		op := operation.Operation{
			Start: locs[0],
			End:   locs[len(locs)-1],
			Fly:   flyLoc,
		}
		if len(locs) > 2 {
			op.DrivePath = locs[1 : len(locs)-1]
		}
		result = append(result, op)
		cur = i
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, val[n-1]
}
