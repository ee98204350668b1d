// Package mipsolver formulates and solves the exact set-cover / Eulerian-
// subgraph mixed-integer program over an operation table: one binary
// variable per candidate operation, one binary activity
// variable per location, coverage/balance/subtour-elimination constraints,
// and an objective minimizing total selected cost. The built model is
// solved with the HiGHS backend through github.com/nextmv-io/sdk/mip.
package mipsolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/nextmv-io/sdk/mip"

	"github.com/windrose-labs/tspdrone/bitset"
	"github.com/windrose-labs/tspdrone/eulerian"
	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/operation"
	"github.com/windrose-labs/tspdrone/optable"
	"github.com/windrose-labs/tspdrone/tsperr"
)

// maxSubtourLocations bounds the number of non-depot locations the eager
// subtour-elimination constraint set will enumerate subsets over: the
// formulation below enumerates every non-empty proper subset, which is
// 2^(n-1) work and only tractable for small instances (the MIP path is
// documented as an exact solver for small instances, not a scalable one).
const maxSubtourLocations = 20

// Result is the solved model: the selected operations (as a Eulerian
// walk already assembled into a Solution), the objective value reported
// by the solver, and whether the solver proved optimality.
type Result struct {
	Solution operation.Solution
	Cost     float64
	Optimal  bool
}

// Solve builds the MIP over every entry in table and returns the optimal
// (or best found within timeLimit) TSP-D solution. timeLimit of zero means
// no explicit cap (left to the solver's own default). logger may be nil, in
// which case Solve logs nothing; otherwise it receives the model's variable
// count and the final solution cost.
func Solve(ctx context.Context, table *optable.Table, inst instance.Instance, timeLimit time.Duration, logger *slog.Logger) (Result, error) {
	if inst.N()-1 > maxSubtourLocations {
		return Result{}, tsperr.New(tsperr.InstanceTooLarge,
			"exact MIP subtour elimination is impractical beyond maxSubtourLocations non-depot locations")
	}
	if err := ctxErr(ctx); err != nil {
		return Result{}, err
	}

	entries := table.All()
	if logger != nil {
		logger.Info("mip model built from table entries", "entries", len(entries), "locations", inst.N())
	}
	m := mip.NewModel()
	m.Objective().SetMinimize()

	xVars := make([]mip.Bool, len(entries))
	for i, e := range entries {
		xVars[i] = m.NewBool()
		m.Objective().NewTerm(e.Cost(), xVars[i])
	}

	zVars := make([]mip.Bool, inst.N())
	for loc := 0; loc < inst.N(); loc++ {
		zVars[loc] = m.NewBool()
		if inst.IsDepot(loc) {
			// The depot's activity variable is fixed to 1: the depot is
			// always visited.
			fix := m.NewConstraint(mip.Equal, 1.0)
			fix.NewTerm(1.0, zVars[loc])
		}
	}

	addCoverConstraints(m, entries, xVars, inst)
	addCountConstraints(m, entries, xVars, zVars, inst)
	addCoverDepotConstraint(m, entries, xVars, inst)
	addSubtourConstraints(m, entries, xVars, zVars, inst)

	solver, err := mip.NewSolver("highs", m)
	if err != nil {
		return Result{}, tsperr.Wrap(tsperr.SolverError, "failed to construct highs solver", err)
	}

	solveOptions := mip.NewSolveOptions()
	if timeLimit > 0 {
		if err := solveOptions.SetMaximumDuration(timeLimit); err != nil {
			return Result{}, tsperr.Wrap(tsperr.SolverError, "failed to set solver duration limit", err)
		}
	}
	if err := solveOptions.SetMIPGapRelative(0); err != nil {
		return Result{}, tsperr.Wrap(tsperr.SolverError, "failed to set solver MIP gap", err)
	}
	solveOptions.SetVerbosity(mip.Off)

	solution, err := solver.Solve(solveOptions)
	if err != nil {
		return Result{}, tsperr.Wrap(tsperr.SolverError, "highs solve failed", err)
	}
	if solution == nil || !solution.HasValues() {
		return Result{}, tsperr.New(tsperr.Infeasible, "mip solver found no feasible solution")
	}

	var selected []operation.Operation
	for i, e := range entries {
		if solution.Value(xVars[i]) >= 1-tsperr.Tolerance {
			selected = append(selected, table.Reconstruct(e))
		}
	}

	assembled, err := eulerian.Assemble(selected, inst.Depot())
	if err != nil {
		return Result{}, err
	}
	sol := operation.Simplify(assembled, inst)

	if logger != nil {
		logger.Info("mip solve finished", "cost", solution.ObjectiveValue(), "optimal", solution.IsOptimal())
	}

	return Result{
		Solution: sol,
		Cost:     solution.ObjectiveValue(),
		Optimal:  solution.IsOptimal(),
	}, nil
}

func addCoverConstraints(m mip.Model, entries []operation.OperationEntry, xVars []mip.Bool, inst instance.Instance) {
	for loc := 0; loc < inst.N(); loc++ {
		c := m.NewConstraint(mip.GreaterThanOrEqual, 1.0)
		for i, e := range entries {
			if bitset.Contains(e.Covered, loc) {
				c.NewTerm(1.0, xVars[i])
			}
		}
	}
}

// addCoverDepotConstraint adds a constraint redundant with addCoverConstraints
// (the depot is already one of inst.N()'s covered locations), kept
// deliberately per the project's recorded open-question decision: it costs
// nothing and matches the reference formulation exactly.
func addCoverDepotConstraint(m mip.Model, entries []operation.OperationEntry, xVars []mip.Bool, inst instance.Instance) {
	c := m.NewConstraint(mip.GreaterThanOrEqual, 1.0)
	depot := inst.Depot()
	for i, e := range entries {
		if e.Last == depot {
			c.NewTerm(1.0, xVars[i])
		}
	}
}

func addCountConstraints(m mip.Model, entries []operation.OperationEntry, xVars []mip.Bool, zVars []mip.Bool, inst instance.Instance) {
	n := float64(inst.N())
	for loc := 0; loc < inst.N(); loc++ {
		outDeg := m.NewConstraint(mip.Equal, 0.0)
		inDeg := m.NewConstraint(mip.LessThanOrEqual, 0.0)
		inDeg.NewTerm(-n, zVars[loc])
		for i, e := range entries {
			if e.First == loc {
				outDeg.NewTerm(1.0, xVars[i])
			}
			if e.Last == loc {
				outDeg.NewTerm(-1.0, xVars[i])
				inDeg.NewTerm(1.0, xVars[i])
			}
		}
	}
}

// addSubtourConstraints forbids any proper, non-depot-containing subset of
// locations from forming a closed component disconnected from the depot:
// for every such subset S and every active location loc in S, at least one
// arc must cross into S from outside.
func addSubtourConstraints(m mip.Model, entries []operation.OperationEntry, xVars []mip.Bool, zVars []mip.Bool, inst instance.Instance) {
	depot := inst.Depot()
	others := make([]int, 0, inst.N()-1)
	for loc := 0; loc < inst.N(); loc++ {
		if loc != depot {
			others = append(others, loc)
		}
	}

	full := bitset.Full(len(others))
	it := bitset.Subsets(full)
	for subsetIdx, ok := it.Next(); ok; subsetIdx, ok = it.Next() {
		if subsetIdx == full {
			continue // proper subsets only
		}
		subset := toLocationSet(subsetIdx, others)

		for _, loc := range others {
			if !bitset.Contains(subset, loc) {
				continue
			}
			c := m.NewConstraint(mip.GreaterThanOrEqual, 0.0)
			c.NewTerm(-1.0, zVars[loc])
			for i, e := range entries {
				if !bitset.Contains(subset, e.First) && bitset.Contains(subset, e.Last) {
					c.NewTerm(1.0, xVars[i])
				}
			}
		}
	}
}

// toLocationSet maps a bitset over others' positions back to a bitset over
// actual location indices.
func toLocationSet(subset bitset.Set, others []int) bitset.Set {
	var out bitset.Set
	for pos, loc := range others {
		if bitset.Contains(subset, pos) {
			out = bitset.Add(out, loc)
		}
	}
	return out
}

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return tsperr.New(tsperr.Cancelled, "mip solve cancelled before model construction")
	default:
		return nil
	}
}
