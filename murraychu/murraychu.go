// Package murraychu implements the Murray-Chu local search: a doubly
// linked list of locations, augmented with a second nextFly/prevFly link
// for whichever node is currently flying, and
// a full-neighbourhood search over two reversible move types (relocate a
// node in the truck order, or detach a node to fly between two truck
// stops) that repeatedly applies whichever legal move most reduces total
// cost until none does.
package murraychu

import (
	"log/slog"

	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/operation"
	"github.com/windrose-labs/tspdrone/tsperr"
)

// node is one location in the local-search list. next/prev form the truck
// chain; nextFly/prevFly cross-link a flying node to the truck stop it
// launches from and the one it lands at, detaching it from next/prev
// entirely while it flies.
type node struct {
	location int
	prev     *node
	next     *node
	nextFly  *node
	prevFly  *node
}

// Searcher holds the local-search state for one instance and drives
// repeated improvement steps.
type Searcher struct {
	inst   instance.Instance
	begin  *node
	logger *slog.Logger
}

// New builds a Searcher seeded from a fixed truck-only visiting order (a
// permutation of every non-depot location, depot implicit at both ends).
// logger may be nil, in which case the Searcher logs nothing; otherwise
// Run and Step report the move applied at each iteration (at debug level)
// and the final solution's total cost.
func New(inst instance.Instance, order []int, logger *slog.Logger) (*Searcher, error) {
	if err := validateOrder(inst, order); err != nil {
		return nil, err
	}
	locs := make([]int, 0, len(order)+2)
	locs = append(locs, inst.Depot())
	locs = append(locs, order...)
	locs = append(locs, inst.Depot())

	var begin, prev *node
	for _, loc := range locs {
		cur := &node{location: loc}
		if begin == nil {
			begin = cur
		}
		cur.prev = prev
		if prev != nil {
			prev.next = cur
		}
		prev = cur
	}
	return &Searcher{inst: inst, begin: begin, logger: logger}, nil
}

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
		if seen[loc] {
			return tsperr.New(tsperr.InvalidInput, "fixed order repeats a location; input is non-atomic")
		}
		seen[loc] = true
	}
	return nil
}

// Solution reconstructs the current truck/drone partition as an
// operation.Solution.
func (s *Searcher) Solution() (operation.Solution, error) {
	var ops []operation.Operation
	cur := s.begin
	for cur.next != nil {
		op, err := buildOp(cur)
		if err != nil {
			return operation.Solution{}, err
		}
		ops = append(ops, op)
		if cur.nextFly != nil {
			cur = cur.nextFly.nextFly
		} else {
			cur = cur.next
		}
	}
	sol := operation.Solution{Ops: ops}
	if !sol.IsFeasible(s.inst) {
		return operation.Solution{}, tsperr.New(tsperr.Infeasible, "murray-chu local search state is not a feasible tour")
	}
	return sol, nil
}

func buildOp(n *node) (operation.Operation, error) {
	if n.next == nil {
		return operation.Operation{}, tsperr.New(tsperr.SolverError, "cannot build an operation out of the last local search node")
	}
	if n.nextFly == nil {
		return operation.Operation{Start: n.location, End: n.next.location}, nil
	}

	start := n.location
	fly := n.nextFly.location

	var path []int
	cur := n.nextFly.nextFly
	for cur != n {
		path = append(path, cur.location)
		cur = cur.prev
	}
	path = append(path, start)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	op := operation.Operation{Start: path[0], End: path[len(path)-1], Fly: &fly}
	if len(path) > 2 {
		op.DrivePath = path[1 : len(path)-1]
	}
	return op, nil
}

// cost returns the current total cost of the list's implied solution.
func (s *Searcher) cost() (float64, error) {
	sol, err := s.Solution()
	if err != nil {
		return 0, err
	}
	stats, err := sol.Evaluate(s.inst)
	if err != nil {
		return 0, err
	}
	return stats.TotalCost, nil
}

// Step explores the full neighbourhood and applies the single best
// improving move, if one exists. Returns whether an improvement was made.
func (s *Searcher) Step() (bool, error) {
	curValue, err := s.cost()
	if err != nil {
		return false, err
	}

	var best action
	bestSavings := 0.0
	for _, a := range s.neighbourhood() {
		a.doAction()
		newValue, err := s.cost()
		if err != nil {
			a.undoAction()
			return false, err
		}
		savings := curValue - newValue
		a.undoAction()
		if savings > bestSavings {
			best = a
			bestSavings = savings
		}
	}

	if best != nil {
		if s.logger != nil {
			s.logger.Debug("murray-chu local search move", "move", moveName(best), "element", best.subjectElement(), "savings", bestSavings)
		}
		best.doAction()
		return true, nil
	}
	return false, nil
}

// Run applies Step repeatedly until no further improvement is found, then
// returns the final solution.
func (s *Searcher) Run() (operation.Solution, error) {
	steps := 0
	for {
		improved, err := s.Step()
		if err != nil {
			return operation.Solution{}, err
		}
		if !improved {
			break
		}
		steps++
	}
	sol, err := s.Solution()
	if err != nil {
		return operation.Solution{}, err
	}
	if s.logger != nil {
		if stats, err := sol.Evaluate(s.inst); err == nil {
			s.logger.Info("murray-chu local search finished", "iterations", steps, "cost", stats.TotalCost)
		}
	}
	return sol, nil
}

func moveName(a action) string {
	switch a.(type) {
	case *truckAction:
		return "relocate"
	case *droneAction:
		return "fly"
	default:
		return "unknown"
	}
}

type action interface {
	checkLegal() bool
	doAction()
	undoAction()
	subjectElement() int
}

func (s *Searcher) neighbourhood() []action {
	var result []action
	for _, a := range s.driveNeighbourhood() {
		result = append(result, a)
	}
	for _, a := range s.flyNeighbourhood() {
		result = append(result, a)
	}
	return result
}

func forwardFrom(n *node) []*node {
	var out []*node
	for cur := n; cur != nil; cur = cur.next {
		out = append(out, cur)
	}
	return out
}

func (s *Searcher) driveNeighbourhood() []*truckAction {
	all := forwardFrom(s.begin)
	var result []*truckAction
	for _, source := range all {
		if s.inst.IsDepot(source.location) {
			continue
		}
		for _, target := range all {
			if target.next == nil || target.next == source || target == source {
				continue
			}
			a := &truckAction{subject: source, target: target, source: source.prev}
			if a.checkLegal() {
				result = append(result, a)
			}
		}
	}
	return result
}

func (s *Searcher) flyNeighbourhood() []*droneAction {
	all := forwardFrom(s.begin)
	var result []*droneAction
	for _, source := range all {
		if s.inst.IsDepot(source.location) {
			continue
		}
		for _, targetFrom := range all {
			if targetFrom.next == nil || targetFrom.next == source || targetFrom == source {
				continue
			}
			for _, targetTo := range forwardFrom(targetFrom.next) {
				if targetTo == source {
					continue
				}
				a := &droneAction{subject: source, targetFrom: targetFrom, targetTo: targetTo, source: source.prev}
				if a.checkLegal() {
					result = append(result, a)
				}
			}
		}
	}
	return result
}

// truckAction relocates subject (a non-flying node) from its current
// position to directly after target.
type truckAction struct {
	subject *node
	source  *node // subject.prev at construction time
	target  *node
}

func (a *truckAction) checkLegal() bool {
	return a.subject.nextFly == nil && a.subject.prevFly == nil
}

func (a *truckAction) subjectElement() int { return a.subject.location }

func (a *truckAction) doAction() {
	tLeft := a.target
	tRight := a.target.next
	sRight := a.subject.next

	tLeft.next = a.subject
	a.subject.prev = tLeft
	a.subject.next = tRight
	tRight.prev = a.subject

	a.source.next = sRight
	sRight.prev = a.source
}

func (a *truckAction) undoAction() {
	sRight := a.source.next
	oLeft := a.subject.prev
	oRight := a.subject.next

	a.source.next = a.subject
	a.subject.prev = a.source
	a.subject.next = sRight
	sRight.prev = a.subject

	oLeft.next = oRight
	oRight.prev = oLeft
}

// droneAction detaches subject from the truck chain and makes it fly from
// targetFrom to targetTo.
type droneAction struct {
	subject    *node
	source     *node // subject.prev at construction time
	targetFrom *node
	targetTo   *node
}

func (a *droneAction) checkLegal() bool {
	if a.subject.nextFly != nil || a.subject.prevFly != nil {
		return false
	}
	cur := a.targetFrom
	if cur.nextFly != nil {
		return false
	}
	for cur != nil && cur != a.targetTo {
		if cur.prevFly != nil || cur.nextFly != nil {
			return false
		}
		cur = cur.next
	}
	if cur != a.targetTo {
		return false
	}
	for cur != nil {
		if cur.prevFly != nil {
			return false
		}
		if cur.nextFly != nil {
			return true
		}
		cur = cur.next
	}
	return true
}

func (a *droneAction) subjectElement() int { return a.subject.location }

func (a *droneAction) doAction() {
	oRight := a.subject.next

	a.source.next = oRight
	oRight.prev = a.source

	a.targetFrom.nextFly = a.subject
	a.subject.prevFly = a.targetFrom
	a.subject.prev = nil
	a.subject.next = nil
	a.subject.nextFly = a.targetTo
	a.targetTo.prevFly = a.subject
}

func (a *droneAction) undoAction() {
	oRight := a.source.next

	a.targetFrom.nextFly = nil
	a.targetTo.prevFly = nil
	a.subject.nextFly = nil
	a.subject.prevFly = nil

	a.source.next = a.subject
	a.subject.prev = a.source
	a.subject.next = oRight
	oRight.prev = a.subject
}
