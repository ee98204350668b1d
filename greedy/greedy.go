// Package greedy implements the greedy fixed-order heuristic: starting
// from a fully truck-only fixed order, it repeatedly applies whichever of
// "make a node fly", "merge left" or "merge right" yields the largest
// cost savings, tracked with a max-heap of per-node savings, until no
// further improving move remains.
package greedy

import (
	"log/slog"
	"math"

	"github.com/windrose-labs/tspdrone/iheap"
	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/operation"
	"github.com/windrose-labs/tspdrone/tsperr"
)

type label int

const (
	labelSimple label = iota
	labelTerminal
	labelInternal
	labelFly
)

// Solve runs the greedy heuristic over a fixed visiting order (a
// permutation of every non-depot location). nonNegative stops the search
// as soon as no strictly negative-cost improving move remains (rather than
// continuing while any finite-cost move remains); twoPass runs a second
// pass capped at the best running savings found by the first, matching
// the original heuristic's refinement step. logger may be nil, in which
// case Solve logs nothing; otherwise it receives the move applied at each
// iteration (at debug level) and the final solution's total cost.
func Solve(inst instance.Instance, order []int, nonNegative, twoPass bool, logger *slog.Logger) (operation.Solution, error) {
	if err := validateOrder(inst, order); err != nil {
		return operation.Solution{}, err
	}

	h := newHeuristic(inst, order, nonNegative, logger)
	best, err := h.solve(math.Inf(1))
	if err != nil {
		return operation.Solution{}, err
	}
	if twoPass && best >= 0 {
		if _, err := h.solve(best); err != nil {
			return operation.Solution{}, err
		}
	}
	sol := h.solution()
	if logger != nil {
		if stats, err := sol.Evaluate(inst); err == nil {
			logger.Info("greedy heuristic finished", "cost", stats.TotalCost, "operations", len(sol.Ops))
		}
	}
	return sol, nil
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

type node struct {
	element int
	left    *node
	right   *node
	label   label

	flyTo   *node
	flyFrom *node

	driveBeforeCost float64
	driveAfterCost  float64
	flyBeforeCost   float64
	flyAfterCost    float64

	heapIdx int
}

func (n *node) NotifyHeapIndex(idx int) { n.heapIdx = idx }

func (n *node) isOperation() bool { return n.label != labelSimple }

type heuristic struct {
	inst  instance.Instance
	drive instance.Distance
	fly   instance.Distance
	list  []*node
	heap  *iheap.Heap

	nonNegative bool
	logger      *slog.Logger
}

func newHeuristic(inst instance.Instance, order []int, nonNegative bool, logger *slog.Logger) *heuristic {
	h := &heuristic{
		inst:        inst,
		drive:       inst.DriveDistance(),
		fly:         inst.FlyDistance(),
		nonNegative: nonNegative,
		logger:      logger,
		heap:        iheap.New(),
	}

	locs := make([]int, 0, len(order)+2)
	locs = append(locs, inst.Depot())
	locs = append(locs, order...)
	locs = append(locs, inst.Depot())

	h.list = make([]*node, len(locs))
	for i, loc := range locs {
		h.list[i] = &node{element: loc, label: labelSimple}
	}
	for i, n := range h.list {
		if i > 0 {
			n.left = h.list[i-1]
		}
		if i+1 < len(h.list) {
			n.right = h.list[i+1]
		}
	}
	for _, n := range h.list {
		h.heap.Insert(h.maxSavings(n), n)
	}
	return h
}

func (h *heuristic) canMakeFly(n *node) bool {
	return n.label == labelSimple && n.left != nil && n.right != nil && !h.inst.IsDepot(n.element)
}

func (h *heuristic) canPushLeft(n *node) bool {
	return n.label == labelSimple && n.left != nil && n.left.label == labelTerminal
}

func (h *heuristic) canPushRight(n *node) bool {
	return n.label == labelSimple && n.right != nil && n.right.label == labelTerminal
}

func (h *heuristic) makeFlySavings(n *node) float64 {
	cur := instance.ContextFree(h.drive, n.left.element, n.element, 0) +
		instance.ContextFree(h.drive, n.element, n.right.element, 0)
	fly := instance.FlyDistance(h.fly, n.left.element, n.right.element, n.element)
	dr := instance.ContextFree(h.drive, n.left.element, n.right.element, 0)
	return cur - math.Max(fly, dr)
}

func (h *heuristic) makeFly(n *node) {
	left, right := n.left, n.right
	n.label = labelFly

	d := instance.ContextFree(h.drive, left.element, right.element, 0)
	left.driveAfterCost = d
	right.driveBeforeCost = d
	f := instance.FlyDistance(h.fly, left.element, right.element, n.element)
	left.flyAfterCost = f
	right.flyBeforeCost = f
	left.flyTo = n
	right.flyFrom = n

	left.right = right
	right.left = left
	n.flyFrom = left
	n.flyTo = right

	h.heap.RemoveAt(n.heapIdx)
	if left.label == labelSimple {
		h.heap.RemoveAt(left.heapIdx)
		left.label = labelTerminal
	}
	if right.label == labelSimple {
		h.heap.RemoveAt(right.heapIdx)
		right.label = labelTerminal
	}
	if left.left != nil && !left.left.isOperation() {
		h.heap.UpdateKey(left.left.heapIdx, h.maxSavings(left.left))
	}
	if right.right != nil && !right.right.isOperation() {
		h.heap.UpdateKey(right.right.heapIdx, h.maxSavings(right.right))
	}
}

func (h *heuristic) leftOperationCost(n *node) float64 {
	return math.Max(n.driveBeforeCost, n.flyBeforeCost)
}

func (h *heuristic) rightOperationCost(n *node) float64 {
	return math.Max(n.driveAfterCost, n.flyAfterCost)
}

func (h *heuristic) pushLeftSavings(n *node) float64 {
	left := n.left
	newDrive := left.driveBeforeCost + instance.ContextFree(h.drive, left.element, n.element, 0)
	newFly := instance.FlyDistance(h.fly, left.flyFrom.flyFrom.element, n.element, left.flyFrom.element)
	return h.leftOperationCost(left) - math.Max(newDrive, newFly)
}

func (h *heuristic) pushLeft(n *node) {
	left := n.left
	driveBefore := left.driveBeforeCost + instance.ContextFree(h.drive, left.element, n.element, 0)
	flyBefore := instance.FlyDistance(h.fly, left.flyFrom.flyFrom.element, n.element, left.flyFrom.element)

	left.label = labelInternal
	n.label = labelTerminal
	n.driveBeforeCost = driveBefore
	n.flyBeforeCost = flyBefore
	n.flyFrom = left.flyFrom
	n.flyFrom.flyTo = n
	n.flyFrom.flyFrom.flyAfterCost = flyBefore
	n.flyFrom.flyFrom.driveAfterCost = driveBefore

	h.heap.RemoveAt(n.heapIdx)
	if n.right != nil && !n.right.isOperation() {
		h.heap.UpdateKey(n.right.heapIdx, h.maxSavings(n.right))
	}
}

func (h *heuristic) pushRightSavings(n *node) float64 {
	right := n.right
	newDrive := right.driveAfterCost + instance.ContextFree(h.drive, n.element, right.element, 0)
	newFly := instance.FlyDistance(h.fly, n.element, right.flyTo.flyTo.element, right.flyTo.element)
	return h.rightOperationCost(right) - math.Max(newDrive, newFly)
}

func (h *heuristic) pushRight(n *node) {
	right := n.right
	driveAfter := right.driveAfterCost + instance.ContextFree(h.drive, n.element, right.element, 0)
	flyAfter := instance.FlyDistance(h.fly, n.element, right.flyTo.flyTo.element, right.flyTo.element)

	right.label = labelInternal
	n.label = labelTerminal
	n.flyTo = right.flyTo
	n.flyTo.flyFrom = n
	n.flyTo.flyTo.flyBeforeCost = flyAfter
	n.flyTo.flyTo.driveBeforeCost = driveAfter
	n.driveAfterCost = driveAfter
	n.flyAfterCost = flyAfter

	h.heap.RemoveAt(n.heapIdx)
	if n.left != nil && !n.left.isOperation() {
		h.heap.UpdateKey(n.left.heapIdx, h.maxSavings(n.left))
	}
}

func (h *heuristic) maxSavings(n *node) float64 {
	saving := math.Inf(-1)
	if h.canMakeFly(n) {
		saving = math.Max(saving, h.makeFlySavings(n))
	}
	if h.canPushRight(n) {
		saving = math.Max(saving, h.pushRightSavings(n))
	}
	if h.canPushLeft(n) {
		saving = math.Max(saving, h.pushLeftSavings(n))
	}
	return saving
}

func (h *heuristic) doBestMutation(n *node) error {
	fs, pls, prs := math.Inf(-1), math.Inf(-1), math.Inf(-1)
	if h.canMakeFly(n) {
		fs = h.makeFlySavings(n)
	}
	if h.canPushLeft(n) {
		pls = h.pushLeftSavings(n)
	}
	if h.canPushRight(n) {
		prs = h.pushRightSavings(n)
	}

	switch {
	case fs >= pls && fs >= prs:
		if h.logger != nil {
			h.logger.Debug("greedy heuristic move", "move", "make_fly", "element", n.element, "savings", fs)
		}
		h.makeFly(n)
	case !math.IsInf(pls, -1) && pls >= prs:
		if h.logger != nil {
			h.logger.Debug("greedy heuristic move", "move", "push_left", "element", n.element, "savings", pls)
		}
		h.pushLeft(n)
	case !math.IsInf(prs, -1):
		if h.logger != nil {
			h.logger.Debug("greedy heuristic move", "move", "push_right", "element", n.element, "savings", prs)
		}
		h.pushRight(n)
	default:
		return tsperr.New(tsperr.SolverError, "greedy heuristic found no applicable move for a node still in the heap")
	}
	return nil
}

// solve drains the heap, applying the best available move each round
// until the stopping criterion fires, and returns the best running
// cumulative savings observed, or -1 when the cumulative savings at the
// end equal that best.
func (h *heuristic) solve(target float64) (float64, error) {
	curSavings := 0.0
	bestTarget := 0.0

	for h.heap.Size() > 0 {
		maxSavings, item, ok := h.heap.Peek()
		if !ok {
			return 0, tsperr.New(tsperr.SolverError, "greedy heuristic heap reported non-empty but peek failed")
		}
		n := item.(*node)

		stop := (h.nonNegative && maxSavings < 0) ||
			(!h.nonNegative && math.IsInf(maxSavings, 0)) ||
			curSavings+maxSavings >= target
		if stop {
			for _, ln := range h.list {
				if ln.label == labelSimple {
					ln.label = labelTerminal
				}
			}
			break
		}

		curSavings += maxSavings
		bestTarget = math.Max(bestTarget, curSavings)

		if h.canPushLeft(n) || h.canPushRight(n) || h.canMakeFly(n) {
			if err := h.doBestMutation(n); err != nil {
				return 0, err
			}
		} else {
			return 0, tsperr.New(tsperr.SolverError, "greedy heuristic node in heap has no applicable move")
		}
	}

	if curSavings == bestTarget {
		return -1, nil
	}
	return bestTarget, nil
}

// solution reconstructs the operations implied by the current labeling of
// the linked list. By the time solve has finished, every node is labeled
// TERMINAL, INTERNAL, or FLY; a surviving SIMPLE node (defensively treated
// as a terminal boundary below) would mean solve exited without forcing
// every node's label, which solve's own stopping branch never does.
func (h *heuristic) solution() operation.Solution {
	var ops []operation.Operation
	var curList []int
	var fly *int

	for _, n := range h.list {
		switch n.label {
		case labelInternal:
			curList = append(curList, n.element)
			continue
		case labelFly:
			loc := n.element
			fly = &loc
			continue
		}

		if curList != nil {
			closed := append(curList, n.element)
			if len(closed) > 1 {
				op := operation.Operation{Start: closed[0], End: closed[len(closed)-1], Fly: fly}
				if len(closed) > 2 {
					op.DrivePath = closed[1 : len(closed)-1]
				}
				ops = append(ops, op)
			}
		}
		curList = []int{n.element}
		fly = nil
	}

	return operation.Solution{Ops: ops}
}
